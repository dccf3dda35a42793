package utils

import "github.com/google/uuid"

// IsValidMBID reports whether s is shaped like a MusicBrainz identifier:
// a 36-character UUID. MBIDs are stored unvalidated (the schema accepts
// any string), but the API rejects malformed lookup parameters early so
// indexed queries never run against garbage.
func IsValidMBID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// ClampLimit keeps a caller-supplied page size within sane bounds.
func ClampLimit(n, def, max int) int {
	if n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
