package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	database "github.com/Soft/lastfm-archiver/internal/db"
	"github.com/Soft/lastfm-archiver/internal/models"
	"github.com/Soft/lastfm-archiver/internal/storage"
)

const batchSize = 500

var csvHeader = []string{
	"id", "time",
	"track_mbid", "track_name",
	"artist_mbid", "artist_name",
	"album_mbid", "album_name",
}

// Exporter writes CSV snapshots of the play table to a storage backend.
type Exporter struct {
	db    *database.Client
	store *storage.Client
}

func New(db *database.Client, store *storage.Client) *Exporter {
	return &Exporter{db: db, store: store}
}

// ExportCSV snapshots the whole archive and uploads it under
// exports/plays-<timestamp>.csv, returning the stored key. The snapshot
// is spooled through a temp file, so memory use stays flat no matter
// how many years of history the table holds.
func (e *Exporter) ExportCSV(now time.Time) (string, error) {
	f, err := os.CreateTemp("", "plays-*.csv")
	if err != nil {
		return "", err
	}
	defer os.Remove(f.Name())
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", err
	}

	var rows int64
	err = e.db.WalkPlays(batchSize, func(batch []models.Play) error {
		for _, p := range batch {
			if err := w.Write(record(p)); err != nil {
				return err
			}
			rows++
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("reading plays: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	key := fmt.Sprintf("exports/plays-%s.csv", now.UTC().Format("20060102-150405"))
	if err := e.store.UploadExport(key, f, "text/csv"); err != nil {
		return "", fmt.Errorf("uploading export: %w", err)
	}

	log.Printf("✅ Exported %d plays to %s", rows, key)
	return key, nil
}

// record renders one play; NULL columns become empty cells.
func record(p models.Play) []string {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return []string{
		strconv.FormatInt(p.ID, 10),
		strconv.FormatInt(p.Time, 10),
		deref(p.TrackMBID), deref(p.TrackName),
		deref(p.ArtistMBID), deref(p.ArtistName),
		deref(p.AlbumMBID), deref(p.AlbumName),
	}
}
