package database

import (
	"log"

	"gorm.io/gorm"
)

// The play table is the on-disk contract of this whole system: other tools
// open the SQLite file directly, so column names, types and index names are
// fixed. Every statement is guarded with IF NOT EXISTS so reapplying the
// schema is a no-op.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS play (
  id INTEGER PRIMARY KEY,
  time INTEGER NOT NULL,
  track_mbid VARCHAR(36),
  track_name TEXT,
  artist_mbid VARCHAR(36),
  artist_name TEXT,
  album_mbid VARCHAR(36),
  album_name TEXT
)`,
	`CREATE INDEX IF NOT EXISTS play_track_mbid ON play (track_mbid)`,
	`CREATE INDEX IF NOT EXISTS play_artist_mbid ON play (artist_mbid)`,
	`CREATE INDEX IF NOT EXISTS play_album_mbid ON play (album_mbid)`,
}

// Migrate ensures the play table and its lookup indexes exist. The
// statements run inside one transaction, so a half-created schema (table
// without indexes) can never be observed.
func (c *Client) Migrate() error {
	log.Println("Running Database Migrations...")
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range schemaStatements {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Println("✅ Migrations Complete")
	return nil
}
