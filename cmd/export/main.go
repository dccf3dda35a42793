package main

import (
	"log"
	"time"

	"github.com/Soft/lastfm-archiver/internal/config"
	database "github.com/Soft/lastfm-archiver/internal/db"
	"github.com/Soft/lastfm-archiver/internal/export"
	"github.com/Soft/lastfm-archiver/internal/storage"
)

// One-shot CSV snapshot of the archive, written to the configured
// storage backend (local directory by default, S3-compatible bucket
// when ARCHIVER_STORAGE_PROVIDER=s3).
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	db := database.New(cfg)
	if err := db.Migrate(); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	store := storage.New(cfg)

	key, err := export.New(db, store).ExportCSV(time.Now())
	if err != nil {
		log.Fatalf("❌ Export failed: %v", err)
	}
	log.Printf("Export written: %s", key)
}
