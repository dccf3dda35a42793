package export

import (
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "github.com/Soft/lastfm-archiver/internal/db"
	"github.com/Soft/lastfm-archiver/internal/models"
	"github.com/Soft/lastfm-archiver/internal/storage"
)

func setup(t *testing.T) (*Exporter, *database.Client, *storage.Client) {
	t.Helper()
	dsn := fmt.Sprintf("file:export_%s?mode=memory&cache=shared", t.Name())
	d, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open in-memory db: %v", err)
	}
	db := &database.Client{DB: d}
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	store := storage.NewWithProvider(storage.NewLocalProvider(t.TempDir()), "archive")
	return New(db, store), db, store
}

func str(s string) *string { return &s }

func TestExportCSV(t *testing.T) {
	exporter, db, store := setup(t)

	db.InsertPlays([]models.Play{
		{Time: 1700000000,
			TrackMBID:  str("a1b2c3d4-0000-0000-0000-000000000000"),
			TrackName:  str("Song A"),
			ArtistName: str("Artist X")},
		{Time: 1700000100},
	})

	when := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	key, err := exporter.ExportCSV(when)
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}
	if key != "exports/plays-20240301-123000.csv" {
		t.Errorf("Unexpected key: %s", key)
	}

	obj, err := store.DownloadExport(key)
	if err != nil {
		t.Fatalf("Export not readable: %v", err)
	}
	defer obj.Body.Close()

	rows, err := csv.NewReader(obj.Body).ReadAll()
	if err != nil {
		t.Fatalf("Export is not valid CSV: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d rows", len(rows))
	}
	if rows[0][0] != "id" || rows[0][7] != "album_name" {
		t.Errorf("Header mismatch: %v", rows[0])
	}

	first := rows[1]
	if first[1] != "1700000000" || first[2] != "a1b2c3d4-0000-0000-0000-000000000000" ||
		first[3] != "Song A" || first[5] != "Artist X" {
		t.Errorf("First row mismatch: %v", first)
	}
	// NULL columns export as empty cells.
	if first[4] != "" || first[6] != "" || first[7] != "" {
		t.Errorf("Absent metadata should be empty cells: %v", first)
	}

	second := rows[2]
	if second[1] != "1700000100" || second[3] != "" {
		t.Errorf("Timestamp-only row mismatch: %v", second)
	}
}

func TestExportCSVEmptyArchive(t *testing.T) {
	exporter, _, store := setup(t)

	key, err := exporter.ExportCSV(time.Unix(0, 0))
	if err != nil {
		t.Fatalf("Export of empty archive failed: %v", err)
	}

	obj, err := store.DownloadExport(key)
	if err != nil {
		t.Fatalf("Export not readable: %v", err)
	}
	defer obj.Body.Close()

	rows, _ := csv.NewReader(obj.Body).ReadAll()
	if len(rows) != 1 {
		t.Errorf("Empty archive should export only the header, got %d rows", len(rows))
	}
}
