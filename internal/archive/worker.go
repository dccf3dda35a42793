package archive

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Soft/lastfm-archiver/internal/config"
	database "github.com/Soft/lastfm-archiver/internal/db"
	"github.com/Soft/lastfm-archiver/internal/lastfm"
	"github.com/Soft/lastfm-archiver/internal/models"
)

var (
	plays = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lastfm_archive_plays_total",
			Help: "Total plays processed by the archiver",
		},
		[]string{"status"},
	)
	pageFetch = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lastfm_archive_page_fetch_seconds",
			Help:    "Time taken to fetch one recent-tracks page",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(plays, pageFetch)
}

// Worker pulls a user's listening history from last.fm and appends it to
// the play archive.
type Worker struct {
	cfg    *config.Config
	db     *database.Client
	client *lastfm.Client
}

func New(cfg *config.Config, db *database.Client, client *lastfm.Client) *Worker {
	return &Worker{cfg: cfg, db: db, client: client}
}

// Run performs one pass immediately and then keeps polling at the
// configured interval until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(w.cfg.Server.PollingInterval) * time.Second)
	defer ticker.Stop()

	log.Printf("Archiver started for user '%s'...", w.cfg.LastFM.User)
	if err := w.RunOnce(ctx); err != nil {
		log.Printf("❌ Archive pass failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("Archiver stopping.")
			return
		case <-ticker.C:
			if err := w.RunOnce(ctx); err != nil {
				log.Printf("❌ Archive pass failed: %v", err)
			}
		}
	}
}

// RunOnce archives every play newer than what is already stored. last.fm
// pages are newest-first, so the walk goes from the last page back to the
// first and each page is inserted oldest play first: the resume point
// (MAX(time)) only ever advances through contiguous history. A fetch
// failure midway aborts the pass with the still-unfetched, newer pages
// beyond the resume point, so the next tick picks them up; a single bad
// row is counted and skipped.
func (w *Worker) RunOnce(ctx context.Context) error {
	from, err := w.db.NewestPlayTime()
	if err != nil {
		return err
	}
	if from > 0 {
		log.Printf("Resuming archive after %s", time.Unix(from, 0).UTC().Format(time.RFC3339))
	}

	// The first page is fetched up front to learn the page count.
	first, err := w.fetchPage(ctx, 1, from)
	if err != nil {
		return err
	}

	var archived int
	if first.TotalPages <= 1 {
		archived = w.insertPage(first)
	} else {
		for page := first.TotalPages; page >= 1; page-- {
			resp, err := w.fetchPage(ctx, page, from)
			if err != nil {
				return err
			}
			archived += w.insertPage(resp)
			log.Printf("   📄 Page %d/%d archived", page, first.TotalPages)
		}
	}

	if archived > 0 {
		log.Printf("✅ Archived %d new plays", archived)
	}
	return nil
}

func (w *Worker) fetchPage(ctx context.Context, page int, from int64) (*lastfm.Page, error) {
	timer := prometheus.NewTimer(pageFetch)
	defer timer.ObserveDuration()
	return w.client.RecentTracks(ctx, page, from)
}

// insertPage stores one page in reverse order (tracks arrive newest
// first) so MAX(time) never jumps ahead of plays still pending in the
// same pass.
func (w *Worker) insertPage(page *lastfm.Page) int {
	var archived int
	for i := len(page.Tracks) - 1; i >= 0; i-- {
		track := page.Tracks[i]
		play := toPlay(track)
		if err := w.db.InsertPlay(&play); err != nil {
			log.Printf("❌ FAILED to store '%s': %v", track.Name, err)
			plays.WithLabelValues("failure").Inc()
			continue
		}
		plays.WithLabelValues("success").Inc()
		archived++
	}
	return archived
}

func toPlay(t lastfm.Track) models.Play {
	name := t.Name
	return models.Play{
		Time:       t.Time,
		TrackMBID:  t.MBID,
		TrackName:  &name,
		ArtistMBID: t.ArtistMBID,
		ArtistName: t.ArtistName,
		AlbumMBID:  t.AlbumMBID,
		AlbumName:  t.AlbumName,
	}
}
