package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Soft/lastfm-archiver/internal/archive"
	"github.com/Soft/lastfm-archiver/internal/config"
	database "github.com/Soft/lastfm-archiver/internal/db"
	"github.com/Soft/lastfm-archiver/internal/lastfm"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting last.fm Archive Worker...")

	// 1. Setup Configuration
	cfg := config.Load()
	cfg.RequireLastFM()

	// 2. Initialize Infrastructure
	db := database.New(cfg)

	// 3. Ensure the play schema exists
	if err := db.Migrate(); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	// 4. Setup Metrics
	archive.RegisterMetrics()
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		log.Printf("📊 Metrics exposed at http://localhost%s/metrics", cfg.Server.MetricsPort)
		log.Fatal(http.ListenAndServe(cfg.Server.MetricsPort, nil))
	}()

	// 5. Start Worker
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := archive.New(cfg, db, lastfm.New(cfg))
	worker.Run(ctx)
}
