package main

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Soft/lastfm-archiver/internal/config"
	database "github.com/Soft/lastfm-archiver/internal/db"

	apiserver "github.com/Soft/lastfm-archiver/internal/api/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Archive API Server...")

	// 1. Setup Configuration
	cfg := config.Load()

	// 2. Initialize Infrastructure
	db := database.New(cfg)

	// 3. Ensure the play schema exists
	if err := db.Migrate(); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	// 4. Setup Metrics
	go func() {
		http.Handle("/_metrics", promhttp.Handler())
		log.Printf("📊 Metrics exposed at http://localhost%s/_metrics", cfg.Server.MetricsPort)
		if err := http.ListenAndServe(cfg.Server.MetricsPort, nil); err != nil {
			log.Printf("⚠️ Metrics server error: %v", err)
		}
	}()

	// 5. Start Server
	srv := apiserver.New(cfg, db)

	log.Printf("🚀 API Server starting on %s", cfg.Server.APIPort)
	if err := srv.Start(cfg.Server.APIPort); err != nil {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}
