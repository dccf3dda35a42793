package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Soft/lastfm-archiver/internal/api/handlers"
	"github.com/Soft/lastfm-archiver/internal/config"
	database "github.com/Soft/lastfm-archiver/internal/db"
)

type Server struct {
	cfg    *config.Config
	db     *database.Client
	router *gin.Engine
}

func New(cfg *config.Config, db *database.Client) *Server {
	if cfg.Server.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:    cfg,
		db:     db,
		router: gin.Default(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}

	s.router.Use(cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	playHandler := handlers.NewPlayHandler(s.db.DB)
	statsHandler := handlers.NewStatsHandler(s.db.DB)

	// Health Check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "lastfm-archiver"})
	})

	// API Group. The archive is read-only over HTTP: only the archiver
	// writes, so every route here is a GET.
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/plays", playHandler.GetPlays)
		v1.GET("/plays/:id", playHandler.GetPlay)

		v1.GET("/tracks/:mbid/plays", playHandler.GetTrackPlays)
		v1.GET("/artists/:mbid/plays", playHandler.GetArtistPlays)
		v1.GET("/albums/:mbid/plays", playHandler.GetAlbumPlays)

		v1.GET("/stats", statsHandler.GetStats)
	}
}

// Start runs the server on the configured port
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
