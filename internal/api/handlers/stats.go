package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Soft/lastfm-archiver/internal/models"
)

// StatsHandler serves aggregate numbers over the whole archive
type StatsHandler struct {
	db *gorm.DB
}

// NewStatsHandler creates a new StatsHandler instance
func NewStatsHandler(db *gorm.DB) *StatsHandler {
	return &StatsHandler{db: db}
}

type rankedRow struct {
	Name  string `json:"name"`
	Plays int64  `json:"plays"`
}

// GetStats returns dashboard aggregates: totals, archive time span,
// top artists/tracks by play count, and the most recent plays.
func (h *StatsHandler) GetStats(c *gin.Context) {
	var totalPlays int64
	var distinctArtists int64
	var distinctTracks int64

	// 1. Basic Aggregates
	h.db.Model(&models.Play{}).Count(&totalPlays)
	h.db.Model(&models.Play{}).Where("artist_name IS NOT NULL").Distinct("artist_name").Count(&distinctArtists)
	h.db.Model(&models.Play{}).Where("track_name IS NOT NULL").Distinct("track_name").Count(&distinctTracks)

	// 2. Archive Span
	var span struct {
		First int64
		Last  int64
	}
	h.db.Model(&models.Play{}).
		Select("COALESCE(MIN(time), 0) AS first, COALESCE(MAX(time), 0) AS last").
		Scan(&span)

	// 3. Leaderboards
	var topArtists []rankedRow
	h.db.Model(&models.Play{}).
		Select("artist_name AS name, COUNT(*) AS plays").
		Where("artist_name IS NOT NULL").
		Group("artist_name").
		Order("plays DESC").
		Limit(10).
		Scan(&topArtists)

	var topTracks []rankedRow
	h.db.Model(&models.Play{}).
		Select("track_name AS name, COUNT(*) AS plays").
		Where("track_name IS NOT NULL").
		Group("track_name").
		Order("plays DESC").
		Limit(10).
		Scan(&topTracks)

	// 4. Recent History
	var recentPlays []models.Play
	h.db.Order("time DESC").Limit(5).Find(&recentPlays)

	// 5. Build Response
	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"total_plays":      totalPlays,
			"distinct_artists": distinctArtists,
			"distinct_tracks":  distinctTracks,
			"first_play_time":  span.First,
			"last_play_time":   span.Last,
		},
		"top_artists":  topArtists,
		"top_tracks":   topTracks,
		"recent_plays": recentPlays,
	})
}
