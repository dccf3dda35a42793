package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Soft/lastfm-archiver/internal/models"
	"github.com/Soft/lastfm-archiver/internal/utils"
)

// PlayHandler serves the archived listening history
type PlayHandler struct {
	db *gorm.DB
}

// NewPlayHandler creates a new PlayHandler instance
func NewPlayHandler(db *gorm.DB) *PlayHandler {
	return &PlayHandler{db: db}
}

// GetPlays returns a paginated slice of the archive, newest first
func (h *PlayHandler) GetPlays(c *gin.Context) {
	// 1. Parse Query Parameters
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	search := c.Query("search")
	sortBy := c.DefaultQuery("sort", "newest")

	limit = utils.ClampLimit(limit, 100, 200)
	if offset < 0 {
		offset = 0
	}

	// 2. Build the Query
	query := h.db.Model(&models.Play{})

	// 3. Apply Search across the three name columns
	if search != "" {
		searchTerm := "%" + search + "%"
		query = query.Where(
			"track_name LIKE ? OR artist_name LIKE ? OR album_name LIKE ?",
			searchTerm, searchTerm, searchTerm,
		)
	}

	// 4. Get Total Count (for pagination math on the client)
	var total int64
	query.Count(&total)

	// 5. Apply Sorting
	switch sortBy {
	case "oldest":
		query = query.Order("time ASC")
	default: // "newest"
		query = query.Order("time DESC")
	}

	// 6. Fetch
	var plays []models.Play
	result := query.Limit(limit).Offset(offset).Find(&plays)
	if result.Error != nil {
		slog.Error("Failed to fetch plays", "error", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	// 7. Return Response
	c.JSON(http.StatusOK, gin.H{
		"data": plays,
		"meta": gin.H{
			"total":  total,
			"limit":  limit,
			"offset": offset,
		},
	})
}

// GetPlay returns a single play by id
func (h *PlayHandler) GetPlay(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid play id"})
		return
	}

	var play models.Play
	if err := h.db.First(&play, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Play not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, play)
}

// GetTrackPlays lists every play of one track, newest first
func (h *PlayHandler) GetTrackPlays(c *gin.Context) {
	h.playsByMBID(c, "track_mbid")
}

// GetArtistPlays lists every play of one artist, newest first
func (h *PlayHandler) GetArtistPlays(c *gin.Context) {
	h.playsByMBID(c, "artist_mbid")
}

// GetAlbumPlays lists every play of one album, newest first
func (h *PlayHandler) GetAlbumPlays(c *gin.Context) {
	h.playsByMBID(c, "album_mbid")
}

// playsByMBID is the shared lookup behind the three /:mbid/plays routes.
// Each column has its own index, so these stay cheap even on archives
// with years of history.
func (h *PlayHandler) playsByMBID(c *gin.Context, column string) {
	mbid := c.Param("mbid")
	if !utils.IsValidMBID(mbid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed MBID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	limit = utils.ClampLimit(limit, 100, 200)
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	query := h.db.Model(&models.Play{}).Where(column+" = ?", mbid)

	var total int64
	query.Count(&total)

	var plays []models.Play
	result := query.Order("time DESC").Limit(limit).Offset(offset).Find(&plays)
	if result.Error != nil {
		slog.Error("Failed to fetch plays by mbid", "column", column, "error", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": plays,
		"meta": gin.H{
			"total":  total,
			"limit":  limit,
			"offset": offset,
		},
	})
}
