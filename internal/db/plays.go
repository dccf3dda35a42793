package database

import (
	"github.com/Soft/lastfm-archiver/internal/models"
)

// InsertPlay appends one play. When p.ID is zero SQLite assigns the next
// rowid; a caller-supplied id that collides surfaces the engine's
// constraint error unchanged.
func (c *Client) InsertPlay(p *models.Play) error {
	return c.DB.Create(p).Error
}

// InsertPlays appends a batch in one transaction.
func (c *Client) InsertPlays(plays []models.Play) error {
	if len(plays) == 0 {
		return nil
	}
	return c.DB.CreateInBatches(plays, 100).Error
}

// NewestPlayTime returns the timestamp of the most recent stored play,
// or 0 for an empty archive. The archiver uses it to resume where the
// previous run stopped.
func (c *Client) NewestPlayTime() (int64, error) {
	var newest int64
	err := c.DB.Model(&models.Play{}).
		Select("COALESCE(MAX(time), 0)").
		Scan(&newest).Error
	return newest, err
}

// CountPlays returns the total number of archived plays.
func (c *Client) CountPlays() (int64, error) {
	var total int64
	err := c.DB.Model(&models.Play{}).Count(&total).Error
	return total, err
}

// WalkPlays streams the whole table in id order, batchSize rows at a
// time, so exports never hold the full archive in memory.
func (c *Client) WalkPlays(batchSize int, fn func([]models.Play) error) error {
	var lastID int64
	for {
		var batch []models.Play
		err := c.DB.Where("id > ?", lastID).
			Order("id ASC").
			Limit(batchSize).
			Find(&batch).Error
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		if err := fn(batch); err != nil {
			return err
		}
		lastID = batch[len(batch)-1].ID
	}
}
