package models

// Play records a single listen: one track played at one point in time.
// Everything beyond the timestamp is optional; last.fm frequently returns
// tracks with no MBIDs and sometimes with no artist or album at all, and a
// play with nothing but a timestamp is still a valid row.
type Play struct {
	ID   int64 `gorm:"column:id;primaryKey" json:"id"`
	Time int64 `gorm:"column:time;not null" json:"time"` // unix seconds

	TrackMBID *string `gorm:"column:track_mbid;type:varchar(36)" json:"track_mbid"`
	TrackName *string `gorm:"column:track_name;type:text" json:"track_name"`

	ArtistMBID *string `gorm:"column:artist_mbid;type:varchar(36)" json:"artist_mbid"`
	ArtistName *string `gorm:"column:artist_name;type:text" json:"artist_name"`

	AlbumMBID *string `gorm:"column:album_mbid;type:varchar(36)" json:"album_mbid"`
	AlbumName *string `gorm:"column:album_name;type:text" json:"album_name"`
}

// TableName pins the table to the on-disk contract; external tools read
// this database directly and expect "play", not gorm's pluralized default.
func (Play) TableName() string {
	return "play"
}
