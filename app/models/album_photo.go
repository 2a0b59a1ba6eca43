package models

import "time"

// AlbumPhoto is the membership relation between albums and photos.
type AlbumPhoto struct {
	AlbumID   uint      `gorm:"primaryKey;autoIncrement:false" json:"album_id"`
	PhotoID   uint      `gorm:"primaryKey;autoIncrement:false" json:"photo_id"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AlbumPhoto) TableName() string {
	return "album_photos"
}
