package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Photo struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	UUID        string  `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"`
	Title       string  `gorm:"type:varchar(255)" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	ImageKey    *string `gorm:"type:varchar(255)" json:"image_key,omitempty"` // storage key of the attached image, nil when none
	FileName    string  `gorm:"type:varchar(255)" json:"file_name"`
	FileType    string  `gorm:"type:varchar(50)" json:"file_type"`
	FileSize    int64   `gorm:"type:bigint" json:"file_size"`
	Width       int     `gorm:"type:int" json:"width"`
	Height      int     `gorm:"type:int" json:"height"`
	// meta data
	CameraModel *string    `gorm:"type:varchar(255)" json:"camera_model,omitempty"`
	TakenAt     *time.Time `json:"taken_at,omitempty"`
	// relations
	Albums    []Album        `gorm:"many2many:album_photos;" json:"albums,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate wird vor dem Erstellen eines neuen Datensatzes aufgerufen
func (p *Photo) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	return nil
}

// GetID returns the primary key. Used by the list column renderers.
func (p *Photo) GetID() uint {
	if p == nil {
		return 0
	}
	return p.ID
}

// HasImage reports whether an image file is attached.
func (p *Photo) HasImage() bool {
	return p != nil && p.ImageKey != nil && *p.ImageKey != ""
}

// Image returns the storage key of the attached image or "".
func (p *Photo) Image() string {
	if !p.HasImage() {
		return ""
	}
	return *p.ImageKey
}

// AttachImage sets the storage key; an empty key detaches the image.
func (p *Photo) AttachImage(key string) {
	if key == "" {
		p.ImageKey = nil
		return
	}
	p.ImageKey = &key
}

// DisplayTitle falls back to the original file name for untitled photos.
func (p *Photo) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	if p.FileName != "" {
		return p.FileName
	}
	return "Untitled"
}
