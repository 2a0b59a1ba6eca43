package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Album struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"type:varchar(255);not null" json:"title"`
	Slug         string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description  string         `gorm:"type:text" json:"description"`
	FrontPhotoID *uint          `gorm:"index" json:"front_photo_id"`
	FrontPhoto   *Photo         `gorm:"foreignKey:FrontPhotoID" json:"front_photo,omitempty"`
	Photos       []Photo        `gorm:"many2many:album_photos;" json:"photos,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins runs of ASCII letters and digits with dashes.
func Slugify(s string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return strings.Trim(slug, "-")
}

// BeforeCreate wird vor dem Erstellen eines neuen Datensatzes aufgerufen
func (a *Album) BeforeCreate(tx *gorm.DB) error {
	if a.Slug == "" {
		a.Slug = Slugify(a.Title)
	}
	if a.Slug == "" {
		a.Slug = "album-" + uuid.New().String()[:8]
	}
	return nil
}

// IsFront reports whether photo is the album's front photo. Frontness is
// nothing but the equality of the stored id with the photo's id.
func (a *Album) IsFront(photo *Photo) bool {
	if a == nil || photo == nil || a.FrontPhotoID == nil {
		return false
	}
	return *a.FrontPhotoID == photo.ID
}

// HasFront reports whether a front photo id is stored.
func (a *Album) HasFront() bool {
	return a != nil && a.FrontPhotoID != nil && *a.FrontPhotoID != 0
}

// FrontID returns the stored front photo id or 0.
func (a *Album) FrontID() uint {
	if !a.HasFront() {
		return 0
	}
	return *a.FrontPhotoID
}

// ContainsPhoto checks the loaded Photos relation for photoID.
func (a *Album) ContainsPhoto(photoID uint) bool {
	for _, p := range a.Photos {
		if p.ID == photoID {
			return true
		}
	}
	return false
}
