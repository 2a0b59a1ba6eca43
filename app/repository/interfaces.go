package repository

import (
	"gorm.io/gorm"

	"github.com/ManuelReschke/PhotoAlbums/app/models"
)

// AlbumRepository defines the interface for album-related database operations
type AlbumRepository interface {
	Create(album *models.Album) error
	GetByID(id uint) (*models.Album, error)
	GetBySlug(slug string) (*models.Album, error)
	Update(album *models.Album) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Album, error)
	Count() (int64, error)
	SlugExists(slug string, exceptID uint) (bool, error)
	AddPhoto(albumID, photoID uint) error
	RemovePhoto(albumID, photoID uint) error
	HasPhoto(albumID, photoID uint) (bool, error)
	GetPhotos(albumID uint) ([]models.Photo, error)
	SetFrontPhoto(albumID uint, photoID *uint) error
	ClearFrontPhoto(photoID uint) (int64, error)
	RemovePhotoEverywhere(photoID uint) error
}

// PhotoRepository defines the interface for photo-related database operations
type PhotoRepository interface {
	Create(photo *models.Photo) error
	GetByID(id uint) (*models.Photo, error)
	GetByIDs(ids []uint) ([]models.Photo, error)
	Update(photo *models.Photo) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Photo, error)
	ListNotInAlbum(albumID uint) ([]models.Photo, error)
	Count() (int64, error)
	ListIDs() ([]uint, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	db    *gorm.DB
	Album AlbumRepository
	Photo PhotoRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:    db,
		Album: NewAlbumRepository(db),
		Photo: NewPhotoRepository(db),
	}
}

// Transaction runs fn with repositories bound to a single database transaction.
// The transaction is rolled back when fn returns an error.
func (r *Repositories) Transaction(fn func(tx *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
