package repository

import (
	"gorm.io/gorm"

	"github.com/ManuelReschke/PhotoAlbums/app/models"
)

// photoColumns are the only columns an update may write.
var photoColumns = []string{
	"title", "description", "image_key",
	"file_name", "file_type", "file_size", "width", "height",
	"camera_model", "taken_at",
}

// photoRepository implements the PhotoRepository interface
type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository creates a new photo repository instance
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

// Create creates a new photo in the database
func (r *photoRepository) Create(photo *models.Photo) error {
	return r.db.Omit("Albums").Create(photo).Error
}

// GetByID retrieves a photo by its ID
func (r *photoRepository) GetByID(id uint) (*models.Photo, error) {
	var photo models.Photo
	err := r.db.First(&photo, id).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// GetByIDs retrieves the photos with the given IDs, missing ones are skipped
func (r *photoRepository) GetByIDs(ids []uint) ([]models.Photo, error) {
	var photos []models.Photo
	if len(ids) == 0 {
		return photos, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&photos).Error
	return photos, err
}

// Update writes the whitelisted photo columns
func (r *photoRepository) Update(photo *models.Photo) error {
	return r.db.Model(photo).Select(photoColumns).Updates(photo).Error
}

// Delete soft deletes a photo by its ID
func (r *photoRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Photo{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns photos newest first
func (r *photoRepository) List(offset, limit int) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&photos).Error
	return photos, err
}

// ListNotInAlbum returns every photo that is not a member of the album, newest first
func (r *photoRepository) ListNotInAlbum(albumID uint) ([]models.Photo, error) {
	members := r.db.Model(&models.AlbumPhoto{}).Select("photo_id").Where("album_id = ?", albumID)
	var photos []models.Photo
	err := r.db.Where("id NOT IN (?)", members).
		Order("created_at DESC").Order("id DESC").
		Find(&photos).Error
	return photos, err
}

// Count returns the total number of photos
func (r *photoRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Photo{}).Count(&count).Error
	return count, err
}

// ListIDs returns the IDs of all photos
func (r *photoRepository) ListIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Photo{}).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}
