package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/ManuelReschke/PhotoAlbums/app/models"
)

// albumColumns are the only columns an update may write.
var albumColumns = []string{"title", "slug", "description", "front_photo_id"}

// albumRepository implements the AlbumRepository interface
type albumRepository struct {
	db *gorm.DB
}

// NewAlbumRepository creates a new album repository instance
func NewAlbumRepository(db *gorm.DB) AlbumRepository {
	return &albumRepository{db: db}
}

// Create creates a new album in the database
func (r *albumRepository) Create(album *models.Album) error {
	return r.db.Omit("Photos", "FrontPhoto").Create(album).Error
}

// GetByID retrieves an album by its ID with front photo and members
func (r *albumRepository) GetByID(id uint) (*models.Album, error) {
	var album models.Album
	err := r.db.Preload("FrontPhoto").Preload("Photos").First(&album, id).Error
	if err != nil {
		return nil, err
	}
	return &album, nil
}

// GetBySlug retrieves an album by its slug
func (r *albumRepository) GetBySlug(slug string) (*models.Album, error) {
	var album models.Album
	err := r.db.Preload("FrontPhoto").Where("slug = ?", slug).First(&album).Error
	if err != nil {
		return nil, err
	}
	return &album, nil
}

// Update writes the whitelisted album columns
func (r *albumRepository) Update(album *models.Album) error {
	result := r.db.Model(album).Select(albumColumns).Updates(album)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Delete soft deletes an album by its ID
func (r *albumRepository) Delete(id uint) error {
	// First remove all album-photo associations
	err := r.db.Exec("DELETE FROM album_photos WHERE album_id = ?", id).Error
	if err != nil {
		return err
	}

	// Then delete the album
	result := r.db.Delete(&models.Album{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns albums newest first, front photo preloaded
func (r *albumRepository) List(offset, limit int) ([]models.Album, error) {
	var albums []models.Album
	err := r.db.Preload("FrontPhoto").
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&albums).Error
	return albums, err
}

// Count returns the total number of albums
func (r *albumRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Album{}).Count(&count).Error
	return count, err
}

// SlugExists checks whether another album already uses slug
func (r *albumRepository) SlugExists(slug string, exceptID uint) (bool, error) {
	var count int64
	query := r.db.Unscoped().Model(&models.Album{}).Where("slug = ?", slug)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// AddPhoto adds a photo to an album, appended after the existing members
func (r *albumRepository) AddPhoto(albumID, photoID uint) error {
	exists, err := r.HasPhoto(albumID, photoID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	// the next sort_order is computed inside the insert
	return r.db.Exec(`INSERT INTO album_photos (album_id, photo_id, sort_order, created_at)
		SELECT ?, ?, COALESCE(MAX(sort_order), 0) + 1, ? FROM album_photos WHERE album_id = ?`,
		albumID, photoID, time.Now(), albumID).Error
}

// RemovePhoto removes a photo from an album
func (r *albumRepository) RemovePhoto(albumID, photoID uint) error {
	return r.db.Exec("DELETE FROM album_photos WHERE album_id = ? AND photo_id = ?",
		albumID, photoID).Error
}

// HasPhoto checks the membership relation
func (r *albumRepository) HasPhoto(albumID, photoID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.AlbumPhoto{}).
		Where("album_id = ? AND photo_id = ?", albumID, photoID).
		Count(&count).Error
	return count > 0, err
}

// GetPhotos retrieves all photos in an album in their stored order
func (r *albumRepository) GetPhotos(albumID uint) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.Model(&models.Photo{}).
		Joins("JOIN album_photos ON photos.id = album_photos.photo_id").
		Where("album_photos.album_id = ?", albumID).
		Order("album_photos.sort_order ASC").Order("photos.id ASC").
		Find(&photos).Error
	return photos, err
}

// SetFrontPhoto stores the front photo id; nil clears it
func (r *albumRepository) SetFrontPhoto(albumID uint, photoID *uint) error {
	return r.db.Model(&models.Album{}).
		Where("id = ?", albumID).
		Update("front_photo_id", photoID).Error
}

// ClearFrontPhoto unsets the front reference of every album pointing at photoID
func (r *albumRepository) ClearFrontPhoto(photoID uint) (int64, error) {
	result := r.db.Model(&models.Album{}).
		Where("front_photo_id = ?", photoID).
		Update("front_photo_id", nil)
	return result.RowsAffected, result.Error
}

// RemovePhotoEverywhere drops every membership of photoID
func (r *albumRepository) RemovePhotoEverywhere(photoID uint) error {
	return r.db.Exec("DELETE FROM album_photos WHERE photo_id = ?", photoID).Error
}
