package services

import (
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PhotoAlbums/app/models"
	"github.com/ManuelReschke/PhotoAlbums/app/repository"
)

// CreateAlbum validates in and stores a new album. An empty slug is derived
// from the title and made unique with a numeric suffix.
func (s *Service) CreateAlbum(in AlbumInput) (*models.Album, error) {
	in.Normalize()
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	slug, err := s.resolveSlug(in, 0)
	if err != nil {
		return nil, err
	}

	album := &models.Album{
		Title:       in.Title,
		Slug:        slug,
		Description: in.Description,
	}
	if err := s.repos.Album.Create(album); err != nil {
		return nil, fmt.Errorf("failed to create album: %w", err)
	}

	log.Infof("[Album] Created album %d (%s)", album.ID, album.Slug)
	return album, nil
}

// UpdateAlbum writes the fields of in to the album.
func (s *Service) UpdateAlbum(id uint, in AlbumInput) (*models.Album, error) {
	in.Normalize()
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	album, err := s.repos.Album.GetByID(id)
	if err != nil {
		return nil, translate(err, "album")
	}

	slug, err := s.resolveSlug(in, album.ID)
	if err != nil {
		return nil, err
	}

	album.Title = in.Title
	album.Slug = slug
	album.Description = in.Description
	if err := s.repos.Album.Update(album); err != nil {
		return nil, fmt.Errorf("failed to update album: %w", err)
	}
	return album, nil
}

// resolveSlug returns the slug to store. An explicit slug must already be in
// canonical form and unused; a derived one gets "-2", "-3", ... appended.
func (s *Service) resolveSlug(in AlbumInput, albumID uint) (string, error) {
	if in.Slug != "" {
		if models.Slugify(in.Slug) != in.Slug {
			return "", NewValidationError("slug", "may only contain lowercase letters, digits and dashes")
		}
		taken, err := s.repos.Album.SlugExists(in.Slug, albumID)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if taken {
			return "", NewValidationError("slug", "is already taken")
		}
		return in.Slug, nil
	}

	base := models.Slugify(in.Title)
	if base == "" {
		base = "album"
	}
	slug := base
	for i := 2; ; i++ {
		taken, err := s.repos.Album.SlugExists(slug, albumID)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// DeleteAlbum removes the album and its memberships; photos are kept.
func (s *Service) DeleteAlbum(id uint) error {
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		return tx.Album.Delete(id)
	})
	if err != nil {
		return translate(err, "album")
	}
	log.Infof("[Album] Deleted album %d", id)
	return nil
}

// GetAlbum returns the album with its front photo and members.
func (s *Service) GetAlbum(id uint) (*models.Album, error) {
	album, err := s.repos.Album.GetByID(id)
	if err != nil {
		return nil, translate(err, "album")
	}
	return album, nil
}

// GetAlbumBySlug returns the album with its front photo.
func (s *Service) GetAlbumBySlug(slug string) (*models.Album, error) {
	album, err := s.repos.Album.GetBySlug(slug)
	if err != nil {
		return nil, translate(err, "album")
	}
	return album, nil
}

// ListAlbums returns one page of albums, newest first.
func (s *Service) ListAlbums(page, perPage int) (*Page[models.Album], error) {
	page, perPage, offset := normalizePage(page, perPage)

	total, err := s.repos.Album.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count albums: %w", err)
	}
	albums, err := s.repos.Album.List(offset, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	return newPage(albums, page, perPage, total), nil
}

// AlbumPhotos returns the members of an album in their stored order.
func (s *Service) AlbumPhotos(albumID uint) ([]models.Photo, error) {
	if _, err := s.repos.Album.GetByID(albumID); err != nil {
		return nil, translate(err, "album")
	}
	photos, err := s.repos.Album.GetPhotos(albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to load album photos: %w", err)
	}
	return photos, nil
}

// PhotosNotInAlbum lists every photo that can still be added to the album.
func (s *Service) PhotosNotInAlbum(albumID uint) ([]models.Photo, error) {
	if _, err := s.repos.Album.GetByID(albumID); err != nil {
		return nil, translate(err, "album")
	}
	photos, err := s.repos.Photo.ListNotInAlbum(albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos outside album %d: %w", albumID, err)
	}
	return photos, nil
}

// AddPhotoToAlbum makes photoID a member of albumID. Adding a member again is a no-op.
func (s *Service) AddPhotoToAlbum(albumID, photoID uint) error {
	if _, err := s.repos.Album.GetByID(albumID); err != nil {
		return translate(err, "album")
	}
	if _, err := s.repos.Photo.GetByID(photoID); err != nil {
		return translate(err, "photo")
	}
	if err := s.repos.Album.AddPhoto(albumID, photoID); err != nil {
		return fmt.Errorf("failed to add photo to album: %w", err)
	}
	return nil
}

// RemovePhotoFromAlbum drops the membership and clears the album's front
// reference when it pointed at the removed photo.
func (s *Service) RemovePhotoFromAlbum(albumID, photoID uint) error {
	return s.repos.Transaction(func(tx *repository.Repositories) error {
		album, err := tx.Album.GetByID(albumID)
		if err != nil {
			return translate(err, "album")
		}
		if err := tx.Album.RemovePhoto(albumID, photoID); err != nil {
			return fmt.Errorf("failed to remove photo from album: %w", err)
		}
		if album.FrontID() == photoID {
			if err := tx.Album.SetFrontPhoto(albumID, nil); err != nil {
				return fmt.Errorf("failed to clear front photo: %w", err)
			}
		}
		return nil
	})
}

// SetAlbumFront designates photoID as the album's front photo. The photo
// must be a member of the album.
func (s *Service) SetAlbumFront(albumID, photoID uint) error {
	if _, err := s.repos.Album.GetByID(albumID); err != nil {
		return translate(err, "album")
	}
	if _, err := s.repos.Photo.GetByID(photoID); err != nil {
		return translate(err, "photo")
	}

	member, err := s.repos.Album.HasPhoto(albumID, photoID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return NewValidationError("front_photo_id", "the photo is not part of this album")
	}

	if err := s.repos.Album.SetFrontPhoto(albumID, &photoID); err != nil {
		return fmt.Errorf("failed to set front photo: %w", err)
	}
	log.Debugf("[Album] Album %d front photo is now %d", albumID, photoID)
	return nil
}

// ClearAlbumFront unsets the album's front photo.
func (s *Service) ClearAlbumFront(albumID uint) error {
	if _, err := s.repos.Album.GetByID(albumID); err != nil {
		return translate(err, "album")
	}
	if err := s.repos.Album.SetFrontPhoto(albumID, nil); err != nil {
		return fmt.Errorf("failed to clear front photo: %w", err)
	}
	return nil
}

// IsFront reports whether photo is the front photo of album.
func (s *Service) IsFront(photo *models.Photo, album *models.Album) bool {
	return album.IsFront(photo)
}
