package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"math/rand/v2"
	"mime/multipart"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/ManuelReschke/PhotoAlbums/app/models"
	"github.com/ManuelReschke/PhotoAlbums/app/repository"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/imageprocessor"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/storage"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/upload"
)

// UploadFile is an image file received from a form.
type UploadFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// FromMultipart wraps a multipart file header.
func FromMultipart(fh *multipart.FileHeader) UploadFile {
	return UploadFile{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// FromBytes wraps in-memory data.
func FromBytes(name string, data []byte) UploadFile {
	return UploadFile{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// CreatePhoto validates in, stores the optional file and creates the photo.
func (s *Service) CreatePhoto(ctx context.Context, in PhotoInput, file *UploadFile) (*models.Photo, error) {
	in.Normalize()
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	photo, err := s.newPhoto(ctx, in, file)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Photo.Create(photo); err != nil {
		s.deleteAsset(ctx, photo.Image())
		return nil, fmt.Errorf("failed to create photo: %w", err)
	}

	log.Infof("[Photo] Created photo %d (%s)", photo.ID, photo.UUID)
	return photo, nil
}

// newPhoto builds an unsaved photo from in and stores the optional file.
func (s *Service) newPhoto(ctx context.Context, in PhotoInput, file *UploadFile) (*models.Photo, error) {
	photo := &models.Photo{
		UUID:        uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
	}
	if file != nil {
		if err := s.storeImage(ctx, photo, *file); err != nil {
			return nil, err
		}
	}
	return photo, nil
}

// UpdatePhoto writes the fields of in to the photo. A new file replaces the
// attached image.
func (s *Service) UpdatePhoto(ctx context.Context, id uint, in PhotoInput, file *UploadFile) (*models.Photo, error) {
	in.Normalize()
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	photo, err := s.repos.Photo.GetByID(id)
	if err != nil {
		return nil, translate(err, "photo")
	}

	oldKey := photo.Image()
	photo.Title = in.Title
	photo.Description = in.Description
	if file != nil {
		if err := s.storeImage(ctx, photo, *file); err != nil {
			return nil, err
		}
	}

	if err := s.repos.Photo.Update(photo); err != nil {
		if photo.Image() != oldKey {
			s.deleteAsset(ctx, photo.Image())
		}
		return nil, fmt.Errorf("failed to update photo: %w", err)
	}

	if oldKey != "" && oldKey != photo.Image() {
		s.deleteAsset(ctx, oldKey)
	}
	return photo, nil
}

// DeletePhoto removes the photo, clears every front reference and membership
// pointing at it and finally deletes the stored image.
func (s *Service) DeletePhoto(ctx context.Context, id uint) error {
	var key string
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		photo, err := tx.Photo.GetByID(id)
		if err != nil {
			return translate(err, "photo")
		}
		key = photo.Image()

		cleared, err := tx.Album.ClearFrontPhoto(id)
		if err != nil {
			return fmt.Errorf("failed to clear front references: %w", err)
		}
		if cleared > 0 {
			log.Infof("[Photo] Cleared front photo of %d album(s) for photo %d", cleared, id)
		}
		if err := tx.Album.RemovePhotoEverywhere(id); err != nil {
			return fmt.Errorf("failed to remove album memberships: %w", err)
		}
		if err := tx.Photo.Delete(id); err != nil {
			return translate(err, "photo")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.deleteAsset(ctx, key)
	log.Infof("[Photo] Deleted photo %d", id)
	return nil
}

// GetPhoto returns a single photo.
func (s *Service) GetPhoto(id uint) (*models.Photo, error) {
	photo, err := s.repos.Photo.GetByID(id)
	if err != nil {
		return nil, translate(err, "photo")
	}
	return photo, nil
}

// ListPhotos returns one page of photos, newest first.
func (s *Service) ListPhotos(page, perPage int) (*Page[models.Photo], error) {
	page, perPage, offset := normalizePage(page, perPage)

	total, err := s.repos.Photo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count photos: %w", err)
	}
	photos, err := s.repos.Photo.List(offset, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return newPage(photos, page, perPage, total), nil
}

// RandomPhotos draws min(n, total) distinct photos uniformly without
// replacement. The id list is read immediately; photo records are loaded
// while the sequence is consumed. The sequence can be ranged over once.
func (s *Service) RandomPhotos(n int) (iter.Seq[*models.Photo], error) {
	if n <= 0 {
		return func(yield func(*models.Photo) bool) {}, nil
	}

	ids, err := s.repos.Photo.ListIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to list photo ids: %w", err)
	}
	k := min(n, len(ids))

	var used atomic.Bool
	return func(yield func(*models.Photo) bool) {
		if used.Swap(true) {
			return
		}
		// partial Fisher-Yates: ids[:i] holds the draws so far
		for i := 0; i < k; i++ {
			j := i + rand.IntN(len(ids)-i)
			ids[i], ids[j] = ids[j], ids[i]

			photo, err := s.repos.Photo.GetByID(ids[i])
			if err != nil {
				// deleted since the id list was read
				log.Debugf("[Photo] Skipping random photo %d: %v", ids[i], err)
				continue
			}
			if !yield(photo) {
				return
			}
		}
	}, nil
}

// storeImage validates file, saves it in the asset store and copies the file
// facts and EXIF metadata into photo.
func (s *Service) storeImage(ctx context.Context, photo *models.Photo, file UploadFile) error {
	if s.store == nil {
		return errors.New("no asset store configured")
	}
	if err := upload.ValidateSize(file.Size); err != nil {
		return NewValidationError("file", err.Error())
	}

	rc, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload %s: %w", file.Name, err)
	}
	data, err := io.ReadAll(io.LimitReader(rc, upload.MaxFileSize+1))
	rc.Close()
	if err != nil {
		return fmt.Errorf("failed to read upload %s: %w", file.Name, err)
	}
	if err := upload.ValidateSize(int64(len(data))); err != nil {
		return NewValidationError("file", err.Error())
	}

	mime, err := upload.ValidateImageBySniff(file.Name, data[:min(len(data), upload.SniffLen)])
	if err != nil {
		return NewValidationError("file", err.Error())
	}

	width, height, err := imageprocessor.Dimensions(bytes.NewReader(data))
	if err != nil {
		return NewValidationError("file", "the file is not a readable image")
	}
	if err := imageprocessor.ExtractMetadata(photo, bytes.NewReader(data)); err != nil {
		log.Warnf("[Photo] Failed to read metadata of %s: %v", file.Name, err)
	}

	// every stored file gets its own key, a replaced image never overwrites the old one
	key := storage.ObjectKey(uuid.New().String(), filepath.Ext(file.Name), time.Now())
	if err := s.store.Save(ctx, key, bytes.NewReader(data), int64(len(data)), mime); err != nil {
		return fmt.Errorf("failed to store image: %w", err)
	}

	photo.AttachImage(key)
	photo.FileName = filepath.Base(file.Name)
	photo.FileType = mime
	photo.FileSize = int64(len(data))
	photo.Width = width
	photo.Height = height
	return nil
}

// deleteAsset removes a stored image and its rendered thumbnails; failures
// are logged only.
func (s *Service) deleteAsset(ctx context.Context, key string) {
	if key == "" || s.store == nil {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		log.Warnf("[Photo] Failed to delete asset %s: %v", key, err)
	}
	if err := s.store.DeletePrefix(ctx, storage.ThumbnailPrefix(key)); err != nil {
		log.Warnf("[Photo] Failed to delete thumbnails of %s: %v", key, err)
	}
}
