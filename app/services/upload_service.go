package services

import (
	"context"
	"fmt"

	"github.com/alitto/pond/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PhotoAlbums/app/models"
	"github.com/ManuelReschke/PhotoAlbums/app/repository"
)

// FileError is the failure of a single file of an upload.
type FileError struct {
	FileName string `json:"file_name"`
	Err      error  `json:"-"`
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.FileName, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// UploadResult lists the created photos in file order and the files that failed.
type UploadResult struct {
	Photos []*models.Photo
	Errors []FileError
}

// UploadPhotos stores every file as a new photo and adds it to the album.
// Files are processed concurrently; one failing file does not stop the others.
func (s *Service) UploadPhotos(ctx context.Context, albumID uint, files []UploadFile) (*UploadResult, error) {
	if _, err := s.repos.Album.GetByID(albumID); err != nil {
		return nil, translate(err, "album")
	}
	if len(files) == 0 {
		return nil, NewValidationError("files", "select at least one file")
	}

	photos := make([]*models.Photo, len(files))
	errs := make([]error, len(files))

	pool := pond.NewPool(s.uploadWorkers, pond.WithContext(ctx))
	for i, file := range files {
		pool.Submit(func() {
			photo, err := s.uploadOne(ctx, albumID, file)
			if err != nil {
				log.Warnf("[Upload] %s rejected: %v", file.Name, err)
				errs[i] = err
				return
			}
			photos[i] = photo
		})
	}
	pool.StopAndWait()

	result := &UploadResult{}
	for i := range files {
		switch {
		case photos[i] != nil:
			result.Photos = append(result.Photos, photos[i])
		case errs[i] != nil:
			result.Errors = append(result.Errors, FileError{FileName: files[i].Name, Err: errs[i]})
		default:
			// task never ran, the context was cancelled
			result.Errors = append(result.Errors, FileError{FileName: files[i].Name, Err: context.Cause(ctx)})
		}
	}

	log.Infof("[Upload] Album %d: %d uploaded, %d failed", albumID, len(result.Photos), len(result.Errors))
	return result, nil
}

// uploadOne stores file and creates the photo and its membership in one
// transaction. On failure the stored image is removed again.
func (s *Service) uploadOne(ctx context.Context, albumID uint, file UploadFile) (*models.Photo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	photo, err := s.newPhoto(ctx, PhotoInput{}, &file)
	if err != nil {
		return nil, err
	}

	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if _, err := tx.Album.GetByID(albumID); err != nil {
			return translate(err, "album")
		}
		if err := tx.Photo.Create(photo); err != nil {
			return fmt.Errorf("failed to create photo: %w", err)
		}
		if err := tx.Album.AddPhoto(albumID, photo.ID); err != nil {
			return fmt.Errorf("failed to add photo to album: %w", err)
		}
		return nil
	})
	if err != nil {
		s.deleteAsset(ctx, photo.Image())
		return nil, err
	}

	log.Infof("[Photo] Created photo %d (%s) in album %d", photo.ID, photo.UUID, albumID)
	return photo, nil
}
