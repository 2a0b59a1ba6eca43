package imageprocessor

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"

	"github.com/ManuelReschke/PhotoAlbums/app/models"
)

func init() {
	// Register Nikon and Canon maker notes
	exif.RegisterParsers(mknote.All...)
}

// ExtractMetadata copies the camera model and capture time from the EXIF
// block of r into photo. Images without EXIF data are not an error.
func ExtractMetadata(photo *models.Photo, r io.Reader) error {
	x, err := exif.Decode(r)
	if err != nil {
		log.Debugf("[ImageProcessor] No EXIF data found for photo %s: %v", photo.UUID, err)
		return nil
	}

	if m, err := x.Get(exif.Model); err == nil {
		model := strings.TrimSpace(strings.Trim(m.String(), `"`))
		if model != "" {
			photo.CameraModel = &model
		}
	}

	if dt, err := x.DateTime(); err == nil {
		photo.TakenAt = &dt
	}

	return nil
}
