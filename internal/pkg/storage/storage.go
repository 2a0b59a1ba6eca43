package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// ErrNotExist is returned by Open when no asset is stored under the key.
var ErrNotExist = errors.New("asset does not exist")

// ErrInvalidKey is returned for keys that are empty, absolute or escape the store root.
var ErrInvalidKey = errors.New("invalid asset key")

// Store holds the binary photo assets. Keys are slash separated relative paths.
type Store interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every asset below the directory prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// ObjectKey generates the key of an uploaded original.
// Format: photos/YYYY/MM/UUID.ext
func ObjectKey(photoUUID, fileExtension string, t time.Time) string {
	return fmt.Sprintf("photos/%04d/%02d/%s%s", t.Year(), int(t.Month()), photoUUID, strings.ToLower(fileExtension))
}

// ThumbnailPrefix is the directory holding every rendered thumbnail of the
// original stored under key.
// Format: thumbs/KEY/
func ThumbnailPrefix(key string) string {
	return "thumbs/" + key + "/"
}

// CleanKey normalizes key and rejects anything that could leave the store root.
func CleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// ContentType returns the MIME type based on file extension
func ContentType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}
