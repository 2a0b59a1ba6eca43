package upload

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxFileSize is the largest accepted photo upload.
const MaxFileSize int64 = 32 << 20

// SniffLen is the number of leading bytes ValidateImageBySniff looks at.
const SniffLen = 512

var (
	ErrUnsupportedExtension = errors.New("only the following image formats are supported: JPG, JPEG, PNG, GIF, WEBP, BMP")
	ErrUnsupportedType      = errors.New("the file type is not supported")
	ErrScriptableContent    = errors.New("invalid file type: HTML, SVG and XML content is not allowed")
	ErrEmptyFile            = errors.New("the file is empty")
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	// SVG is excluded, it can carry scripts
}

var allowedMime = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// ValidateImageBySniff checks the provided filename (extension) and the first bytes (head)
// against a whitelist of image types. Returns detected mime or an error.
func ValidateImageBySniff(filename string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", ErrUnsupportedExtension
	}
	if len(head) == 0 {
		return "", ErrEmptyFile
	}

	detected := http.DetectContentType(head)

	// Block obvious scriptable types regardless of extension
	if strings.HasPrefix(detected, "text/html") || strings.HasPrefix(detected, "application/xhtml") ||
		strings.HasPrefix(detected, "text/xml") || strings.HasPrefix(detected, "application/xml") ||
		detected == "image/svg+xml" {
		return "", ErrScriptableContent
	}

	if allowedMime[detected] {
		return detected, nil
	}
	return "", ErrUnsupportedType
}

// ValidateSize rejects empty and oversized files.
func ValidateSize(size int64) error {
	if size <= 0 {
		return ErrEmptyFile
	}
	if size > MaxFileSize {
		return fmt.Errorf("the file is larger than %d MB", MaxFileSize>>20)
	}
	return nil
}
