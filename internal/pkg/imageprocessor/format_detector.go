package imageprocessor

import (
	"path"
	"strings"
)

// Format is an output encoding for thumbnails.
type Format string

const (
	FormatJPEG Format = "jpg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatWebP:
		return "image/webp"
	case FormatPNG:
		return "image/png"
	default:
		return "image/jpeg"
	}
}

// NegotiateFormat picks the thumbnail format from the browser's Accept header.
// WebP wins when accepted; otherwise PNG and GIF sources stay lossless and
// everything else becomes JPEG.
func NegotiateFormat(acceptHeader, sourceKey string) Format {
	if strings.Contains(acceptHeader, "image/webp") {
		return FormatWebP
	}
	switch strings.ToLower(path.Ext(sourceKey)) {
	case ".png", ".gif":
		return FormatPNG
	default:
		return FormatJPEG
	}
}
