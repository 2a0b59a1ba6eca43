package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Thumbnail sizes
const (
	DefaultThumbnailSize = 200
	MaxThumbnailSize     = 2000
)

// Encoding quality for lossy formats
const (
	JPEGQuality = 85
	WebPQuality = 85
)

// Mode selects how a thumbnail is fitted into the requested box.
type Mode string

const (
	// ModeAuto fits the image inside the box keeping its aspect ratio.
	ModeAuto Mode = "auto"
	// ModeCrop fills the box and crops the overflow around the center.
	ModeCrop Mode = "crop"
	// ModeExact resizes to exactly the box, ignoring the aspect ratio.
	ModeExact Mode = "exact"
)

// ParseMode maps s to a Mode; unknown values fall back to ModeAuto.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeCrop:
		return ModeCrop
	case ModeExact:
		return ModeExact
	default:
		return ModeAuto
	}
}

// NormalizeSize applies the default size to non-positive dimensions and
// clamps both to MaxThumbnailSize.
func NormalizeSize(width, height int) (int, int) {
	return normalizeDimension(width), normalizeDimension(height)
}

func normalizeDimension(v int) int {
	if v <= 0 {
		return DefaultThumbnailSize
	}
	if v > MaxThumbnailSize {
		return MaxThumbnailSize
	}
	return v
}

// Decode reads an image and applies its EXIF orientation.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}
	return img, nil
}

// Thumbnail scales img into a width x height box using mode.
func Thumbnail(img image.Image, width, height int, mode Mode) image.Image {
	width, height = NormalizeSize(width, height)
	switch mode {
	case ModeCrop:
		return imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)
	case ModeExact:
		return imaging.Resize(img, width, height, imaging.Lanczos)
	default:
		// Fit never upscales smaller images
		return imaging.Fit(img, width, height, imaging.Lanczos)
	}
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatWebP:
		options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, WebPQuality)
		if err != nil {
			return fmt.Errorf("error creating encoder options: %w", err)
		}
		if err := webp.Encode(w, img, options); err != nil {
			return fmt.Errorf("error encoding WebP image: %w", err)
		}
		return nil
	case FormatPNG:
		return imaging.Encode(w, img, imaging.PNG)
	default:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality))
	}
}

// RenderThumbnail decodes src, scales it and returns the encoded thumbnail.
func RenderThumbnail(src io.Reader, width, height int, mode Mode, format Format) ([]byte, error) {
	img, err := Decode(src)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, Thumbnail(img, width, height, mode), format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Dimensions reads only the image header.
func Dimensions(r io.Reader) (int, int, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, fmt.Errorf("error reading image dimensions: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
