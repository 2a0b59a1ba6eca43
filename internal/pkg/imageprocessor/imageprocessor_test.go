package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PhotoAlbums/app/models"
)

func testImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeAuto, ParseMode(""))
	assert.Equal(t, ModeAuto, ParseMode("stretch"))
	assert.Equal(t, ModeCrop, ParseMode("CROP"))
	assert.Equal(t, ModeExact, ParseMode(" exact "))
}

func TestNormalizeSize(t *testing.T) {
	w, h := NormalizeSize(0, -5)
	assert.Equal(t, DefaultThumbnailSize, w)
	assert.Equal(t, DefaultThumbnailSize, h)

	w, h = NormalizeSize(5000, 120)
	assert.Equal(t, MaxThumbnailSize, w)
	assert.Equal(t, 120, h)
}

func TestThumbnailModes(t *testing.T) {
	src := testImage(400, 200)

	tests := []struct {
		mode  Mode
		wantW int
		wantH int
	}{
		{ModeAuto, 100, 50},
		{ModeCrop, 100, 100},
		{ModeExact, 100, 100},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			thumb := Thumbnail(src, 100, 100, tt.mode)
			assert.Equal(t, tt.wantW, thumb.Bounds().Dx())
			assert.Equal(t, tt.wantH, thumb.Bounds().Dy())
		})
	}
}

func TestRenderThumbnailPNG(t *testing.T) {
	data := encodePNG(t, testImage(300, 300))

	out, err := RenderThumbnail(bytes.NewReader(data), 0, 0, ModeAuto, FormatPNG)
	require.NoError(t, err)

	w, h, err := Dimensions(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, DefaultThumbnailSize, w)
	assert.Equal(t, DefaultThumbnailSize, h)
}

func TestRenderThumbnailRejectsGarbage(t *testing.T) {
	_, err := RenderThumbnail(bytes.NewReader([]byte("not an image")), 10, 10, ModeAuto, FormatJPEG)
	assert.Error(t, err)
}

func TestNegotiateFormat(t *testing.T) {
	assert.Equal(t, FormatWebP, NegotiateFormat("image/avif,image/webp,*/*", "photos/a.jpg"))
	assert.Equal(t, FormatPNG, NegotiateFormat("*/*", "photos/a.png"))
	assert.Equal(t, FormatJPEG, NegotiateFormat("", "photos/a.jpeg"))
	assert.Equal(t, "image/webp", FormatWebP.ContentType())
	assert.Equal(t, ".jpg", FormatJPEG.Extension())
}

func TestExtractMetadataWithoutExif(t *testing.T) {
	photo := &models.Photo{UUID: "test"}
	data := encodePNG(t, testImage(10, 10))

	require.NoError(t, ExtractMetadata(photo, bytes.NewReader(data)))
	assert.Nil(t, photo.CameraModel)
	assert.Nil(t, photo.TakenAt)
}
