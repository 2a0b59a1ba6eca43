package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func TestAlbumIsFront(t *testing.T) {
	p1 := &Photo{ID: 1}
	p2 := &Photo{ID: 2}
	album := &Album{FrontPhotoID: uintPtr(2)}

	assert.True(t, album.IsFront(p2))
	assert.False(t, album.IsFront(p1))

	album.FrontPhotoID = uintPtr(1)
	assert.True(t, album.IsFront(p1))
	assert.False(t, album.IsFront(p2), "changing the front id must flip the result")

	album.FrontPhotoID = nil
	assert.False(t, album.IsFront(p1))
	assert.False(t, album.IsFront(nil))
	assert.False(t, (*Album)(nil).IsFront(p1))
}

func TestAlbumFrontID(t *testing.T) {
	assert.Equal(t, uint(0), (&Album{}).FrontID())
	assert.Equal(t, uint(0), (&Album{FrontPhotoID: uintPtr(0)}).FrontID())
	assert.Equal(t, uint(7), (&Album{FrontPhotoID: uintPtr(7)}).FrontID())
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Summer 2024":         "summer-2024",
		"  Trip -- to Rome! ": "trip-to-rome",
		"Ärger":               "rger",
		"!!!":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestPhotoImageReference(t *testing.T) {
	p := &Photo{}
	assert.False(t, p.HasImage())
	assert.Equal(t, "", p.Image())

	p.AttachImage("photos/abc.jpg")
	assert.True(t, p.HasImage())
	assert.Equal(t, "photos/abc.jpg", p.Image())

	p.AttachImage("")
	assert.False(t, p.HasImage())
	assert.Nil(t, p.ImageKey)

	var missing *Photo
	assert.False(t, missing.HasImage())
}

func TestPhotoDisplayTitle(t *testing.T) {
	assert.Equal(t, "Beach", (&Photo{Title: "Beach", FileName: "IMG_1.jpg"}).DisplayTitle())
	assert.Equal(t, "IMG_1.jpg", (&Photo{FileName: "IMG_1.jpg"}).DisplayTitle())
	assert.Equal(t, "Untitled", (&Photo{}).DisplayTitle())
}
