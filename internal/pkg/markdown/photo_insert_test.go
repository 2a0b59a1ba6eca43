package markdown

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PhotoAlbums/app/models"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/events"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/media"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/storage"
)

type fakeFinder struct {
	photos map[uint]*models.Photo
	calls  int
}

func (f *fakeFinder) GetPhoto(id uint) (*models.Photo, error) {
	f.calls++
	if p, ok := f.photos[id]; ok {
		return p, nil
	}
	return nil, errors.New("record not found")
}

func newInsert(t *testing.T) (*PhotoInsert, *fakeFinder) {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 2, 2))))
	require.NoError(t, store.Save(context.Background(), "photos/lake.png", &buf, int64(buf.Len()), "image/png"))

	lake := &models.Photo{ID: 1, Title: "Lake"}
	lake.AttachImage("photos/lake.png")
	finder := &fakeFinder{photos: map[uint]*models.Photo{
		1: lake,
		2: {ID: 2, Title: "No image"},
	}}
	return NewPhotoInsert(finder, media.NewResolver(store, "")), finder
}

func TestParseReplacesTokens(t *testing.T) {
	insert, finder := newInsert(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"default size",
			"Look: [photo:1]",
			`Look: <img class="photoalbums-insert" src="/thumbs/640x480/auto/photos/lake.png" alt="Lake" />`,
		},
		{
			"size and crop",
			"[photo:1:100x80:crop]",
			`<img class="photoalbums-insert" src="/thumbs/100x80/crop/photos/lake.png" alt="Lake" width="100" height="80" />`,
		},
		{
			"size only",
			"[photo:1:300x300]",
			`<img class="photoalbums-insert" src="/thumbs/300x300/auto/photos/lake.png" alt="Lake" />`,
		},
		{"unknown photo removed", "a [photo:99] b", "a  b"},
		{"photo without image removed", "[photo:2]", ""},
		{"not a token", "[photo:x] [photo]", "[photo:x] [photo]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, insert.Parse(ctx, tt.in))
		})
	}

	finder.calls = 0
	insert.Parse(ctx, "[photo:1] [photo:1] [photo:1:10x10]")
	assert.Equal(t, 1, finder.calls, "each photo is loaded once per text")
}

func TestParseThroughDispatcher(t *testing.T) {
	insert, _ := newInsert(t)
	d := events.NewDispatcher()
	d.Listen(EventParse, insert.Listener())

	out, err := Parse(context.Background(), d, "[photo:99]text")
	require.NoError(t, err)
	assert.Equal(t, "text", out)

	err = insert.Listener()(context.Background(), "wrong payload")
	assert.Error(t, err)
}

func TestParseWithoutListeners(t *testing.T) {
	out, err := Parse(context.Background(), events.NewDispatcher(), "[photo:1]")
	require.NoError(t, err)
	assert.Equal(t, "[photo:1]", out)
}
