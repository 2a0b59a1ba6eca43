package columns

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PhotoAlbums/app/models"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/media"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/storage"
)

func TestIsFront(t *testing.T) {
	p2 := &models.Photo{ID: 2}
	front := uint(2)
	other := uint(3)

	assert.Equal(t, "Yes", IsFront(uint(2), p2))
	assert.Equal(t, "Yes", IsFront(&front, p2))
	assert.Equal(t, "Yes", IsFront(2, p2))
	assert.Equal(t, "", IsFront(&other, p2))
	assert.Equal(t, "", IsFront(nil, p2))
	assert.Equal(t, "", IsFront((*uint)(nil), p2))
	assert.Equal(t, "", IsFront(0, &models.Photo{}))
	assert.Equal(t, "", IsFront("2", p2))
	assert.Equal(t, "", IsFront(uint(2), nil))
}

func newResolver(t *testing.T) *media.Resolver {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 4))))
	require.NoError(t, store.Save(context.Background(), "photos/p.png", &buf, int64(buf.Len()), "image/png"))
	return media.NewResolver(store, "")
}

func TestImageColumn(t *testing.T) {
	ctx := context.Background()
	resolver := newResolver(t)
	photo := &models.Photo{ID: 1}
	photo.AttachImage("photos/p.png")

	t.Run("defaults to 200x200", func(t *testing.T) {
		assert.Equal(t, `<img src="/thumbs/200x200/auto/photos/p.png" />`, Image(ctx, Config{}, photo, resolver))
	})

	t.Run("uses the column config", func(t *testing.T) {
		assert.Equal(t, `<img src="/thumbs/64x48/auto/photos/p.png" />`, Image(ctx, Config{Width: 64, Height: 48}, photo, resolver))
	})

	t.Run("no image", func(t *testing.T) {
		assert.Equal(t, `<img src="" />`, Image(ctx, Config{}, &models.Photo{ID: 2}, resolver))
	})

	t.Run("missing asset", func(t *testing.T) {
		gone := &models.Photo{ID: 3}
		gone.AttachImage("photos/deleted.png")
		assert.Equal(t, `<img src="" />`, Image(ctx, Config{}, gone, resolver))
	})
}

func TestTypesRegistry(t *testing.T) {
	ctx := context.Background()
	types := Types(newResolver(t))
	require.Contains(t, types, TypeIsFront)
	require.Contains(t, types, TypeImage)

	photo := &models.Photo{ID: 5}
	assert.Equal(t, "Yes", types[TypeIsFront](ctx, uint(5), Config{}, photo))
	assert.Equal(t, `<img src="" />`, types[TypeImage](ctx, nil, Config{}, photo))
}
