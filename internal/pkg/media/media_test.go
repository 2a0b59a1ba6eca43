package media

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PhotoAlbums/app/models"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/imageprocessor"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/storage"
)

func newStore(t *testing.T) storage.Store {
	t.Helper()
	local, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return storage.WithExistenceCache(local, nil)
}

func savePNG(t *testing.T, store storage.Store, key string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))))
	require.NoError(t, store.Save(context.Background(), key, &buf, int64(buf.Len()), "image/png"))
}

func photoWithImage(key string) *models.Photo {
	p := &models.Photo{ID: 7}
	p.AttachImage(key)
	return p
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	savePNG(t, store, "photos/a.png", 50, 50)
	r := NewResolver(store, "")

	t.Run("defaults to 200x200 auto", func(t *testing.T) {
		assert.Equal(t, "/thumbs/200x200/auto/photos/a.png", r.Resolve(ctx, photoWithImage("photos/a.png"), 0, 0, ""))
	})

	t.Run("mode and clamp", func(t *testing.T) {
		assert.Equal(t, "/thumbs/2000x120/crop/photos/a.png", r.Resolve(ctx, photoWithImage("photos/a.png"), 9000, 120, "crop"))
		assert.Equal(t, "/thumbs/100x100/auto/photos/a.png", r.Resolve(ctx, photoWithImage("photos/a.png"), 100, 100, "bogus"))
	})

	t.Run("no image", func(t *testing.T) {
		assert.Equal(t, "", r.Resolve(ctx, &models.Photo{ID: 1}, 200, 200, "auto"))
	})

	t.Run("nil photo", func(t *testing.T) {
		assert.Equal(t, "", r.Resolve(ctx, nil, 200, 200, "auto"))
	})

	t.Run("missing asset", func(t *testing.T) {
		assert.Equal(t, "", r.Resolve(ctx, photoWithImage("photos/gone.png"), 200, 200, "auto"))
	})

	t.Run("nil resolver", func(t *testing.T) {
		var nilResolver *Resolver
		assert.Equal(t, "", nilResolver.Resolve(ctx, photoWithImage("photos/a.png"), 200, 200, "auto"))
	})
}

func TestResolveWithPublicDomain(t *testing.T) {
	store := newStore(t)
	savePNG(t, store, "photos/a.png", 10, 10)
	r := NewResolver(store, "https://photos.example.com/")

	assert.Equal(t, "https://photos.example.com/thumbs/200x200/auto/photos/a.png",
		r.Resolve(context.Background(), photoWithImage("photos/a.png"), 200, 200, "auto"))
}

func TestParseSize(t *testing.T) {
	w, h, err := ParseSize("120X80")
	require.NoError(t, err)
	assert.Equal(t, 120, w)
	assert.Equal(t, 80, h)

	for _, bad := range []string{"", "120", "ax80", "120xb"} {
		_, _, err := ParseSize(bad)
		assert.Error(t, err, bad)
	}
}

func TestThumbnailHandler(t *testing.T) {
	store := newStore(t)
	savePNG(t, store, "photos/a.png", 400, 200)

	app := fiber.New()
	app.Get("/thumbs/:size/:mode/*", NewThumbnailHandler(store, nil).Handle)

	t.Run("renders and caches png", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/thumbs/100x100/auto/photos/a.png", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType))

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		w, h, err := imageprocessor.Dimensions(bytes.NewReader(body))
		require.NoError(t, err)
		assert.Equal(t, 100, w)
		assert.Equal(t, 50, h)

		exists, err := store.Exists(context.Background(), "thumbs/photos/a.png/100x100-auto.png")
		require.NoError(t, err)
		assert.True(t, exists)

		// second request is served from the stored thumbnail
		resp, err = app.Test(httptest.NewRequest("GET", "/thumbs/100x100/auto/photos/a.png", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("crop", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/thumbs/60x60/crop/photos/a.png", nil), -1)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		w, h, err := imageprocessor.Dimensions(bytes.NewReader(body))
		require.NoError(t, err)
		assert.Equal(t, 60, w)
		assert.Equal(t, 60, h)
	})

	t.Run("missing asset", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/thumbs/100x100/auto/photos/missing.png", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("bad size", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/thumbs/big/auto/photos/a.png", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("thumbnails of thumbnails are refused", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/thumbs/10x10/auto/thumbs/photos/a.png/100x100-auto.png", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestSignedThumbnails(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	savePNG(t, store, "photos/a.png", 40, 40)

	signer := NewSigner([]byte("secret"))
	r := NewResolver(store, "", WithSigner(signer))
	assert.Same(t, signer, r.Signer())

	app := fiber.New()
	app.Get("/thumbs/:size/:mode/*", NewThumbnailHandler(store, r.Signer()).Handle)

	get := func(target string) int {
		resp, err := app.Test(httptest.NewRequest("GET", target, nil), -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	u := r.Resolve(ctx, photoWithImage("photos/a.png"), 100, 100, "crop")
	assert.True(t, strings.HasPrefix(u, "/thumbs/100x100/crop/photos/a.png?"+SignatureParam+"="), u)
	assert.Equal(t, fiber.StatusOK, get(u))

	sig := signer.Sign("photos/a.png", 100, 100, imageprocessor.ModeCrop)
	assert.Equal(t, fiber.StatusForbidden, get("/thumbs/100x100/crop/photos/a.png"), "unsigned")
	assert.Equal(t, fiber.StatusForbidden, get("/thumbs/1999x1999/crop/photos/a.png?s="+sig), "other size")
	assert.Equal(t, fiber.StatusForbidden, get("/thumbs/100x100/exact/photos/a.png?s="+sig), "other mode")

	other := NewSigner([]byte("other"))
	assert.False(t, other.Verify("photos/a.png", 100, 100, imageprocessor.ModeCrop, sig))

	var none *Signer
	assert.Empty(t, none.Sign("photos/a.png", 100, 100, imageprocessor.ModeCrop))
	assert.True(t, none.Verify("photos/a.png", 100, 100, imageprocessor.ModeCrop, ""))
}

func TestNewRandomSigner(t *testing.T) {
	a, err := NewRandomSigner()
	require.NoError(t, err)
	b, err := NewRandomSigner()
	require.NoError(t, err)
	assert.NotEqual(t,
		a.Sign("photos/a.png", 10, 10, imageprocessor.ModeAuto),
		b.Sign("photos/a.png", 10, 10, imageprocessor.ModeAuto))
}
