package services_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PhotoAlbums/app/models"
	"github.com/ManuelReschke/PhotoAlbums/app/repository"
	"github.com/ManuelReschke/PhotoAlbums/app/services"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/database"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/storage"
)

type fixture struct {
	svc   *services.Service
	repos *repository.Repositories
	store *storage.LocalStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	repos := repository.NewRepositories(db)
	return &fixture{
		svc:   services.NewService(repos, store, services.WithUploadWorkers(2)),
		repos: repos,
		store: store,
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func (f *fixture) album(t *testing.T, title string) *models.Album {
	t.Helper()
	album, err := f.svc.CreateAlbum(services.AlbumInput{Title: title})
	require.NoError(t, err)
	return album
}

func (f *fixture) photo(t *testing.T, title string) *models.Photo {
	t.Helper()
	photo, err := f.svc.CreatePhoto(context.Background(), services.PhotoInput{Title: title}, nil)
	require.NoError(t, err)
	return photo
}

func TestSummerScenario(t *testing.T) {
	f := newFixture(t)

	summer := f.album(t, "Summer")
	p1, p2, p3 := f.photo(t, "P1"), f.photo(t, "P2"), f.photo(t, "P3")
	for _, p := range []*models.Photo{p1, p2, p3} {
		require.NoError(t, f.svc.AddPhotoToAlbum(summer.ID, p.ID))
	}

	require.NoError(t, f.svc.SetAlbumFront(summer.ID, p2.ID))

	album, err := f.svc.GetAlbum(summer.ID)
	require.NoError(t, err)
	assert.True(t, f.svc.IsFront(p2, album))
	assert.False(t, f.svc.IsFront(p1, album))
	assert.False(t, f.svc.IsFront(p3, album))

	// changing the front flips the result
	require.NoError(t, f.svc.SetAlbumFront(summer.ID, p3.ID))
	album, err = f.svc.GetAlbum(summer.ID)
	require.NoError(t, err)
	assert.False(t, f.svc.IsFront(p2, album))
	assert.True(t, f.svc.IsFront(p3, album))

	photos, err := f.svc.AlbumPhotos(summer.ID)
	require.NoError(t, err)
	assert.Len(t, photos, 3)
}

func TestSetAlbumFrontRequiresMembership(t *testing.T) {
	f := newFixture(t)

	summer := f.album(t, "Summer")
	outsider := f.photo(t, "outsider")

	err := f.svc.SetAlbumFront(summer.ID, outsider.ID)
	var vErr *services.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "front_photo_id", vErr.Field)

	album, err := f.svc.GetAlbum(summer.ID)
	require.NoError(t, err)
	assert.False(t, album.HasFront())

	assert.ErrorIs(t, f.svc.SetAlbumFront(999, outsider.ID), services.ErrNotFound)
	assert.ErrorIs(t, f.svc.SetAlbumFront(summer.ID, 999), services.ErrNotFound)
}

func TestClearAlbumFront(t *testing.T) {
	f := newFixture(t)

	summer := f.album(t, "Summer")
	p := f.photo(t, "P1")
	require.NoError(t, f.svc.AddPhotoToAlbum(summer.ID, p.ID))
	require.NoError(t, f.svc.SetAlbumFront(summer.ID, p.ID))
	require.NoError(t, f.svc.ClearAlbumFront(summer.ID))

	album, err := f.svc.GetAlbum(summer.ID)
	require.NoError(t, err)
	assert.False(t, album.IsFront(p))
	assert.ErrorIs(t, f.svc.ClearAlbumFront(999), services.ErrNotFound)
}

func TestRemovePhotoFromAlbumClearsFront(t *testing.T) {
	f := newFixture(t)

	summer := f.album(t, "Summer")
	p1, p2 := f.photo(t, "P1"), f.photo(t, "P2")
	require.NoError(t, f.svc.AddPhotoToAlbum(summer.ID, p1.ID))
	require.NoError(t, f.svc.AddPhotoToAlbum(summer.ID, p2.ID))
	require.NoError(t, f.svc.SetAlbumFront(summer.ID, p2.ID))

	// removing a non-front member keeps the front
	require.NoError(t, f.svc.RemovePhotoFromAlbum(summer.ID, p1.ID))
	album, err := f.svc.GetAlbum(summer.ID)
	require.NoError(t, err)
	assert.True(t, album.IsFront(p2))

	require.NoError(t, f.svc.RemovePhotoFromAlbum(summer.ID, p2.ID))
	album, err = f.svc.GetAlbum(summer.ID)
	require.NoError(t, err)
	assert.False(t, album.HasFront())
	assert.Empty(t, album.Photos)

	assert.ErrorIs(t, f.svc.RemovePhotoFromAlbum(999, p1.ID), services.ErrNotFound)
}

func TestDeletePhotoCascadeClearsFront(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	summer := f.album(t, "Summer")
	p1 := f.photo(t, "P1")
	file := services.FromBytes("p2.png", pngBytes(t, 20, 10))
	p2, err := f.svc.CreatePhoto(ctx, services.PhotoInput{Title: "P2"}, &file)
	require.NoError(t, err)
	key := p2.Image()
	require.NotEmpty(t, key)

	require.NoError(t, f.svc.AddPhotoToAlbum(summer.ID, p1.ID))
	require.NoError(t, f.svc.AddPhotoToAlbum(summer.ID, p2.ID))
	require.NoError(t, f.svc.SetAlbumFront(summer.ID, p2.ID))

	require.NoError(t, f.svc.DeletePhoto(ctx, p2.ID))

	album, err := f.svc.GetAlbum(summer.ID)
	require.NoError(t, err)
	assert.Nil(t, album.FrontPhotoID)
	assert.Nil(t, album.FrontPhoto)
	assert.Len(t, album.Photos, 1)

	exists, err := f.store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists, "stored image is deleted")

	_, err = f.svc.GetPhoto(p2.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.ErrorIs(t, f.svc.DeletePhoto(ctx, p2.ID), services.ErrNotFound)

	page, err := f.svc.ListAlbums(1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.Items[0].FrontPhoto)
}

func TestRandomPhotos(t *testing.T) {
	f := newFixture(t)

	ids := map[uint]bool{}
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		ids[f.photo(t, title).ID] = true
	}

	t.Run("zero is empty", func(t *testing.T) {
		seq, err := f.svc.RandomPhotos(0)
		require.NoError(t, err)
		count := 0
		for range seq {
			count++
		}
		assert.Zero(t, count)
	})

	t.Run("more than total yields every photo once", func(t *testing.T) {
		seq, err := f.svc.RandomPhotos(50)
		require.NoError(t, err)
		seen := map[uint]int{}
		for p := range seq {
			seen[p.ID]++
		}
		assert.Len(t, seen, len(ids))
		for id, n := range seen {
			assert.True(t, ids[id])
			assert.Equal(t, 1, n)
		}
	})

	t.Run("draws distinct photos", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			seq, err := f.svc.RandomPhotos(3)
			require.NoError(t, err)
			seen := map[uint]bool{}
			for p := range seq {
				assert.False(t, seen[p.ID])
				seen[p.ID] = true
			}
			assert.Len(t, seen, 3)
		}
	})

	t.Run("single use", func(t *testing.T) {
		seq, err := f.svc.RandomPhotos(2)
		require.NoError(t, err)
		first, second := 0, 0
		for range seq {
			first++
		}
		for range seq {
			second++
		}
		assert.Equal(t, 2, first)
		assert.Zero(t, second)
	})

	t.Run("early break", func(t *testing.T) {
		seq, err := f.svc.RandomPhotos(5)
		require.NoError(t, err)
		count := 0
		for range seq {
			count++
			break
		}
		assert.Equal(t, 1, count)
	})
}

func TestRandomPhotosEmptyStore(t *testing.T) {
	f := newFixture(t)
	seq, err := f.svc.RandomPhotos(4)
	require.NoError(t, err)
	for range seq {
		t.Fatal("no photos expected")
	}
}

func TestCreateAlbumValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateAlbum(services.AlbumInput{Title: "   "})
	var vErr *services.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "title", vErr.Field)

	_, err = f.svc.CreateAlbum(services.AlbumInput{Title: "Trip", Slug: "Not A Slug"})
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "slug", vErr.Field)
}

func TestCreateAlbumSlugs(t *testing.T) {
	f := newFixture(t)

	first := f.album(t, "Summer Trip")
	second := f.album(t, "Summer trip!")
	assert.Equal(t, "summer-trip", first.Slug)
	assert.Equal(t, "summer-trip-2", second.Slug)

	_, err := f.svc.CreateAlbum(services.AlbumInput{Title: "Other", Slug: "summer-trip"})
	assert.True(t, services.IsValidation(err))

	found, err := f.svc.GetAlbumBySlug("summer-trip-2")
	require.NoError(t, err)
	assert.Equal(t, second.ID, found.ID)

	_, err = f.svc.GetAlbumBySlug("missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUpdateAndDeleteAlbum(t *testing.T) {
	f := newFixture(t)

	album := f.album(t, "Summer")
	updated, err := f.svc.UpdateAlbum(album.ID, services.AlbumInput{Title: "Summer", Slug: "summer", Description: "Beach days"})
	require.NoError(t, err)
	assert.Equal(t, "Beach days", updated.Description)
	assert.Equal(t, "summer", updated.Slug, "keeping the own slug is allowed")

	_, err = f.svc.UpdateAlbum(999, services.AlbumInput{Title: "x"})
	assert.ErrorIs(t, err, services.ErrNotFound)

	require.NoError(t, f.svc.DeleteAlbum(album.ID))
	_, err = f.svc.GetAlbum(album.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteAlbum(album.ID), services.ErrNotFound)
}

func TestListPaging(t *testing.T) {
	f := newFixture(t)
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		f.album(t, title)
		f.photo(t, title)
	}

	page, err := f.svc.ListAlbums(2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasPrev())
	assert.True(t, page.HasNext())

	page, err = f.svc.ListAlbums(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, services.DefaultPerPage, page.PerPage)

	photos, err := f.svc.ListPhotos(3, 2)
	require.NoError(t, err)
	assert.Len(t, photos.Items, 1)
	assert.False(t, photos.HasNext())
}

func TestUpdatePhotoReplacesImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := services.FromBytes("a.png", pngBytes(t, 30, 20))
	photo, err := f.svc.CreatePhoto(ctx, services.PhotoInput{Title: "lake"}, &first)
	require.NoError(t, err)
	assert.Equal(t, 30, photo.Width)
	assert.Equal(t, 20, photo.Height)
	assert.Equal(t, "image/png", photo.FileType)
	oldKey := photo.Image()

	second := services.FromBytes("b.png", pngBytes(t, 8, 8))
	updated, err := f.svc.UpdatePhoto(ctx, photo.ID, services.PhotoInput{Title: "lake at dawn"}, &second)
	require.NoError(t, err)
	assert.NotEqual(t, oldKey, updated.Image())
	assert.Equal(t, "b.png", updated.FileName)

	exists, err := f.store.Exists(ctx, oldKey)
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = f.store.Exists(ctx, updated.Image())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreatePhotoRejectsInvalidFile(t *testing.T) {
	f := newFixture(t)

	bad := services.FromBytes("evil.jpg", []byte("<!DOCTYPE html><script>alert(1)</script>"))
	_, err := f.svc.CreatePhoto(context.Background(), services.PhotoInput{}, &bad)
	var vErr *services.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "file", vErr.Field)

	count, err := f.repos.Photo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUploadPhotos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	summer := f.album(t, "Summer")

	files := []services.UploadFile{
		services.FromBytes("one.png", pngBytes(t, 10, 10)),
		services.FromBytes("notes.txt", []byte("hello")),
		services.FromBytes("two.png", pngBytes(t, 12, 6)),
	}

	result, err := f.svc.UploadPhotos(ctx, summer.ID, files)
	require.NoError(t, err)
	require.Len(t, result.Photos, 2)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "notes.txt", result.Errors[0].FileName)
	assert.True(t, services.IsValidation(result.Errors[0]))

	assert.Equal(t, "one.png", result.Photos[0].FileName)
	assert.Equal(t, "two.png", result.Photos[1].FileName)
	assert.Equal(t, "one.png", result.Photos[0].DisplayTitle())

	photos, err := f.svc.AlbumPhotos(summer.ID)
	require.NoError(t, err)
	assert.Len(t, photos, 2)

	for _, p := range result.Photos {
		exists, err := f.store.Exists(ctx, p.Image())
		require.NoError(t, err)
		assert.True(t, exists)
	}

	_, err = f.svc.UploadPhotos(ctx, 999, files)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = f.svc.UploadPhotos(ctx, summer.ID, nil)
	assert.True(t, services.IsValidation(err))
}

func TestPhotosNotInAlbum(t *testing.T) {
	f := newFixture(t)
	summer := f.album(t, "Summer")
	p1 := f.photo(t, "P1")
	p2 := f.photo(t, "P2")
	require.NoError(t, f.svc.AddPhotoToAlbum(summer.ID, p1.ID))

	photos, err := f.svc.PhotosNotInAlbum(summer.ID)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, p2.ID, photos[0].ID)

	_, err = f.svc.PhotosNotInAlbum(999)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestDeletePhotoRemovesThumbnails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file := services.FromBytes("a.png", pngBytes(t, 10, 10))
	photo, err := f.svc.CreatePhoto(ctx, services.PhotoInput{Title: "lake"}, &file)
	require.NoError(t, err)
	thumb := storage.ThumbnailPrefix(photo.Image()) + "100x100-auto.png"
	require.NoError(t, f.store.Save(ctx, thumb, bytes.NewReader([]byte("x")), 1, "image/png"))

	require.NoError(t, f.svc.DeletePhoto(ctx, photo.ID))

	for _, key := range []string{photo.Image(), thumb} {
		exists, err := f.store.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, exists, key)
	}
}
