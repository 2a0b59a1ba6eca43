package plugin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PhotoAlbums/app/models"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/columns"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/events"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/markdown"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/media"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/storage"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/usercontext"
)

type noPhotos struct{}

func (noPhotos) GetPhoto(id uint) (*models.Photo, error) {
	return nil, errors.New("record not found")
}

func newRegistration(t *testing.T) *Registration {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return Register(noPhotos{}, media.NewResolver(store, ""))
}

var (
	manager = usercontext.UserContext{Username: "admin", IsLoggedIn: true, Permissions: []string{PermissionManageAlbums}}
	editor  = usercontext.UserContext{Username: "editor", IsLoggedIn: true, Permissions: []string{"blog.manage"}}
)

func TestRegistrationDetails(t *testing.T) {
	r := newRegistration(t)

	assert.Equal(t, "PhotoAlbums", r.Details.Name)
	require.Len(t, r.Permissions, 1)
	assert.Equal(t, PermissionManageAlbums, r.Permissions[0].Code)
	assert.Equal(t, "Manage photo albums", r.Permissions[0].Label)

	require.Len(t, r.Navigation, 1)
	nav := r.Navigation[0]
	assert.Equal(t, "Photo albums", nav.Label)
	assert.Equal(t, "/admin/photoalbums/albums", nav.URL)
	assert.Equal(t, 500, nav.Order)

	var codes []string
	for _, item := range nav.SideMenu {
		codes = append(codes, item.Code)
		assert.Equal(t, []string{PermissionManageAlbums}, item.Permissions)
	}
	assert.Equal(t, []string{"upload_photos", "new_album", "albums", "new_photo", "photos"}, codes)

	for _, alias := range []string{"singlePhoto", "photoAlbum", "albumList", "randomPhotos"} {
		_, ok := r.Component(alias)
		assert.True(t, ok, alias)
	}
	_, ok := r.Component("unknown")
	assert.False(t, ok)

	assert.Contains(t, r.ColumnTypes, columns.TypeIsFront)
	assert.Contains(t, r.ColumnTypes, columns.TypeImage)
}

func TestMenuFor(t *testing.T) {
	r := newRegistration(t)

	menu := r.MenuFor(manager)
	require.Len(t, menu, 1)
	assert.Len(t, menu[0].SideMenu, 5)

	assert.Empty(t, r.MenuFor(editor))
	assert.Empty(t, r.MenuFor(usercontext.UserContext{}))
	assert.Empty(t, r.MenuFor(nil))

	// filtering does not touch the registration
	assert.Len(t, r.Navigation[0].SideMenu, 5)
}

func TestAuthorize(t *testing.T) {
	r := newRegistration(t)

	assert.NoError(t, r.Authorize(manager, PermissionManageAlbums))
	assert.ErrorIs(t, r.Authorize(editor, PermissionManageAlbums), ErrPermissionDenied)
	assert.ErrorIs(t, r.Authorize(nil, PermissionManageAlbums), ErrPermissionDenied)

	loggedOut := manager
	loggedOut.IsLoggedIn = false
	assert.ErrorIs(t, r.Authorize(loggedOut, PermissionManageAlbums), ErrPermissionDenied)
}

func TestBootRegistersMarkdownListener(t *testing.T) {
	r := newRegistration(t)
	d := events.NewDispatcher()
	r.Boot(d)
	assert.True(t, d.HasListeners(markdown.EventParse))

	out, err := markdown.Parse(context.Background(), d, "before [photo:1] after")
	require.NoError(t, err)
	assert.Equal(t, "before  after", out)
}
