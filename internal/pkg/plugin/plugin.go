package plugin

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/columns"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/constants"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/events"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/markdown"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/media"
)

// PermissionManageAlbums grants the whole admin area.
const PermissionManageAlbums = "photoalbums.manage_albums"

// ErrPermissionDenied is returned by Authorize.
var ErrPermissionDenied = errors.New("permission denied")

// User is anything that can hold permissions.
type User interface {
	HasPermission(permission string) bool
}

type Details struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Icon        string `json:"icon"`
	Homepage    string `json:"homepage"`
}

type Permission struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Tab   string `json:"tab"`
}

// MenuItem is a backend navigation entry; SideMenu holds its children.
type MenuItem struct {
	Code        string     `json:"code"`
	Label       string     `json:"label"`
	URL         string     `json:"url"`
	Icon        string     `json:"icon"`
	Permissions []string   `json:"permissions"`
	Order       int        `json:"order"`
	SideMenu    []MenuItem `json:"side_menu,omitempty"`
}

// Component maps a public component alias onto the route that renders it.
type Component struct {
	Alias string `json:"alias"`
	Route string `json:"route"`
}

// Registration is the static description of the photo albums module.
type Registration struct {
	Details     Details
	Permissions []Permission
	Navigation  []MenuItem
	Components  []Component
	ColumnTypes map[string]columns.Renderer

	photoInsert *markdown.PhotoInsert
}

// Register builds the registration. photos and resolver back the column
// types and the markdown hook.
func Register(photos markdown.PhotoFinder, resolver *media.Resolver) *Registration {
	perm := []string{PermissionManageAlbums}

	return &Registration{
		Details: Details{
			Name:        "PhotoAlbums",
			Description: "Create, display and manage galleries of photos arranged in albums",
			Author:      "Graker",
			Icon:        "icon-camera-retro",
			Homepage:    "https://github.com/graker/photoalbums",
		},
		Permissions: []Permission{
			{Code: PermissionManageAlbums, Label: "Manage photo albums", Tab: "Photo albums"},
		},
		Navigation: []MenuItem{
			{
				Code:        "photoalbums",
				Label:       "Photo albums",
				URL:         constants.AdminAlbumsRoute,
				Icon:        "icon-camera-retro",
				Permissions: perm,
				Order:       500,
				SideMenu: []MenuItem{
					{Code: "upload_photos", Label: "Upload photos", Icon: "icon-upload", URL: constants.AdminUploadRoute, Permissions: perm},
					{Code: "new_album", Label: "New album", Icon: "icon-plus", URL: constants.AdminAlbumsCreate, Permissions: perm},
					{Code: "albums", Label: "Albums", Icon: "icon-copy", URL: constants.AdminAlbumsRoute, Permissions: perm},
					{Code: "new_photo", Label: "New photo", Icon: "icon-plus-square-o", URL: constants.AdminPhotosCreate, Permissions: perm},
					{Code: "photos", Label: "Photos", Icon: "icon-picture-o", URL: constants.AdminPhotosRoute, Permissions: perm},
				},
			},
		},
		Components: []Component{
			{Alias: "singlePhoto", Route: constants.PhotoRoute + "/:id"},
			{Alias: "photoAlbum", Route: constants.AlbumRoute + "/:slug"},
			{Alias: "albumList", Route: constants.AlbumListRoute},
			{Alias: "randomPhotos", Route: constants.RandomPhotosRoute},
		},
		ColumnTypes: columns.Types(resolver),
		photoInsert: markdown.NewPhotoInsert(photos, resolver),
	}
}

// Boot registers the event listeners.
func (r *Registration) Boot(d *events.Dispatcher) {
	d.Listen(markdown.EventParse, r.photoInsert.Listener())
}

// Component looks up a component by alias.
func (r *Registration) Component(alias string) (Component, bool) {
	for _, c := range r.Components {
		if c.Alias == alias {
			return c, true
		}
	}
	return Component{}, false
}

// Authorize returns ErrPermissionDenied unless user holds permission.
func (r *Registration) Authorize(user User, permission string) error {
	if user == nil || !user.HasPermission(permission) {
		return fmt.Errorf("%s: %w", permission, ErrPermissionDenied)
	}
	return nil
}

// MenuFor returns the navigation visible to user, ordered by Order.
func (r *Registration) MenuFor(user User) []MenuItem {
	var menu []MenuItem
	for _, item := range r.Navigation {
		if !allowed(user, item.Permissions) {
			continue
		}
		visible := item
		visible.SideMenu = nil
		for _, side := range item.SideMenu {
			if allowed(user, side.Permissions) {
				visible.SideMenu = append(visible.SideMenu, side)
			}
		}
		menu = append(menu, visible)
	}
	slices.SortStableFunc(menu, func(a, b MenuItem) int { return a.Order - b.Order })
	return menu
}

// allowed requires every listed permission.
func allowed(user User, permissions []string) bool {
	if len(permissions) == 0 {
		return true
	}
	if user == nil {
		return false
	}
	for _, p := range permissions {
		if !user.HasPermission(p) {
			return false
		}
	}
	return true
}
