package controllers

import (
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PhotoAlbums/app/services"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/columns"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/constants"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/plugin"
)

var (
	listThumb     = columns.Config{Width: 60, Height: 60}
	relationThumb = columns.Config{Width: 100, Height: 100}
)

type albumRow struct {
	ID      uint
	Title   string
	Slug    string
	Created string
	Image   template.HTML
}

type photoRow struct {
	ID      uint
	Title   string
	Size    string
	Created string
	IsFront string
	Image   template.HTML
}

// AdminAlbumController serves the album pages of the admin area.
type AdminAlbumController struct {
	adminBase
}

func NewAdminAlbumController(svc *services.Service, reg *plugin.Registration) *AdminAlbumController {
	return &AdminAlbumController{adminBase{svc: svc, reg: reg}}
}

func editAlbumURL(id uint) string {
	return fmt.Sprintf("%s/edit/%d", constants.AdminAlbumsRoute, id)
}

// HandleIndex lists the albums page by page.
func (ac *AdminAlbumController) HandleIndex(c *fiber.Ctx) error {
	page, err := ac.svc.ListAlbums(c.QueryInt("page", 1), services.DefaultPerPage)
	if err != nil {
		return err
	}

	rows := make([]albumRow, 0, len(page.Items))
	for i := range page.Items {
		album := &page.Items[i]
		rows = append(rows, albumRow{
			ID:      album.ID,
			Title:   album.Title,
			Slug:    album.Slug,
			Created: formatDate(album.CreatedAt),
			Image:   ac.cell(c, columns.TypeImage, nil, listThumb, album.FrontPhoto),
		})
	}

	return ac.render(c, "admin/albums/index", "Albums", fiber.Map{
		"Page":    page,
		"Rows":    rows,
		"BaseURL": constants.AdminAlbumsRoute,
	})
}

// HandleCreate shows the empty album form.
func (ac *AdminAlbumController) HandleCreate(c *fiber.Ctx) error {
	return ac.render(c, "admin/albums/form", "New album", fiber.Map{
		"Album":  nil,
		"Action": constants.AdminAlbumsRoute + "/store",
	})
}

// HandleStore creates an album from the posted form.
func (ac *AdminAlbumController) HandleStore(c *fiber.Ctx) error {
	var in services.AlbumInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, constants.AdminAlbumsCreate, services.NewValidationError("", "invalid form data"))
	}

	album, err := ac.svc.CreateAlbum(in)
	if err != nil {
		return fail(c, constants.AdminAlbumsCreate, err)
	}
	return success(c, editAlbumURL(album.ID), "Album created")
}

// HandleEdit shows the album form together with the photos relation list.
func (ac *AdminAlbumController) HandleEdit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, constants.AdminAlbumsRoute, err)
	}
	album, err := ac.svc.GetAlbum(id)
	if err != nil {
		return fail(c, constants.AdminAlbumsRoute, err)
	}
	members, err := ac.svc.AlbumPhotos(id)
	if err != nil {
		return fail(c, constants.AdminAlbumsRoute, err)
	}

	rows := make([]photoRow, 0, len(members))
	for i := range members {
		photo := &members[i]
		rows = append(rows, photoRow{
			ID:      photo.ID,
			Title:   photo.DisplayTitle(),
			IsFront: string(ac.cell(c, columns.TypeIsFront, album.FrontPhotoID, columns.Config{}, photo)),
			Image:   ac.cell(c, columns.TypeImage, nil, relationThumb, photo),
		})
	}

	candidates, err := ac.svc.PhotosNotInAlbum(album.ID)
	if err != nil {
		return fail(c, constants.AdminAlbumsRoute, err)
	}

	return ac.render(c, "admin/albums/form", "Edit album", fiber.Map{
		"Album":      album,
		"Action":     fmt.Sprintf("%s/update/%d", constants.AdminAlbumsRoute, album.ID),
		"Rows":       rows,
		"Candidates": candidates,
	})
}

// HandleUpdate saves the album form.
func (ac *AdminAlbumController) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, constants.AdminAlbumsRoute, err)
	}
	var in services.AlbumInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, editAlbumURL(id), services.NewValidationError("", "invalid form data"))
	}

	if _, err := ac.svc.UpdateAlbum(id, in); err != nil {
		return fail(c, editAlbumURL(id), err)
	}
	return success(c, editAlbumURL(id), "Album saved")
}

// HandleDelete removes an album. Its photos stay.
func (ac *AdminAlbumController) HandleDelete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, constants.AdminAlbumsRoute, err)
	}
	if err := ac.svc.DeleteAlbum(id); err != nil {
		return fail(c, constants.AdminAlbumsRoute, err)
	}
	return success(c, constants.AdminAlbumsRoute, "Album deleted")
}

// HandleAddPhoto adds the posted photo_id to the album.
func (ac *AdminAlbumController) HandleAddPhoto(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, constants.AdminAlbumsRoute, err)
	}
	photoID, err := formID(c, "photo_id")
	if err != nil {
		return fail(c, editAlbumURL(id), err)
	}
	if err := ac.svc.AddPhotoToAlbum(id, photoID); err != nil {
		return fail(c, editAlbumURL(id), err)
	}
	return success(c, editAlbumURL(id), "Photo added")
}

// HandleRemovePhoto drops a photo from the album.
func (ac *AdminAlbumController) HandleRemovePhoto(c *fiber.Ctx) error {
	id, photoID, err := albumPhotoParams(c)
	if err != nil {
		return fail(c, constants.AdminAlbumsRoute, err)
	}
	if err := ac.svc.RemovePhotoFromAlbum(id, photoID); err != nil {
		return fail(c, editAlbumURL(id), err)
	}
	return success(c, editAlbumURL(id), "Photo removed from album")
}

// HandleSetFront makes a member the album's front photo.
func (ac *AdminAlbumController) HandleSetFront(c *fiber.Ctx) error {
	id, photoID, err := albumPhotoParams(c)
	if err != nil {
		return fail(c, constants.AdminAlbumsRoute, err)
	}
	if err := ac.svc.SetAlbumFront(id, photoID); err != nil {
		return fail(c, editAlbumURL(id), err)
	}
	return success(c, editAlbumURL(id), "Front photo set")
}

// HandleClearFront unsets the front photo.
func (ac *AdminAlbumController) HandleClearFront(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, constants.AdminAlbumsRoute, err)
	}
	if err := ac.svc.ClearAlbumFront(id); err != nil {
		return fail(c, editAlbumURL(id), err)
	}
	return success(c, editAlbumURL(id), "Front photo cleared")
}

func albumPhotoParams(c *fiber.Ctx) (uint, uint, error) {
	id, err := parseID(c, "id")
	if err != nil {
		return 0, 0, err
	}
	photoID, err := parseID(c, "photo_id")
	if err != nil {
		return 0, 0, err
	}
	return id, photoID, nil
}
