package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/ManuelReschke/PhotoAlbums/app/services"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/columns"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/constants"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/plugin"
)

var previewThumb = columns.Config{Width: 320, Height: 240}

// AdminPhotoController serves the photo pages of the admin area.
type AdminPhotoController struct {
	adminBase
}

func NewAdminPhotoController(svc *services.Service, reg *plugin.Registration) *AdminPhotoController {
	return &AdminPhotoController{adminBase{svc: svc, reg: reg}}
}

func editPhotoURL(id uint) string {
	return fmt.Sprintf("%s/edit/%d", constants.AdminPhotosRoute, id)
}

// postedFile returns the optional "file" upload of the form.
func postedFile(c *fiber.Ctx) (*services.UploadFile, error) {
	fh, err := c.FormFile("file")
	if errors.Is(err, fasthttp.ErrMissingFile) || errors.Is(err, fasthttp.ErrNoMultipartForm) {
		return nil, nil
	}
	if err != nil {
		return nil, services.NewValidationError("file", "could not read the uploaded file")
	}
	if fh.Size == 0 && fh.Filename == "" {
		return nil, nil
	}
	file := services.FromMultipart(fh)
	return &file, nil
}

// HandleIndex lists the photos page by page.
func (pc *AdminPhotoController) HandleIndex(c *fiber.Ctx) error {
	page, err := pc.svc.ListPhotos(c.QueryInt("page", 1), services.DefaultPerPage)
	if err != nil {
		return err
	}

	rows := make([]photoRow, 0, len(page.Items))
	for i := range page.Items {
		photo := &page.Items[i]
		rows = append(rows, photoRow{
			ID:      photo.ID,
			Title:   photo.DisplayTitle(),
			Size:    formatSize(photo.FileSize),
			Created: formatDate(photo.CreatedAt),
			Image:   pc.cell(c, columns.TypeImage, nil, listThumb, photo),
		})
	}

	return pc.render(c, "admin/photos/index", "Photos", fiber.Map{
		"Page":    page,
		"Rows":    rows,
		"BaseURL": constants.AdminPhotosRoute,
	})
}

// HandleCreate shows the empty photo form.
func (pc *AdminPhotoController) HandleCreate(c *fiber.Ctx) error {
	return pc.render(c, "admin/photos/form", "New photo", fiber.Map{
		"Photo":  nil,
		"Action": constants.AdminPhotosRoute + "/store",
	})
}

// HandleStore creates a photo, with or without a file.
func (pc *AdminPhotoController) HandleStore(c *fiber.Ctx) error {
	var in services.PhotoInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, constants.AdminPhotosCreate, services.NewValidationError("", "invalid form data"))
	}
	file, err := postedFile(c)
	if err != nil {
		return fail(c, constants.AdminPhotosCreate, err)
	}

	photo, err := pc.svc.CreatePhoto(c.UserContext(), in, file)
	if err != nil {
		return fail(c, constants.AdminPhotosCreate, err)
	}
	return success(c, editPhotoURL(photo.ID), "Photo created")
}

// HandleEdit shows the photo form with a preview of the current image.
func (pc *AdminPhotoController) HandleEdit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, constants.AdminPhotosRoute, err)
	}
	photo, err := pc.svc.GetPhoto(id)
	if err != nil {
		return fail(c, constants.AdminPhotosRoute, err)
	}

	return pc.render(c, "admin/photos/form", "Edit photo", fiber.Map{
		"Photo":  photo,
		"Action": fmt.Sprintf("%s/update/%d", constants.AdminPhotosRoute, photo.ID),
		"Image":  pc.cell(c, columns.TypeImage, nil, previewThumb, photo),
	})
}

// HandleUpdate saves the photo form. A posted file replaces the image.
func (pc *AdminPhotoController) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, constants.AdminPhotosRoute, err)
	}
	var in services.PhotoInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, editPhotoURL(id), services.NewValidationError("", "invalid form data"))
	}
	file, err := postedFile(c)
	if err != nil {
		return fail(c, editPhotoURL(id), err)
	}

	if _, err := pc.svc.UpdatePhoto(c.UserContext(), id, in, file); err != nil {
		return fail(c, editPhotoURL(id), err)
	}
	return success(c, editPhotoURL(id), "Photo saved")
}

// HandleDelete removes a photo from every album and deletes it.
func (pc *AdminPhotoController) HandleDelete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, constants.AdminPhotosRoute, err)
	}
	if err := pc.svc.DeletePhoto(c.UserContext(), id); err != nil {
		return fail(c, constants.AdminPhotosRoute, err)
	}
	return success(c, constants.AdminPhotosRoute, "Photo deleted")
}
