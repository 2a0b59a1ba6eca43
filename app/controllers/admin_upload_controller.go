package controllers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PhotoAlbums/app/models"
	"github.com/ManuelReschke/PhotoAlbums/app/services"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/constants"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/plugin"
)

// AdminUploadController serves the bulk upload form.
type AdminUploadController struct {
	adminBase
}

func NewAdminUploadController(svc *services.Service, reg *plugin.Registration) *AdminUploadController {
	return &AdminUploadController{adminBase{svc: svc, reg: reg}}
}

// HandleForm shows the upload form with every album as a target.
func (uc *AdminUploadController) HandleForm(c *fiber.Ctx) error {
	var albums []models.Album
	for page := 1; ; page++ {
		p, err := uc.svc.ListAlbums(page, services.MaxPerPage)
		if err != nil {
			return err
		}
		albums = append(albums, p.Items...)
		if !p.HasNext() {
			break
		}
	}

	return uc.render(c, "admin/upload", "Upload photos", fiber.Map{
		"Albums": albums,
	})
}

// HandleUpload stores the posted files as photos of the chosen album.
func (uc *AdminUploadController) HandleUpload(c *fiber.Ctx) error {
	albumID, err := formID(c, "album_id")
	if err != nil {
		return fail(c, constants.AdminUploadRoute, err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, constants.AdminUploadRoute, services.NewValidationError("files", "select at least one file"))
	}
	files := make([]services.UploadFile, 0, len(form.File["files"]))
	for _, fh := range form.File["files"] {
		files = append(files, services.FromMultipart(fh))
	}

	result, err := uc.svc.UploadPhotos(c.UserContext(), albumID, files)
	if err != nil {
		return fail(c, constants.AdminUploadRoute, err)
	}

	target := editAlbumURL(albumID)
	if len(result.Errors) > 0 {
		failed := make([]string, 0, len(result.Errors))
		for _, fe := range result.Errors {
			failed = append(failed, fe.Error())
		}
		msg := fmt.Sprintf("%d of %d files uploaded. Failed: %s", len(result.Photos), len(files), strings.Join(failed, "; "))
		if len(result.Photos) == 0 {
			target = constants.AdminUploadRoute
		}
		return fail(c, target, services.NewValidationError("files", msg))
	}
	return success(c, target, fmt.Sprintf("%d photos uploaded", len(result.Photos)))
}
