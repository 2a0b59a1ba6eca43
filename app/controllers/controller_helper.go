package controllers

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sujit-baniya/flash"

	"github.com/ManuelReschke/PhotoAlbums/app/services"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/columns"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/constants"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/plugin"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/usercontext"
)

// CSRFContextKey is the Locals key the csrf middleware stores its token under.
const CSRFContextKey = "csrf"

// parseID reads a positive numeric route parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, services.NewValidationError(name, fmt.Sprintf("invalid id %q", c.Params(name)))
	}
	return uint(id), nil
}

// formID reads a positive numeric form value.
func formID(c *fiber.Ctx, name string) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.FormValue(name), &id); err != nil || id == 0 {
		return 0, services.NewValidationError(name, "please choose an entry")
	}
	return id, nil
}

// errorStatus maps the service error vocabulary onto a status code and an
// error code for JSON responses.
func errorStatus(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, strings.ToLower(strings.ReplaceAll(utils.StatusMessage(fe.Code), " ", "_"))
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, "not_found"
	case services.IsValidation(err):
		return fiber.StatusUnprocessableEntity, "validation_failed"
	case errors.Is(err, plugin.ErrPermissionDenied):
		return fiber.StatusForbidden, "forbidden"
	default:
		return fiber.StatusInternalServerError, "internal_error"
	}
}

// APIError writes err as {"error": code, "message": text}.
func APIError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Errorf("[API] %s %s: %v", c.Method(), c.Path(), err)
		message = utils.StatusMessage(status)
	}
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

// ErrorHandler is the app wide fiber error handler. Requests below the API
// prefix get JSON, everything else the error page.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if strings.HasPrefix(c.Path(), constants.APIRoute) {
		return APIError(c, err)
	}

	status, _ := errorStatus(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Errorf("[HTTP] %s %s: %v", c.Method(), c.Path(), err)
		message = utils.StatusMessage(status)
	}

	c.Status(status)
	data := fiber.Map{
		"Title":   utils.StatusMessage(status),
		"Code":    status,
		"Message": message,
	}
	if rerr := c.Render("errors/error", data, "layouts/public"); rerr != nil {
		return c.SendString(message)
	}
	return nil
}

// adminBase holds what every admin controller needs to render a page.
type adminBase struct {
	svc *services.Service
	reg *plugin.Registration
}

func (b adminBase) render(c *fiber.Ctx, view, title string, data fiber.Map) error {
	user := usercontext.GetUserContext(c)
	csrf, _ := c.Locals(CSRFContextKey).(string)

	data["Title"] = title
	data["User"] = user
	data["Menu"] = b.reg.MenuFor(user)
	data["Flash"] = flash.Get(c)
	data["CSRF"] = csrf
	return c.Render(view, data, "layouts/admin")
}

// cell renders one list cell with a registered column type.
func (b adminBase) cell(c *fiber.Ctx, columnType string, value any, cfg columns.Config, record columns.Record) template.HTML {
	render, ok := b.reg.ColumnTypes[columnType]
	if !ok {
		log.Warnf("[Columns] Unknown column type %q", columnType)
		return ""
	}
	return template.HTML(render(c.UserContext(), value, cfg, record))
}

// fail flashes err and redirects. Unexpected errors are logged.
func fail(c *fiber.Ctx, redirect string, err error) error {
	if status, _ := errorStatus(err); status == fiber.StatusInternalServerError {
		log.Errorf("[Admin] %s %s: %v", c.Method(), c.Path(), err)
	}
	fm := fiber.Map{
		"type":    "error",
		"message": err.Error(),
	}
	return flash.WithError(c, fm).Redirect(redirect)
}

func success(c *fiber.Ctx, redirect, message string) error {
	fm := fiber.Map{
		"type":    "success",
		"message": message,
	}
	return flash.WithSuccess(c, fm).Redirect(redirect)
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
