package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/ManuelReschke/PhotoAlbums/app/controllers"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/constants"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/env"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/middleware"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/plugin"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     controllers.CSRFContextKey,
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
	}

	admin := app.Group(constants.AdminRoute,
		middleware.BasicAuth(h.deps.Auth),
		middleware.UserContextMiddleware(h.deps.Auth),
		middleware.RequirePermission(h.deps.Registration, plugin.PermissionManageAlbums),
		csrf.New(csrfConf),
	)
	admin.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(constants.AdminAlbumsRoute)
	})

	svc, reg := h.deps.Service, h.deps.Registration

	// Albums
	albums := controllers.NewAdminAlbumController(svc, reg)
	admin.Get("/albums", albums.HandleIndex)
	admin.Get("/albums/create", albums.HandleCreate)
	admin.Post("/albums/store", albums.HandleStore)
	admin.Get("/albums/edit/:id", albums.HandleEdit)
	admin.Post("/albums/update/:id", albums.HandleUpdate)
	admin.Post("/albums/delete/:id", albums.HandleDelete)
	admin.Post("/albums/:id/photos/add", albums.HandleAddPhoto)
	admin.Post("/albums/:id/photos/:photo_id/front", albums.HandleSetFront)
	admin.Post("/albums/:id/photos/:photo_id/remove", albums.HandleRemovePhoto)
	admin.Post("/albums/:id/front/clear", albums.HandleClearFront)

	// Photos
	photos := controllers.NewAdminPhotoController(svc, reg)
	admin.Get("/photos", photos.HandleIndex)
	admin.Get("/photos/create", photos.HandleCreate)
	admin.Post("/photos/store", photos.HandleStore)
	admin.Get("/photos/edit/:id", photos.HandleEdit)
	admin.Post("/photos/update/:id", photos.HandleUpdate)
	admin.Post("/photos/delete/:id", photos.HandleDelete)

	// Bulk upload
	uploads := controllers.NewAdminUploadController(svc, reg)
	admin.Get("/upload/form", uploads.HandleForm)
	admin.Post("/upload/form", uploads.HandleUpload)
}
