package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/constants"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/media"
)

type HttpRouter struct {
	deps Deps
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	thumbs := media.NewThumbnailHandler(h.deps.Store, h.deps.Resolver.Signer())
	app.Get(constants.ThumbsRoute+"/:size/:mode/*", thumbs.Handle)

	h.registerPublicRoutes(app)
	h.registerAdminRoutes(app)
}

func NewHttpRouter(deps Deps) *HttpRouter {
	return &HttpRouter{deps: deps}
}
