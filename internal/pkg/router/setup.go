package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PhotoAlbums/app/services"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/events"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/media"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/middleware"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/plugin"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/storage"
)

// Router installs a group of routes on the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

// Deps are the shared services the routers hand to their controllers.
type Deps struct {
	Service      *services.Service
	Registration *plugin.Registration
	Resolver     *media.Resolver
	Events       *events.Dispatcher
	Store        storage.Store
	Auth         middleware.AdminAuthConfig
	PageCache    fiber.Storage // nil keeps cached pages in memory
	PageCacheTTL time.Duration
}

func InstallRouter(app *fiber.App, deps Deps) {
	setup(app, NewHttpRouter(deps), NewApiRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
