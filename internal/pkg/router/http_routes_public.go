package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"

	"github.com/ManuelReschke/PhotoAlbums/app/controllers"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/constants"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	public := controllers.NewPublicController(h.deps.Service, h.deps.Resolver, h.deps.Events)

	app.Get(constants.PublicRoute, func(c *fiber.Ctx) error {
		return c.Redirect(constants.AlbumListRoute)
	})

	// the random widget must never be cached
	app.Get(constants.RandomPhotosRoute, public.HandleRandomPhotos)

	pageCache := h.pageCache()
	app.Get(constants.AlbumListRoute, pageCache, public.HandleAlbumList)
	app.Get(constants.AlbumRoute+"/:slug", pageCache, public.HandleAlbum)
	app.Get(constants.PhotoRoute+"/:id", pageCache, public.HandlePhoto)
}

// pageCache caches rendered public pages for PageCacheTTL. A zero TTL
// disables the cache.
func (h HttpRouter) pageCache() fiber.Handler {
	if h.deps.PageCacheTTL <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return cache.New(cache.Config{
		Expiration:   h.deps.PageCacheTTL,
		CacheControl: true,
		Storage:      h.deps.PageCache,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "page:" + c.OriginalURL()
		},
	})
}
