package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/usercontext"
)

// UserContextMiddleware sets the user context for requests that passed
// BasicAuth. Everyone else is anonymous.
func UserContextMiddleware(cfg AdminAuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, _ := c.Locals("_admin_user").(string)
		if username == "" {
			usercontext.Set(c, usercontext.UserContext{IsLoggedIn: false})
			return c.Next()
		}

		usercontext.Set(c, usercontext.UserContext{
			Username:    username,
			IsLoggedIn:  true,
			Permissions: cfg.Permissions,
		})
		return c.Next()
	}
}
