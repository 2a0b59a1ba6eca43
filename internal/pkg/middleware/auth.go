package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"golang.org/x/crypto/bcrypt"

	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/env"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/plugin"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/usercontext"
)

// AdminAuthConfig describes the single admin account.
type AdminAuthConfig struct {
	Username     string
	PasswordHash string // bcrypt
	Permissions  []string
}

// LoadAdminAuthConfig reads ADMIN_USER, ADMIN_PASSWORD_HASH and ADMIN_PERMISSIONS.
func LoadAdminAuthConfig() AdminAuthConfig {
	cfg := AdminAuthConfig{
		Username:     env.GetEnv("ADMIN_USER", "admin"),
		PasswordHash: env.GetEnv("ADMIN_PASSWORD_HASH", ""),
		Permissions:  env.GetEnvList("ADMIN_PERMISSIONS", plugin.PermissionManageAlbums),
	}
	if cfg.PasswordHash == "" {
		log.Warn("[Auth] ADMIN_PASSWORD_HASH is not set, the admin area is locked")
	}
	return cfg
}

// Authorize checks the credentials against the configured account.
func (cfg AdminAuthConfig) Authorize(user, pass string) bool {
	if cfg.PasswordHash == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(user), []byte(cfg.Username)) != 1 {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(cfg.PasswordHash), []byte(pass)) == nil
}

// BasicAuth protects the admin area with HTTP basic auth.
func BasicAuth(cfg AdminAuthConfig) fiber.Handler {
	return basicauth.New(basicauth.Config{
		Realm:           "Photo albums",
		Authorizer:      cfg.Authorize,
		ContextUsername: "_admin_user",
	})
}

// RequirePermission answers 403 unless the current user holds permission.
func RequirePermission(reg *plugin.Registration, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := usercontext.GetUserContext(c)
		if err := reg.Authorize(user, permission); err != nil {
			log.Warnf("[Auth] %s denied for %q on %s", permission, user.Username, c.Path())
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		}
		return c.Next()
	}
}
