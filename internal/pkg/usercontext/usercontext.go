package usercontext

import (
	"slices"

	"github.com/gofiber/fiber/v2"
)

// UserContext represents the complete user context for a request
type UserContext struct {
	Username    string   `json:"username"`
	IsLoggedIn  bool     `json:"is_logged_in"`
	Permissions []string `json:"permissions"`
}

// HasPermission checks the granted permission codes.
func (u UserContext) HasPermission(permission string) bool {
	return u.IsLoggedIn && slices.Contains(u.Permissions, permission)
}

// Set stores the user context for the current request.
func Set(c *fiber.Ctx, user UserContext) {
	c.Locals(KeyUserContext, user)
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx, ok := c.Locals(KeyUserContext).(UserContext); ok {
		return ctx
	}
	return UserContext{IsLoggedIn: false}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// GetUsername returns the current user's username, or empty string if not logged in
func GetUsername(c *fiber.Ctx) string {
	return GetUserContext(c).Username
}
