package auth

import (
	"backend-ecoroute/internal/progress"

	"github.com/gofiber/fiber/v2"
)

// UserID returns the authenticated user id stored by JWTMiddleware, or "".
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

// IdentityFrom builds the trip-progress identity for the request. Requests
// that did not pass JWTMiddleware yield an anonymous identity.
func IdentityFrom(c *fiber.Ctx) progress.Identity {
	return progress.Identity{UserID: UserID(c)}
}
