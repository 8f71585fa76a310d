package middleware

import (
	"github.com/gofiber/fiber/v2"

	"warehouse-manager/internal/domain"
)

func RequireRole(requiredRole domain.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetCurrentUser(c)
		if user == nil {
			return Unauthorized("User not found")
		}

		if !user.HasRole(string(requiredRole)) {
			return Forbidden("Insufficient permissions for this operation")
		}

		return c.Next()
	}
}
