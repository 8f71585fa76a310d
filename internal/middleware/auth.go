package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/service/auth"
)

const (
	UserContextKey   = "user"
	UserIDContextKey = "user_id"
)

// AuthRequired accepts a bearer token, or an access_token query parameter for
// clients that cannot set headers such as EventSource.
func AuthRequired(authService auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return err
		}

		claims, err := authService.ValidateAccessToken(token)
		if err != nil {
			return Unauthorized("Invalid or expired token")
		}

		user, err := authService.GetUserByID(c.UserContext(), claims.UserID)
		if err != nil || user == nil {
			return Unauthorized("User not found")
		}
		if !user.IsActive {
			return Forbidden("Account is disabled")
		}

		c.Locals(UserContextKey, user)
		c.Locals(UserIDContextKey, user.ID)

		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if token := c.Query("access_token"); token != "" {
			return token, nil
		}
		return "", Unauthorized("Missing authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", Unauthorized("Invalid authorization header format")
	}
	return parts[1], nil
}

func GetCurrentUser(c *fiber.Ctx) *domain.User {
	user, ok := c.Locals(UserContextKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}

func GetCurrentUserID(c *fiber.Ctx) uuid.UUID {
	userID, ok := c.Locals(UserIDContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}

func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userID := GetCurrentUserID(c)
	if userID == uuid.Nil {
		return uuid.Nil, Unauthorized("User not authenticated")
	}
	return userID, nil
}
