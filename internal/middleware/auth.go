package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/authgate/internal/config"
	"github.com/example/authgate/internal/utils"
)

const (
	userIDContextKey = "currentUserID"
	phoneContextKey  = "currentUserPhone"
)

// AuthMiddleware validates session tokens and loads the authenticated user
// ID and phone into the request context. The Authorization value must match
// the exact `Bearer <token>` grammar; anything else is rejected. A valid
// token does not guarantee the account still exists, so handlers re-resolve
// the user from the store.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || scheme != "Bearer" || token == "" || strings.ContainsRune(token, ' ') {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		userID, phone, err := utils.ParseToken(cfg.JWTSecret, token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(userIDContextKey, userID)
		c.Locals(phoneContextKey, phone)
		return c.Next()
	}
}

// GetCurrentUserID extracts the authenticated user ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(userIDContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}

// GetCurrentPhone extracts the authenticated phone from context.
func GetCurrentPhone(c *fiber.Ctx) (string, bool) {
	value := c.Locals(phoneContextKey)
	if value == nil {
		return "", false
	}

	if phone, ok := value.(string); ok {
		return phone, true
	}

	return "", false
}
