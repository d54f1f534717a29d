package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// UserIDLocalKey is the key used to store the caller's user ID in Fiber's context locals.
	UserIDLocalKey = "user_id"

	bearerScheme = "bearer"
)

// RequireBearer authenticates the Authorization header against the token
// service and stores the resolved user ID in context locals. Requests
// without a valid token are rejected with 401 and never reach the handler,
// so no writes can happen for unauthenticated callers.
func RequireBearer(tokens *TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		c.Locals(UserIDLocalKey, claims.UserID)
		return c.Next()
	}
}

// UserIDFromCtx returns the authenticated user ID stored by RequireBearer,
// or "" when the request was not authenticated.
func UserIDFromCtx(c *fiber.Ctx) string {
	if v, ok := c.Locals(UserIDLocalKey).(string); ok {
		return v
	}
	return ""
}

func extractBearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}

	return parts[1]
}
