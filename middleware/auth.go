package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-tasks/auth"
)

const UserIDLocalsKey = "user_id"

// TokenParser verifies an access token.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// JWTMiddleware validates the bearer token and stores the user id in Locals.
func JWTMiddleware(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing token"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token format"})
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals(UserIDLocalsKey, claims.UserID)
		return c.Next()
	}
}
