package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mozhilabs/chat-server/internal/auth"
)

// JWTAuth rejects requests without a valid Bearer token and stores the
// authenticated user id in c.Locals("user_id").
func JWTAuth(mgr *auth.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "access denied"})
		}
		token := strings.TrimPrefix(h, "Bearer ")
		userID, err := mgr.Validate(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}
		c.Locals("user_id", userID)
		return c.Next()
	}
}
