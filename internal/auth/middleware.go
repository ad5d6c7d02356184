package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mani1234567sk/Frin-Backend/internal/apperr"
)

const CtxOperatorKey = "operator"

// RequireOperator guards a route with a bearer token. With an empty secret it
// lets everything through.
func RequireOperator(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperr.Unauthorized("Authorization header missing")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return apperr.Unauthorized("Authorization header must be 'Bearer <token>'")
		}

		claims, err := ParseToken(secret, parts[1])
		if err != nil {
			return apperr.Unauthorized("Invalid or expired token")
		}

		c.Locals(CtxOperatorKey, claims.Name)
		return c.Next()
	}
}

// Operator returns the authenticated operator name, or "" when the request
// carried no token.
func Operator(c *fiber.Ctx) string {
	name, _ := c.Locals(CtxOperatorKey).(string)
	return name
}
