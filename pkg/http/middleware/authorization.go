package middleware

import (
	"strings"

	"github.com/go-concord/concord/pkg/http"
	"github.com/go-concord/concord/pkg/http/jwt"
	"github.com/gofiber/fiber/v2"
)

// Authorization parses a Bearer token and stores its claims in Locals.
// Requests without a token pass through unauthenticated; tenant resolution
// then falls back to the request parameter or the default tenant.
func Authorization(secretKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.WithRepErrMsg(c, http.InvalidToken.Code, "token format is incorrect", c.Path())
			return fiber.ErrUnauthorized
		}

		claims, err := jwt.ParseToken(parts[1], secretKey)
		if err != nil {
			http.WithRepErrMsg(c, http.InvalidToken.Code, "invalid token", c.Path())
			return fiber.ErrUnauthorized
		}

		c.Locals("claims", claims)
		return c.Next()
	}
}
