package http

import (
	"time"

	"github.com/go-concord/concord/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// AccessLog logs one line per request through the global logger.
func AccessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Infow("access",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"ip", c.IP(),
			"latency", time.Since(start).String(),
		)
		return err
	}
}
