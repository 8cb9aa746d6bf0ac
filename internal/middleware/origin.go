package middleware

import (
	"storefront/pkg/media"

	"github.com/gofiber/fiber/v2"
)

// RequestOrigin records scheme://host of the request so image URLs can be
// rendered absolute.
func RequestOrigin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(media.WithBaseURL(c.UserContext(), c.BaseURL()))
		return c.Next()
	}
}
