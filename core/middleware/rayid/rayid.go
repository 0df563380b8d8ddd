package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the response header carrying the request RayID.
const HeaderName = "X-Ray-ID"

// New returns a middleware that assigns every request a unique RayID,
// storing it in locals for log correlation and echoing it in the response
// header. An incoming X-Ray-ID is honored so upstream proxies can trace
// through.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("ray_id", rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
