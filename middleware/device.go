// middleware/device.go
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const DeviceCookie = "device_id"

// DeviceContextMiddleware gives every visitor a stable device identity so
// the contact cache has a slot to key on. Priority: X-Device-ID header
// (native app shells), then the cookie, then a freshly minted UUID.
// The identity lands in c.Locals("device_id") for the handlers.
func DeviceContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		deviceID := c.Get("X-Device-ID")
		if deviceID == "" {
			deviceID = c.Cookies(DeviceCookie)
		}
		if deviceID == "" {
			deviceID = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     DeviceCookie,
				Value:    deviceID,
				Expires:  time.Now().Add(365 * 24 * time.Hour),
				HTTPOnly: true,
				SameSite: "Lax",
			})
		}

		c.Locals("device_id", deviceID)
		return c.Next()
	}
}
