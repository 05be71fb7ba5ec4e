// middleware/history_guard.go
package middleware

import "github.com/gofiber/fiber/v2"

// HistoryGuardMiddleware marks broker profile responses with a directive
// telling the front end to re-assert the current history entry on every
// back-navigation attempt — the navigation-trap variant. Off by default;
// one deployment variant enables it, so it stays a toggle rather than a
// universal behavior.
func HistoryGuardMiddleware(enabled bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if enabled {
			c.Set("X-History-Guard", "assert")
			c.Set("Cache-Control", "no-store")
		}
		return c.Next()
	}
}
