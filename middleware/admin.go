// middleware/admin.go
package middleware

import (
	"crypto/subtle"
	"log"

	"github.com/gofiber/fiber/v2"

	"crucible-api/services"
)

// AdminKeyHeader carries the shared admin secret
const AdminKeyHeader = "X-Admin-Key"

// AdminKeyMiddleware guards moderation and tournament administration with a
// shared secret. An empty secret locks every admin route. Rejections are
// returned as services.ErrUnauthorized for the app's error handler.
func AdminKeyMiddleware(secret string) fiber.Handler {
	if secret == "" {
		log.Println("⚠️  ADMIN_KEY is not set, admin routes will reject every request")
	}
	expected := []byte(secret)

	return func(c *fiber.Ctx) error {
		key := c.Get(AdminKeyHeader)
		if key == "" {
			log.Printf("🚫 [ADMIN_AUTH] Missing %s header for %s %s", AdminKeyHeader, c.Method(), c.Path())
			return services.ErrUnauthorized
		}

		if len(expected) == 0 || subtle.ConstantTimeCompare([]byte(key), expected) != 1 {
			log.Printf("❌ [ADMIN_AUTH] Invalid admin key for %s %s", c.Method(), c.Path())
			return services.ErrUnauthorized
		}

		return c.Next()
	}
}
