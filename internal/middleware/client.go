package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// ClientIDKey is the fiber.Ctx locals key holding the caller's client id.
const ClientIDKey = "clientID"

// EnsureClientID requires an X-Client-ID header or clientId query parameter
// and stores it under ClientIDKey.
func EnsureClientID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(ClientIDKey) != nil {
			return c.Next()
		}

		clientID := c.Get("X-Client-ID")
		if clientID == "" {
			clientID = c.Query("clientId")
		}
		if clientID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "client ID is required",
			})
		}

		c.Locals(ClientIDKey, clientID)
		return c.Next()
	}
}

// ClientID returns the id stored by EnsureClientID.
func ClientID(c *fiber.Ctx) string {
	id, _ := c.Locals(ClientIDKey).(string)
	return id
}
