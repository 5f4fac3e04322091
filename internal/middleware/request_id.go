package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"
)

// Context keys for request-scoped values stored in fiber locals
const (
	RequestIDKey = "requestID"
	ClaimsKey    = "claims"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with a ULID, reusing a well-formed incoming
// X-Request-ID so ids survive hops between services.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if _, err := ulid.ParseStrict(id); err != nil {
			id = ulid.Make().String()
		}

		c.Locals(RequestIDKey, id)
		c.Set(RequestIDHeader, id)
		return c.Next()
	}
}

// RequestIDFrom returns the id assigned by RequestID, or ""
func RequestIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals(RequestIDKey).(string)
	return id
}
