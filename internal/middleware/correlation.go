package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type correlationIDKey struct{}

// CorrelationID tags every request with an identifier taken from the
// X-Correlation-ID or X-Request-ID header, or generated when both are absent.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get("X-Correlation-ID"))
		if id == "" {
			id = strings.TrimSpace(c.Get("X-Request-ID"))
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals("correlation_id", id)
		c.Set("X-Correlation-ID", id)
		c.SetUserContext(context.WithValue(c.UserContext(), correlationIDKey{}, id))

		return c.Next()
	}
}

// CorrelationIDFromContext extracts the correlation identifier from ctx, if present.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// GetCorrelationID returns the correlation identifier bound to the active request.
func GetCorrelationID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Locals("correlation_id").(string); ok {
		return id
	}
	return CorrelationIDFromContext(c.UserContext())
}
