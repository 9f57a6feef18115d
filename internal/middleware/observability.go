package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hireform-api/internal/observability"
)

// Observability records Prometheus metrics and a structured access log for /api routes.
func Observability(logger zerolog.Logger) fiber.Handler {
	observability.RegisterMetrics()

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if !strings.HasPrefix(c.Path(), "/api/") {
			return err
		}

		duration := time.Since(start)
		route := routeTemplate(c)
		method := c.Method()
		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else if status < fiber.StatusBadRequest {
				status = fiber.StatusInternalServerError
			}
		}

		observability.HTTPRequests().WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		observability.HTTPLatency().WithLabelValues(method, route).Observe(duration.Seconds())

		event := logger.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			event = logger.Error().Err(err)
		case status >= fiber.StatusBadRequest:
			event = logger.Warn()
		}
		event.
			Str("correlation_id", GetCorrelationID(c)).
			Str("route", route).
			Str("method", method).
			Int("status", status).
			Float64("latency_ms", float64(duration)/float64(time.Millisecond)).
			Str("latency_bucket", latencyBucket(duration)).
			Msg("request completed")

		return err
	}
}

func routeTemplate(c *fiber.Ctx) string {
	if c.Route() != nil && c.Route().Path != "" {
		return c.Route().Path
	}
	return c.Path()
}

func latencyBucket(duration time.Duration) string {
	switch {
	case duration <= 50*time.Millisecond:
		return "<=50ms"
	case duration <= 250*time.Millisecond:
		return "<=250ms"
	case duration <= time.Second:
		return "<=1s"
	case duration <= 5*time.Second:
		return "<=5s"
	default:
		return ">5s"
	}
}
