package handler

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/hireform-api/internal/config"
	"github.com/noah-isme/hireform-api/internal/utils"
)

// Probe reports whether a dependency is reachable.
type Probe func(ctx context.Context) error

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	Service      string            `json:"service"`
	Environment  string            `json:"environment"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// HealthCheck returns a handler that reports application health. Any failing
// probe marks the service degraded and answers 503.
func HealthCheck(cfg config.Config, probes map[string]Probe) fiber.Handler {
	names := make([]string, 0, len(probes))
	for name := range probes {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
		}

		if len(names) > 0 {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()

			payload.Dependencies = make(map[string]string, len(names))
			for _, name := range names {
				if err := probes[name](ctx); err != nil {
					payload.Dependencies[name] = "down"
					payload.Status = "degraded"
					continue
				}
				payload.Dependencies[name] = "up"
			}
		}

		if payload.Status != "ok" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(utils.APIResponse{
				Success: false,
				Message: "service degraded",
				Data:    payload,
			})
		}
		return utils.OK(c, payload, "service healthy", nil)
	}
}
