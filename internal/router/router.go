package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/noah-isme/hireform-api/internal/config"
	"github.com/noah-isme/hireform-api/internal/handler"
	"github.com/noah-isme/hireform-api/internal/middleware"
	"github.com/noah-isme/hireform-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	FormHandler       *handler.FormHandler
	SubmissionHandler *handler.SubmissionHandler
	HealthProbes      map[string]handler.Probe
	JWTMiddleware     fiber.Handler
	SubmitLimiter     fiber.Handler
	// MetricsGatherer defaults to the Prometheus default registry.
	MetricsGatherer prometheus.Gatherer
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler(deps.MetricsGatherer))

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthProbes))

	// Candidate-facing routes need no token.
	public := api.Group("/public")
	if deps.FormHandler != nil {
		deps.FormHandler.RegisterPublic(public)
	}
	if deps.SubmissionHandler != nil {
		var guards []fiber.Handler
		if deps.SubmitLimiter != nil {
			guards = append(guards, deps.SubmitLimiter)
		}
		deps.SubmissionHandler.RegisterPublic(public, guards...)
	}

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	forms := api.Group("/forms", jwtMiddleware, middleware.RequireRole(middleware.RoleHR, middleware.RoleAdmin))
	if deps.FormHandler != nil {
		deps.FormHandler.Register(forms)
	}
	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(forms)
	}
}
