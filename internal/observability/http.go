package observability

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler serves the collectors of gatherer in the Prometheus text or
// OpenMetrics format. A nil gatherer serves the default registry, which holds
// the pipeline and HTTP collectors.
func MetricsHandler(gatherer prometheus.Gatherer) fiber.Handler {
	RegisterMetrics()
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	}))
}
