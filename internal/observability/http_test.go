package observability

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestMetricsHandlerServesGatherer(t *testing.T) {
	registry := prometheus.NewRegistry()
	evaluations := prometheus.NewCounter(prometheus.CounterOpts{Name: "hireform_test_evaluations_total", Help: "test"})
	registry.MustRegister(evaluations)
	evaluations.Add(3)

	app := fiber.New()
	app.Get("/metrics", MetricsHandler(registry))

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "hireform_test_evaluations_total 3")
	require.NotContains(t, string(body), "hireform_ranking_cache_lookups_total")
}

func TestMetricsHandlerDefaultsToDefaultRegistry(t *testing.T) {
	RankingCacheLookups().WithLabelValues("hit").Inc()

	app := fiber.New()
	app.Get("/metrics", MetricsHandler(nil))

	req := httptest.NewRequest("GET", "/metrics", nil)
	req.Header.Set("Accept", "application/openmetrics-text; version=1.0.0")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Contains(t, resp.Header.Get("Content-Type"), "application/openmetrics-text")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `hireform_ranking_cache_lookups_total{result="hit"}`)
}
