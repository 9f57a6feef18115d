package ai

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	completionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hireform",
		Subsystem: "ai",
		Name:      "completion_duration_seconds",
		Help:      "Duration of language model completion requests",
		Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
	}, []string{"provider", "model"})

	completionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hireform",
		Subsystem: "ai",
		Name:      "completion_failures_total",
		Help:      "Number of failed language model completion requests",
	}, []string{"provider", "model"})
)

func observeCompletion(provider, model string, start time.Time) {
	completionDuration.WithLabelValues(provider, model).Observe(time.Since(start).Seconds())
}

func recordFailure(span trace.Span, provider, model string, err error) error {
	completionFailures.WithLabelValues(provider, model).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return gatewayError(provider, model, err)
}
