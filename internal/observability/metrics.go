package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	httpRequestsTotal   *prometheus.CounterVec
	httpLatencySeconds  *prometheus.HistogramVec
	pipelineStagesTotal *prometheus.CounterVec
	pipelineLatency     *prometheus.HistogramVec
	submissionsTotal    *prometheus.CounterVec
	rankingCacheLookups *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hireform",
			Name:      "http_requests_total",
			Help:      "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hireform",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution for API requests.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"method", "route"})

		pipelineStagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hireform",
			Name:      "pipeline_stage_total",
			Help:      "Résumé evaluation stage outcomes.",
		}, []string{"stage", "result"})

		pipelineLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hireform",
			Name:      "pipeline_duration_seconds",
			Help:      "End-to-end duration of résumé evaluations.",
			Buckets:   []float64{0.5, 1, 2, 4, 8, 16, 32, 64, 128},
		}, []string{"state"})

		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hireform",
			Name:      "submissions_total",
			Help:      "Persisted submissions by résumé storage status and evaluation presence.",
		}, []string{"resume_status", "evaluated"})

		rankingCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hireform",
			Name:      "ranking_cache_lookups_total",
			Help:      "Ranking cache lookups by result.",
		}, []string{"result"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			pipelineStagesTotal,
			pipelineLatency,
			submissionsTotal,
			rankingCacheLookups,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// PipelineStages exposes the per-stage outcome counter.
func PipelineStages() *prometheus.CounterVec {
	RegisterMetrics()
	return pipelineStagesTotal
}

// PipelineLatency exposes the evaluation duration histogram.
func PipelineLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return pipelineLatency
}

// Submissions exposes the persisted submission counter.
func Submissions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsTotal
}

// RankingCacheLookups exposes the ranking cache hit/miss counter.
func RankingCacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return rankingCacheLookups
}
