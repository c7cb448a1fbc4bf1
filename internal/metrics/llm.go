package metrics

import "github.com/prometheus/client_golang/prometheus"

// Language-model and search Prometheus metrics.
var (
	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "steamseek",
			Name:      "llm_requests_total",
			Help:      "Total number of language-model requests",
		},
		[]string{"capability", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "steamseek",
			Name:      "llm_request_duration_seconds",
			Help:      "Language-model request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"capability"},
	)

	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "steamseek",
			Name:      "search_requests_total",
			Help:      "Total number of search pipeline runs",
		},
		[]string{"mode", "status"},
	)

	DeepSearchJobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "steamseek",
			Name:      "deep_search_jobs_total",
			Help:      "Deep-search job outcomes",
		},
		[]string{"outcome"}, // "completed" / "failed" / "superseded"
	)
)

var llmMetricsRegistered bool

// RegisterLLMMetrics registers Prometheus search and LLM metrics.
// Must be called once from main.
func RegisterLLMMetrics() {
	if llmMetricsRegistered {
		return
	}
	prometheus.MustRegister(LLMRequestsTotal)
	prometheus.MustRegister(LLMRequestDuration)
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(DeepSearchJobsTotal)
	llmMetricsRegistered = true
}
