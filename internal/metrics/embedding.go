// Package metrics defines Prometheus collectors and HTTP middleware.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Embedding and extraction Prometheus metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumerank",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "resumerank",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumerank",
			Name:      "embedding_tokens_total",
			Help:      "Total embedding tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumerank",
			Name:      "embedding_errors_total",
			Help:      "Total embedding errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumerank",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ExtractionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumerank",
			Name:      "extraction_total",
			Help:      "Candidate document extraction outcomes",
		},
		[]string{"format", "status"}, // status: "ok" / "error"
	)

	EmbeddingBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "resumerank",
			Name:      "embedding_budget_tokens_remaining",
			Help:      "Tokens remaining in the embedding budget (-1 = unlimited)",
		},
		[]string{"provider", "window"}, // window: "daily" / "monthly"
	)

	RankedCandidatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "resumerank",
			Name:      "ranked_candidates_total",
			Help:      "Total candidates scored across all analysis runs",
		},
	)
)

var coreMetricsRegistered bool

// RegisterCoreMetrics registers embedding and extraction metrics. Must be
// called once from main (no init()).
func RegisterCoreMetrics() {
	if coreMetricsRegistered {
		return
	}
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingTokensTotal)
	prometheus.MustRegister(EmbeddingErrorsTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(EmbeddingBudgetTokensRemaining)
	prometheus.MustRegister(ExtractionTotal)
	prometheus.MustRegister(RankedCandidatesTotal)
	coreMetricsRegistered = true
}
