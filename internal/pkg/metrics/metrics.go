package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cca_wallet"

var (
	// CacheRequests counts cache reads by how they were served (hit, miss, shared).
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Cache reads by cache and result",
	}, []string{"cache", "result"})

	CacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_invalidations_total",
		Help:      "Explicit cache invalidations",
	}, []string{"cache"})

	// Fetches counts network reads against the chain REST endpoint.
	Fetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetches_total",
		Help:      "Chain REST reads by resource and status",
	}, []string{"resource", "status"})

	FetchLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Chain REST read duration",
		Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"resource"})

	GateRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_rejections_total",
		Help:      "Operations short-circuited because the selected chain is not authorized",
	}, []string{"operation"})

	// Submissions counts transfer attempts by outcome reason ("succeeded" or a failure code).
	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "Transfer submissions by outcome",
	}, []string{"outcome"})
)

// FetchStatus maps a read error to a status label.
func FetchStatus(err error) string {
	if err == nil {
		return "ok"
	}
	return "error"
}
