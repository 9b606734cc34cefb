package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tippspiel_provider_requests_total",
			Help: "Requests sent to the football data provider",
		},
		[]string{"endpoint", "status"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tippspiel_provider_request_duration_seconds",
			Help:    "Duration of football data provider requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CircuitTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tippspiel_circuit_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"breaker", "to"},
	)

	StalenessDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tippspiel_staleness_decisions_total",
			Help: "Staleness decisions by dataset and reason",
		},
		[]string{"dataset", "reason"},
	)

	MatchesReconciledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tippspiel_matches_reconciled_total",
			Help: "Match reconciliation outcomes",
		},
		[]string{"outcome"},
	)

	PredictionsScoredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tippspiel_predictions_scored_total",
			Help: "Predictions graded, by awarded points",
		},
		[]string{"points"},
	)

	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tippspiel_sync_runs_total",
			Help: "Sync passes by step and status",
		},
		[]string{"step", "status"},
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tippspiel_sync_duration_seconds",
			Help:    "Duration of sync passes in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"step"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tippspiel_cache_lookups_total",
			Help: "Read cache lookups by result",
		},
		[]string{"result"},
	)
)

func RecordProviderRequest(endpoint, status string, elapsed time.Duration) {
	ProviderRequestsTotal.WithLabelValues(endpoint, status).Inc()
	ProviderRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func RecordCircuitTransition(breaker, to string) {
	CircuitTransitionsTotal.WithLabelValues(breaker, to).Inc()
}

func RecordStalenessDecision(dataset, reason string) {
	StalenessDecisionsTotal.WithLabelValues(dataset, reason).Inc()
}

func RecordReconcileOutcome(outcome string) {
	MatchesReconciledTotal.WithLabelValues(outcome).Inc()
}

func RecordPredictionScored(points string) {
	PredictionsScoredTotal.WithLabelValues(points).Inc()
}

func RecordSync(step, status string, elapsed time.Duration) {
	SyncRunsTotal.WithLabelValues(step, status).Inc()
	SyncDuration.WithLabelValues(step).Observe(elapsed.Seconds())
}

func RecordCacheHit() {
	CacheLookupsTotal.WithLabelValues("hit").Inc()
}

func RecordCacheMiss() {
	CacheLookupsTotal.WithLabelValues("miss").Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
