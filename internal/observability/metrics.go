// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Rating metrics
	RecomputeRunsTotal *prometheus.CounterVec
	RecomputeDuration  *prometheus.HistogramVec
	GamesFolded        *prometheus.CounterVec
	SnapshotsPublished *prometheus.GaugeVec

	// Signal metrics
	SignalsEvaluated *prometheus.CounterVec
	ActiveSignals    *prometheus.HistogramVec

	// Pick metrics
	MatchupsEvaluated *prometheus.CounterVec
	PicksProduced     *prometheus.CounterVec
	PickScore         *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRecompute prometheus.Gauge
	LastSuccessfulSlate     prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "matchup_lab"
	}

	return &Metrics{
		// Rating metrics
		RecomputeRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rating",
			Name:      "recompute_runs_total",
			Help:      "Total number of rating recompute runs by league and status",
		}, []string{"league", "status"}),
		RecomputeDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rating",
			Name:      "recompute_duration_seconds",
			Help:      "Rating recompute duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}, []string{"league"}),
		GamesFolded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rating",
			Name:      "games_folded_total",
			Help:      "Total number of games folded into ratings",
		}, []string{"league"}),
		SnapshotsPublished: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "rating",
			Name:      "snapshots_published",
			Help:      "Number of rating snapshots in the last published set",
		}, []string{"league"}),

		// Signal metrics
		SignalsEvaluated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "signal",
			Name:      "evaluated_total",
			Help:      "Total number of signals evaluated by category",
		}, []string{"category"}),
		ActiveSignals: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "signal",
			Name:      "active_per_matchup",
			Help:      "Active signal count per matchup/market evaluation",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 8, 10},
		}, []string{"market"}),

		// Pick metrics
		MatchupsEvaluated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pick",
			Name:      "matchups_evaluated_total",
			Help:      "Total number of matchups evaluated by league",
		}, []string{"league"}),
		PicksProduced: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pick",
			Name:      "produced_total",
			Help:      "Total number of picks produced by league and market",
		}, []string{"league", "market"}),
		PickScore: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pick",
			Name:      "score",
			Help:      "Convergence score distribution of produced picks",
			Buckets:   []float64{70, 75, 80, 85, 90, 95, 100},
		}, []string{"league"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"operation"}),

		// Health metrics
		LastSuccessfulRecompute: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_recompute_timestamp",
			Help:      "Unix timestamp of last successful rating recompute",
		}),
		LastSuccessfulSlate: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_slate_timestamp",
			Help:      "Unix timestamp of last successful slate evaluation",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")
