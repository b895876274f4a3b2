package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Controller RPC metrics
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fabricsync_requests_total",
			Help: "Total number of controller requests by verb and result",
		},
		[]string{"verb", "result"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fabricsync_request_duration_seconds",
			Help:    "Controller request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"verb"},
	)

	// Sync session metrics
	SyncSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fabricsync_sync_sessions_total",
			Help: "Total number of sync sessions by outcome",
		},
		[]string{"outcome"},
	)

	LastSyncTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fabricsync_last_sync_timestamp_seconds",
			Help: "Unix timestamp of the last successful sync",
		},
	)

	RecordsPushed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fabricsync_records_pushed_total",
			Help: "Total number of records pushed by resource kind",
		},
		[]string{"kind"},
	)
)

// Session outcome label values.
const (
	OutcomeCompleted = "completed"
	OutcomeConflict  = "conflict"
	OutcomeFailed    = "failed"
)

// Register registers all metrics with the default Prometheus registry
func Register() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		SyncSessionsTotal,
		LastSyncTimestamp,
		RecordsPushed,
	)
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
