package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the picks front-end

var (
	// Upstream API metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quantumbetlab_api_calls_total",
			Help: "Total number of Sportia API calls",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quantumbetlab_api_call_duration_seconds",
			Help:    "Duration of Sportia API calls in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2, 4, 8, 12, 15},
		},
		[]string{"endpoint"},
	)

	// Refresh metrics
	RefreshCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quantumbetlab_refresh_cycles_total",
			Help: "Total number of pick board refresh cycles",
		},
		[]string{"status"},
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quantumbetlab_refresh_duration_seconds",
			Help:    "Duration of pick board refresh cycles in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	PicksPublished = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quantumbetlab_picks_published",
			Help: "Number of picks on the current board",
		},
	)

	MatchesScanned = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quantumbetlab_matches_scanned",
			Help: "Qualifying matches scanned in the last refresh cycle",
		},
		[]string{"sport"},
	)

	LastSuccessfulRefresh = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quantumbetlab_last_successful_refresh_timestamp",
			Help: "Timestamp of last successful refresh cycle",
		},
	)

	// Snapshot persistence metrics
	SnapshotWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quantumbetlab_snapshot_writes_total",
			Help: "Total number of board snapshot writes",
		},
		[]string{"target", "status"},
	)

	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quantumbetlab_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"route", "code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quantumbetlab_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quantumbetlab_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quantumbetlab_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)
)

// RecordAPICall records an upstream API call metric
func RecordAPICall(endpoint, status string, duration float64) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordRefresh records a refresh cycle
func RecordRefresh(status string, duration float64) {
	RefreshCyclesTotal.WithLabelValues(status).Inc()
	RefreshDuration.Observe(duration)

	if status == "success" {
		LastSuccessfulRefresh.SetToCurrentTime()
	}
}

// RecordBoard updates the board gauge after a publish
func RecordBoard(picks int) {
	PicksPublished.Set(float64(picks))
}

// RecordSnapshotWrite records an archive or mirror write
func RecordSnapshotWrite(target, status string) {
	SnapshotWritesTotal.WithLabelValues(target, status).Inc()
}

// RecordHTTPRequest records a served HTTP request
func RecordHTTPRequest(route, code string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(route, code).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(duration)
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
