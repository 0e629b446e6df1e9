// Package metrics provides Prometheus metrics for the handicap tracker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the handicap service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// League activity
	resultsRecorded      *prometheus.CounterVec
	resultsUndone        prometheus.Counter
	adjustmentsTriggered *prometheus.CounterVec
	matchResultsRecorded prometheus.Counter
	announcementsPosted  prometheus.Counter

	// Roster shape
	rosterSize    prometheus.Gauge
	gamesRecorded prometheus.Gauge

	// Persistence
	persistFailures *prometheus.CounterVec
	persistLatency  *prometheus.HistogramVec
	documentResets  prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	adminAuthFailures   *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "handicap",
		subsystem:        "league",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.resultsRecorded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "results_recorded_total",
		Help:      "Frame results appended to player records, by outcome",
	}, []string{"outcome"})

	m.resultsUndone = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "results_undone_total",
		Help:      "Results removed with undo",
	})

	m.adjustmentsTriggered = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "adjustments_triggered_total",
		Help:      "Handicap adjustments fired by newly recorded results, by kind (cut, increase)",
	}, []string{"kind"})

	m.matchResultsRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "match_results_recorded_total",
		Help:      "Team match scores recorded against the fixture list",
	})

	m.announcementsPosted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "announcements_posted_total",
		Help:      "Announcements created, manual or automatic",
	})

	m.rosterSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "roster_size",
		Help:      "Players currently on the roster",
	})

	m.gamesRecorded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "games_recorded",
		Help:      "Total individual results held across the roster",
	})

	m.persistFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persist_failures_total",
		Help:      "Document store failures by backend and operation",
	}, []string{"store", "op"})

	m.persistLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persist_latency_milliseconds",
		Help:      "Document store call latency in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"store", "op"})

	m.documentResets = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "document_resets_total",
		Help:      "Loads that found a malformed document and fell back to the empty default",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_endpoint_total",
		Help:      "HTTP errors by endpoint, method and error type",
	}, []string{"endpoint", "method", "error_type"})

	m.adminAuthFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "admin_auth_failures_total",
		Help:      "Rejected admin requests by reason",
	}, []string{"reason"})
}

// RecordResult counts a result appended for a player. outcome is "W" or "L".
func RecordResult(outcome string) {
	globalManager.resultsRecorded.WithLabelValues(outcome).Inc()
}

// RecordUndo counts a result removed by undo.
func RecordUndo() {
	globalManager.resultsUndone.Inc()
}

// RecordAdjustment counts a newly fired adjustment. kind is "cut" or "increase".
func RecordAdjustment(kind string) {
	globalManager.adjustmentsTriggered.WithLabelValues(kind).Inc()
}

// RecordMatchResult counts a recorded team match score.
func RecordMatchResult() {
	globalManager.matchResultsRecorded.Inc()
}

// RecordAnnouncement counts a posted announcement.
func RecordAnnouncement() {
	globalManager.announcementsPosted.Inc()
}

// UpdateRoster sets the roster gauges.
func UpdateRoster(players, games int) {
	globalManager.rosterSize.Set(float64(players))
	globalManager.gamesRecorded.Set(float64(games))
}

// RecordPersistFailure counts a failed load or save against a store.
func RecordPersistFailure(store, op string) {
	globalManager.persistFailures.WithLabelValues(store, op).Inc()
}

// RecordPersistLatency records a store call latency in milliseconds.
func RecordPersistLatency(store, op string, latencyMs float64) {
	globalManager.persistLatency.WithLabelValues(store, op).Observe(latencyMs)
}

// RecordDocumentReset counts a malformed document replaced by the default.
func RecordDocumentReset() {
	globalManager.documentResets.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordAdminAuthFailure counts a rejected admin request.
func RecordAdminAuthFailure(reason string) {
	globalManager.adminAuthFailures.WithLabelValues(reason).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
