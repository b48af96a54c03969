// Package metrics provides Prometheus metrics for the activity tracker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the tracker.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingestion metrics
	messagesFetched prometheus.Counter
	threadsExpanded prometheus.Counter
	recordsNew      prometheus.Counter
	recordsUpdated  prometheus.Counter
	storeRows       prometheus.Gauge

	// Aggregation quality metrics
	parseSkips prometheus.Counter

	// Transport metrics
	transportErrors *prometheus.CounterVec
	postsSent       *prometheus.CounterVec

	// Directory metrics
	directoryRefreshes prometheus.Counter
	avatarFailures     prometheus.Counter

	// Pass metrics
	passDuration prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "hucklog",
		subsystem:        "tracker",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.messagesFetched = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "messages_fetched_total",
		Help:      "Total number of raw messages retrieved from the transport",
	})

	m.threadsExpanded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "threads_expanded_total",
		Help:      "Total number of reply threads expanded during ingestion",
	})

	m.recordsNew = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_new_total",
		Help:      "Total number of new records inserted into the activity log",
	})

	m.recordsUpdated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_updated_total",
		Help:      "Total number of records overwritten after a text edit",
	})

	m.storeRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_rows",
		Help:      "Number of rows in the activity log after the last merge",
	})

	m.parseSkips = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "parse_skips_total",
		Help:      "Total number of records skipped during aggregation (data quality)",
	})

	m.transportErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "transport_errors_total",
			Help:      "Total number of chat transport failures by operation",
		},
		[]string{"operation"},
	)

	m.postsSent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "posts_sent_total",
			Help:      "Total number of outbound posts by kind",
		},
		[]string{"kind"},
	)

	m.directoryRefreshes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "directory_refreshes_total",
		Help:      "Total number of person directory snapshot refreshes",
	})

	m.avatarFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "avatar_failures_total",
		Help:      "Total number of avatar assets that could not be fetched or masked",
	})

	m.passDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pass_duration_seconds",
		Help:      "Duration of one full batch pass in seconds",
		Buckets:   m.histogramBuckets,
	})
}

// RecordMessagesFetched adds n to the fetched messages counter.
func RecordMessagesFetched(n int) {
	globalManager.messagesFetched.Add(float64(n))
}

// RecordThreadExpanded increments the expanded threads counter.
func RecordThreadExpanded() {
	globalManager.threadsExpanded.Inc()
}

// RecordMerge records the outcome of one store merge.
func RecordMerge(newRows, updatedRows, finalRows int) {
	globalManager.recordsNew.Add(float64(newRows))
	globalManager.recordsUpdated.Add(float64(updatedRows))
	globalManager.storeRows.Set(float64(finalRows))
}

// RecordParseSkip increments the skipped records counter.
func RecordParseSkip() {
	globalManager.parseSkips.Inc()
}

// RecordTransportError increments the transport error counter for an operation.
func RecordTransportError(operation string) {
	globalManager.transportErrors.WithLabelValues(operation).Inc()
}

// RecordPostSent increments the outbound post counter for a kind ("text"/"image").
func RecordPostSent(kind string) {
	globalManager.postsSent.WithLabelValues(kind).Inc()
}

// RecordDirectoryRefresh increments the directory refresh counter.
func RecordDirectoryRefresh() {
	globalManager.directoryRefreshes.Inc()
}

// RecordAvatarFailure increments the avatar failure counter.
func RecordAvatarFailure() {
	globalManager.avatarFailures.Inc()
}

// RecordPassDuration records the duration of one batch pass in seconds.
func RecordPassDuration(seconds float64) {
	globalManager.passDuration.Observe(seconds)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
