// Package metrics provides Prometheus metrics for the NRR standings service.
package metrics

import (
	"fmt"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Standings kinds recorded by RecordStandingsComputed.
const (
	KindBase       = "base"
	KindProjection = "projection"
)

// Manager manages all Prometheus metrics for the standings service.
type Manager struct {
	namespace        string
	subsystem        string
	computeBuckets []float64
	httpBuckets    []float64
	constLabels    map[string]string
	registry       prometheus.Registerer

	// Ingest
	deliveriesLoaded prometheus.Counter
	inningsClosed    prometheus.Counter
	teamsTracked     prometheus.Gauge
	loadLatency      prometheus.Histogram

	// Standings
	standingsComputed   *prometheus.CounterVec
	computeLatency      *prometheus.HistogramVec
	projectionsRejected *prometheus.CounterVec
	futureMatches       prometheus.Counter

	// Snapshot cache
	snapshotHits   prometheus.Counter
	snapshotMisses prometheus.Counter
	snapshotSaves  prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegisterer(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "nrr",
		subsystem:        "standings",
		computeBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		httpBuckets:    []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:    make(map[string]string),
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.deliveriesLoaded = m.counter("deliveries_loaded_total", "Total number of delivery records loaded")
	m.inningsClosed = m.counter("innings_closed_total", "Total number of innings closed from deliveries")
	m.teamsTracked = m.gauge("teams_tracked", "Number of teams in the current base table")
	m.loadLatency = promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "load_latency_milliseconds",
		Help:        "Delivery file load and normalization latency in milliseconds",
		Buckets:     m.computeBuckets,
		ConstLabels: m.constLabels,
	})

	m.standingsComputed = m.counterVec("computed_total", "Total number of standings tables computed by kind", "kind")
	m.computeLatency = m.histogramVec("compute_latency_milliseconds", "Standings computation latency in milliseconds by kind",
		m.computeBuckets, "kind")
	m.projectionsRejected = m.counterVec("projection_rejected_total", "Total number of future matches rejected by reason", "reason")
	m.futureMatches = m.counter("future_matches_total", "Total number of future matches merged into projections")

	m.snapshotHits = m.counter("snapshot_hits_total", "Snapshot cache hits")
	m.snapshotMisses = m.counter("snapshot_misses_total", "Snapshot cache misses")
	m.snapshotSaves = m.counter("snapshot_saves_total", "Snapshots written to the cache")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		m.httpBuckets, "endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Total number of errors by component",
		"component", "error_type")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint",
		"endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordDeliveriesLoaded adds n to the delivery counter.
func RecordDeliveriesLoaded(n int) {
	globalManager.deliveriesLoaded.Add(float64(n))
}

// RecordInningsClosed adds n to the innings counter.
func RecordInningsClosed(n int) {
	globalManager.inningsClosed.Add(float64(n))
}

// UpdateTeamsTracked sets the team gauge.
func UpdateTeamsTracked(n int) {
	globalManager.teamsTracked.Set(float64(n))
}

// RecordLoadLatency records load latency in milliseconds.
func RecordLoadLatency(latencyMs float64) {
	globalManager.loadLatency.Observe(latencyMs)
}

// RecordStandingsComputed counts a computed table and its latency.
func RecordStandingsComputed(kind string, latencyMs float64) error {
	if kind != KindBase && kind != KindProjection {
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	globalManager.standingsComputed.WithLabelValues(kind).Inc()
	globalManager.computeLatency.WithLabelValues(kind).Observe(latencyMs)
	return nil
}

// RecordProjectionRejected counts a rejected future match.
func RecordProjectionRejected(reason string) {
	globalManager.projectionsRejected.WithLabelValues(reason).Inc()
}

// RecordFutureMatches adds n accepted future matches.
func RecordFutureMatches(n int) {
	globalManager.futureMatches.Add(float64(n))
}

// RecordSnapshotHit increments the snapshot hit counter.
func RecordSnapshotHit() {
	globalManager.snapshotHits.Inc()
}

// RecordSnapshotMiss increments the snapshot miss counter.
func RecordSnapshotMiss() {
	globalManager.snapshotMisses.Inc()
}

// RecordSnapshotSave increments the snapshot save counter.
func RecordSnapshotSave() {
	globalManager.snapshotSaves.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemStats samples heap and goroutine gauges.
func UpdateSystemStats() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	globalManager.systemMemoryUsage.Set(float64(ms.HeapInuse))
	globalManager.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
