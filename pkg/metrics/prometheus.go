// Package metrics provides Prometheus metrics for the rankplot service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the rankplot service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Dataset metrics
	recordsLoaded      prometheus.Gauge
	rowsSkipped        prometheus.Counter
	loadDuration       prometheus.Histogram
	loadErrors         prometheus.Counter
	unknownRankRecords prometheus.Gauge

	// Encoding metrics
	encodeTotal     prometheus.Counter
	encodeErrors    prometheus.Counter
	encodeLatency   prometheus.Histogram
	pointsPlotted   prometheus.Gauge
	pointsPerBucket *prometheus.GaugeVec

	// View metrics
	selectionChanges *prometheus.CounterVec
	viewRevision     prometheus.Gauge
	renderTotal      *prometheus.CounterVec
	renderLatency    *prometheus.HistogramVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "rankplot",
		subsystem:        "view",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// Configure rebuilds the global manager with opts on a fresh registry and
// returns that registry. Call it once at startup, before any recorder or
// registry handler is created.
func Configure(opts ...Option) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(registry))...)
	customRegistry = registry
	return registry
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Enabled reports whether the global manager records anything.
func Enabled() bool {
	return globalManager.enabled
}

// RefreshInterval reports how often the global manager's gauges should be
// refreshed.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// RefreshInterval reports how often gauge updaters should run.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.recordsLoaded = auto.NewGauge(m.gaugeOpts("records_loaded", "Number of player records held in memory"))
	m.rowsSkipped = auto.NewCounter(m.counterOpts("rows_skipped_total", "Malformed CSV rows skipped during load"))
	m.loadDuration = auto.NewHistogram(m.histogramOpts("load_duration_milliseconds", "Time spent loading the CSV dataset"))
	m.loadErrors = auto.NewCounter(m.counterOpts("load_errors_total", "Dataset loads aborted by an error"))
	m.unknownRankRecords = auto.NewGauge(m.gaugeOpts("unknown_rank_records", "Records dropped from the current frame because their rank token is unknown"))

	m.encodeTotal = auto.NewCounter(m.counterOpts("encode_total", "Number of encodings computed"))
	m.encodeErrors = auto.NewCounter(m.counterOpts("encode_errors_total", "Encodings rejected because of an invalid field"))
	m.encodeLatency = auto.NewHistogram(m.histogramOpts("encode_latency_milliseconds", "Encoding latency in milliseconds"))
	m.pointsPlotted = auto.NewGauge(m.gaugeOpts("points_plotted", "Points in the current frame"))
	m.pointsPerBucket = auto.NewGaugeVec(m.gaugeOpts("points_per_bucket", "Points in the current frame per rank bucket"), []string{"bucket"})

	m.selectionChanges = auto.NewCounterVec(m.counterOpts("selection_changes_total", "Axis selection changes by axis"), []string{"axis"})
	m.viewRevision = auto.NewGauge(m.gaugeOpts("revision", "Revision of the current frame"))
	m.renderTotal = auto.NewCounterVec(m.counterOpts("render_total", "Chart renders by output format"), []string{"format"})
	m.renderLatency = auto.NewHistogramVec(m.histogramOpts("render_latency_milliseconds", "Chart render latency by output format"), []string{"format"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"), []string{"endpoint", "method", "status_code"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "HTTP errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total", "HTTP errors by type and severity"), []string{"error_type", "severity"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Allocated heap memory in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_milliseconds", "Average GC pause time in milliseconds"))
}

// RecordLoad records a completed dataset load.
func RecordLoad(records, skipped int, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.recordsLoaded.Set(float64(records))
	globalManager.rowsSkipped.Add(float64(skipped))
	globalManager.loadDuration.Observe(durationMs)
}

// RecordLoadError increments the load error counter.
func RecordLoadError() {
	if !globalManager.enabled {
		return
	}
	globalManager.loadErrors.Inc()
}

// RecordEncode records a successful encoding and the shape of its result.
// perBucket is keyed by bucket name.
func RecordEncode(latencyMs float64, points, dropped int, perBucket map[string]int) {
	if !globalManager.enabled {
		return
	}
	globalManager.encodeTotal.Inc()
	globalManager.encodeLatency.Observe(latencyMs)
	globalManager.pointsPlotted.Set(float64(points))
	globalManager.unknownRankRecords.Set(float64(dropped))
	for bucket, n := range perBucket {
		globalManager.pointsPerBucket.WithLabelValues(bucket).Set(float64(n))
	}
}

// RecordEncodeError increments the encode error counter.
func RecordEncodeError() {
	if !globalManager.enabled {
		return
	}
	globalManager.encodeErrors.Inc()
}

// RecordSelectionChange counts a selection change on axis ("x" or "y").
func RecordSelectionChange(axis string, revision uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.selectionChanges.WithLabelValues(axis).Inc()
	globalManager.viewRevision.Set(float64(revision))
}

// RecordRender records a chart render in the given format.
func RecordRender(format string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.renderTotal.WithLabelValues(format).Inc()
	globalManager.renderLatency.WithLabelValues(format).Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint counts an HTTP error for endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType counts an HTTP error by type and severity.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap size.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}
