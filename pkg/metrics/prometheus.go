// Package metrics provides Prometheus metrics for the voice intake service.
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

// Manager manages all Prometheus metrics for the intake service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Core Business Metrics - the upload/transcode/submit pipeline
	uploadsStored      prometheus.Counter
	uploadBytes        prometheus.Counter
	transcodeFallbacks prometheus.Counter
	transcodeDuration  prometheus.Histogram
	submissionsRelayed prometheus.Counter
	submissionErrors   prometheus.Counter

	// Authentication Metrics
	loginsGranted  prometheus.Counter
	loginsRejected prometheus.Counter

	// Retention Metrics - sweep outcomes
	sweepDeleted  prometheus.Counter
	sweepErrors   prometheus.Counter
	sweepLastUnix prometheus.Gauge
	audioFiles    prometheus.Gauge

	// Dispatch Metrics - submission queue health
	dispatchQueueSize     prometheus.Gauge
	dispatchQueueCapacity prometheus.Gauge
	dispatchEnqueueErrors prometheus.Counter
	dispatchLatency       prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics - detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "vocalis",
		subsystem:        "intake",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Core Business Metrics
	m.uploadsStored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "uploads_stored_total",
		Help:      "Total number of audio files written to the upload store",
	})

	m.uploadBytes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upload_bytes_total",
		Help:      "Total number of audio bytes written to the upload store",
	})

	m.transcodeFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "transcode_fallbacks_total",
		Help:      "Total number of conversions that fell back to raw container bytes",
	})

	m.transcodeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "transcode_duration_milliseconds",
		Help:      "Histogram of container-to-WAV conversion duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.submissionsRelayed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_relayed_total",
		Help:      "Total number of client submissions relayed downstream",
	})

	m.submissionErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submission_errors_total",
		Help:      "Total number of downstream relay failures",
	})

	// Authentication Metrics
	m.loginsGranted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "logins_granted_total",
		Help:      "Total number of successful allow-list logins",
	})

	m.loginsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "logins_rejected_total",
		Help:      "Total number of rejected logins (miss, expiry, bad row)",
	})

	// Retention Metrics
	m.sweepDeleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sweep_deleted_total",
		Help:      "Total number of stale audio files reclaimed by the sweeper",
	})

	m.sweepErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sweep_errors_total",
		Help:      "Total number of per-file errors encountered during sweeps",
	})

	m.sweepLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sweep_last_unix",
		Help:      "Unix timestamp of the last completed sweep",
	})

	m.audioFiles = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "audio_files_on_disk",
		Help:      "Current number of audio files in the upload directory",
	})

	// Dispatch Metrics
	m.dispatchQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dispatch_queue_size",
		Help:      "Current size of the submission dispatch queue",
	})

	m.dispatchQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dispatch_queue_capacity",
		Help:      "Maximum capacity of the submission dispatch queue",
	})

	m.dispatchEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dispatch_enqueue_errors_total",
		Help:      "Total number of refused dispatch enqueues",
	})

	m.dispatchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dispatch_latency_milliseconds",
		Help:      "Downstream relay latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Total number of errors by type",
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "error_latency_milliseconds",
			Help:      "Latency of operations that resulted in errors",
			Buckets:   m.histogramBuckets,
		},
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordUploadStored increments the stored uploads counter and byte total.
func RecordUploadStored(sizeBytes int) {
	globalManager.uploadsStored.Inc()
	globalManager.uploadBytes.Add(float64(sizeBytes))
}

// RecordTranscodeFallback increments the transcode fallback counter.
func RecordTranscodeFallback() {
	globalManager.transcodeFallbacks.Inc()
}

// RecordTranscodeDuration records conversion duration in milliseconds.
func RecordTranscodeDuration(durationMs float64) {
	globalManager.transcodeDuration.Observe(durationMs)
}

// RecordSubmissionRelayed increments the relayed submissions counter.
func RecordSubmissionRelayed() {
	globalManager.submissionsRelayed.Inc()
}

// RecordSubmissionError increments the downstream relay error counter.
func RecordSubmissionError() {
	globalManager.submissionErrors.Inc()
}

// RecordLoginGranted increments the successful logins counter.
func RecordLoginGranted() {
	globalManager.loginsGranted.Inc()
}

// RecordLoginRejected increments the rejected logins counter.
func RecordLoginRejected() {
	globalManager.loginsRejected.Inc()
}

// RecordSweep records the outcome of a completed sweep.
func RecordSweep(deleted, errorCount int, completedAt time.Time) {
	globalManager.sweepDeleted.Add(float64(deleted))
	globalManager.sweepErrors.Add(float64(errorCount))
	globalManager.sweepLastUnix.Set(float64(completedAt.Unix()))
}

// UpdateAudioFileCount sets the current number of files in the upload directory.
func UpdateAudioFileCount(count int) {
	globalManager.audioFiles.Set(float64(count))
}

// UpdateDispatchQueueSize sets the current dispatch queue size.
func UpdateDispatchQueueSize(size int) {
	globalManager.dispatchQueueSize.Set(float64(size))
}

// UpdateDispatchQueueCapacity sets the dispatch queue capacity.
func UpdateDispatchQueueCapacity(capacity int) {
	globalManager.dispatchQueueCapacity.Set(float64(capacity))
}

// RecordDispatchEnqueueError increments the refused enqueue counter.
func RecordDispatchEnqueueError() {
	globalManager.dispatchEnqueueErrors.Inc()
}

// RecordDispatchLatency records downstream relay latency in milliseconds.
func RecordDispatchLatency(latencyMs float64) {
	globalManager.dispatchLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent increments the per-component error counter.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType increments the per-type error counter.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint increments the per-endpoint error counter.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records latency for an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the current memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records a GC pause in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by the service.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
