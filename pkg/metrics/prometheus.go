// Package metrics provides Prometheus metrics for the talker service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the talker service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// Request validation
	validationFailures *prometheus.CounterVec
	tokensIssued       prometheus.Counter

	// Store
	storeOperations *prometheus.CounterVec
	storeLatency    *prometheus.HistogramVec
	talkersTotal    prometheus.Gauge

	// Write queue and single writer
	writeQueueSize     prometheus.Gauge
	writeQueueCapacity prometheus.Gauge
	writeQueueRejected *prometheus.CounterVec
	writerJobs         *prometheus.CounterVec
	writerJobLatency   prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "talker",
		subsystem:        "service",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counterOpts("http_errors_total", "HTTP error responses by endpoint, method and error type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.validationFailures = auto.NewCounterVec(
		m.counterOpts("validation_failures_total", "Requests rejected by a validation rule"),
		[]string{"chain", "rule"},
	)
	m.tokensIssued = auto.NewCounter(
		m.counterOpts("tokens_issued_total", "Session tokens handed out by the login endpoint"),
	)

	m.storeOperations = auto.NewCounterVec(
		m.counterOpts("store_operations_total", "Store load/save operations by result"),
		[]string{"operation", "result"},
	)
	m.storeLatency = auto.NewHistogramVec(
		m.histogramOpts("store_latency_milliseconds", "Store load/save latency in milliseconds"),
		[]string{"operation"},
	)
	m.talkersTotal = auto.NewGauge(
		m.gaugeOpts("talkers_total", "Number of talker records seen on the last store access"),
	)

	m.writeQueueSize = auto.NewGauge(
		m.gaugeOpts("write_queue_size", "Mutation jobs waiting for the writer"),
	)
	m.writeQueueCapacity = auto.NewGauge(
		m.gaugeOpts("write_queue_capacity", "Maximum number of queued mutation jobs"),
	)
	m.writeQueueRejected = auto.NewCounterVec(
		m.counterOpts("write_queue_rejected_total", "Mutation jobs rejected by the queue"),
		[]string{"reason"},
	)
	m.writerJobs = auto.NewCounterVec(
		m.counterOpts("writer_jobs_total", "Mutation jobs applied by the writer by result"),
		[]string{"result"},
	)
	m.writerJobLatency = auto.NewHistogram(
		m.histogramOpts("writer_job_latency_milliseconds", "Time to apply one mutation job, load to save"),
	)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an error response for an endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordValidationFailure records a rejection by rule of chain.
func RecordValidationFailure(chain, rule string) {
	globalManager.validationFailures.WithLabelValues(chain, rule).Inc()
}

// RecordTokenIssued increments the issued tokens counter.
func RecordTokenIssued() {
	globalManager.tokensIssued.Inc()
}

// RecordStoreOperation records a store operation and its latency.
func RecordStoreOperation(operation string, err error, latencyMs float64) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	globalManager.storeOperations.WithLabelValues(operation, result).Inc()
	globalManager.storeLatency.WithLabelValues(operation).Observe(latencyMs)
}

// UpdateTalkersTotal sets the talker count gauge.
func UpdateTalkersTotal(count int) {
	globalManager.talkersTotal.Set(float64(count))
}

// UpdateWriteQueueSize sets the number of pending mutation jobs.
func UpdateWriteQueueSize(size int) {
	globalManager.writeQueueSize.Set(float64(size))
}

// UpdateWriteQueueCapacity sets the write queue capacity.
func UpdateWriteQueueCapacity(capacity int) {
	globalManager.writeQueueCapacity.Set(float64(capacity))
}

// RecordWriteQueueRejected records a job the queue refused.
func RecordWriteQueueRejected(reason string) {
	globalManager.writeQueueRejected.WithLabelValues(reason).Inc()
}

// RecordWriterJob records one applied job.
func RecordWriterJob(err error, latencyMs float64) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	globalManager.writerJobs.WithLabelValues(result).Inc()
	globalManager.writerJobLatency.Observe(latencyMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
