// Package metrics provides Prometheus metrics for the swing analysis service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// scoreBuckets cover the 0-100 score domain.
var scoreBuckets = []float64{10, 20, 30, 40, 50, 60, 65, 70, 75, 80, 85, 90, 95, 100} //nolint:gochecknoglobals // fixed bucket layout

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Analysis metrics
	analysesSubmitted     prometheus.Counter
	analysesProcessed     *prometheus.CounterVec
	analysesDuplicate     prometheus.Counter
	analysisLatency       prometheus.Histogram
	overallScore          *prometheus.HistogramVec
	componentsNotAssessed *prometheus.CounterVec
	validationResults     *prometheus.CounterVec
	sequenceVerdicts      *prometheus.CounterVec
	phaseDetections       *prometheus.CounterVec

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec

	// Worker metrics
	workerActiveCount       prometheus.Gauge
	workerMessagesPerSecond prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Repository metrics
	repositoryRecords prometheus.Gauge
	repositoryLatency *prometheus.HistogramVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRateLimited     *prometheus.CounterVec

	// Error metrics
	errorsByComponent *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "swingiq",
		subsystem:        "analysis",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.analysesSubmitted = m.counter("analyses_submitted_total", "Swing records accepted for analysis")
	m.analysesProcessed = m.counterVec("analyses_processed_total", "Swing records analyzed and stored, by source", "source")
	m.analysesDuplicate = m.counter("analyses_duplicate_total", "Swing records rejected as duplicates")
	m.analysisLatency = m.histogram("analysis_latency_milliseconds", "Time to analyze one swing record", m.histogramBuckets)
	m.overallScore = m.histogramVec("overall_score", "Overall composite score by engine", scoreBuckets, "engine")
	m.componentsNotAssessed = m.counterVec("components_not_assessed_total", "Components reported as N/A, by component", "component")
	m.validationResults = m.counterVec("phase_validation_results_total", "Phase validation checks by test, severity and outcome", "test", "severity", "outcome")
	m.sequenceVerdicts = m.counterVec("sequence_verdicts_total", "Kinematic sequence verdicts", "verdict")
	m.phaseDetections = m.counterVec("phase_detections_total", "Pose-based phase detections by quality level", "quality")

	m.queueSize = m.gauge("queue_size", "Current number of queued swing records")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum number of queued swing records")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue size divided by capacity")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Swing records enqueued")
	m.queueDequeued = m.counter("queue_dequeued_total", "Swing records dequeued")
	m.queueEnqueueErrors = m.counterVec("queue_enqueue_errors_total", "Rejected enqueues by reason", "reason")

	m.workerActiveCount = m.gauge("worker_active_count", "Number of running workers")
	m.workerMessagesPerSecond = m.gauge("worker_messages_per_second", "Records processed per second across the pool")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Time to analyze and store one record", m.histogramBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Records a worker failed to process")

	m.repositoryRecords = m.gauge("repository_records", "Stored analyses")
	m.repositoryLatency = m.histogramVec("repository_latency_milliseconds", "Repository operation latency", m.histogramBuckets, "operation")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets, "endpoint", "method", "status_code")
	m.httpRateLimited = m.counterVec("http_rate_limited_total", "Requests rejected by the rate limiter", "endpoint")

	m.errorsByComponent = m.counterVec("errors_total", "Errors by component and type", "component", "type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordAnalysisSubmitted increments the accepted-submissions counter.
func RecordAnalysisSubmitted() {
	globalManager.analysesSubmitted.Inc()
}

// RecordAnalysisProcessed counts one stored analysis.
func RecordAnalysisProcessed(source string) {
	globalManager.analysesProcessed.WithLabelValues(source).Inc()
}

// RecordAnalysisDuplicate counts a rejected duplicate.
func RecordAnalysisDuplicate() {
	globalManager.analysesDuplicate.Inc()
}

// RecordAnalysisLatency records analysis time in milliseconds.
func RecordAnalysisLatency(latencyMs float64) {
	globalManager.analysisLatency.Observe(latencyMs)
}

// RecordOverallScore records an engine's overall score.
func RecordOverallScore(engine string, score float64) {
	globalManager.overallScore.WithLabelValues(engine).Observe(score)
}

// RecordComponentNotAssessed counts an N/A component.
func RecordComponentNotAssessed(component string) {
	globalManager.componentsNotAssessed.WithLabelValues(component).Inc()
}

// RecordValidationResult counts one phase validation check.
func RecordValidationResult(test, severity string, passed bool) {
	outcome := "fail"
	if passed {
		outcome = "pass"
	}
	globalManager.validationResults.WithLabelValues(test, severity, outcome).Inc()
}

// RecordSequenceVerdict counts a kinematic sequence verdict.
func RecordSequenceVerdict(verdict string) {
	globalManager.sequenceVerdicts.WithLabelValues(verdict).Inc()
}

// RecordPhaseDetection counts a pose-based detection by quality level.
func RecordPhaseDetection(quality string) {
	globalManager.phaseDetections.WithLabelValues(quality).Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue counts an enqueue.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue counts a dequeue.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError counts a rejected enqueue.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// UpdateWorkerMessagesPerSecond sets the pool throughput.
func UpdateWorkerMessagesPerSecond(rate float64) {
	globalManager.workerMessagesPerSecond.Set(rate)
}

// RecordWorkerProcessingLatency records worker latency in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a failed record.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// UpdateRepositoryRecords sets the number of stored analyses.
func UpdateRepositoryRecords(count int) {
	globalManager.repositoryRecords.Set(float64(count))
}

// RecordRepositoryLatency records a repository operation latency.
func RecordRepositoryLatency(operation string, latencyMs float64) {
	globalManager.repositoryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPRateLimited counts a request rejected by the rate limiter.
func RecordHTTPRateLimited(endpoint string) {
	globalManager.httpRateLimited.WithLabelValues(endpoint).Inc()
}

// RecordErrorByComponent counts an error.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets heap memory in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
