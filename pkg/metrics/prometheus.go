// Package metrics provides Prometheus metrics for the eventwise service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the eventwise service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Engine
	recommendations  prometheus.Counter
	refineIntents    *prometheus.CounterVec
	summaryHits      prometheus.Counter
	summaryMisses    prometheus.Counter
	summaryShared    prometheus.Counter
	sentiments       *prometheus.CounterVec
	operationLatency *prometheus.HistogramVec
	operationErrors  *prometheus.CounterVec

	// Collaborator state
	activeSessions prometheus.Gauge
	catalogEvents  prometheus.Gauge
	reviewsStored  prometheus.Counter
	reviewsDup     prometheus.Counter

	// Queue
	queueSize         prometheus.Gauge
	queueCapacity     prometheus.Gauge
	queueUtilization  prometheus.Gauge
	queueEnqueued     prometheus.Counter
	queueDequeued     prometheus.Counter
	queueEnqueueError *prometheus.CounterVec
	queueWaitLatency  prometheus.Histogram

	// Workers
	workerCount         prometheus.Gauge
	workerBusy          prometheus.Gauge
	workerJobsPerSecond prometheus.Gauge
	workerLatency       *prometheus.HistogramVec
	workerErrors        prometheus.Counter
	jobsSkipped         *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Runtime
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// latencyBuckets are milliseconds; the engine itself is sub-millisecond and
// the tail covers queue waits and simulated backends.
var latencyBuckets = []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500} //nolint:gochecknoglobals

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "eventwise",
		subsystem:        "engine",
		histogramBuckets: latencyBuckets,
		constLabels:      prometheus.Labels{},
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

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.histogramBuckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.recommendations = m.counter("recommendations_total", "Recommendations published by recommend and refine")
	m.refineIntents = m.counterVec("refine_intents_total", "Refinement prompts by classified intent", "intent")
	m.summaryHits = m.counter("summary_cache_hits_total", "Summary requests served from the cache")
	m.summaryMisses = m.counter("summary_cache_misses_total", "Summary requests that missed the cache")
	m.summaryShared = m.counter("summary_shared_total", "Summary requests that joined an in-flight computation")
	m.sentiments = m.counterVec("summary_sentiment_total", "Computed summaries by sentiment", "sentiment")
	m.operationLatency = m.histogramVec("operation_latency_milliseconds", "Latency of engine operations", "operation")
	m.operationErrors = m.counterVec("operation_errors_total", "Failed engine operations by error kind", "operation", "kind")

	m.activeSessions = m.gauge("active_sessions", "Sessions holding a transcript or recommendation list")
	m.catalogEvents = m.gauge("catalog_events", "Events in the loaded catalog")
	m.reviewsStored = m.counter("reviews_stored_total", "Reviews accepted by the review store")
	m.reviewsDup = m.counter("reviews_duplicate_total", "Reviews rejected as duplicate submissions")

	m.queueSize = m.gauge("queue_size", "Current number of queued jobs")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum number of queued jobs")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue size divided by capacity")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Jobs accepted by the queue")
	m.queueDequeued = m.counter("queue_dequeued_total", "Jobs handed to workers")
	m.queueEnqueueError = m.counterVec("queue_enqueue_errors_total", "Rejected enqueues by reason", "reason")
	m.queueWaitLatency = m.histogram("queue_wait_milliseconds", "Time a job spent queued before a worker picked it up")

	m.workerCount = m.gauge("worker_count", "Number of workers in the pool")
	m.workerBusy = m.gauge("worker_busy", "Workers currently executing a job")
	m.workerJobsPerSecond = m.gauge("worker_jobs_per_second", "Jobs completed per second over the last interval")
	m.workerLatency = m.histogramVec("worker_job_milliseconds", "Job execution time by operation", "operation")
	m.workerErrors = m.counter("worker_errors_total", "Jobs that panicked")
	m.jobsSkipped = m.counterVec("jobs_skipped_total", "Jobs dropped because their caller had gone", "operation")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by route, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration", "endpoint", "method", "status_code")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordRecommendations adds n published recommendations.
func RecordRecommendations(n int) {
	globalManager.recommendations.Add(float64(n))
}

// RecordRefineIntent counts a refinement by intent.
func RecordRefineIntent(intent string) {
	globalManager.refineIntents.WithLabelValues(intent).Inc()
}

// RecordSummaryCacheHit counts a summary served from the cache.
func RecordSummaryCacheHit() {
	globalManager.summaryHits.Inc()
}

// RecordSummaryCacheMiss counts a summary request that missed the cache.
func RecordSummaryCacheMiss() {
	globalManager.summaryMisses.Inc()
}

// RecordSummaryShared counts a caller that received another caller's computation.
func RecordSummaryShared() {
	globalManager.summaryShared.Inc()
}

// RecordSentiment counts a computed summary by sentiment.
func RecordSentiment(sentiment string) {
	globalManager.sentiments.WithLabelValues(sentiment).Inc()
}

// RecordOperationLatency records an operation's latency in milliseconds.
func RecordOperationLatency(operation string, latencyMs float64) {
	globalManager.operationLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordOperationError counts a failed operation.
func RecordOperationError(operation, kind string) {
	globalManager.operationErrors.WithLabelValues(operation, kind).Inc()
}

// UpdateActiveSessions sets the active session gauge.
func UpdateActiveSessions(count int) {
	globalManager.activeSessions.Set(float64(count))
}

// UpdateCatalogEvents sets the catalog size gauge.
func UpdateCatalogEvents(count int) {
	globalManager.catalogEvents.Set(float64(count))
}

// RecordReviewStored counts an accepted review.
func RecordReviewStored() {
	globalManager.reviewsStored.Inc()
}

// RecordReviewDuplicate counts a rejected duplicate submission.
func RecordReviewDuplicate() {
	globalManager.reviewsDup.Inc()
}

// UpdateQueueSize sets the queue size gauge.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity gauge.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization gauge.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue counts an accepted job.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue counts a job handed to a worker.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError counts a rejected job.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueError.WithLabelValues(reason).Inc()
}

// RecordQueueWaitLatency records how long a job waited in milliseconds.
func RecordQueueWaitLatency(latencyMs float64) {
	globalManager.queueWaitLatency.Observe(latencyMs)
}

// UpdateWorkerCount sets the worker count gauge.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerBusy sets the busy worker gauge.
func UpdateWorkerBusy(count int) {
	globalManager.workerBusy.Set(float64(count))
}

// UpdateWorkerJobsPerSecond sets the worker throughput gauge.
func UpdateWorkerJobsPerSecond(rate float64) {
	globalManager.workerJobsPerSecond.Set(rate)
}

// RecordWorkerProcessingLatency records job execution time in milliseconds.
func RecordWorkerProcessingLatency(operation string, latencyMs float64) {
	globalManager.workerLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordWorkerError counts a job that panicked.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordJobSkipped counts a job dropped because its context had ended.
func RecordJobSkipped(operation string) {
	globalManager.jobsSkipped.WithLabelValues(operation).Inc()
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateSystemMemoryUsage sets the heap usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the registry the global manager writes to.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
