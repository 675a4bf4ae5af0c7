// Package metrics provides Prometheus metrics for the diveplan service.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for distribution runs.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeError   = "error"
)

// Manager manages all Prometheus metrics for the diveplan service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Core Business Metrics
	distributionRuns     *prometheus.CounterVec
	distributionFailures *prometheus.CounterVec
	distributionLatency  prometheus.Histogram
	participantsPerRun   prometheus.Histogram
	lastRunEscorts       prometheus.Gauge
	lastRunWards         prometheus.Gauge
	rebalances           *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager atomic.Pointer[Manager] //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager.Store(NewManager(WithPrometheusRegistry(customRegistry)))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "diveplan",
		subsystem:        "distribution",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
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
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	// Core Business Metrics
	m.distributionRuns = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "runs_total",
			Help:        "Total number of distribution runs by outcome",
			ConstLabels: labels,
		},
		[]string{"outcome"},
	)

	m.distributionFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "failures_total",
			Help:        "Total number of failed distribution runs by failure kind",
			ConstLabels: labels,
		},
		[]string{"kind"},
	)

	m.distributionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_latency_milliseconds",
		Help:        "Histogram of distribution run latency in milliseconds",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		ConstLabels: labels,
	})

	m.participantsPerRun = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "participants_per_run",
		Help:        "Number of participants submitted per run",
		Buckets:     []float64{3, 5, 10, 15, 20, 30, 50, 100},
		ConstLabels: labels,
	})

	m.lastRunEscorts = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_escorts",
		Help:        "Escorts classified in the most recent run",
		ConstLabels: labels,
	})

	m.lastRunWards = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_wards",
		Help:        "Wards classified in the most recent run",
		ConstLabels: labels,
	})

	m.rebalances = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "rebalances_total",
			Help:        "Successful runs by rebalancing case",
			ConstLabels: labels,
		},
		[]string{"case"},
	)

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Error Metrics
	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_type_total",
			Help:        "Errors by type and severity",
			ConstLabels: labels,
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_endpoint_total",
			Help:        "Errors by endpoint, method and type",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "error_latency_milliseconds",
			Help:        "Latency of failed requests in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "System memory usage in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: labels,
	})
}

// RecordRun records a finished distribution run.
func (m *Manager) RecordRun(outcome string, participants int, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.distributionRuns.WithLabelValues(outcome).Inc()
	m.participantsPerRun.Observe(float64(participants))
	m.distributionLatency.Observe(latencyMs)
}

// RecordFailure counts a failed run by failure kind.
func (m *Manager) RecordFailure(kind string) {
	if !m.enabled {
		return
	}
	m.distributionFailures.WithLabelValues(kind).Inc()
}

// RecordClassification updates the escort and ward gauges.
func (m *Manager) RecordClassification(escorts, wards int) {
	if !m.enabled {
		return
	}
	m.lastRunEscorts.Set(float64(escorts))
	m.lastRunWards.Set(float64(wards))
}

// RecordRebalance counts a successful run by rebalancing case.
func (m *Manager) RecordRebalance(rebalanceCase string) {
	if !m.enabled {
		return
	}
	m.rebalances.WithLabelValues(rebalanceCase).Inc()
}

// RecordHTTPRequest records a served HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records a failed HTTP request.
func (m *Manager) RecordHTTPError(endpoint, method, errorType, severity string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
	m.errorLatency.WithLabelValues("http", errorType).Observe(latencyMs)
}

// UpdateSystem records memory, goroutine and GC pause readings.
func (m *Manager) UpdateSystem(memBytes uint64, goroutines int, gcPauseMs float64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
	if gcPauseMs > 0 {
		m.systemGCPauseTime.Observe(gcPauseMs)
	}
}

// Global returns the process-wide manager.
func Global() *Manager { return globalManager.Load() }

// SetEnabled toggles recording on the process-wide manager. Call it before
// serving traffic.
func SetEnabled(enabled bool) { globalManager.Load().enabled = enabled }

// RecordRun records a finished distribution run on the global manager.
func RecordRun(outcome string, participants int, latencyMs float64) {
	Global().RecordRun(outcome, participants, latencyMs)
}

// RecordFailure counts a failed run on the global manager.
func RecordFailure(kind string) { Global().RecordFailure(kind) }

// RecordClassification updates escort and ward gauges on the global manager.
func RecordClassification(escorts, wards int) { Global().RecordClassification(escorts, wards) }

// RecordRebalance counts a rebalancing case on the global manager.
func RecordRebalance(rebalanceCase string) { Global().RecordRebalance(rebalanceCase) }

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	Global().RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordHTTPError records a failed HTTP request on the global manager.
func RecordHTTPError(endpoint, method, errorType, severity string, latencyMs float64) {
	Global().RecordHTTPError(endpoint, method, errorType, severity, latencyMs)
}

// UpdateSystem records system readings on the global manager.
func UpdateSystem(memBytes uint64, goroutines int, gcPauseMs float64) {
	Global().UpdateSystem(memBytes, goroutines, gcPauseMs)
}

// GetRegistry returns the custom Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
