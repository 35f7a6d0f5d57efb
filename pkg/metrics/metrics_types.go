package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Parse Metrics
	TagsParsedTotal      *prometheus.CounterVec
	ParseErrorsTotal     *prometheus.CounterVec
	ParseDuration        prometheus.Histogram
	RestrictionsPerWay   prometheus.Histogram
	LintDiagnosticsTotal *prometheus.CounterVec

	// Graph Metrics
	GraphNodesTotal       prometheus.Gauge
	GraphEdgesTotal       prometheus.Gauge
	GraphRestrictedEdges  prometheus.Gauge
	GraphBuildsTotal      *prometheus.CounterVec
	GraphBuildDuration    prometheus.Histogram
	GraphWaysSkippedTotal *prometheus.CounterVec

	// Query Metrics
	RoutesTotal          *prometheus.CounterVec
	RouteDuration        *prometheus.HistogramVec
	RouteNodesExpanded   *prometheus.HistogramVec
	RouteCostTotal       *prometheus.HistogramVec
	AffectedScansTotal   prometheus.Counter
	AffectedScanDuration prometheus.Histogram

	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	// Initialize all metrics
	r.initParseMetrics()
	r.initGraphMetrics()
	r.initQueryMetrics()
	r.initHTTPMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
