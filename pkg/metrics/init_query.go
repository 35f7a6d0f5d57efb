package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initQueryMetrics() {
	r.RoutesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "condroute_routes_total",
			Help: "Total number of route queries executed",
		},
		[]string{"profile", "status"},
	)

	r.RouteDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "condroute_route_duration_seconds",
			Help:    "Route query execution duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"profile"},
	)

	r.RouteNodesExpanded = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "condroute_route_nodes_expanded",
			Help:    "Number of nodes expanded per route query",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		},
		[]string{"profile"},
	)

	r.RouteCostTotal = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "condroute_route_cost_total",
			Help:    "Total cost of completed routes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"profile"},
	)

	r.AffectedScansTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "condroute_affected_scans_total",
			Help: "Total number of affected-edge scans executed",
		},
	)

	r.AffectedScanDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "condroute_affected_scan_duration_seconds",
			Help:    "Affected-edge scan duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0},
		},
	)
}
