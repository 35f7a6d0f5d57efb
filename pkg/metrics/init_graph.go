package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "condroute_graph_nodes_total",
			Help: "Number of nodes in the current routing graph",
		},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "condroute_graph_edges_total",
			Help: "Number of directed edges in the current routing graph",
		},
	)

	r.GraphRestrictedEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "condroute_graph_restricted_edges",
			Help: "Number of edges carrying at least one conditional restriction",
		},
	)

	r.GraphBuildsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "condroute_graph_builds_total",
			Help: "Total number of graph builds",
		},
		[]string{"status"},
	)

	r.GraphBuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "condroute_graph_build_duration_seconds",
			Help:    "Time spent building the routing graph",
			Buckets: []float64{0.01, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)

	r.GraphWaysSkippedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "condroute_graph_ways_skipped_total",
			Help: "Total number of ways excluded from the graph",
		},
		[]string{"reason"},
	)
}
