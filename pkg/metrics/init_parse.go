package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initParseMetrics() {
	r.TagsParsedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "condroute_tags_parsed_total",
			Help: "Total number of conditional tags parsed",
		},
		[]string{"tag_key", "status"},
	)

	r.ParseErrorsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "condroute_parse_errors_total",
			Help: "Total number of parse errors by kind",
		},
		[]string{"kind"},
	)

	r.ParseDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "condroute_parse_duration_seconds",
			Help:    "Time spent parsing a single conditional tag value",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01},
		},
	)

	r.RestrictionsPerWay = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "condroute_restrictions_per_way",
			Help:    "Number of conditional restrictions found per way",
			Buckets: []float64{1, 2, 3, 5, 8},
		},
	)

	r.LintDiagnosticsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "condroute_lint_diagnostics_total",
			Help: "Total number of lint diagnostics emitted",
		},
		[]string{"code", "severity"},
	)
}
