package metrics

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RecordTagParsed records the outcome of parsing a single conditional tag
func (r *Registry) RecordTagParsed(tagKey, status string, duration time.Duration) {
	r.TagsParsedTotal.WithLabelValues(tagKey, status).Inc()
	r.ParseDuration.Observe(duration.Seconds())
}

// RecordParseError records a parse failure by error kind
func (r *Registry) RecordParseError(kind string) {
	r.ParseErrorsTotal.WithLabelValues(kind).Inc()
}

// RecordLintDiagnostic records a single lint diagnostic
func (r *Registry) RecordLintDiagnostic(code, severity string) {
	r.LintDiagnosticsTotal.WithLabelValues(code, severity).Inc()
}

// RecordGraphBuild records a graph build and updates the size gauges
func (r *Registry) RecordGraphBuild(status string, nodes, edges, restricted int, duration time.Duration) {
	r.GraphBuildsTotal.WithLabelValues(status).Inc()
	r.GraphBuildDuration.Observe(duration.Seconds())
	r.GraphNodesTotal.Set(float64(nodes))
	r.GraphEdgesTotal.Set(float64(edges))
	r.GraphRestrictedEdges.Set(float64(restricted))
}

// RecordWaysSkipped counts ways a graph build excluded, by reason
func (r *Registry) RecordWaysSkipped(reason string, count int) {
	r.GraphWaysSkippedTotal.WithLabelValues(reason).Add(float64(count))
}

// RecordRoute records a route query execution
func (r *Registry) RecordRoute(profile, status string, duration time.Duration, nodesExpanded int, cost float64) {
	r.RoutesTotal.WithLabelValues(profile, status).Inc()
	r.RouteDuration.WithLabelValues(profile).Observe(duration.Seconds())
	r.RouteNodesExpanded.WithLabelValues(profile).Observe(float64(nodesExpanded))
	if status == "found" {
		r.RouteCostTotal.WithLabelValues(profile).Observe(cost)
	}
}

// RecordAffectedScan records an affected-edge scan
func (r *Registry) RecordAffectedScan(duration time.Duration) {
	r.AffectedScansTotal.Inc()
	r.AffectedScanDuration.Observe(duration.Seconds())
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// UpdateSystemMetrics refreshes uptime and runtime gauges
func (r *Registry) UpdateSystemMetrics(startTime time.Time) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	r.UptimeSeconds.Set(time.Since(startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(mem.Alloc))
}

// Handler returns an HTTP handler exposing this registry in Prometheus format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
