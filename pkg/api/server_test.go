package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/osmtools/condroute/pkg/graph"
	"github.com/osmtools/condroute/pkg/logging"
	"github.com/osmtools/condroute/pkg/metrics"
	"github.com/osmtools/condroute/pkg/restriction"
	"github.com/osmtools/condroute/pkg/route"
)

// newTestServer builds a server over a four-node square with a weekday
// HGV ban on way 101 (the fast side).
func newTestServer(t *testing.T) *Server {
	t.Helper()

	n1 := graph.Point{ID: 1, Lat: 52.000, Lon: 13.000}
	n2 := graph.Point{ID: 2, Lat: 52.000, Lon: 13.001}
	n3 := graph.Point{ID: 3, Lat: 52.001, Lon: 13.000}
	n4 := graph.Point{ID: 4, Lat: 52.001, Lon: 13.001}

	ways := []graph.Way{
		{ID: 100, Tags: map[string]string{"highway": "motorway"}, Points: []graph.Point{n1, n2}},
		{ID: 101, Tags: map[string]string{"highway": "motorway"}, Points: []graph.Point{n2, n4}},
		{ID: 102, Tags: map[string]string{"highway": "residential"}, Points: []graph.Point{n1, n3}},
		{ID: 103, Tags: map[string]string{"highway": "residential"}, Points: []graph.Point{n3, n4}},
	}

	r, err := restriction.Parse("hgv:conditional", "no @ (Mo-Fr 07:00-19:00)")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	store := graph.NewStore()
	store.Publish(graph.Build(ways, map[int64][]*restriction.Restriction{101: {r}}))
	engine := route.NewEngine(store, route.DefaultCostPolicy())

	logger := logging.NewJSONLogger(io.Discard, logging.ErrorLevel)
	server, err := NewServer(engine, store, logger, metrics.NewRegistry())
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("Unmarshal failed: %v\nbody: %s", err, rec.Body.String())
	}
	return v
}

// TestRouteEndpoint exercises the weekday HGV detour through the JSON
// API.
func TestRouteEndpoint(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/route", map[string]any{
		"from": 1, "to": 4, "profile": "hgv", "at": "2024-01-01 08:00",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	resp := decode[RouteResponse](t, rec)
	if !resp.Found {
		t.Fatal("Expected a route")
	}
	want := []int64{1, 3, 4}
	if len(resp.Path) != 3 || resp.Path[0] != want[0] || resp.Path[1] != want[1] || resp.Path[2] != want[2] {
		t.Errorf("Path = %v, want %v", resp.Path, want)
	}
	if resp.Cost <= 0 {
		t.Errorf("Cost = %v, want positive", resp.Cost)
	}

	// Same request on Saturday takes the fast side
	rec = doJSON(t, handler, http.MethodPost, "/api/v1/route", map[string]any{
		"from": 1, "to": 4, "profile": "hgv", "at": "2024-01-06 08:00",
	})
	resp = decode[RouteResponse](t, rec)
	if len(resp.Path) != 3 || resp.Path[1] != 2 {
		t.Errorf("Saturday path = %v, want via node 2", resp.Path)
	}
}

// TestRouteEndpointRejectsBadRequests covers validation failures.
func TestRouteEndpointRejectsBadRequests(t *testing.T) {
	handler := newTestServer(t).Handler()

	tests := []struct {
		name string
		body any
	}{
		{"missing profile", map[string]any{"from": 1, "to": 4}},
		{"unknown profile", map[string]any{"from": 1, "to": 4, "profile": "hovercraft"}},
		{"same endpoints", map[string]any{"from": 1, "to": 1, "profile": "car"}},
		{"bad time", map[string]any{"from": 1, "to": 4, "profile": "car", "at": "yesterday"}},
		{"negative weight", map[string]any{"from": 1, "to": 4, "profile": "hgv", "weightTonnes": -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, handler, http.MethodPost, "/api/v1/route", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			resp := decode[ErrorResponse](t, rec)
			if resp.Message == "" {
				t.Error("Expected an error message")
			}
		})
	}
}

func TestRouteEndpointMethodNotAllowed(t *testing.T) {
	handler := newTestServer(t).Handler()
	rec := doJSON(t, handler, http.MethodGet, "/api/v1/route", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Status = %d, want 405", rec.Code)
	}
}

// TestValidateEndpoint checks both outcomes plus fix suggestions.
func TestValidateEndpoint(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/validate", map[string]string{
		"key": "hgv:conditional", "value": "no @ (Mo-Fr 07:00-19:00)",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	resp := decode[ValidateResponse](t, rec)
	if !resp.Valid {
		t.Errorf("Expected valid: %s", resp.Message)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/validate", map[string]string{
		"key": "hgv:conditional", "value": "no @ [Mo-Fr 07:00-19:00]",
	})
	resp = decode[ValidateResponse](t, rec)
	if resp.Valid {
		t.Error("Expected invalid for bracket syntax")
	}
	if resp.Suggestion != "no @ (Mo-Fr 07:00-19:00)" {
		t.Errorf("Suggestion = %q, want parenthesized fix", resp.Suggestion)
	}
	if len(resp.Diagnostics) == 0 {
		t.Error("Expected lint diagnostics")
	}
}

// TestAffectedEndpoint checks the active-restriction listing.
func TestAffectedEndpoint(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/affected?profile=hgv&at=2024-01-01+08:00", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	resp := decode[AffectedResponse](t, rec)
	if resp.Count != 2 {
		t.Errorf("Count = %d, want 2", resp.Count)
	}
	for _, e := range resp.Edges {
		if e.WayID != 101 {
			t.Errorf("WayID = %d, want 101", e.WayID)
		}
		if len(e.Restrictions) == 0 {
			t.Error("Expected restriction descriptions")
		}
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/affected?profile=hgv&at=2024-01-06+08:00", nil)
	resp = decode[AffectedResponse](t, rec)
	if resp.Count != 0 {
		t.Errorf("Saturday count = %d, want 0", resp.Count)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/affected?profile=tank", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Unknown profile status = %d, want 400", rec.Code)
	}
}

// TestHealthEndpoint checks liveness and graph size reporting.
func TestHealthEndpoint(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	resp := decode[HealthResponse](t, rec)
	if resp.Status != "healthy" {
		t.Errorf("Status = %q, want healthy", resp.Status)
	}
	if resp.Nodes != 4 {
		t.Errorf("Nodes = %d, want 4", resp.Nodes)
	}
	if resp.Edges != 8 {
		t.Errorf("Edges = %d, want 8", resp.Edges)
	}
}

// TestMetricsEndpoint verifies the Prometheus exposition is wired.
func TestMetricsEndpoint(t *testing.T) {
	handler := newTestServer(t).Handler()

	// Generate one request first so counters exist
	doJSON(t, handler, http.MethodGet, "/health", nil)

	rec := doJSON(t, handler, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("condroute_http_requests_total")) {
		t.Error("Expected condroute_http_requests_total in exposition")
	}
}

// TestRequestIDHeader verifies the middleware assigns and echoes ids.
func TestRequestIDHeader(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodGet, "/health", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("Expected a generated X-Request-ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") != "fixed-id" {
		t.Error("Expected the caller's X-Request-ID to be echoed")
	}
}

// TestGraphQLEndpointWired verifies /graphql serves the schema.
func TestGraphQLEndpointWired(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodPost, "/graphql", map[string]string{"query": "{ health }"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"health":"ok"`)) {
		t.Errorf("Unexpected body: %s", rec.Body.String())
	}
}
