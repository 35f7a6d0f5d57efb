package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmtools/condroute/pkg/api"
	"github.com/osmtools/condroute/pkg/graph"
	"github.com/osmtools/condroute/pkg/logging"
	"github.com/osmtools/condroute/pkg/metrics"
	"github.com/osmtools/condroute/pkg/restriction"
	"github.com/osmtools/condroute/pkg/route"
)

// TestCompleteRoutingWorkflow walks the full pipeline from raw way data
// to routed answers: parse conditional tags, build the graph, publish a
// snapshot, and query it over HTTP.
func TestCompleteRoutingWorkflow(t *testing.T) {
	server := startTestServer(t)
	defer server.Close()

	baseURL := server.URL

	t.Log("=== E2E Test: Complete Routing Workflow ===")

	// Step 1: Check the server is healthy and the graph is loaded.
	t.Log("Step 1: Checking health...")
	health := getJSON(t, baseURL+"/health")
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, float64(4), health["nodes"])
	t.Logf("✓ Server healthy with %v nodes, %v edges", health["nodes"], health["edges"])

	// Step 2: Route a car during the truck ban. Cars are unaffected, so
	// the direct path wins.
	t.Log("Step 2: Routing a car on a weekday morning...")
	carRoute := postRoute(t, baseURL, map[string]any{
		"from":    1,
		"to":      4,
		"profile": "car",
		"at":      "2024-01-01 08:00",
	})
	require.True(t, carRoute["found"].(bool))
	assert.Equal(t, []any{float64(1), float64(2), float64(4)}, carRoute["path"])
	t.Logf("✓ Car took direct path: %v", carRoute["path"])

	// Step 3: Route an HGV at the same time. The weekday ban on the
	// middle way forces the detour.
	t.Log("Step 3: Routing an HGV during the ban...")
	hgvRoute := postRoute(t, baseURL, map[string]any{
		"from":    1,
		"to":      4,
		"profile": "hgv",
		"at":      "2024-01-01 08:00",
	})
	require.True(t, hgvRoute["found"].(bool))
	assert.Equal(t, []any{float64(1), float64(3), float64(4)}, hgvRoute["path"])
	assert.Greater(t, hgvRoute["cost"].(float64), carRoute["cost"].(float64))
	t.Logf("✓ HGV detoured: %v (cost %.1f)", hgvRoute["path"], hgvRoute["cost"])

	// Step 4: Same HGV on Saturday. The ban is inactive, so both
	// profiles agree again.
	t.Log("Step 4: Routing the HGV on Saturday...")
	weekendRoute := postRoute(t, baseURL, map[string]any{
		"from":    1,
		"to":      4,
		"profile": "hgv",
		"at":      "2024-01-06 08:00",
	})
	require.True(t, weekendRoute["found"].(bool))
	assert.Equal(t, carRoute["path"], weekendRoute["path"])
	t.Log("✓ Weekend HGV took the direct path")

	// Step 5: List the edges affected at ban time.
	t.Log("Step 5: Scanning affected edges...")
	affected := getJSON(t, baseURL+"/api/v1/affected?profile=hgv&at=2024-01-01+08:00")
	assert.Equal(t, float64(2), affected["count"])
	t.Logf("✓ %v edges carry an active restriction", affected["count"])

	// Step 6: Validate a tag value through the API.
	t.Log("Step 6: Validating restriction values...")
	valid := postJSON(t, baseURL+"/api/v1/validate", map[string]any{
		"key":   "hgv:conditional",
		"value": "no @ (Mo-Fr 07:00-19:00)",
	})
	assert.True(t, valid["valid"].(bool))

	invalid := postJSON(t, baseURL+"/api/v1/validate", map[string]any{
		"key":   "hgv:conditional",
		"value": "no @ [Mo-Fr 07:00-19:00]",
	})
	require.False(t, invalid["valid"].(bool))
	assert.Equal(t, "no @ (Mo-Fr 07:00-19:00)", invalid["suggestion"])
	t.Logf("✓ Bad brackets repaired to %q", invalid["suggestion"])

	// Step 7: Ask the same route question over GraphQL.
	t.Log("Step 7: Querying over GraphQL...")
	gql := postJSON(t, baseURL+"/graphql", map[string]any{
		"query": `{ shortestPath(from: "1", to: "4", profile: "hgv", at: "2024-01-01 08:00") { found path cost } }`,
	})
	data := gql["data"].(map[string]any)
	sp := data["shortestPath"].(map[string]any)
	require.True(t, sp["found"].(bool))
	assert.Equal(t, []any{"1", "3", "4"}, sp["path"])
	t.Logf("✓ GraphQL agrees: %v", sp["path"])

	// Step 8: Confirm the traffic above landed in the metrics.
	t.Log("Step 8: Checking metrics...")
	resp, err := http.Get(baseURL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "condroute_http_requests_total"))
	assert.True(t, strings.Contains(string(body), "condroute_routes_total"))
	t.Log("✓ Metrics exported")
}

// TestMalformedTagsAreSkipped feeds a way with one broken and one good
// conditional tag. The broken tag is reported, the good one still
// restricts routing.
func TestMalformedTagsAreSkipped(t *testing.T) {
	tags := map[string]string{
		"highway":            "residential",
		"hgv:conditional":    "no @ Mo-Fr 07:00-19:00",
		"access:conditional": "no @ (Sa,Su)",
	}

	restrictions, failures := restriction.ScanTags(tags)
	require.Len(t, failures, 1)
	assert.Equal(t, "hgv:conditional", failures[0].TagKey)
	require.Len(t, restrictions, 1)
	assert.Equal(t, "access", restrictions[0].BaseTag())
}

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	n1 := graph.Point{ID: 1, Lat: 52.000, Lon: 13.000}
	n2 := graph.Point{ID: 2, Lat: 52.000, Lon: 13.001}
	n3 := graph.Point{ID: 3, Lat: 52.001, Lon: 13.000}
	n4 := graph.Point{ID: 4, Lat: 52.001, Lon: 13.001}

	ways := []graph.Way{
		{ID: 100, Tags: map[string]string{"highway": "motorway"}, Points: []graph.Point{n1, n2}},
		{ID: 101, Tags: map[string]string{
			"highway":         "motorway",
			"hgv:conditional": "no @ (Mo-Fr 07:00-19:00)",
		}, Points: []graph.Point{n2, n4}},
		{ID: 102, Tags: map[string]string{"highway": "residential"}, Points: []graph.Point{n1, n3}},
		{ID: 103, Tags: map[string]string{"highway": "residential"}, Points: []graph.Point{n3, n4}},
	}

	parsed := make(map[int64][]*restriction.Restriction, len(ways))
	for _, w := range ways {
		restrictions, failures := restriction.ScanTags(w.Tags)
		require.Empty(t, failures, "way %d has unparseable tags", w.ID)
		parsed[w.ID] = restrictions
	}

	store := graph.NewStore()
	store.Publish(graph.Build(ways, parsed))

	engine := route.NewEngine(store, route.DefaultCostPolicy())
	logger := logging.NewJSONLogger(io.Discard, logging.ErrorLevel)
	registry := metrics.NewRegistry()

	server, err := api.NewServer(engine, store, logger, registry)
	require.NoError(t, err)

	return httptest.NewServer(server.Handler())
}

func postRoute(t *testing.T, baseURL string, body map[string]any) map[string]any {
	t.Helper()
	return postJSON(t, baseURL+"/api/v1/route", body)
}

func postJSON(t *testing.T, url string, body map[string]any) map[string]any {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode, "unexpected status for %s", url)
	return decodeBody(t, resp.Body)
}

func getJSON(t *testing.T, url string) map[string]any {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode, "unexpected status for %s", url)
	return decodeBody(t, resp.Body)
}

func decodeBody(t *testing.T, r io.Reader) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&out), "decoding response body")
	return out
}
