package graph

import (
	"math"
	"testing"

	"github.com/osmtools/condroute/pkg/restriction"
)

func road(id int64, highway string, points ...Point) Way {
	return Way{
		ID:     id,
		Tags:   map[string]string{"highway": highway},
		Points: points,
	}
}

// TestBuildBidirectional verifies a plain two-point way yields edges in
// both directions over the same geometry.
func TestBuildBidirectional(t *testing.T) {
	g := Build([]Way{
		road(1, "residential", Point{ID: 10, Lat: 52.0, Lon: 13.0}, Point{ID: 11, Lat: 52.001, Lon: 13.0}),
	}, nil)

	if g.NodeCount() != 2 {
		t.Fatalf("NodeCount = %d, want 2", g.NodeCount())
	}
	if g.EdgeCount() != 2 {
		t.Fatalf("EdgeCount = %d, want 2", g.EdgeCount())
	}

	forward := g.Neighbors(10)
	if len(forward) != 1 || forward[0].To != 11 {
		t.Fatalf("Neighbors(10) = %+v, want single edge to 11", forward)
	}
	if forward[0].Reversed {
		t.Error("Forward edge marked reversed")
	}

	back := g.Neighbors(11)
	if len(back) != 1 || back[0].To != 10 {
		t.Fatalf("Neighbors(11) = %+v, want single edge to 10", back)
	}
	if !back[0].Reversed {
		t.Error("Back edge not marked reversed")
	}

	if forward[0].BaseCost != back[0].BaseCost {
		t.Errorf("Asymmetric base cost: %v vs %v", forward[0].BaseCost, back[0].BaseCost)
	}
}

// TestBuildOneway verifies oneway tagging suppresses the reverse edge
// and that -1 reverses the direction of travel.
func TestBuildOneway(t *testing.T) {
	a := Point{ID: 10, Lat: 52.0, Lon: 13.0}
	b := Point{ID: 11, Lat: 52.001, Lon: 13.0}

	for _, value := range []string{"yes", "true", "1"} {
		way := road(1, "residential", a, b)
		way.Tags["oneway"] = value
		g := Build([]Way{way}, nil)

		if g.EdgeCount() != 1 {
			t.Fatalf("oneway=%s: EdgeCount = %d, want 1", value, g.EdgeCount())
		}
		e := g.Neighbors(10)
		if len(e) != 1 || e[0].To != 11 {
			t.Errorf("oneway=%s: expected edge 10->11", value)
		}
	}

	way := road(1, "residential", a, b)
	way.Tags["oneway"] = "-1"
	g := Build([]Way{way}, nil)

	if g.EdgeCount() != 1 {
		t.Fatalf("oneway=-1: EdgeCount = %d, want 1", g.EdgeCount())
	}
	e := g.Neighbors(11)
	if len(e) != 1 || e[0].To != 10 {
		t.Errorf("oneway=-1: expected edge 11->10, got Neighbors(11)=%+v", e)
	}
}

// TestBuildSkipsUnroutableWays verifies the routable filter.
func TestBuildSkipsUnroutableWays(t *testing.T) {
	a := Point{ID: 10, Lat: 52.0, Lon: 13.0}
	b := Point{ID: 11, Lat: 52.001, Lon: 13.0}

	ways := []Way{
		{ID: 1, Tags: map[string]string{"waterway": "river"}, Points: []Point{a, b}},
		road(2, "proposed", a, b),
		road(3, "construction", a, b),
		road(4, "abandoned", a, b),
		road(5, "razed", a, b),
		road(6, "residential", a), // single point
	}

	g := Build(ways, nil)
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0", g.EdgeCount())
	}
	if g.NodeCount() != 0 {
		t.Errorf("NodeCount = %d, want 0", g.NodeCount())
	}

	skipped := g.SkippedWays()
	if skipped["no_highway"] != 1 {
		t.Errorf("skipped[no_highway] = %d, want 1", skipped["no_highway"])
	}
	if skipped["excluded_highway"] != 4 {
		t.Errorf("skipped[excluded_highway] = %d, want 4", skipped["excluded_highway"])
	}
	if skipped["too_few_points"] != 1 {
		t.Errorf("skipped[too_few_points] = %d, want 1", skipped["too_few_points"])
	}
}

// TestBuildJoinsWaysAtSharedPoints verifies ways sharing a point id
// form one connected network.
func TestBuildJoinsWaysAtSharedPoints(t *testing.T) {
	g := Build([]Way{
		road(1, "residential",
			Point{ID: 10, Lat: 52.0, Lon: 13.0},
			Point{ID: 11, Lat: 52.001, Lon: 13.0}),
		road(2, "residential",
			Point{ID: 11, Lat: 52.001, Lon: 13.0},
			Point{ID: 12, Lat: 52.002, Lon: 13.0}),
	}, nil)

	if g.NodeCount() != 3 {
		t.Fatalf("NodeCount = %d, want 3", g.NodeCount())
	}

	// Node 11 reaches both neighbors
	targets := map[int64]bool{}
	for _, e := range g.Neighbors(11) {
		targets[e.To] = true
	}
	if !targets[10] || !targets[12] {
		t.Errorf("Neighbors(11) targets = %v, want 10 and 12", targets)
	}
}

// TestBuildBaseCost verifies cost scales inversely with the highway
// speed factor.
func TestBuildBaseCost(t *testing.T) {
	a := Point{ID: 10, Lat: 52.0, Lon: 13.0}
	b := Point{ID: 11, Lat: 52.001, Lon: 13.0}

	residential := Build([]Way{road(1, "residential", a, b)}, nil)
	motorway := Build([]Way{road(1, "motorway", a, b)}, nil)

	rc := residential.Neighbors(10)[0].BaseCost
	mc := motorway.Neighbors(10)[0].BaseCost

	// residential factor 1.5, motorway 4.0
	ratio := rc / mc
	if math.Abs(ratio-4.0/1.5) > 1e-9 {
		t.Errorf("Cost ratio = %v, want %v", ratio, 4.0/1.5)
	}

	// ~111m between the points; sanity check the distance scale
	meters := rc * 1.5
	if meters < 100 || meters > 125 {
		t.Errorf("Haversine distance = %vm, want roughly 111m", meters)
	}
}

// TestBuildSpeedFactorOverride verifies configured factors replace the
// built-in table.
func TestBuildSpeedFactorOverride(t *testing.T) {
	a := Point{ID: 10, Lat: 52.0, Lon: 13.0}
	b := Point{ID: 11, Lat: 52.001, Lon: 13.0}

	plain := Build([]Way{road(1, "residential", a, b)}, nil)
	boosted := BuildWithOptions([]Way{road(1, "residential", a, b)}, nil, BuildOptions{
		SpeedFactors: map[string]float64{"residential": 3.0},
	})

	want := plain.Neighbors(10)[0].BaseCost * 1.5 / 3.0
	got := boosted.Neighbors(10)[0].BaseCost
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Overridden cost = %v, want %v", got, want)
	}
}

// TestBuildAttachesRestrictions verifies way restrictions reach every
// edge of the way, in both directions.
func TestBuildAttachesRestrictions(t *testing.T) {
	r, err := restriction.Parse("hgv:conditional", "no @ (Mo-Fr 07:00-19:00)")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	g := Build([]Way{
		road(1, "residential",
			Point{ID: 10, Lat: 52.0, Lon: 13.0},
			Point{ID: 11, Lat: 52.001, Lon: 13.0},
			Point{ID: 12, Lat: 52.002, Lon: 13.0}),
	}, map[int64][]*restriction.Restriction{1: {r}})

	if g.EdgeCount() != 4 {
		t.Fatalf("EdgeCount = %d, want 4", g.EdgeCount())
	}
	for _, e := range g.Edges() {
		if len(e.Restrictions) != 1 {
			t.Errorf("Edge %d->%d has %d restrictions, want 1", e.From, e.To, len(e.Restrictions))
		}
	}
	if g.RestrictedEdgeCount() != 4 {
		t.Errorf("RestrictedEdgeCount = %d, want 4", g.RestrictedEdgeCount())
	}
}

// TestBuildEmptyInput verifies empty input yields an empty graph, not
// an error.
func TestBuildEmptyInput(t *testing.T) {
	g := Build(nil, nil)
	if g == nil {
		t.Fatal("Build(nil, nil) returned nil")
	}
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("Empty build has %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
}

func TestStorePublish(t *testing.T) {
	s := NewStore()
	if s.Load() == nil {
		t.Fatal("New store has nil graph")
	}
	if s.Load().NodeCount() != 0 {
		t.Error("New store graph not empty")
	}

	g := Build([]Way{
		road(1, "residential", Point{ID: 10, Lat: 52.0, Lon: 13.0}, Point{ID: 11, Lat: 52.001, Lon: 13.0}),
	}, nil)
	s.Publish(g)
	if s.Load() != g {
		t.Error("Publish did not swap the graph")
	}

	s.Publish(nil)
	if s.Load() == nil || s.Load().NodeCount() != 0 {
		t.Error("Publish(nil) should install an empty graph")
	}
}
