package graph

import (
	"math"

	"github.com/osmtools/condroute/pkg/restriction"
)

// Highway values that are never routable.
var excludedHighways = map[string]bool{
	"proposed":     true,
	"construction": true,
	"abandoned":    true,
	"razed":        true,
}

// Cost divisor per highway class. Faster road classes make edges cheaper.
var defaultSpeedFactors = map[string]float64{
	"motorway":    4.0,
	"trunk":       3.5,
	"primary":     3.0,
	"secondary":   2.5,
	"tertiary":    2.0,
	"residential": 1.5,
	"service":     1.2,
	"footway":     0.8,
	"path":        0.8,
}

// BuildOptions adjusts graph construction.
type BuildOptions struct {
	// SpeedFactors overrides the per-highway cost divisor. Classes not
	// listed keep the built-in factor.
	SpeedFactors map[string]float64
}

// Build constructs a routing graph from ways and their conditional
// restrictions, keyed by way id. Non-routable ways are skipped. Empty
// or nil input yields an empty graph.
func Build(ways []Way, restrictions map[int64][]*restriction.Restriction) *Graph {
	return BuildWithOptions(ways, restrictions, BuildOptions{})
}

// BuildWithOptions is Build with explicit options.
func BuildWithOptions(ways []Way, restrictions map[int64][]*restriction.Restriction, opts BuildOptions) *Graph {
	g := NewGraph()

	for i := range ways {
		way := &ways[i]
		if reason := skipReason(way); reason != "" {
			g.skipped[reason]++
			continue
		}

		highway := way.Tags["highway"]
		factor := speedFactor(highway, opts.SpeedFactors)
		wayRestrictions := restrictions[way.ID]
		oneway := way.Tags["oneway"]
		reversedWay := oneway == "-1"

		for j := 0; j < len(way.Points)-1; j++ {
			from := way.Points[j]
			to := way.Points[j+1]
			if reversedWay {
				from, to = to, from
			}

			g.addNode(from)
			g.addNode(to)

			cost := baseCost(from, to, factor)
			g.addEdge(&Edge{
				From:         from.ID,
				To:           to.ID,
				WayID:        way.ID,
				Highway:      highway,
				BaseCost:     cost,
				Restrictions: wayRestrictions,
			})

			if !isOneway(oneway) {
				g.addEdge(&Edge{
					From:         to.ID,
					To:           from.ID,
					WayID:        way.ID,
					Highway:      highway,
					BaseCost:     cost,
					Restrictions: wayRestrictions,
					Reversed:     true,
				})
			}
		}
	}

	return g
}

func (g *Graph) addNode(p Point) {
	if _, ok := g.nodes[p.ID]; !ok {
		g.nodes[p.ID] = Node{ID: p.ID, Lat: p.Lat, Lon: p.Lon}
	}
}

func (g *Graph) addEdge(e *Edge) {
	g.adjacency[e.From] = append(g.adjacency[e.From], e)
	g.edges = append(g.edges, e)
}

// skipReason reports why a way cannot enter the graph, or "" when it is
// routable.
func skipReason(way *Way) string {
	if len(way.Points) < 2 {
		return "too_few_points"
	}
	highway, ok := way.Tags["highway"]
	if !ok || highway == "" {
		return "no_highway"
	}
	if excludedHighways[highway] {
		return "excluded_highway"
	}
	return ""
}

func isOneway(value string) bool {
	switch value {
	case "yes", "true", "1", "-1":
		return true
	}
	return false
}

func speedFactor(highway string, overrides map[string]float64) float64 {
	if f, ok := overrides[highway]; ok {
		return f
	}
	if f, ok := defaultSpeedFactors[highway]; ok {
		return f
	}
	return 1.0
}

func baseCost(from, to Point, factor float64) float64 {
	return haversineMeters(from.Lat, from.Lon, to.Lat, to.Lon) / factor
}

const earthRadiusMeters = 6371000.0

// haversineMeters returns the great-circle distance between two
// coordinates in meters.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180.0

	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(a))
}
