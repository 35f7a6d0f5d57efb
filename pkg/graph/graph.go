package graph

import (
	"github.com/osmtools/condroute/pkg/restriction"
)

// Point is a way geometry point with its OSM node id.
// Ways sharing a point id join into one routable network.
type Point struct {
	ID  int64   `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Way is the raw input to the graph builder: an OSM way with its tags
// and ordered geometry.
type Way struct {
	ID     int64             `json:"id"`
	Tags   map[string]string `json:"tags"`
	Points []Point           `json:"points"`
}

// Node is a routable graph vertex.
type Node struct {
	ID  int64
	Lat float64
	Lon float64
}

// Edge is a directed segment between two consecutive way points.
// Reversed marks the back edge of a bidirectional segment; conditional
// oneway restrictions block it while they are active.
type Edge struct {
	From         int64
	To           int64
	WayID        int64
	Highway      string
	BaseCost     float64
	Restrictions []*restriction.Restriction
	Reversed     bool
}

// HasRestrictions reports whether any conditional restriction is attached.
func (e *Edge) HasRestrictions() bool {
	return len(e.Restrictions) > 0
}

// Graph is an immutable routing graph. Build constructs it; after that
// it is read-only and safe for concurrent use.
type Graph struct {
	nodes     map[int64]Node
	adjacency map[int64][]*Edge
	edges     []*Edge
	skipped   map[string]int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[int64]Node),
		adjacency: make(map[int64][]*Edge),
		skipped:   make(map[string]int),
	}
}

// Node returns the node with the given id.
func (g *Graph) Node(id int64) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether the node exists in the graph.
func (g *Graph) HasNode(id int64) bool {
	_, ok := g.nodes[id]
	return ok
}

// Neighbors returns the outgoing edges of a node. The returned slice
// must not be modified.
func (g *Graph) Neighbors(id int64) []*Edge {
	return g.adjacency[id]
}

// Edges returns all directed edges. The returned slice must not be modified.
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// SkippedWays returns the count of ways excluded during the build,
// keyed by reason. The returned map must not be modified.
func (g *Graph) SkippedWays() map[string]int {
	return g.skipped
}

// RestrictedEdgeCount returns the number of edges carrying at least one
// conditional restriction.
func (g *Graph) RestrictedEdgeCount() int {
	n := 0
	for _, e := range g.edges {
		if e.HasRestrictions() {
			n++
		}
	}
	return n
}
