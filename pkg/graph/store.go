package graph

import (
	"sync/atomic"
)

// Store publishes the current routing graph. Readers always see a
// complete graph: a rebuild constructs the replacement off to the side
// and swaps it in atomically.
type Store struct {
	current atomic.Pointer[Graph]
}

// NewStore returns a store holding an empty graph.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(NewGraph())
	return s
}

// Load returns the currently published graph.
func (s *Store) Load() *Graph {
	return s.current.Load()
}

// Publish atomically replaces the current graph. A nil graph publishes
// an empty one.
func (s *Store) Publish(g *Graph) {
	if g == nil {
		g = NewGraph()
	}
	s.current.Store(g)
}
