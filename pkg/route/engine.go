package route

import (
	"container/heap"
	"context"
	"math"

	"github.com/osmtools/condroute/pkg/graph"
)

// Engine answers shortest-path and reachability queries against the
// currently published graph snapshot. Safe for concurrent use.
type Engine struct {
	store  *graph.Store
	policy CostPolicy
}

// NewEngine creates a route engine over a graph store.
func NewEngine(store *graph.Store, policy CostPolicy) *Engine {
	if policy.UnknownRestrictionPenalty <= 0 {
		policy.UnknownRestrictionPenalty = DefaultCostPolicy().UnknownRestrictionPenalty
	}
	return &Engine{store: store, policy: policy}
}

// Result is a completed shortest-path answer. An empty Path means no
// route was found.
type Result struct {
	Path          []int64
	Cost          float64
	NodesExpanded int
}

// ShortestPath runs Dijkstra from start to end under the query's time,
// profile, and dimensions. Misses return an empty result, not an error.
// The search stops early when the context is done or the expansion
// budget runs out, returning the best answer settled so far.
func (e *Engine) ShortestPath(ctx context.Context, start, end int64, q Query) (Result, error) {
	g := e.store.Load()

	var res Result
	if start == end || !g.HasNode(start) || !g.HasNode(end) {
		return res, nil
	}

	budget := q.MaxExpansions
	if budget == 0 {
		budget = e.policy.DefaultMaxExpansions
	}

	dist := map[int64]float64{start: 0}
	prev := map[int64]int64{}
	settled := map[int64]bool{}

	frontier := &costHeap{}
	heap.Init(frontier)
	frontier.push(start, 0)

	for frontier.Len() > 0 {
		select {
		case <-ctx.Done():
			return e.finish(res, start, end, dist, prev, settled), nil
		default:
		}

		item := heap.Pop(frontier).(costItem)
		if settled[item.node] {
			continue
		}
		settled[item.node] = true
		res.NodesExpanded++

		if item.node == end {
			break
		}
		if budget > 0 && res.NodesExpanded >= budget {
			break
		}

		for _, edge := range g.Neighbors(item.node) {
			if settled[edge.To] {
				continue
			}

			cost := EdgeCost(edge, q, e.policy)
			if math.IsInf(cost, 1) {
				continue
			}

			next := dist[item.node] + cost
			current, seen := dist[edge.To]
			if !seen || next < current {
				dist[edge.To] = next
				prev[edge.To] = item.node
				frontier.push(edge.To, next)
			}
		}
	}

	return e.finish(res, start, end, dist, prev, settled), nil
}

// finish reconstructs the path if the destination was settled.
func (e *Engine) finish(res Result, start, end int64, dist map[int64]float64, prev map[int64]int64, settled map[int64]bool) Result {
	if !settled[end] {
		return res
	}

	path := []int64{end}
	for cur := end; cur != start; {
		cur = prev[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	res.Path = path
	res.Cost = dist[end]
	return res
}

// Accessible reports whether any finite-cost path exists.
func (e *Engine) Accessible(ctx context.Context, start, end int64, q Query) bool {
	res, err := e.ShortestPath(ctx, start, end, q)
	return err == nil && len(res.Path) > 0
}

// AffectedEdges returns every edge with at least one restriction that
// is active at the query time and applies to the resolved vehicle
// dimensions. Pure read against the current snapshot.
func (e *Engine) AffectedEdges(q Query) []*graph.Edge {
	g := e.store.Load()
	weight := q.vehicleWeight(e.policy)
	height := q.vehicleHeight(e.policy)

	var affected []*graph.Edge
	for _, edge := range g.Edges() {
		for _, r := range edge.Restrictions {
			if r.IsActiveAt(q.At) && r.AppliesToVehicle(&weight, &height) {
				affected = append(affected, edge)
				break
			}
		}
	}
	return affected
}

// costItem is a frontier entry. seq breaks cost ties in insertion
// order so the search is deterministic for a fixed snapshot.
type costItem struct {
	node int64
	cost float64
	seq  int
}

type costHeap struct {
	items []costItem
	next  int
}

func (h *costHeap) Len() int { return len(h.items) }

func (h *costHeap) Less(i, j int) bool {
	if h.items[i].cost != h.items[j].cost {
		return h.items[i].cost < h.items[j].cost
	}
	return h.items[i].seq < h.items[j].seq
}

func (h *costHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *costHeap) Push(x any) { h.items = append(h.items, x.(costItem)) }

func (h *costHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

func (h *costHeap) push(node int64, cost float64) {
	heap.Push(h, costItem{node: node, cost: cost, seq: h.next})
	h.next++
}
