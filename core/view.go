// File: view.go
// Role: Non-mutating graph views.
// Determinism:
//   - Nodes and edges are copied in ascending order.
// Concurrency:
//   - Read lock on the source; the result is a fresh, unobserved graph.

package core

import "github.com/katalvlaran/tempograph/datastructure"

// InducedSubgraph returns a new graph holding the nodes for which keep returns
// true and every edge whose endpoints are both kept. Configuration, timestamp
// and weights are preserved. The input graph is not mutated.
//
// Complexity: O(V + E).
func InducedSubgraph(g *Graph, keep func(index int) bool) *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := g.emptyLike()
	out.timestamp = g.timestamp

	for _, index := range datastructure.Sorted(g.nodes) {
		if keep(index) {
			_ = out.AddNode(index, g.records[index].weight)
		}
	}
	for _, id := range datastructure.Sorted(g.edges) {
		e := g.slots[id].edge
		if keep(e.Src) && keep(e.Dst) {
			_, _ = out.AddEdge(e.Src, e.Dst, e.Weight)
		}
	}

	return out
}

// CutEdges returns, in sorted order, the edges of g whose endpoints fall on
// different sides of the assignment part (node index -> group).
func CutEdges(g *Graph, part func(index int) int) []Edge {
	var out []Edge
	for _, e := range g.Edges() {
		if part(e.Src) != part(e.Dst) {
			out = append(out, e)
		}
	}
	return out
}
