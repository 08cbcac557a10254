// File: methods_edges.go
// Role: Edge lifecycle and queries: AddEdge/RemoveEdge/HasEdge/Edge/Edges,
//       SetEdgeWeight and RandomEdge, plus the slot arena helpers.
// Determinism:
//   - Edges() returns edges sorted by (Src, Dst).
//   - Undirected endpoints are canonicalized before any lookup.
// Concurrency:
//   - Mutations under the write lock, queries under the read lock.

package core

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/katalvlaran/tempograph/datastructure"
	"github.com/katalvlaran/tempograph/weight"
)

// AddEdge connects src and dst. Both endpoints must already exist; batches
// that introduce nodes together with an edge add the nodes first.
// On an edge-weighted graph a nil w becomes the zero weight of the declared kind.
//
// Errors: ErrDanglingEndpoint, ErrLoopNotAllowed, ErrDuplicateEdge, ErrBadWeight.
// Complexity: EdgeList Contains + Add, plus one Add per endpoint list.
func (g *Graph) AddEdge(src, dst int, w weight.Weight) (Edge, error) {
	if src == dst && !g.allowLoops {
		return Edge{}, fmt.Errorf("%w: %d", ErrLoopNotAllowed, src)
	}
	w, err := checkWeight(g.edgeKind, w)
	if err != nil {
		return Edge{}, fmt.Errorf("edge %s: %w", FormatEdgeKey(Key(src, dst, g.directed), g.directed), err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.observe(datastructure.NodeList, datastructure.Contains)
	g.observe(datastructure.NodeList, datastructure.Contains)
	srcRec, okSrc := g.records[src]
	dstRec, okDst := g.records[dst]
	if !okSrc || !okDst {
		return Edge{}, fmt.Errorf("%w: %s", ErrDanglingEndpoint, FormatEdgeKey(Key(src, dst, g.directed), g.directed))
	}

	key := Key(src, dst, g.directed)
	g.observe(datastructure.EdgeList, datastructure.Contains)
	if _, dup := g.keys[key]; dup {
		return Edge{}, fmt.Errorf("%w: %s", ErrDuplicateEdge, FormatEdgeKey(key, g.directed))
	}

	e := Edge{Src: key.N1, Dst: key.N2, Weight: w, Directed: g.directed}
	id := g.allocSlotLocked(e)
	g.keys[key] = id
	g.edges.Add(id)
	g.observe(datastructure.EdgeList, datastructure.Add)

	if g.directed {
		srcRec.out.Add(id)
		g.observe(datastructure.OutEdges, datastructure.Add)
		dstRec.in.Add(id)
		g.observe(datastructure.InEdges, datastructure.Add)
	} else {
		srcRec.inc.Add(id)
		g.observe(datastructure.IncidentEdges, datastructure.Add)
		if src != dst {
			dstRec.inc.Add(id)
			g.observe(datastructure.IncidentEdges, datastructure.Add)
		}
	}

	return e, nil
}

// RemoveEdge deletes the edge src→dst (any order on undirected graphs) and
// returns the removed snapshot.
//
// Errors: ErrEdgeNotFound.
func (g *Graph) RemoveEdge(src, dst int) (Edge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := Key(src, dst, g.directed)
	g.observe(datastructure.EdgeList, datastructure.Contains)
	id, ok := g.keys[key]
	if !ok {
		return Edge{}, fmt.Errorf("%w: %s", ErrEdgeNotFound, FormatEdgeKey(key, g.directed))
	}
	e := g.slots[id].edge
	g.removeSlotLocked(id)

	return e, nil
}

// HasEdge reports whether src→dst exists (any order on undirected graphs).
func (g *Graph) HasEdge(src, dst int) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	g.observe(datastructure.EdgeList, datastructure.Contains)
	_, ok := g.keys[Key(src, dst, g.directed)]
	return ok
}

// Edge returns a snapshot of the edge src→dst.
//
// Errors: ErrEdgeNotFound.
func (g *Graph) Edge(src, dst int) (Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	key := Key(src, dst, g.directed)
	g.observe(datastructure.EdgeList, datastructure.Get)
	id, ok := g.keys[key]
	if !ok {
		return Edge{}, fmt.Errorf("%w: %s", ErrEdgeNotFound, FormatEdgeKey(key, g.directed))
	}
	return g.slots[id].edge, nil
}

// Edges returns every edge sorted by (Src, Dst).
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	g.observe(datastructure.EdgeList, datastructure.Iterate)
	out := make([]Edge, 0, g.edges.Size())
	g.edges.Each(func(id int) bool {
		out = append(out, g.slots[id].edge)
		return true
	})
	sortEdges(out)

	return out
}

// SetEdgeWeight replaces the weight of src→dst and returns the previous one.
//
// Errors: ErrEdgeNotFound, ErrBadWeight.
func (g *Graph) SetEdgeWeight(src, dst int, w weight.Weight) (weight.Weight, error) {
	if g.edgeKind == weight.None || w == nil {
		return nil, fmt.Errorf("%w: graph has %s edge weights", ErrBadWeight, g.edgeKind)
	}
	w, err := checkWeight(g.edgeKind, w)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	key := Key(src, dst, g.directed)
	g.observe(datastructure.EdgeList, datastructure.Get)
	id, ok := g.keys[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEdgeNotFound, FormatEdgeKey(key, g.directed))
	}
	prev := g.slots[id].edge.Weight
	g.slots[id].edge.Weight = w

	return prev, nil
}

// RandomEdge draws an edge uniformly at random; ok is false when there are none.
func (g *Graph) RandomEdge(r *rand.Rand) (Edge, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	g.observe(datastructure.EdgeList, datastructure.Random)
	id, ok := g.edges.Random(r)
	if !ok {
		return Edge{}, false
	}
	return g.slots[id].edge, true
}

// allocSlotLocked stores e in a free slot (or a new one) and returns its id.
func (g *Graph) allocSlotLocked(e Edge) int {
	if n := len(g.free); n > 0 {
		id := g.free[n-1]
		g.free = g.free[:n-1]
		g.slots[id] = edgeSlot{edge: e, alive: true}
		return id
	}
	g.slots = append(g.slots, edgeSlot{edge: e, alive: true})
	return len(g.slots) - 1
}

// removeSlotLocked detaches slot id from both endpoints and the edge list,
// then invalidates it.
func (g *Graph) removeSlotLocked(id int) {
	e := g.slots[id].edge
	if g.directed {
		if rec, ok := g.records[e.Src]; ok {
			rec.out.Remove(id)
			g.observe(datastructure.OutEdges, datastructure.Remove)
		}
		if rec, ok := g.records[e.Dst]; ok {
			rec.in.Remove(id)
			g.observe(datastructure.InEdges, datastructure.Remove)
		}
	} else {
		if rec, ok := g.records[e.Src]; ok {
			rec.inc.Remove(id)
			g.observe(datastructure.IncidentEdges, datastructure.Remove)
		}
		if e.Src != e.Dst {
			if rec, ok := g.records[e.Dst]; ok {
				rec.inc.Remove(id)
				g.observe(datastructure.IncidentEdges, datastructure.Remove)
			}
		}
	}
	g.edges.Remove(id)
	g.observe(datastructure.EdgeList, datastructure.Remove)
	delete(g.keys, e.Key())
	g.slots[id] = edgeSlot{}
	g.free = append(g.free, id)
}

func sortEdges(es []Edge) {
	sort.Slice(es, func(i, j int) bool {
		if es[i].Src != es[j].Src {
			return es[i].Src < es[j].Src
		}
		return es[i].Dst < es[j].Dst
	})
}
