// File: methods_adjacent.go
// Role: Degree and neighborhood queries over the per-node edge lists.
// Determinism:
//   - Neighbor slices are ascending and duplicate-free; edge slices are sorted
//     by (Src, Dst).
// Notes:
//   - On undirected graphs InDegree, OutDegree and Degree coincide, and
//     InEdges/OutEdges return the incident edges.
//   - A directed node's Degree is InDegree + OutDegree.

package core

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/tempograph/datastructure"
)

// InDegree returns the number of edges entering index.
func (g *Graph) InDegree(index int) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	rec, err := g.recordLocked(index)
	if err != nil {
		return 0, err
	}
	if !g.directed {
		g.observe(datastructure.IncidentEdges, datastructure.Size)
		return rec.inc.Size(), nil
	}
	g.observe(datastructure.InEdges, datastructure.Size)
	return rec.in.Size(), nil
}

// OutDegree returns the number of edges leaving index.
func (g *Graph) OutDegree(index int) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	rec, err := g.recordLocked(index)
	if err != nil {
		return 0, err
	}
	if !g.directed {
		g.observe(datastructure.IncidentEdges, datastructure.Size)
		return rec.inc.Size(), nil
	}
	g.observe(datastructure.OutEdges, datastructure.Size)
	return rec.out.Size(), nil
}

// Degree returns the number of edges touching index.
func (g *Graph) Degree(index int) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	rec, err := g.recordLocked(index)
	if err != nil {
		return 0, err
	}
	if !g.directed {
		g.observe(datastructure.IncidentEdges, datastructure.Size)
		return rec.inc.Size(), nil
	}
	g.observe(datastructure.InEdges, datastructure.Size)
	g.observe(datastructure.OutEdges, datastructure.Size)
	return rec.in.Size() + rec.out.Size(), nil
}

// Successors returns the nodes reachable over one outgoing edge.
func (g *Graph) Successors(index int) ([]int, error) {
	es, err := g.OutEdges(index)
	if err != nil {
		return nil, err
	}
	return otherEnds(es, index), nil
}

// Predecessors returns the nodes with an edge into index.
func (g *Graph) Predecessors(index int) ([]int, error) {
	es, err := g.InEdges(index)
	if err != nil {
		return nil, err
	}
	return otherEnds(es, index), nil
}

// Neighbors returns every node sharing an edge with index, ignoring direction.
func (g *Graph) Neighbors(index int) ([]int, error) {
	es, err := g.IncidentEdges(index)
	if err != nil {
		return nil, err
	}
	return otherEnds(es, index), nil
}

// InEdges returns the edges entering index.
func (g *Graph) InEdges(index int) ([]Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	rec, err := g.recordLocked(index)
	if err != nil {
		return nil, err
	}
	if !g.directed {
		return g.collectLocked(datastructure.IncidentEdges, rec.inc), nil
	}
	return g.collectLocked(datastructure.InEdges, rec.in), nil
}

// OutEdges returns the edges leaving index.
func (g *Graph) OutEdges(index int) ([]Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	rec, err := g.recordLocked(index)
	if err != nil {
		return nil, err
	}
	if !g.directed {
		return g.collectLocked(datastructure.IncidentEdges, rec.inc), nil
	}
	return g.collectLocked(datastructure.OutEdges, rec.out), nil
}

// IncidentEdges returns every edge touching index, each once.
func (g *Graph) IncidentEdges(index int) ([]Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	rec, err := g.recordLocked(index)
	if err != nil {
		return nil, err
	}
	ids := g.incidentSlotsLocked(rec)
	out := make([]Edge, len(ids))
	for i, id := range ids {
		out[i] = g.slots[id].edge
	}
	sortEdges(out)

	return out, nil
}

func (g *Graph) recordLocked(index int) (*nodeRecord, error) {
	g.observe(datastructure.NodeList, datastructure.Get)
	rec, ok := g.records[index]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, index)
	}
	return rec, nil
}

func (g *Graph) collectLocked(list datastructure.ListKind, c datastructure.Container) []Edge {
	g.observe(list, datastructure.Iterate)
	out := make([]Edge, 0, c.Size())
	c.Each(func(id int) bool {
		out = append(out, g.slots[id].edge)
		return true
	})
	sortEdges(out)

	return out
}

// otherEnds maps edges to their endpoint opposite n, sorted and deduplicated.
func otherEnds(es []Edge, n int) []int {
	seen := make(map[int]struct{}, len(es))
	out := make([]int, 0, len(es))
	for _, e := range es {
		o := e.Other(n)
		if _, dup := seen[o]; dup {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	sort.Ints(out)

	return out
}
