// File: methods_clone.go
// Role: Deep copy and structural well-formedness check.
// Notes:
//   - Clone does not carry the observer over; a cloned graph is unprofiled.

package core

import (
	"fmt"

	"github.com/katalvlaran/tempograph/datastructure"
)

// Clone returns a deep copy of g with the same configuration, timestamp,
// nodes, edges and weights. Weights are immutable and are shared.
func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := g.emptyLike()
	out.timestamp = g.timestamp
	out.nextIndex = g.nextIndex

	for _, index := range datastructure.Sorted(g.nodes) {
		rec := g.records[index]
		// Configuration is identical, so AddNode cannot fail here.
		_ = out.AddNode(index, rec.weight)
	}
	ids := datastructure.Sorted(g.edges)
	for _, id := range ids {
		e := g.slots[id].edge
		_, _ = out.AddEdge(e.Src, e.Dst, e.Weight)
	}

	return out
}

// emptyLike creates an empty graph with g's configuration and no observer.
func (g *Graph) emptyLike() *Graph {
	out, err := NewGraph(
		WithName(g.name),
		WithDirected(g.directed),
		WithNodeWeights(g.nodeKind),
		WithEdgeWeights(g.edgeKind),
		WithStrategy(g.strategy),
	)
	if err != nil {
		// g was built with the same strategy.
		panic(err)
	}
	out.allowLoops = g.allowLoops

	return out
}

// Validate checks the structural invariants:
//   - every edge's endpoints exist;
//   - an edge is listed by both endpoints, and every listed slot is a live edge
//     touching that node;
//   - the key index and the edge list agree.
//
// It reports the first violation wrapped in ErrInconsistent. Validate does not
// report accesses to the observer.
func (g *Graph) Validate() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.nodes.Size() != len(g.records) {
		return fmt.Errorf("%w: node list has %d entries, %d records", ErrInconsistent, g.nodes.Size(), len(g.records))
	}
	if g.edges.Size() != len(g.keys) {
		return fmt.Errorf("%w: edge list has %d entries, %d keys", ErrInconsistent, g.edges.Size(), len(g.keys))
	}

	var err error
	g.edges.Each(func(id int) bool {
		if id < 0 || id >= len(g.slots) || !g.slots[id].alive {
			err = fmt.Errorf("%w: edge list references dead slot %d", ErrInconsistent, id)
			return false
		}
		e := g.slots[id].edge
		src, okSrc := g.records[e.Src]
		dst, okDst := g.records[e.Dst]
		if !okSrc || !okDst {
			err = fmt.Errorf("%w: edge %s has a missing endpoint", ErrInconsistent, e)
			return false
		}
		if !g.directed && e.Src > e.Dst {
			err = fmt.Errorf("%w: undirected edge %d,%d not canonical", ErrInconsistent, e.Src, e.Dst)
			return false
		}
		if got, ok := g.keys[e.Key()]; !ok || got != id {
			err = fmt.Errorf("%w: edge %s not indexed", ErrInconsistent, e)
			return false
		}
		var listed bool
		if g.directed {
			listed = src.out.Contains(id) && dst.in.Contains(id)
		} else {
			listed = src.inc.Contains(id) && dst.inc.Contains(id)
		}
		if !listed {
			err = fmt.Errorf("%w: edge %s not listed by both endpoints", ErrInconsistent, e)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}

	for index, rec := range g.records {
		if err = g.checkListLocked(index, rec); err != nil {
			return err
		}
	}

	return nil
}

func (g *Graph) checkListLocked(index int, rec *nodeRecord) error {
	var lists []datastructure.Container
	if g.directed {
		lists = []datastructure.Container{rec.in, rec.out}
	} else {
		lists = []datastructure.Container{rec.inc}
	}
	var err error
	for _, c := range lists {
		c.Each(func(id int) bool {
			if id < 0 || id >= len(g.slots) || !g.slots[id].alive || !g.slots[id].edge.Key().Touches(index) {
				err = fmt.Errorf("%w: node %d lists stale edge slot %d", ErrInconsistent, index, id)
				return false
			}
			return true
		})
		if err != nil {
			return err
		}
	}
	return nil
}
