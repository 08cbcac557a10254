// File: methods_nodes.go
// Role: Node lifecycle and queries: AddNode/RemoveNode/HasNode/Node/Nodes,
//       SetNodeWeight and RandomNode.
// Determinism:
//   - Nodes() returns indices ascending.
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

// AddNode inserts a node with the given index. On a node-weighted graph a nil
// w is replaced by the zero weight of the declared kind; on an unweighted
// graph w must be nil.
//
// Errors: ErrNegativeIndex, ErrDuplicateNode, ErrBadWeight.
// Complexity: one NodeList Contains + Add, plus Init of the per-node lists.
func (g *Graph) AddNode(index int, w weight.Weight) error {
	if index < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeIndex, index)
	}
	w, err := checkWeight(g.nodeKind, w)
	if err != nil {
		return fmt.Errorf("node %d: %w", index, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.observe(datastructure.NodeList, datastructure.Contains)
	if g.nodes.Contains(index) {
		return fmt.Errorf("%w: %d", ErrDuplicateNode, index)
	}

	rec := &nodeRecord{index: index, weight: w}
	if g.directed {
		rec.in = g.strategy.New(datastructure.InEdges)
		rec.out = g.strategy.New(datastructure.OutEdges)
		g.observe(datastructure.InEdges, datastructure.Init)
		g.observe(datastructure.OutEdges, datastructure.Init)
	} else {
		rec.inc = g.strategy.New(datastructure.IncidentEdges)
		g.observe(datastructure.IncidentEdges, datastructure.Init)
	}

	g.nodes.Add(index)
	g.observe(datastructure.NodeList, datastructure.Add)
	g.records[index] = rec
	if index >= g.nextIndex {
		g.nextIndex = index + 1
	}

	return nil
}

// RemoveNode deletes the node and every edge incident to it. The removed edges
// are returned in canonical sorted order.
//
// Errors: ErrNodeNotFound.
func (g *Graph) RemoveNode(index int) ([]Edge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.observe(datastructure.NodeList, datastructure.Contains)
	rec, ok := g.records[index]
	if !ok || !g.nodes.Contains(index) {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, index)
	}

	slots := g.incidentSlotsLocked(rec)
	removed := make([]Edge, 0, len(slots))
	for _, id := range slots {
		removed = append(removed, g.slots[id].edge)
		g.removeSlotLocked(id)
	}
	sortEdges(removed)

	g.nodes.Remove(index)
	g.observe(datastructure.NodeList, datastructure.Remove)
	delete(g.records, index)

	return removed, nil
}

// HasNode reports whether index is present.
func (g *Graph) HasNode(index int) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	g.observe(datastructure.NodeList, datastructure.Contains)
	return g.nodes.Contains(index)
}

// Node returns a snapshot of the node with the given index.
//
// Errors: ErrNodeNotFound.
func (g *Graph) Node(index int) (Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	g.observe(datastructure.NodeList, datastructure.Get)
	rec, ok := g.records[index]
	if !ok {
		return Node{}, fmt.Errorf("%w: %d", ErrNodeNotFound, index)
	}
	return Node{Index: rec.index, Weight: rec.weight}, nil
}

// Nodes returns every node index in ascending order.
func (g *Graph) Nodes() []int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	g.observe(datastructure.NodeList, datastructure.Iterate)
	return datastructure.Sorted(g.nodes)
}

// SetNodeWeight replaces the weight of a node and returns the previous one.
//
// Errors: ErrNodeNotFound, ErrBadWeight.
func (g *Graph) SetNodeWeight(index int, w weight.Weight) (weight.Weight, error) {
	if g.nodeKind == weight.None || w == nil {
		return nil, fmt.Errorf("node %d: %w: graph has %s node weights", index, ErrBadWeight, g.nodeKind)
	}
	w, err := checkWeight(g.nodeKind, w)
	if err != nil {
		return nil, fmt.Errorf("node %d: %w", index, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.observe(datastructure.NodeList, datastructure.Get)
	rec, ok := g.records[index]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, index)
	}
	prev := rec.weight
	rec.weight = w

	return prev, nil
}

// RandomNode draws a node uniformly at random; ok is false on an empty graph.
func (g *Graph) RandomNode(r *rand.Rand) (Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	g.observe(datastructure.NodeList, datastructure.Random)
	index, ok := g.nodes.Random(r)
	if !ok {
		return Node{}, false
	}
	rec := g.records[index]

	return Node{Index: rec.index, Weight: rec.weight}, true
}

// checkWeight validates w against the declared kind k, substituting the zero
// weight for nil on weighted graphs.
func checkWeight(k weight.Kind, w weight.Weight) (weight.Weight, error) {
	if k == weight.None {
		if w != nil {
			return nil, fmt.Errorf("%w: unweighted, got %s", ErrBadWeight, w.Kind())
		}
		return nil, nil
	}
	if w == nil {
		return weight.FromComponents(k, make([]float64, k.Dim()))
	}
	if w.Kind() != k {
		return nil, fmt.Errorf("%w: want %s, got %s", ErrBadWeight, k, w.Kind())
	}
	return w, nil
}

// incidentSlotsLocked collects the slot ids of every edge touching rec,
// each exactly once.
func (g *Graph) incidentSlotsLocked(rec *nodeRecord) []int {
	var ids []int
	if !g.directed {
		g.observe(datastructure.IncidentEdges, datastructure.Iterate)
		rec.inc.Each(func(id int) bool {
			ids = append(ids, id)
			return true
		})
		return ids
	}

	seen := make(map[int]struct{})
	collect := func(id int) bool {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		return true
	}
	g.observe(datastructure.OutEdges, datastructure.Iterate)
	rec.out.Each(collect)
	g.observe(datastructure.InEdges, datastructure.Iterate)
	rec.in.Each(collect)
	sort.Ints(ids)

	return ids
}
