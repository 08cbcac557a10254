// SPDX-License-Identifier: MIT
// Package: tempograph/builder
//
// batches.go - seeded random batch generation.
//
// Contract:
//   - Next(g) returns a batch g.Timestamp() → g.Timestamp()+1 that passes
//     update validation against g: every update resolves against the state
//     left by the updates before it.
//   - Phases run in a fixed order: node removals, node additions, edge
//     removals, edge additions, node weight changes, edge weight changes.
//   - A phase emits fewer updates than requested when the simulated graph
//     runs out of candidates (no nodes left, no free pair found).
//
// Determinism:
//   - Candidates are drawn from slices seeded in ascending order from g, so
//     the same graph, spec and seed produce the same batch.

package builder

import (
	"fmt"

	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/update"
)

const (
	methodBatch = "BatchGenerator"

	// pairAttempts bounds the rejection sampling per edge addition.
	pairAttempts = 32
)

// BatchSpec sets how many updates of each type a batch asks for.
type BatchSpec struct {
	NodeAdditions     int
	NodeRemovals      int
	EdgeAdditions     int
	EdgeRemovals      int
	NodeWeightChanges int
	EdgeWeightChanges int
}

// Total is the number of requested updates.
func (s BatchSpec) Total() int {
	return s.NodeAdditions + s.NodeRemovals + s.EdgeAdditions + s.EdgeRemovals +
		s.NodeWeightChanges + s.EdgeWeightChanges
}

// BatchGenerator emits random valid batches.
type BatchGenerator struct {
	spec BatchSpec
	cfg  builderConfig
}

// NewBatchGenerator validates spec and resolves opts. An RNG (WithSeed or
// WithRand) is required.
func NewBatchGenerator(spec BatchSpec, opts ...BuilderOption) (*BatchGenerator, error) {
	cfg := newBuilderConfig(opts...)
	if cfg.rng == nil {
		return nil, fmt.Errorf("%s: %w", methodBatch, ErrNeedRandSource)
	}
	if spec.NodeAdditions < 0 || spec.NodeRemovals < 0 || spec.EdgeAdditions < 0 ||
		spec.EdgeRemovals < 0 || spec.NodeWeightChanges < 0 || spec.EdgeWeightChanges < 0 {
		return nil, fmt.Errorf("%s: negative count in %+v: %w", methodBatch, spec, ErrOptionViolation)
	}

	return &BatchGenerator{spec: spec, cfg: cfg}, nil
}

// Spec returns the configured counts.
func (bg *BatchGenerator) Spec() BatchSpec { return bg.spec }

// Next builds the batch advancing g by one timestamp.
func (bg *BatchGenerator) Next(g *core.Graph) (*update.Batch, error) {
	if g == nil {
		return nil, fmt.Errorf("%s: nil graph: %w", methodBatch, ErrConstructFailed)
	}
	from := g.Timestamp()
	b := update.NewBatch(from, from+1)
	s := newSim(g)
	rng := bg.cfg.rng
	directed := g.Directed()
	nodeKind, edgeKind := g.NodeWeightKind(), g.EdgeWeightKind()

	for i := 0; i < bg.spec.NodeRemovals && len(s.nodes) > 0; i++ {
		n := s.nodes[rng.Intn(len(s.nodes))]
		s.removeNode(n)
		b.Add(update.NodeRemoval{Node: core.Node{Index: n}})
	}

	for i := 0; i < bg.spec.NodeAdditions; i++ {
		n := s.next
		s.addNode(n)
		b.Add(update.NodeAddition{Node: core.Node{Index: n, Weight: draw(bg.cfg.nodeWeightFn, rng, nodeKind)}})
	}

	for i := 0; i < bg.spec.EdgeRemovals && len(s.edges) > 0; i++ {
		k := s.edges[rng.Intn(len(s.edges))]
		s.removeEdge(k)
		b.Add(update.EdgeRemoval{Edge: update.Edge(k.N1, k.N2, directed, nil)})
	}

	for i := 0; i < bg.spec.EdgeAdditions && len(s.nodes) > 0; i++ {
		for attempt := 0; attempt < pairAttempts; attempt++ {
			u := s.nodes[rng.Intn(len(s.nodes))]
			v := s.nodes[rng.Intn(len(s.nodes))]
			if u == v && !g.Looped() {
				continue
			}
			k := core.Key(u, v, directed)
			if s.hasEdge(k) {
				continue
			}
			s.addEdge(k)
			b.Add(update.EdgeAddition{Edge: update.Edge(u, v, directed, draw(bg.cfg.edgeWeightFn, rng, edgeKind))})
			break
		}
	}

	for i := 0; i < bg.spec.NodeWeightChanges && len(s.nodes) > 0 && nodeKind.Dim() > 0; i++ {
		n := s.nodes[rng.Intn(len(s.nodes))]
		w := bg.cfg.nodeWeightFn(rng, nodeKind)
		if w == nil {
			// The default generator yields no value; fall back to a unit step.
			w = fill(nodeKind, func() float64 { return float64(rng.Intn(10)) })
		}
		b.Add(update.NodeWeightChange{Index: n, Weight: w})
	}

	for i := 0; i < bg.spec.EdgeWeightChanges && len(s.edges) > 0 && edgeKind.Dim() > 0; i++ {
		k := s.edges[rng.Intn(len(s.edges))]
		w := bg.cfg.edgeWeightFn(rng, edgeKind)
		if w == nil {
			w = fill(edgeKind, func() float64 { return float64(rng.Intn(10)) })
		}
		b.Add(update.EdgeWeightChange{Edge: update.Edge(k.N1, k.N2, directed, nil), Weight: w})
	}

	return b, nil
}

// sim is the node/edge state a batch under construction would produce.
type sim struct {
	nodes   []int
	nodePos map[int]int
	edges   []core.EdgeKey
	edgePos map[core.EdgeKey]int
	next    int
}

func newSim(g *core.Graph) *sim {
	s := &sim{nodePos: make(map[int]int), edgePos: make(map[core.EdgeKey]int), next: g.NextNodeIndex()}
	for _, n := range g.Nodes() {
		s.addNode(n)
	}
	for _, e := range g.Edges() {
		s.addEdge(e.Key())
	}
	return s
}

func (s *sim) addNode(n int) {
	s.nodePos[n] = len(s.nodes)
	s.nodes = append(s.nodes, n)
	if n >= s.next {
		s.next = n + 1
	}
}

// removeNode swap-deletes n and cascades to its edges.
func (s *sim) removeNode(n int) {
	i := s.nodePos[n]
	last := len(s.nodes) - 1
	s.nodes[i] = s.nodes[last]
	s.nodePos[s.nodes[i]] = i
	s.nodes = s.nodes[:last]
	delete(s.nodePos, n)

	var gone []core.EdgeKey
	for _, k := range s.edges {
		if k.Touches(n) {
			gone = append(gone, k)
		}
	}
	for _, k := range gone {
		s.removeEdge(k)
	}
}

func (s *sim) hasEdge(k core.EdgeKey) bool {
	_, ok := s.edgePos[k]
	return ok
}

func (s *sim) addEdge(k core.EdgeKey) {
	s.edgePos[k] = len(s.edges)
	s.edges = append(s.edges, k)
}

func (s *sim) removeEdge(k core.EdgeKey) {
	i := s.edgePos[k]
	last := len(s.edges) - 1
	s.edges[i] = s.edges[last]
	s.edgePos[s.edges[i]] = i
	s.edges = s.edges[:last]
	delete(s.edgePos, k)
}
