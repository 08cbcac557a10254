// File: splitter.go
// Role: Translates the full graph and its batches into per-partition work.
// Notes:
//   - A node keeps its partition for the whole run, even across removal and
//     re-addition. New nodes are assigned round-robin.
//   - SplitBatch applies the batch to the full graph while translating, so
//     every update is resolved against the state it is applied to.
//   - Aux deltas are net per batch: add and remove never name the same
//     boundary edge, so their application order does not matter.
// Concurrency:
//   - A Splitter is single-threaded.

package parallel

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/update"
)

// Splitter assigns nodes to partitions and splits batches accordingly.
type Splitter struct {
	kind  PartitionKind
	count int
	owner map[int]int
	next  int
	// ghosts[p] counts, per foreign node present in partition p, the edges
	// of p that keep it there. Overlapping only.
	ghosts []map[int]int

	directed bool
	out      []*update.Batch
	nodeInit map[int]bool
	edgeInit map[core.EdgeKey]bool
}

// NewSplitter returns a Splitter for count partitions of the given kind.
func NewSplitter(kind PartitionKind, count int) (*Splitter, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: %d", ErrBadPartitionCount, count)
	}
	if !kind.valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPartitionKind, kind)
	}
	s := &Splitter{kind: kind, count: count, owner: make(map[int]int), ghosts: make([]map[int]int, count)}
	for p := range s.ghosts {
		s.ghosts[p] = make(map[int]int)
	}
	return s, nil
}

func (s *Splitter) Kind() PartitionKind { return s.kind }
func (s *Splitter) Count() int          { return s.count }

// Owner returns the partition n was assigned to, if any.
func (s *Splitter) Owner(n int) (int, bool) {
	p, ok := s.owner[n]
	return p, ok
}

// Split assigns every node of g and returns the initial partition graphs with
// the matching aux data. g is not mutated.
func (s *Splitter) Split(g *core.Graph) ([]*core.Graph, *AuxData) {
	s.directed = g.Directed()
	aux := NewAuxData(s.kind, s.count, s.directed)
	for _, n := range g.Nodes() {
		aux.Nodes[n] = s.assign(n)
	}
	part := func(n int) int { return s.owner[n] }
	for _, e := range core.CutEdges(g, part) {
		aux.Boundary[e.Key()] = struct{}{}
	}

	parts := make([]*core.Graph, s.count)
	for p := range parts {
		switch s.kind {
		case Separated:
			parts[p] = core.InducedSubgraph(g, func(n int) bool { return part(n) == p })
		case Overlapping:
			parts[p] = s.overlapping(g, p)
		}
	}
	return parts, aux
}

// overlapping builds partition p as its owned nodes, their neighbors and all
// edges incident to an owned node.
func (s *Splitter) overlapping(g *core.Graph, p int) *core.Graph {
	keep := make(map[int]bool)
	for _, n := range g.Nodes() {
		if s.owner[n] != p {
			continue
		}
		keep[n] = true
		nbs, _ := g.Neighbors(n)
		for _, nb := range nbs {
			keep[nb] = true
		}
	}
	sub := core.InducedSubgraph(g, func(n int) bool { return keep[n] })
	for _, e := range sub.Edges() {
		srcOwned, dstOwned := s.owner[e.Src] == p, s.owner[e.Dst] == p
		switch {
		case !srcOwned && !dstOwned:
			_, _ = sub.RemoveEdge(e.Src, e.Dst)
		case !srcOwned:
			s.ghosts[p][e.Src]++
		case !dstOwned:
			s.ghosts[p][e.Dst]++
		}
	}
	return sub
}

// SplitBatch applies b to the full graph g and returns one batch per
// partition plus the net aux additions and removals. Partition batches span
// the same timestamps as b and may be empty.
func (s *Splitter) SplitBatch(g *core.Graph, b *update.Batch) ([]*update.Batch, *AuxData, *AuxData, error) {
	s.directed = g.Directed()
	s.out = make([]*update.Batch, s.count)
	for p := range s.out {
		s.out[p] = update.NewBatch(b.From, b.To)
	}
	s.nodeInit = make(map[int]bool)
	s.edgeInit = make(map[core.EdgeKey]bool)

	if err := update.Apply(g, b, s); err != nil {
		return nil, nil, nil, fmt.Errorf("parallel: split %s: %w", b, err)
	}

	add := NewAuxData(s.kind, s.count, s.directed)
	remove := NewAuxData(s.kind, s.count, s.directed)
	for n, was := range s.nodeInit {
		now := g.HasNode(n)
		switch {
		case now && !was:
			add.Nodes[n] = s.owner[n]
		case was && !now:
			remove.Nodes[n] = s.owner[n]
		}
	}
	for k, was := range s.edgeInit {
		now := g.HasEdge(k.N1, k.N2)
		switch {
		case now && !was:
			add.Boundary[k] = struct{}{}
		case was && !now:
			remove.Boundary[k] = struct{}{}
		}
	}
	out := s.out
	s.out, s.nodeInit, s.edgeInit = nil, nil, nil
	return out, add, remove, nil
}

func (s *Splitter) assign(n int) int {
	if p, ok := s.owner[n]; ok {
		return p
	}
	p := s.next % s.count
	s.next++
	s.owner[n] = p
	return p
}

// noteNode remembers whether n existed before the batch touched it.
func (s *Splitter) noteNode(n int, existed bool) {
	if _, ok := s.nodeInit[n]; !ok {
		s.nodeInit[n] = existed
	}
}

// noteBoundary remembers whether the cut edge k existed before the batch touched it.
func (s *Splitter) noteBoundary(k core.EdgeKey, existed bool) {
	if _, ok := s.edgeInit[k]; !ok {
		s.edgeInit[k] = existed
	}
}

func (s *Splitter) emit(p int, u update.Update) { s.out[p].Add(u) }

// holders returns the partitions holding edge k, in ascending order.
func (s *Splitter) holders(k core.EdgeKey) []int {
	p1, p2 := s.owner[k.N1], s.owner[k.N2]
	switch {
	case p1 == p2:
		return []int{p1}
	case s.kind == Separated:
		return nil
	case p1 < p2:
		return []int{p1, p2}
	default:
		return []int{p2, p1}
	}
}

// ghostPartitions returns the partitions holding n as a ghost, ascending.
func (s *Splitter) ghostPartitions(n int) []int {
	var out []int
	for p, gs := range s.ghosts {
		if gs[n] > 0 {
			out = append(out, p)
		}
	}
	return out
}

// BeforeUpdate translates u while g still shows the state u applies to.
func (s *Splitter) BeforeUpdate(g *core.Graph, u update.Update) {
	switch v := u.(type) {
	case update.NodeAddition:
		s.noteNode(v.Node.Index, false)
		s.emit(s.assign(v.Node.Index), v)

	case update.NodeRemoval:
		s.removeNode(g, v.Node.Index)

	case update.EdgeAddition:
		for _, n := range v.NewNodes {
			s.noteNode(n.Index, false)
			s.assign(n.Index)
		}
		s.addEdge(g, v)

	case update.EdgeRemoval:
		k := core.Key(v.Edge.Src, v.Edge.Dst, s.directed)
		if s.owner[k.N1] != s.owner[k.N2] {
			s.noteBoundary(k, true)
		}
		for _, p := range s.holders(k) {
			s.emit(p, update.EdgeRemoval{Edge: update.Edge(k.N1, k.N2, s.directed, nil)})
			s.releaseGhosts(p, k)
		}

	case update.NodeWeightChange:
		s.emit(s.owner[v.Index], v)
		for _, p := range s.ghostPartitions(v.Index) {
			s.emit(p, v)
		}

	case update.EdgeWeightChange:
		for _, p := range s.holders(core.Key(v.Edge.Src, v.Edge.Dst, s.directed)) {
			s.emit(p, v)
		}
	}
}

func (s *Splitter) AfterUpdate(*core.Graph, update.Update) {}

func (s *Splitter) removeNode(g *core.Graph, n int) {
	s.noteNode(n, true)
	p := s.owner[n]
	es, _ := g.IncidentEdges(n)

	var orphaned []int
	for _, e := range es {
		k := e.Key()
		if s.owner[k.N1] == s.owner[k.N2] {
			continue
		}
		s.noteBoundary(k, true)
		if s.kind != Overlapping {
			continue
		}
		other := e.Other(n)
		if s.ghosts[p][other]--; s.ghosts[p][other] == 0 {
			delete(s.ghosts[p], other)
			orphaned = append(orphaned, other)
		}
	}

	s.emit(p, update.NodeRemoval{Node: core.Node{Index: n}})
	sort.Ints(orphaned)
	for _, o := range orphaned {
		s.emit(p, update.NodeRemoval{Node: core.Node{Index: o}})
	}
	for _, q := range s.ghostPartitions(n) {
		s.emit(q, update.NodeRemoval{Node: core.Node{Index: n}})
		delete(s.ghosts[q], n)
	}
}

func (s *Splitter) addEdge(g *core.Graph, v update.EdgeAddition) {
	k := core.Key(v.Edge.Src, v.Edge.Dst, s.directed)
	embedded := make(map[int]core.Node, len(v.NewNodes))
	for _, n := range v.NewNodes {
		embedded[n.Index] = n
	}

	if s.owner[k.N1] != s.owner[k.N2] {
		s.noteBoundary(k, false)
		if s.kind == Separated {
			// The endpoints still have to exist in their own partitions.
			for _, n := range v.NewNodes {
				s.emit(s.owner[n.Index], update.NodeAddition{Node: n})
			}
			return
		}
	}

	for _, p := range s.holders(k) {
		pu := update.EdgeAddition{Edge: v.Edge}
		for _, end := range uniqueEnds(k) {
			if s.owner[end] == p {
				if n, ok := embedded[end]; ok {
					pu.NewNodes = append(pu.NewNodes, n)
				}
				continue
			}
			if s.ghosts[p][end] == 0 {
				n, ok := embedded[end]
				if !ok {
					n, _ = g.Node(end)
				}
				pu.NewNodes = append(pu.NewNodes, n)
			}
			s.ghosts[p][end]++
		}
		s.emit(p, pu)
	}
}

// releaseGhosts drops p's hold on the foreign endpoints of the removed edge k
// and removes ghosts nothing holds anymore.
func (s *Splitter) releaseGhosts(p int, k core.EdgeKey) {
	for _, end := range uniqueEnds(k) {
		if s.owner[end] == p {
			continue
		}
		if s.ghosts[p][end]--; s.ghosts[p][end] == 0 {
			delete(s.ghosts[p], end)
			s.emit(p, update.NodeRemoval{Node: core.Node{Index: end}})
		}
	}
}

func uniqueEnds(k core.EdgeKey) []int {
	if k.N1 == k.N2 {
		return []int{k.N1}
	}
	return []int{k.N1, k.N2}
}
