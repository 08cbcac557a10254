// File: types.go
// Role: Graph, Node, Edge, EdgeKey, options and the arena storage records.
// Determinism:
//   - Undirected edges are always stored in canonical (min, max) order.

package core

import (
	"errors"
	"sync"

	"github.com/katalvlaran/tempograph/datastructure"
	"github.com/katalvlaran/tempograph/weight"
)

// Sentinel errors for core graph operations.
var (
	// ErrNegativeIndex indicates a node index below zero.
	ErrNegativeIndex = errors.New("core: negative node index")

	// ErrDuplicateNode indicates AddNode on an index that is already present.
	ErrDuplicateNode = errors.New("core: duplicate node")

	// ErrNodeNotFound indicates an operation referenced a non-existent node.
	ErrNodeNotFound = errors.New("core: node not found")

	// ErrDuplicateEdge indicates an equivalent edge already connects the same pair.
	ErrDuplicateEdge = errors.New("core: duplicate edge")

	// ErrDanglingEndpoint indicates an edge endpoint that is not in the graph.
	ErrDanglingEndpoint = errors.New("core: dangling endpoint")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrLoopNotAllowed indicates a self-loop was attempted when loops are disabled.
	ErrLoopNotAllowed = errors.New("core: self-loop not allowed")

	// ErrBadWeight indicates a weight whose kind differs from the graph's declared kind.
	ErrBadWeight = errors.New("core: bad weight")

	// ErrTimestampRegression indicates an attempt to move the timestamp backwards.
	ErrTimestampRegression = errors.New("core: timestamp regression")

	// ErrInconsistent indicates Validate found a broken structural invariant.
	ErrInconsistent = errors.New("core: inconsistent graph")
)

// Observer receives one notification per list access. The Profiler implements it.
// Observe is called with the graph lock held and must not call back into the graph.
type Observer interface {
	Observe(list datastructure.ListKind, access datastructure.AccessKind)
}

// Node is a read-only snapshot of one node.
type Node struct {
	// Index identifies the node within its graph.
	Index int

	// Weight is nil on graphs without node weights.
	Weight weight.Weight
}

// Edge is a read-only snapshot of one edge.
//
// Undirected edges are always stored with Src <= Dst (canonical order), so
// (a,b) and (b,a) denote the same edge.
type Edge struct {
	Src      int
	Dst      int
	Weight   weight.Weight
	Directed bool
}

// Key returns the canonical key of e.
func (e Edge) Key() EdgeKey { return EdgeKey{N1: e.Src, N2: e.Dst} }

// Other returns the endpoint of e that is not n (n itself for a loop).
func (e Edge) Other(n int) int {
	if e.Src == n {
		return e.Dst
	}
	return e.Src
}

// EdgeKey identifies an edge by its endpoint pair in canonical order.
type EdgeKey struct {
	N1, N2 int
}

// Key builds the canonical key for src→dst. For undirected graphs the lower
// index always comes first.
func Key(src, dst int, directed bool) EdgeKey {
	if !directed && dst < src {
		src, dst = dst, src
	}
	return EdgeKey{N1: src, N2: dst}
}

// Touches reports whether n is an endpoint of k.
func (k EdgeKey) Touches(n int) bool { return k.N1 == n || k.N2 == n }

// nodeRecord is the graph-owned storage of a node. Its lists hold edge slot ids.
type nodeRecord struct {
	index  int
	weight weight.Weight
	in     datastructure.Container // directed only
	out    datastructure.Container // directed only
	inc    datastructure.Container // undirected only
}

// edgeSlot is one arena cell. A dead slot sits on the free list.
type edgeSlot struct {
	edge  Edge
	alive bool
}

// GraphOption configures a Graph before creation.
type GraphOption func(g *Graph)

// WithDirected selects directed (true) or undirected (false) edges.
func WithDirected(directed bool) GraphOption {
	return func(g *Graph) { g.directed = directed }
}

// WithLoops permits self-loops.
func WithLoops() GraphOption {
	return func(g *Graph) { g.allowLoops = true }
}

// WithNodeWeights declares that every node carries a weight of kind k.
func WithNodeWeights(k weight.Kind) GraphOption {
	return func(g *Graph) { g.nodeKind = k }
}

// WithEdgeWeights declares that every edge carries a weight of kind k.
func WithEdgeWeights(k weight.Kind) GraphOption {
	return func(g *Graph) { g.edgeKind = k }
}

// WithStrategy sets the collection strategy for the graph's lists.
func WithStrategy(s datastructure.Strategy) GraphOption {
	return func(g *Graph) { g.strategy = s }
}

// WithObserver installs an access observer (typically a profiler).
func WithObserver(o Observer) GraphOption {
	return func(g *Graph) { g.observer = o }
}

// WithTimestamp sets the initial logical timestamp.
func WithTimestamp(ts int64) GraphOption {
	return func(g *Graph) { g.timestamp = ts }
}

// WithName labels the graph; the name is carried into series output.
func WithName(name string) GraphOption {
	return func(g *Graph) { g.name = name }
}

// Graph is the in-memory evolving graph.
//
// mu guards every field below it. The graph is meant to be mutated by a single
// goroutine at a time; the lock only protects concurrent readers.
type Graph struct {
	mu sync.RWMutex

	// Configuration, immutable after construction.
	name       string
	directed   bool
	allowLoops bool
	nodeKind   weight.Kind
	edgeKind   weight.Kind
	strategy   datastructure.Strategy
	observer   Observer

	timestamp int64

	// Storage.
	nodes     datastructure.Container // NodeList: node indices
	records   map[int]*nodeRecord
	edges     datastructure.Container // EdgeList: live slot ids
	slots     []edgeSlot
	free      []int
	keys      map[EdgeKey]int // canonical key -> slot id
	nextIndex int             // one past the highest node index ever added
}

// RequiredAccesses lists the accesses the graph performs on each list.
// A strategy must serve all of them.
func RequiredAccesses() map[datastructure.ListKind][]datastructure.AccessKind {
	global := []datastructure.AccessKind{
		datastructure.Init, datastructure.Add, datastructure.Remove, datastructure.Contains,
		datastructure.Get, datastructure.Size, datastructure.Iterate, datastructure.Random,
	}
	local := []datastructure.AccessKind{
		datastructure.Init, datastructure.Add, datastructure.Remove, datastructure.Contains,
		datastructure.Size, datastructure.Iterate,
	}
	return map[datastructure.ListKind][]datastructure.AccessKind{
		datastructure.NodeList:      global,
		datastructure.EdgeList:      global,
		datastructure.InEdges:       local,
		datastructure.OutEdges:      local,
		datastructure.IncidentEdges: local,
	}
}

// NewGraph creates an empty Graph. By default it is undirected, unweighted,
// loop-free, at timestamp 0 and uses datastructure.DefaultStrategy.
// The strategy is validated against RequiredAccesses here, never at call time.
// Complexity: O(1)
func NewGraph(opts ...GraphOption) (*Graph, error) {
	g := &Graph{
		strategy: datastructure.DefaultStrategy(),
		records:  make(map[int]*nodeRecord),
		keys:     make(map[EdgeKey]int),
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.strategy.Validate(RequiredAccesses()); err != nil {
		return nil, err
	}
	g.nodes = g.strategy.New(datastructure.NodeList)
	g.edges = g.strategy.New(datastructure.EdgeList)
	g.observe(datastructure.NodeList, datastructure.Init)
	g.observe(datastructure.EdgeList, datastructure.Init)

	return g, nil
}

// observe forwards one access to the observer, if any.
func (g *Graph) observe(list datastructure.ListKind, access datastructure.AccessKind) {
	if g.observer != nil {
		g.observer.Observe(list, access)
	}
}
