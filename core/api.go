// File: api.go
// Role: Configuration accessors, counters and the logical timestamp.
// Concurrency:
//   - All accessors take the read lock; AdvanceTimestamp takes the write lock.

package core

import (
	"fmt"

	"github.com/katalvlaran/tempograph/datastructure"
	"github.com/katalvlaran/tempograph/weight"
)

// Name returns the label set with WithName.
func (g *Graph) Name() string { return g.name }

// Directed reports whether edges are directed.
func (g *Graph) Directed() bool { return g.directed }

// Looped reports whether self-loops are permitted.
func (g *Graph) Looped() bool { return g.allowLoops }

// NodeWeightKind returns the weight kind every node carries (weight.None if unweighted).
func (g *Graph) NodeWeightKind() weight.Kind { return g.nodeKind }

// EdgeWeightKind returns the weight kind every edge carries (weight.None if unweighted).
func (g *Graph) EdgeWeightKind() weight.Kind { return g.edgeKind }

// Strategy returns the collection strategy the graph was built with.
func (g *Graph) Strategy() datastructure.Strategy { return g.strategy }

// Timestamp returns the current logical timestamp.
func (g *Graph) Timestamp() int64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.timestamp
}

// AdvanceTimestamp moves the graph to timestamp to. Moving to the current
// timestamp is a no-op; moving backwards fails with ErrTimestampRegression.
func (g *Graph) AdvanceTimestamp(to int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if to < g.timestamp {
		return fmt.Errorf("%w: %d -> %d", ErrTimestampRegression, g.timestamp, to)
	}
	g.timestamp = to

	return nil
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	g.observe(datastructure.NodeList, datastructure.Size)
	return g.nodes.Size()
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	g.observe(datastructure.EdgeList, datastructure.Size)
	return g.edges.Size()
}

// NextNodeIndex returns one past the highest node index ever added. Generators
// use it to mint fresh indices that never collide with removed ones.
func (g *Graph) NextNodeIndex() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.nextIndex
}

// Stats is a point-in-time summary of a graph.
type Stats struct {
	Name      string
	Directed  bool
	Timestamp int64
	Nodes     int
	Edges     int
}

// Stats returns the graph summary written to each batch's _stats file.
// It does not report accesses to the observer.
func (g *Graph) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return Stats{
		Name:      g.name,
		Directed:  g.directed,
		Timestamp: g.timestamp,
		Nodes:     g.nodes.Size(),
		Edges:     g.edges.Size(),
	}
}

// String renders a compact one-line description.
func (g *Graph) String() string {
	s := g.Stats()
	kind := "undirected"
	if s.Directed {
		kind = "directed"
	}
	return fmt.Sprintf("%s graph %q @%d (V=%d, E=%d)", kind, s.Name, s.Timestamp, s.Nodes, s.Edges)
}

// SetObserver installs o as the access observer, replacing any previous one.
// A nil o turns reporting off.
func (g *Graph) SetObserver(o Observer) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.observer = o
}
