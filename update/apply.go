// File: apply.go
// Role: Batch validation on a copy-free overlay and in-order application.
// Notes:
//   - Validation resolves every update against the graph as it will be once
//     all prior updates of the batch are applied.
//   - The graph is touched only after the whole batch validated.

package update

import (
	"fmt"

	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/weight"
)

// Listener observes application. BeforeUpdate sees the graph before u is
// applied, AfterUpdate right after. A NodeRemoval's cascaded edges are gone by
// the time AfterUpdate runs.
type Listener interface {
	BeforeUpdate(g *core.Graph, u Update)
	AfterUpdate(g *core.Graph, u Update)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	Before func(g *core.Graph, u Update)
	After  func(g *core.Graph, u Update)
}

func (l ListenerFuncs) BeforeUpdate(g *core.Graph, u Update) {
	if l.Before != nil {
		l.Before(g, u)
	}
}

func (l ListenerFuncs) AfterUpdate(g *core.Graph, u Update) {
	if l.After != nil {
		l.After(g, u)
	}
}

// Validate runs the Validating phase without mutating g or b's state.
func Validate(g *core.Graph, b *Batch) error {
	if b.From != g.Timestamp() {
		return fmt.Errorf("%w: batch from %d, graph at %d", ErrTimestampMismatch, b.From, g.Timestamp())
	}
	if b.To <= b.From {
		return fmt.Errorf("%w: %d -> %d", ErrBadTimestamp, b.From, b.To)
	}
	ov := newOverlay(g)
	for i, u := range b.Updates {
		if err := ov.apply(u); err != nil {
			return fmt.Errorf("update %d (%s): %w", i, u, err)
		}
	}
	return nil
}

// Apply validates b against g and, if valid, applies every update in order,
// notifying listeners around each, and advances g to b.To.
//
// On a validation error b becomes Rejected and g is unchanged. Listeners are
// not called for a rejected batch.
func Apply(g *core.Graph, b *Batch, listeners ...Listener) error {
	if b.state != Pending {
		return fmt.Errorf("%w: %s", ErrBatchState, b.state)
	}

	b.state = Validating
	if err := Validate(g, b); err != nil {
		b.state = Rejected
		return err
	}

	b.state = Applying
	b.applied = make([]Update, 0, len(b.Updates))
	for i, u := range b.Updates {
		for _, l := range listeners {
			l.BeforeUpdate(g, u)
		}
		done, err := execute(g, u)
		if err != nil {
			b.state = Rejected
			return fmt.Errorf("%w: update %d (%s): %v", ErrApplyFailed, i, u, err)
		}
		b.applied = append(b.applied, done)
		for _, l := range listeners {
			l.AfterUpdate(g, u)
		}
	}

	if err := g.AdvanceTimestamp(b.To); err != nil {
		b.state = Rejected
		return fmt.Errorf("%w: %v", ErrApplyFailed, err)
	}
	b.state = Applied

	return nil
}

// execute performs u on g and returns the executed form of u.
func execute(g *core.Graph, u Update) (Update, error) {
	switch v := u.(type) {
	case NodeAddition:
		return v, g.AddNode(v.Node.Index, v.Node.Weight)
	case NodeRemoval:
		n, err := g.Node(v.Node.Index)
		if err != nil {
			return v, err
		}
		if _, err = g.RemoveNode(v.Node.Index); err != nil {
			return v, err
		}
		return NodeRemoval{Node: n}, nil
	case EdgeAddition:
		for _, n := range v.NewNodes {
			if err := g.AddNode(n.Index, n.Weight); err != nil {
				return v, err
			}
		}
		_, err := g.AddEdge(v.Edge.Src, v.Edge.Dst, v.Edge.Weight)
		return v, err
	case EdgeRemoval:
		e, err := g.RemoveEdge(v.Edge.Src, v.Edge.Dst)
		if err != nil {
			return v, err
		}
		return EdgeRemoval{Edge: e}, nil
	case NodeWeightChange:
		prev, err := g.SetNodeWeight(v.Index, v.Weight)
		v.Previous = prev
		return v, err
	case EdgeWeightChange:
		prev, err := g.SetEdgeWeight(v.Edge.Src, v.Edge.Dst, v.Weight)
		v.Previous = prev
		return v, err
	default:
		return u, fmt.Errorf("unsupported update %T", u)
	}
}

// overlay tracks the node and edge sets a batch would produce, falling back to
// the graph for anything the batch has not touched yet.
type overlay struct {
	g     *core.Graph
	nodes map[int]bool
	edges map[core.EdgeKey]bool
}

func newOverlay(g *core.Graph) *overlay {
	return &overlay{g: g, nodes: make(map[int]bool), edges: make(map[core.EdgeKey]bool)}
}

func (o *overlay) hasNode(i int) bool {
	if v, ok := o.nodes[i]; ok {
		return v
	}
	return o.g.HasNode(i)
}

func (o *overlay) hasEdge(k core.EdgeKey) bool {
	if v, ok := o.edges[k]; ok {
		return v
	}
	return o.g.HasEdge(k.N1, k.N2)
}

func (o *overlay) addNode(n core.Node) error {
	if n.Index < 0 {
		return fmt.Errorf("%w: %w: %d", ErrInvalidUpdate, core.ErrNegativeIndex, n.Index)
	}
	if o.hasNode(n.Index) {
		return fmt.Errorf("%w: %w: %d", ErrInvalidUpdate, core.ErrDuplicateNode, n.Index)
	}
	if err := checkKind(o.g.NodeWeightKind(), n.Weight, true); err != nil {
		return err
	}
	o.nodes[n.Index] = true
	return nil
}

func (o *overlay) removeNode(i int) error {
	if !o.hasNode(i) {
		return fmt.Errorf("%w: %w: %d", ErrInvalidUpdate, core.ErrNodeNotFound, i)
	}
	// Edges from the graph that are still alive in the overlay.
	if _, present := o.nodes[i]; !present {
		if es, err := o.g.IncidentEdges(i); err == nil {
			for _, e := range es {
				o.edges[e.Key()] = false
			}
		}
	}
	// Edges the batch itself added.
	for k, alive := range o.edges {
		if alive && k.Touches(i) {
			o.edges[k] = false
		}
	}
	o.nodes[i] = false
	return nil
}

func (o *overlay) apply(u Update) error {
	directed := o.g.Directed()
	switch v := u.(type) {
	case NodeAddition:
		return o.addNode(v.Node)
	case NodeRemoval:
		return o.removeNode(v.Node.Index)
	case EdgeAddition:
		for _, n := range v.NewNodes {
			if n.Index != v.Edge.Src && n.Index != v.Edge.Dst {
				return fmt.Errorf("%w: embedded node %d is not an endpoint", ErrInvalidUpdate, n.Index)
			}
			if err := o.addNode(n); err != nil {
				return err
			}
		}
		k := core.Key(v.Edge.Src, v.Edge.Dst, directed)
		if !o.hasNode(k.N1) || !o.hasNode(k.N2) {
			return fmt.Errorf("%w: %w: %s", ErrInvalidUpdate, core.ErrDanglingEndpoint, core.FormatEdgeKey(k, directed))
		}
		if k.N1 == k.N2 && !o.g.Looped() {
			return fmt.Errorf("%w: %w: %d", ErrInvalidUpdate, core.ErrLoopNotAllowed, k.N1)
		}
		if o.hasEdge(k) {
			return fmt.Errorf("%w: %w: %s", ErrInvalidUpdate, core.ErrDuplicateEdge, core.FormatEdgeKey(k, directed))
		}
		if err := checkKind(o.g.EdgeWeightKind(), v.Edge.Weight, true); err != nil {
			return err
		}
		o.edges[k] = true
		return nil
	case EdgeRemoval:
		k := core.Key(v.Edge.Src, v.Edge.Dst, directed)
		if !o.hasEdge(k) {
			return fmt.Errorf("%w: %w: %s", ErrInvalidUpdate, core.ErrEdgeNotFound, core.FormatEdgeKey(k, directed))
		}
		o.edges[k] = false
		return nil
	case NodeWeightChange:
		if !o.hasNode(v.Index) {
			return fmt.Errorf("%w: %w: %d", ErrInvalidUpdate, core.ErrNodeNotFound, v.Index)
		}
		return checkKind(o.g.NodeWeightKind(), v.Weight, false)
	case EdgeWeightChange:
		k := core.Key(v.Edge.Src, v.Edge.Dst, directed)
		if !o.hasEdge(k) {
			return fmt.Errorf("%w: %w: %s", ErrInvalidUpdate, core.ErrEdgeNotFound, core.FormatEdgeKey(k, directed))
		}
		return checkKind(o.g.EdgeWeightKind(), v.Weight, false)
	default:
		return fmt.Errorf("%w: unsupported update %T", ErrInvalidUpdate, u)
	}
}

// checkKind mirrors the graph's weight rules. allowNil permits nil on weighted
// graphs (additions default to the zero weight).
func checkKind(k weight.Kind, w weight.Weight, allowNil bool) error {
	switch {
	case k == weight.None && w != nil:
		return fmt.Errorf("%w: %w: unweighted, got %s", ErrInvalidUpdate, core.ErrBadWeight, w.Kind())
	case k != weight.None && w == nil && !allowNil:
		return fmt.Errorf("%w: %w: missing %s weight", ErrInvalidUpdate, core.ErrBadWeight, k)
	case k == weight.None && !allowNil:
		return fmt.Errorf("%w: %w: graph carries no weights", ErrInvalidUpdate, core.ErrBadWeight)
	case w != nil && w.Kind() != k:
		return fmt.Errorf("%w: %w: want %s, got %s", ErrInvalidUpdate, core.ErrBadWeight, k, w.Kind())
	}
	return nil
}
