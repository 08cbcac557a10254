// Package update models atomic graph mutations (Update) and their ordered,
// all-or-nothing application as a Batch.
//
// A Batch moves a graph from timestamp From to timestamp To. Apply first
// validates every update against the state the graph will have once all prior
// updates of the same batch are applied (including node-removal cascades);
// only when the whole batch validates is the graph mutated. A rejected batch
// leaves the graph untouched.
//
// State machine:
//
//	Pending -> Validating -> Applying -> Applied
//	Pending -> Validating -> Rejected
//
// Errors:
//
//	ErrTimestampMismatch - batch From differs from the graph's timestamp.
//	ErrBadTimestamp      - batch To is not after From.
//	ErrInvalidUpdate     - an update cannot be resolved against the graph.
//	ErrBatchState        - Apply on a batch that is not Pending.
//	ErrApplyFailed       - the graph refused a validated update.
//	ErrMalformedBatch    - textual batch could not be parsed.
package update

import (
	"fmt"
	"strconv"

	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/weight"
)

// Type enumerates the update kinds.
type Type int

const (
	NodeAdditionType Type = iota
	NodeRemovalType
	EdgeAdditionType
	EdgeRemovalType
	NodeWeightType
	EdgeWeightType
	numTypes
)

var typeNames = [numTypes]string{
	"NodeAddition", "NodeRemoval", "EdgeAddition", "EdgeRemoval", "NodeWeightChange", "EdgeWeightChange",
}

var typeTags = [numTypes]string{"NA", "NR", "EA", "ER", "NW", "EW"}

// Types returns every update type in declaration order.
func Types() []Type {
	return []Type{NodeAdditionType, NodeRemovalType, EdgeAdditionType, EdgeRemovalType, NodeWeightType, EdgeWeightType}
}

func (t Type) String() string {
	if t < 0 || t >= numTypes {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Tag is the two-letter code used in the text encoding.
func (t Type) Tag() string {
	if t < 0 || t >= numTypes {
		return "??"
	}
	return typeTags[t]
}

// Structural reports whether t changes the node or edge set.
func (t Type) Structural() bool { return t != NodeWeightType && t != EdgeWeightType }

// Update is one immutable atomic mutation.
type Update interface {
	Type() Type
	// Inverse describes the mutation undoing this one. The inverse of a
	// NodeRemoval restores the node only; cascaded edges are not part of it.
	Inverse() Update
	// String renders the update in the batch text encoding.
	String() string
}

// NodeAddition adds Node. A nil weight on a node-weighted graph becomes the
// zero weight.
type NodeAddition struct {
	Node core.Node
}

func (u NodeAddition) Type() Type      { return NodeAdditionType }
func (u NodeAddition) Inverse() Update { return NodeRemoval{Node: u.Node} }
func (u NodeAddition) String() string {
	return withWeight(typeTags[NodeAdditionType]+" "+strconv.Itoa(u.Node.Index), u.Node.Weight)
}

// NodeRemoval removes a node and, implicitly, every edge incident to it.
// Node.Weight is informational (it feeds Inverse).
type NodeRemoval struct {
	Node core.Node
}

func (u NodeRemoval) Type() Type      { return NodeRemovalType }
func (u NodeRemoval) Inverse() Update { return NodeAddition{Node: u.Node} }
func (u NodeRemoval) String() string {
	return typeTags[NodeRemovalType] + " " + strconv.Itoa(u.Node.Index)
}

// EdgeAddition adds Edge. NewNodes lists endpoint nodes introduced together
// with the edge; they are added, in order, right before the edge.
type EdgeAddition struct {
	Edge     core.Edge
	NewNodes []core.Node
}

func (u EdgeAddition) Type() Type      { return EdgeAdditionType }
func (u EdgeAddition) Inverse() Update { return EdgeRemoval{Edge: u.Edge} }
func (u EdgeAddition) String() string {
	s := withWeight(typeTags[EdgeAdditionType]+" "+u.Edge.String(), u.Edge.Weight)
	for _, n := range u.NewNodes {
		s += " +" + strconv.Itoa(n.Index)
		if n.Weight != nil {
			s += "=" + n.Weight.String()
		}
	}
	return s
}

// EdgeRemoval removes Edge (matched by endpoints; weight is informational).
type EdgeRemoval struct {
	Edge core.Edge
}

func (u EdgeRemoval) Type() Type      { return EdgeRemovalType }
func (u EdgeRemoval) Inverse() Update { return EdgeAddition{Edge: u.Edge} }
func (u EdgeRemoval) String() string {
	return typeTags[EdgeRemovalType] + " " + u.Edge.String()
}

// NodeWeightChange replaces a node's weight. Previous is filled in by Apply
// on the recorded copy and is what Inverse restores.
type NodeWeightChange struct {
	Index    int
	Weight   weight.Weight
	Previous weight.Weight
}

func (u NodeWeightChange) Type() Type { return NodeWeightType }
func (u NodeWeightChange) Inverse() Update {
	return NodeWeightChange{Index: u.Index, Weight: u.Previous, Previous: u.Weight}
}
func (u NodeWeightChange) String() string {
	return withWeight(typeTags[NodeWeightType]+" "+strconv.Itoa(u.Index), u.Weight)
}

// EdgeWeightChange replaces an edge's weight.
type EdgeWeightChange struct {
	Edge     core.Edge
	Weight   weight.Weight
	Previous weight.Weight
}

func (u EdgeWeightChange) Type() Type { return EdgeWeightType }
func (u EdgeWeightChange) Inverse() Update {
	return EdgeWeightChange{Edge: u.Edge, Weight: u.Previous, Previous: u.Weight}
}
func (u EdgeWeightChange) String() string {
	return withWeight(typeTags[EdgeWeightType]+" "+u.Edge.String(), u.Weight)
}

func withWeight(s string, w weight.Weight) string {
	if w == nil {
		return s
	}
	return s + " w=" + w.String()
}

// Edge builds an edge value for updates on a graph of the given directedness.
// Undirected endpoints are put in canonical order.
func Edge(src, dst int, directed bool, w weight.Weight) core.Edge {
	k := core.Key(src, dst, directed)
	return core.Edge{Src: k.N1, Dst: k.N2, Weight: w, Directed: directed}
}

// Touches reports the node indices u references, in order.
func Touches(u Update) []int {
	switch v := u.(type) {
	case NodeAddition:
		return []int{v.Node.Index}
	case NodeRemoval:
		return []int{v.Node.Index}
	case NodeWeightChange:
		return []int{v.Index}
	case EdgeAddition:
		return []int{v.Edge.Src, v.Edge.Dst}
	case EdgeRemoval:
		return []int{v.Edge.Src, v.Edge.Dst}
	case EdgeWeightChange:
		return []int{v.Edge.Src, v.Edge.Dst}
	default:
		return nil
	}
}
