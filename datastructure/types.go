// SPDX-License-Identifier: MIT
// Package datastructure maps the graph's internal lists onto concrete
// containers and declares the asymptotic cost of every access on them.
//
// A graph keeps five kinds of lists (ListKind): the node list, the edge list,
// and per-node incoming, outgoing and incident edge lists. Every call site that
// touches one of them performs one AccessKind (add, remove, contains, ...).
// A Strategy picks one ContainerKind per ListKind once, when the graph is
// built; the choice never changes observable graph semantics, only cost.
//
// Errors:
//
//	ErrUnknownContainer   - a container name could not be resolved.
//	ErrUnknownListKind    - a list kind name could not be resolved.
//	ErrUnsupportedAccess  - the configured container cannot serve a required access.
package datastructure

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for strategy resolution and validation.
var (
	// ErrUnknownContainer indicates a container name that is not part of the closed set.
	ErrUnknownContainer = errors.New("datastructure: unknown container kind")

	// ErrUnknownListKind indicates a list kind name that is not part of the closed set.
	ErrUnknownListKind = errors.New("datastructure: unknown list kind")

	// ErrUnsupportedAccess indicates a strategy assigns a container that cannot
	// serve an access kind the graph requires on that list.
	ErrUnsupportedAccess = errors.New("datastructure: access kind not supported by container")
)

// ListKind identifies one of the graph's internal lists.
type ListKind int

// The closed set of list kinds.
const (
	NodeList      ListKind = iota // V: all nodes of the graph
	EdgeList                      // E: all edges of the graph
	InEdges                       // per directed node: incoming edges
	OutEdges                      // per directed node: outgoing edges
	IncidentEdges                 // per undirected node: incident edges
	numListKinds
)

// ListKinds returns every list kind in declaration order.
func ListKinds() []ListKind {
	return []ListKind{NodeList, EdgeList, InEdges, OutEdges, IncidentEdges}
}

var listKindNames = [numListKinds]string{"V", "E", "IN", "OUT", "ADJ"}

func (l ListKind) String() string {
	if l < 0 || l >= numListKinds {
		return fmt.Sprintf("ListKind(%d)", int(l))
	}
	return listKindNames[l]
}

// ParseListKind resolves a name produced by ListKind.String (case-insensitive).
func ParseListKind(name string) (ListKind, error) {
	for i, n := range listKindNames {
		if strings.EqualFold(n, name) {
			return ListKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownListKind, name)
}

// AccessKind identifies one operation performed on a list.
type AccessKind int

// The closed set of access kinds.
const (
	Init AccessKind = iota
	Add
	Remove
	Contains
	Get
	Size
	Iterate
	Random
	numAccessKinds
)

// AccessKinds returns every access kind in declaration order.
func AccessKinds() []AccessKind {
	return []AccessKind{Init, Add, Remove, Contains, Get, Size, Iterate, Random}
}

var accessKindNames = [numAccessKinds]string{
	"Init", "Add", "Remove", "Contains", "Get", "Size", "Iterate", "Random",
}

func (a AccessKind) String() string {
	if a < 0 || a >= numAccessKinds {
		return fmt.Sprintf("AccessKind(%d)", int(a))
	}
	return accessKindNames[a]
}

// NumListKinds and NumAccessKinds size dense per-(list,access) tables.
const (
	NumListKinds   = int(numListKinds)
	NumAccessKinds = int(numAccessKinds)
)

// WorkloadKind selects which resource a cost class describes.
type WorkloadKind int

const (
	// Runtime costs describe time per access.
	Runtime WorkloadKind = iota
	// Memory costs describe space held by the container per access.
	Memory
)

func (w WorkloadKind) String() string {
	switch w {
	case Runtime:
		return "Runtime"
	case Memory:
		return "Memory"
	default:
		return fmt.Sprintf("WorkloadKind(%d)", int(w))
	}
}
