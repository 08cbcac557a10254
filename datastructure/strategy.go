// SPDX-License-Identifier: MIT
// File: strategy.go
// Role: Strategy resolves every ListKind to one ContainerKind once, at graph
//       construction, and validates it against the accesses the graph needs.

package datastructure

import (
	"fmt"
	"sort"
	"strings"
)

// Strategy is an immutable (ListKind -> ContainerKind) assignment.
type Strategy struct {
	kinds [numListKinds]ContainerKind
}

// DefaultStrategy returns the assignment used when none is configured:
// O(1) sampling on the global lists, hash sets on the per-node lists.
func DefaultStrategy() Strategy {
	var s Strategy
	s.kinds[NodeList] = IndexedSet
	s.kinds[EdgeList] = IndexedSet
	s.kinds[InEdges] = HashSet
	s.kinds[OutEdges] = HashSet
	s.kinds[IncidentEdges] = HashSet
	return s
}

// Uniform assigns the same container kind to every list.
func Uniform(k ContainerKind) Strategy {
	var s Strategy
	for i := range s.kinds {
		s.kinds[i] = k
	}
	return s
}

// With returns a copy of s with list assigned to container kind k.
func (s Strategy) With(list ListKind, k ContainerKind) Strategy {
	if list >= 0 && list < numListKinds {
		s.kinds[list] = k
	}
	return s
}

// Container returns the container kind assigned to list.
func (s Strategy) Container(list ListKind) ContainerKind {
	if list < 0 || list >= numListKinds {
		return HashSet
	}
	return s.kinds[list]
}

// New allocates an empty container for list.
func (s Strategy) New(list ListKind) Container {
	return NewContainer(s.Container(list))
}

// Cost returns the declared cost of access on list under this strategy.
func (s Strategy) Cost(list ListKind, access AccessKind, workload WorkloadKind) CostClass {
	return Cost(s.Container(list), access, workload)
}

// Validate checks that every (list, access) pair in required is served by the
// assigned container. The first violation is reported in ListKind order.
func (s Strategy) Validate(required map[ListKind][]AccessKind) error {
	for _, list := range ListKinds() {
		k := s.Container(list)
		for _, access := range required[list] {
			if !Supports(k, access) {
				return fmt.Errorf("%w: %s on list %s uses %s", ErrUnsupportedAccess, access, list, k)
			}
		}
	}
	return nil
}

// String renders the assignment as "V=IndexedSet,E=IndexedSet,...".
func (s Strategy) String() string {
	parts := make([]string, 0, numListKinds)
	for _, list := range ListKinds() {
		parts = append(parts, list.String()+"="+s.kinds[list].String())
	}
	return strings.Join(parts, ",")
}

// ParseStrategy builds a strategy from (list name -> container name) pairs,
// starting from DefaultStrategy. Keys are ListKind names ("V", "E", "IN",
// "OUT", "ADJ"). Unknown names fail fast.
func ParseStrategy(m map[string]string) (Strategy, error) {
	s := DefaultStrategy()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		list, err := ParseListKind(key)
		if err != nil {
			return Strategy{}, err
		}
		k, err := ParseContainerKind(m[key])
		if err != nil {
			return Strategy{}, fmt.Errorf("list %s: %w", list, err)
		}
		s = s.With(list, k)
	}
	return s, nil
}
