// SPDX-License-Identifier: MIT
// File: container.go
// Role: Concrete integer containers behind the narrow Container capability set.
// Determinism:
//   - Each() order is container-specific; callers needing order sort the result
//     (SortedList and DenseArray already iterate ascending).

package datastructure

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// ContainerKind names one concrete container implementation.
type ContainerKind int

// The closed set of container kinds.
const (
	HashSet    ContainerKind = iota // map-backed set
	ArrayList                       // unsorted slice
	SortedList                      // ascending slice, binary search
	IndexedSet                      // slice + position map, swap-remove
	DenseArray                      // presence slice indexed by id
	numContainerKinds
)

var containerNames = [numContainerKinds]string{
	"HashSet", "ArrayList", "SortedList", "IndexedSet", "DenseArray",
}

// ContainerKinds returns every container kind in declaration order.
func ContainerKinds() []ContainerKind {
	return []ContainerKind{HashSet, ArrayList, SortedList, IndexedSet, DenseArray}
}

func (k ContainerKind) String() string {
	if k < 0 || k >= numContainerKinds {
		return fmt.Sprintf("ContainerKind(%d)", int(k))
	}
	return containerNames[k]
}

// ParseContainerKind resolves a container name (case-insensitive).
func ParseContainerKind(name string) (ContainerKind, error) {
	for i, n := range containerNames {
		if strings.EqualFold(n, name) {
			return ContainerKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownContainer, name)
}

// Container is the minimal capability set every list needs.
// Ids are non-negative integers (node indices or edge slot ids).
type Container interface {
	// Add inserts id and reports whether it was absent.
	Add(id int) bool
	// Remove deletes id and reports whether it was present.
	Remove(id int) bool
	Contains(id int) bool
	Size() int
	// Each calls fn for every element until fn returns false.
	Each(fn func(id int) bool)
	// Random returns a uniformly drawn element; ok is false when empty
	// or when the kind does not support random access.
	Random(r *rand.Rand) (id int, ok bool)
	Kind() ContainerKind
}

// NewContainer allocates an empty container of kind k.
func NewContainer(k ContainerKind) Container {
	switch k {
	case ArrayList:
		return &arrayList{}
	case SortedList:
		return &sortedList{}
	case IndexedSet:
		return &indexedSet{pos: make(map[int]int)}
	case DenseArray:
		return &denseArray{}
	default:
		return &hashSet{m: make(map[int]struct{})}
	}
}

// Sorted returns the elements of c in ascending order.
func Sorted(c Container) []int {
	out := make([]int, 0, c.Size())
	c.Each(func(id int) bool {
		out = append(out, id)
		return true
	})
	if k := c.Kind(); k != SortedList && k != DenseArray {
		sort.Ints(out)
	}
	return out
}

//–– hashSet ––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––

type hashSet struct{ m map[int]struct{} }

func (h *hashSet) Add(id int) bool {
	if _, ok := h.m[id]; ok {
		return false
	}
	h.m[id] = struct{}{}
	return true
}

func (h *hashSet) Remove(id int) bool {
	if _, ok := h.m[id]; !ok {
		return false
	}
	delete(h.m, id)
	return true
}

func (h *hashSet) Contains(id int) bool {
	_, ok := h.m[id]
	return ok
}

func (h *hashSet) Size() int           { return len(h.m) }
func (h *hashSet) Kind() ContainerKind { return HashSet }

func (h *hashSet) Each(fn func(int) bool) {
	for id := range h.m {
		if !fn(id) {
			return
		}
	}
}

func (h *hashSet) Random(*rand.Rand) (int, bool) { return 0, false }

//–– arrayList ––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––

type arrayList struct{ s []int }

func (a *arrayList) index(id int) int {
	for i, v := range a.s {
		if v == id {
			return i
		}
	}
	return -1
}

func (a *arrayList) Add(id int) bool {
	if a.index(id) >= 0 {
		return false
	}
	a.s = append(a.s, id)
	return true
}

func (a *arrayList) Remove(id int) bool {
	i := a.index(id)
	if i < 0 {
		return false
	}
	a.s = append(a.s[:i], a.s[i+1:]...)
	return true
}

func (a *arrayList) Contains(id int) bool { return a.index(id) >= 0 }
func (a *arrayList) Size() int            { return len(a.s) }
func (a *arrayList) Kind() ContainerKind  { return ArrayList }

func (a *arrayList) Each(fn func(int) bool) {
	for _, v := range a.s {
		if !fn(v) {
			return
		}
	}
}

func (a *arrayList) Random(r *rand.Rand) (int, bool) {
	if len(a.s) == 0 || r == nil {
		return 0, false
	}
	return a.s[r.Intn(len(a.s))], true
}

//–– sortedList –––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––

type sortedList struct{ s []int }

func (l *sortedList) search(id int) (int, bool) {
	i := sort.SearchInts(l.s, id)
	return i, i < len(l.s) && l.s[i] == id
}

func (l *sortedList) Add(id int) bool {
	i, found := l.search(id)
	if found {
		return false
	}
	l.s = append(l.s, 0)
	copy(l.s[i+1:], l.s[i:])
	l.s[i] = id
	return true
}

func (l *sortedList) Remove(id int) bool {
	i, found := l.search(id)
	if !found {
		return false
	}
	l.s = append(l.s[:i], l.s[i+1:]...)
	return true
}

func (l *sortedList) Contains(id int) bool {
	_, ok := l.search(id)
	return ok
}

func (l *sortedList) Size() int           { return len(l.s) }
func (l *sortedList) Kind() ContainerKind { return SortedList }

func (l *sortedList) Each(fn func(int) bool) {
	for _, v := range l.s {
		if !fn(v) {
			return
		}
	}
}

func (l *sortedList) Random(r *rand.Rand) (int, bool) {
	if len(l.s) == 0 || r == nil {
		return 0, false
	}
	return l.s[r.Intn(len(l.s))], true
}

//–– indexedSet –––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––

type indexedSet struct {
	s   []int
	pos map[int]int
}

func (x *indexedSet) Add(id int) bool {
	if _, ok := x.pos[id]; ok {
		return false
	}
	x.pos[id] = len(x.s)
	x.s = append(x.s, id)
	return true
}

func (x *indexedSet) Remove(id int) bool {
	i, ok := x.pos[id]
	if !ok {
		return false
	}
	last := len(x.s) - 1
	x.s[i] = x.s[last]
	x.pos[x.s[i]] = i
	x.s = x.s[:last]
	delete(x.pos, id)
	return true
}

func (x *indexedSet) Contains(id int) bool {
	_, ok := x.pos[id]
	return ok
}

func (x *indexedSet) Size() int           { return len(x.s) }
func (x *indexedSet) Kind() ContainerKind { return IndexedSet }

func (x *indexedSet) Each(fn func(int) bool) {
	for _, v := range x.s {
		if !fn(v) {
			return
		}
	}
}

func (x *indexedSet) Random(r *rand.Rand) (int, bool) {
	if len(x.s) == 0 || r == nil {
		return 0, false
	}
	return x.s[r.Intn(len(x.s))], true
}

//–– denseArray –––––––––––––––––––––––––––––––––––––––––––––––––––––––––––––

type denseArray struct {
	present []bool
	n       int
}

func (d *denseArray) Add(id int) bool {
	if id < 0 {
		return false
	}
	if id >= len(d.present) {
		grown := make([]bool, id+1, 2*(id+1))
		copy(grown, d.present)
		d.present = grown
	}
	if d.present[id] {
		return false
	}
	d.present[id] = true
	d.n++
	return true
}

func (d *denseArray) Remove(id int) bool {
	if !d.Contains(id) {
		return false
	}
	d.present[id] = false
	d.n--
	return true
}

func (d *denseArray) Contains(id int) bool {
	return id >= 0 && id < len(d.present) && d.present[id]
}

func (d *denseArray) Size() int           { return d.n }
func (d *denseArray) Kind() ContainerKind { return DenseArray }

func (d *denseArray) Each(fn func(int) bool) {
	for id, ok := range d.present {
		if ok && !fn(id) {
			return
		}
	}
}

func (d *denseArray) Random(*rand.Rand) (int, bool) { return 0, false }
