// File: profile.go
// Role: Profile, a dense (ListKind x AccessKind) counter matrix, and its
//       combination with declared cost classes.
// Determinism:
//   - Add is pure: the receiver and argument are never modified.

package profiler

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/tempograph/datastructure"
	"github.com/katalvlaran/tempograph/series"
)

// Profile counts accesses per (list kind, access kind). The zero value is an
// empty profile ready to use.
type Profile struct {
	counts [datastructure.NumListKinds][datastructure.NumAccessKinds]int64
}

// Increase adds n to the (list, access) counter. Out-of-range kinds are ignored.
func (p *Profile) Increase(list datastructure.ListKind, access datastructure.AccessKind, n int64) {
	if !inRange(list, access) {
		return
	}
	p.counts[list][access] += n
}

// Get returns the (list, access) counter.
func (p Profile) Get(list datastructure.ListKind, access datastructure.AccessKind) int64 {
	if !inRange(list, access) {
		return 0
	}
	return p.counts[list][access]
}

// Total returns the sum of all counters.
func (p Profile) Total() int64 {
	var sum int64
	for l := range p.counts {
		for a := range p.counts[l] {
			sum += p.counts[l][a]
		}
	}
	return sum
}

// HasAccessesIn reports whether any access was counted on list.
func (p Profile) HasAccessesIn(list datastructure.ListKind) bool {
	for _, a := range datastructure.AccessKinds() {
		if p.Get(list, a) != 0 {
			return true
		}
	}
	return false
}

// Accessed returns the access kinds with a non-zero counter on list.
func (p Profile) Accessed(list datastructure.ListKind) []datastructure.AccessKind {
	var out []datastructure.AccessKind
	for _, a := range datastructure.AccessKinds() {
		if p.Get(list, a) != 0 {
			out = append(out, a)
		}
	}
	return out
}

// Add returns the element-wise sum of p and o.
func (p Profile) Add(o Profile) Profile {
	out := p
	for l := range out.counts {
		for a := range out.counts[l] {
			out.counts[l][a] += o.counts[l][a]
		}
	}
	return out
}

// CombinedComplexity weighs every counter with the cost class the strategy's
// container declares for that access and workload. When lists is non-empty
// only those list kinds are considered.
func (p Profile) CombinedComplexity(workload datastructure.WorkloadKind, s datastructure.Strategy, lists ...datastructure.ListKind) ComplexityMap {
	if len(lists) == 0 {
		lists = datastructure.ListKinds()
	}
	var m ComplexityMap
	for _, l := range lists {
		for _, a := range datastructure.AccessKinds() {
			n := p.Get(l, a)
			if n == 0 {
				continue
			}
			m.counts[s.Cost(l, a, workload)] += n
		}
	}
	return m
}

// CallsAsValues renders every non-zero counter as a named value
// "<prefix><list>.<access>", plus "<prefix>total".
func (p Profile) CallsAsValues(prefix string) []series.Value {
	var out []series.Value
	for _, l := range datastructure.ListKinds() {
		for _, a := range datastructure.AccessKinds() {
			if n := p.Get(l, a); n != 0 {
				out = append(out, series.Value{Name: prefix + l.String() + "." + a.String(), Value: float64(n)})
			}
		}
	}
	return append(out, series.Value{Name: prefix + "total", Value: float64(p.Total())})
}

// String renders the non-zero counters as "V.Add=3 E.Size=1".
func (p Profile) String() string {
	var parts []string
	for _, l := range datastructure.ListKinds() {
		for _, a := range datastructure.AccessKinds() {
			if n := p.Get(l, a); n != 0 {
				parts = append(parts, fmt.Sprintf("%s.%s=%d", l, a, n))
			}
		}
	}
	return strings.Join(parts, " ")
}

func inRange(list datastructure.ListKind, access datastructure.AccessKind) bool {
	return list >= 0 && int(list) < datastructure.NumListKinds &&
		access >= 0 && int(access) < datastructure.NumAccessKinds
}

// ComplexityMap counts weighted accesses per cost class.
type ComplexityMap struct {
	counts [datastructure.NumCostClasses]int64
}

// Get returns the number of accesses charged to class c.
func (m ComplexityMap) Get(c datastructure.CostClass) int64 {
	if c < 0 || int(c) >= datastructure.NumCostClasses {
		return 0
	}
	return m.counts[c]
}

// Add returns the element-wise sum of m and o.
func (m ComplexityMap) Add(o ComplexityMap) ComplexityMap {
	out := m
	for i := range out.counts {
		out.counts[i] += o.counts[i]
	}
	return out
}

// Estimate evaluates the map for lists holding n elements. Any access
// charged to Unsupported makes the estimate +Inf.
func (m ComplexityMap) Estimate(n int) float64 {
	var sum float64
	for _, c := range datastructure.CostClasses() {
		if k := m.Get(c); k != 0 {
			sum += float64(k) * c.Eval(n)
		}
	}
	return sum
}

// Compare orders two maps by their estimate at n: -1, 0 or +1.
func (m ComplexityMap) Compare(o ComplexityMap, n int) int {
	a, b := m.Estimate(n), o.Estimate(n)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// String renders the non-empty classes as "12*O(1) + 3*O(n)".
func (m ComplexityMap) String() string {
	var parts []string
	for _, c := range datastructure.CostClasses() {
		if k := m.Get(c); k != 0 {
			parts = append(parts, fmt.Sprintf("%d*%s", k, c))
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, " + ")
}
