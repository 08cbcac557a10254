// File: equal.go
// Role: Tolerance-based comparison of metric results.

package metric

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/tempograph/series"
)

// DefaultTolerance is the absolute tolerance used when none is configured.
const DefaultTolerance = 1e-9

// ErrNotEqual describes the first difference Diff found.
var ErrNotEqual = errors.New("metric: results differ")

// Equal reports whether a and b are comparable and their results match
// within tol.
func Equal(a, b Metric, tol float64) bool {
	return Diff(a, b, tol) == nil
}

// Diff is Equal with a description of the first mismatch.
func Diff(a, b Metric, tol float64) error {
	if a == nil || b == nil {
		return fmt.Errorf("%w: nil metric", ErrNotEqual)
	}
	if !a.ComparableTo(b) || !b.ComparableTo(a) {
		return fmt.Errorf("%w: %s (%s) is not comparable to %s (%s)", ErrNotEqual, a.Name(), a.Kind(), b.Name(), b.Kind())
	}
	if err := DiffData(a.Data(), b.Data(), tol); err != nil {
		return fmt.Errorf("%s vs %s: %w", a.Name(), b.Name(), err)
	}
	return nil
}

// EqualData compares two results component by component, ignoring their
// names.
func EqualData(a, b *series.MetricData, tol float64) bool {
	return DiffData(a, b, tol) == nil
}

// DiffData is EqualData with a description of the first mismatch.
func DiffData(a, b *series.MetricData, tol float64) error {
	if len(a.Values) != len(b.Values) {
		return fmt.Errorf("%w: %d vs %d values", ErrNotEqual, len(a.Values), len(b.Values))
	}
	for _, v := range a.Values {
		w, ok := b.Value(v.Name)
		if !ok {
			return fmt.Errorf("%w: value %s missing", ErrNotEqual, v.Name)
		}
		if !within(v.Value, w, tol) {
			return fmt.Errorf("%w: value %s: %g vs %g", ErrNotEqual, v.Name, v.Value, w)
		}
	}

	if len(a.Distributions) != len(b.Distributions) {
		return fmt.Errorf("%w: %d vs %d distributions", ErrNotEqual, len(a.Distributions), len(b.Distributions))
	}
	for _, d := range a.Distributions {
		o := b.Distribution(d.Name)
		if o == nil {
			return fmt.Errorf("%w: distribution %s missing", ErrNotEqual, d.Name)
		}
		n := len(d.Bins)
		if len(o.Bins) > n {
			n = len(o.Bins)
		}
		for bin := 0; bin < n; bin++ {
			if d.Count(bin) != o.Count(bin) {
				return fmt.Errorf("%w: distribution %s bin %d: %d vs %d", ErrNotEqual, d.Name, bin, d.Count(bin), o.Count(bin))
			}
		}
	}

	if len(a.NodeValueLists) != len(b.NodeValueLists) {
		return fmt.Errorf("%w: %d vs %d node value lists", ErrNotEqual, len(a.NodeValueLists), len(b.NodeValueLists))
	}
	for _, l := range a.NodeValueLists {
		o := b.NodeValueList(l.Name)
		if o == nil {
			return fmt.Errorf("%w: node value list %s missing", ErrNotEqual, l.Name)
		}
		if l.Len() != o.Len() {
			return fmt.Errorf("%w: node value list %s: %d vs %d nodes", ErrNotEqual, l.Name, l.Len(), o.Len())
		}
		for _, n := range l.Nodes() {
			x, _ := l.Get(n)
			y, ok := o.Get(n)
			if !ok || !within(x, y, tol) {
				return fmt.Errorf("%w: node value list %s node %d: %g vs %g", ErrNotEqual, l.Name, n, x, y)
			}
		}
	}

	if len(a.NodeNodeValueLists) != len(b.NodeNodeValueLists) {
		return fmt.Errorf("%w: %d vs %d node-node value lists", ErrNotEqual, len(a.NodeNodeValueLists), len(b.NodeNodeValueLists))
	}
	for _, l := range a.NodeNodeValueLists {
		o := b.NodeNodeValueList(l.Name)
		if o == nil {
			return fmt.Errorf("%w: node-node value list %s missing", ErrNotEqual, l.Name)
		}
		if l.Len() != o.Len() {
			return fmt.Errorf("%w: node-node value list %s: %d vs %d pairs", ErrNotEqual, l.Name, l.Len(), o.Len())
		}
		for _, p := range l.Pairs() {
			x, _ := l.Get(p.N1, p.N2)
			y, ok := o.Get(p.N1, p.N2)
			if !ok || !within(x, y, tol) {
				return fmt.Errorf("%w: node-node value list %s pair %d,%d: %g vs %g", ErrNotEqual, l.Name, p.N1, p.N2, x, y)
			}
		}
	}
	return nil
}

// within compares with an absolute tolerance, relative for large magnitudes.
func within(a, b, tol float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return diff <= tol*scale
}
