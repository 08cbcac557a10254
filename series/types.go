// SPDX-License-Identifier: MIT
// File: types.go
// Role: The metric result data model: scalar values, binned distributions,
//       per-node and per-node-pair value lists, runtimes and batch snapshots.
// Determinism:
//   - All list-returning accessors are sorted (by name, bin or node index).

package series

import (
	"sort"
	"time"
)

// Value is one named scalar.
type Value struct {
	Name  string
	Value float64
}

// Distribution is a histogram over non-negative integer bins (for example
// degrees). Bins[i] counts how many observations fell into bin i.
type Distribution struct {
	Name string
	Bins []int64
}

// NewDistribution returns an empty distribution.
func NewDistribution(name string) *Distribution {
	return &Distribution{Name: name}
}

// Incr adds one observation to bin.
func (d *Distribution) Incr(bin int) { d.Add(bin, 1) }

// Decr removes one observation from bin. Counts never go below zero.
func (d *Distribution) Decr(bin int) { d.Add(bin, -1) }

// Add adds delta observations to bin, growing the bin slice as needed.
func (d *Distribution) Add(bin int, delta int64) {
	if bin < 0 {
		return
	}
	if bin >= len(d.Bins) {
		grown := make([]int64, bin+1)
		copy(grown, d.Bins)
		d.Bins = grown
	}
	d.Bins[bin] += delta
	if d.Bins[bin] < 0 {
		d.Bins[bin] = 0
	}
	d.trim()
}

// Count returns the number of observations in bin.
func (d *Distribution) Count(bin int) int64 {
	if bin < 0 || bin >= len(d.Bins) {
		return 0
	}
	return d.Bins[bin]
}

// Total returns the sum over all bins.
func (d *Distribution) Total() int64 {
	var sum int64
	for _, c := range d.Bins {
		sum += c
	}
	return sum
}

// Min returns the lowest non-empty bin, or -1 for an empty distribution.
func (d *Distribution) Min() int {
	for i, c := range d.Bins {
		if c != 0 {
			return i
		}
	}
	return -1
}

// Max returns the highest non-empty bin, or -1 for an empty distribution.
func (d *Distribution) Max() int {
	for i := len(d.Bins) - 1; i >= 0; i-- {
		if d.Bins[i] != 0 {
			return i
		}
	}
	return -1
}

// Merge adds every bin of o into d.
func (d *Distribution) Merge(o *Distribution) {
	for bin, c := range o.Bins {
		if c != 0 {
			d.Add(bin, c)
		}
	}
}

// Clone returns a deep copy.
func (d *Distribution) Clone() *Distribution {
	out := &Distribution{Name: d.Name, Bins: make([]int64, len(d.Bins))}
	copy(out.Bins, d.Bins)
	return out
}

// trim drops trailing empty bins so equal histograms have equal slices.
func (d *Distribution) trim() {
	n := len(d.Bins)
	for n > 0 && d.Bins[n-1] == 0 {
		n--
	}
	d.Bins = d.Bins[:n]
}

// NodeValueList maps node indices to values.
type NodeValueList struct {
	Name   string
	values map[int]float64
}

// NewNodeValueList returns an empty list.
func NewNodeValueList(name string) *NodeValueList {
	return &NodeValueList{Name: name, values: make(map[int]float64)}
}

// Set stores v for node.
func (l *NodeValueList) Set(node int, v float64) { l.values[node] = v }

// Get returns the value for node.
func (l *NodeValueList) Get(node int) (float64, bool) {
	v, ok := l.values[node]
	return v, ok
}

// Remove deletes node.
func (l *NodeValueList) Remove(node int) { delete(l.values, node) }

// Len returns the number of nodes with a value.
func (l *NodeValueList) Len() int { return len(l.values) }

// Nodes returns the indices with a value, ascending.
func (l *NodeValueList) Nodes() []int {
	out := make([]int, 0, len(l.values))
	for n := range l.values {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// NodePair identifies an ordered pair of nodes.
type NodePair struct {
	N1, N2 int
}

// NodeNodeValueList maps node pairs to values.
type NodeNodeValueList struct {
	Name   string
	values map[NodePair]float64
}

// NewNodeNodeValueList returns an empty list.
func NewNodeNodeValueList(name string) *NodeNodeValueList {
	return &NodeNodeValueList{Name: name, values: make(map[NodePair]float64)}
}

// Set stores v for (n1, n2).
func (l *NodeNodeValueList) Set(n1, n2 int, v float64) { l.values[NodePair{n1, n2}] = v }

// Get returns the value for (n1, n2).
func (l *NodeNodeValueList) Get(n1, n2 int) (float64, bool) {
	v, ok := l.values[NodePair{n1, n2}]
	return v, ok
}

// Len returns the number of pairs with a value.
func (l *NodeNodeValueList) Len() int { return len(l.values) }

// Pairs returns the pairs with a value, sorted by (N1, N2).
func (l *NodeNodeValueList) Pairs() []NodePair {
	out := make([]NodePair, 0, len(l.values))
	for p := range l.values {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N1 != out[j].N1 {
			return out[i].N1 < out[j].N1
		}
		return out[i].N2 < out[j].N2
	})
	return out
}

// MetricData is the complete result of one metric at one timestamp.
type MetricData struct {
	Name               string
	Values             []Value
	Distributions      []*Distribution
	NodeValueLists     []*NodeValueList
	NodeNodeValueLists []*NodeNodeValueList
}

// NewMetricData returns empty data for the named metric.
func NewMetricData(name string) *MetricData {
	return &MetricData{Name: name}
}

// SetValue stores (or replaces) a scalar.
func (m *MetricData) SetValue(name string, v float64) {
	for i := range m.Values {
		if m.Values[i].Name == name {
			m.Values[i].Value = v
			return
		}
	}
	m.Values = append(m.Values, Value{Name: name, Value: v})
}

// Value looks up a scalar by name.
func (m *MetricData) Value(name string) (float64, bool) {
	for _, v := range m.Values {
		if v.Name == name {
			return v.Value, true
		}
	}
	return 0, false
}

// Distribution looks up a distribution by name.
func (m *MetricData) Distribution(name string) *Distribution {
	for _, d := range m.Distributions {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// NodeValueList looks up a node value list by name.
func (m *MetricData) NodeValueList(name string) *NodeValueList {
	for _, l := range m.NodeValueLists {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// NodeNodeValueList looks up a node-node value list by name.
func (m *MetricData) NodeNodeValueList(name string) *NodeNodeValueList {
	for _, l := range m.NodeNodeValueLists {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Sort orders every component by name.
func (m *MetricData) Sort() {
	sort.Slice(m.Values, func(i, j int) bool { return m.Values[i].Name < m.Values[j].Name })
	sort.Slice(m.Distributions, func(i, j int) bool { return m.Distributions[i].Name < m.Distributions[j].Name })
	sort.Slice(m.NodeValueLists, func(i, j int) bool { return m.NodeValueLists[i].Name < m.NodeValueLists[j].Name })
	sort.Slice(m.NodeNodeValueLists, func(i, j int) bool { return m.NodeNodeValueLists[i].Name < m.NodeNodeValueLists[j].Name })
}

// RunTime is one named wall-clock measurement.
type RunTime struct {
	Name     string
	Duration time.Duration
}

// BatchData is everything written for one timestamp.
type BatchData struct {
	Timestamp       int64
	Stats           []Value
	GeneralRuntimes []RunTime
	MetricRuntimes  []RunTime
	Metrics         []*MetricData
}

// NewBatchData returns an empty snapshot for ts.
func NewBatchData(ts int64) *BatchData {
	return &BatchData{Timestamp: ts}
}

// Metric looks up metric data by name.
func (b *BatchData) Metric(name string) *MetricData {
	for _, m := range b.Metrics {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Stat looks up a statistic by name.
func (b *BatchData) Stat(name string) (float64, bool) {
	for _, v := range b.Stats {
		if v.Name == name {
			return v.Value, true
		}
	}
	return 0, false
}
