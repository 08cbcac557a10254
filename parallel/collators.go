package parallel

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/tempograph/metric"
	"github.com/katalvlaran/tempograph/series"
)

// ErrIncomplete indicates worker data lacking something a collator needs.
var ErrIncomplete = errors.New("parallel: incomplete partition data")

// BoundaryEdgesValue is the value SumCollator adds for the boundary edge count.
const BoundaryEdgesValue = "BoundaryEdges"

// Requirements name what a worker metric must contain to be collated.
type Requirements struct {
	Values         []string
	Distributions  []string
	NodeValueLists []string
}

func (r Requirements) satisfiedBy(d *series.MetricData) bool {
	for _, v := range r.Values {
		if _, ok := d.Value(v); !ok {
			return false
		}
	}
	for _, n := range r.Distributions {
		if d.Distribution(n) == nil {
			return false
		}
	}
	for _, n := range r.NodeValueLists {
		if d.NodeValueList(n) == nil {
			return false
		}
	}
	return true
}

// Collator merges the data of every partition into one result.
type Collator interface {
	// Sources lists the worker metric names accepted as input, preferred first.
	Sources() []string
	Requires() Requirements
	// Collate receives one entry per partition, index = partition.
	Collate(parts []*series.MetricData, aux *AuxData) (*series.MetricData, error)
}

// SumCollator adds up scalar values over all partitions and reports the
// number of boundary edges. Overlapping partitions count shared edges once
// per holder.
type SumCollator struct {
	Metrics []string
	Values  []string
}

func (c SumCollator) Sources() []string      { return c.Metrics }
func (c SumCollator) Requires() Requirements { return Requirements{Values: c.Values} }

func (c SumCollator) Collate(parts []*series.MetricData, aux *AuxData) (*series.MetricData, error) {
	out := series.NewMetricData("")
	for _, name := range c.Values {
		var sum float64
		for p, d := range parts {
			v, ok := d.Value(name)
			if !ok {
				return nil, fmt.Errorf("%w: partition %d lacks value %s", ErrIncomplete, p, name)
			}
			sum += v
		}
		out.SetValue(name, sum)
	}
	out.SetValue(BoundaryEdgesValue, float64(len(aux.Boundary)))
	return out, nil
}

// DegreeCollator rebuilds the global degree distribution from the per-node
// degree lists of the partitions. Only owned nodes are taken from each
// partition; with Separated partitions the boundary edges are added back.
type DegreeCollator struct{}

func (DegreeCollator) Sources() []string {
	return []string{"DegreeDistributionR", "DegreeDistributionU"}
}

func (DegreeCollator) Requires() Requirements {
	return Requirements{NodeValueLists: []string{metric.DegreeList}}
}

func (DegreeCollator) Collate(parts []*series.MetricData, aux *AuxData) (*series.MetricData, error) {
	nodes := make(map[int]metric.NodeDegrees, len(aux.Nodes))
	for p, d := range parts {
		all := d.NodeValueList(metric.DegreeList)
		in, out := d.NodeValueList(metric.InDegreeList), d.NodeValueList(metric.OutDegreeList)
		if all == nil || (aux.Directed && (in == nil || out == nil)) {
			return nil, fmt.Errorf("%w: partition %d lacks degree lists", ErrIncomplete, p)
		}
		for _, n := range aux.Owned(p) {
			v, ok := all.Get(n)
			if !ok {
				return nil, fmt.Errorf("%w: partition %d lacks node %d", ErrIncomplete, p, n)
			}
			nd := metric.NodeDegrees{All: int(v)}
			if aux.Directed {
				i, _ := in.Get(n)
				o, _ := out.Get(n)
				nd.In, nd.Out = int(i), int(o)
			}
			nodes[n] = nd
		}
	}

	if aux.Kind == Separated {
		for _, k := range aux.BoundaryEdges() {
			src, dst := nodes[k.N1], nodes[k.N2]
			src.All++
			dst.All++
			if aux.Directed {
				src.Out++
				dst.In++
			}
			nodes[k.N1], nodes[k.N2] = src, dst
		}
	}
	return metric.DegreeData("", aux.Directed, nodes), nil
}

// CollationsFor returns the collations available for the given worker metric
// names: a degree collation when a degree distribution runs and a node and
// edge count sum when Aggregate runs.
func CollationsFor(workerMetrics []string, cfg CollationConfig) ([]*Collation, error) {
	has := make(map[string]bool, len(workerMetrics))
	for _, n := range workerMetrics {
		has[n] = true
	}
	var out []*Collation
	if has["DegreeDistributionR"] || has["DegreeDistributionU"] {
		c, err := NewCollation(metric.NewDegreeDistributionR(), DegreeCollator{}, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if has["Aggregate"] {
		sc := cfg
		sc.Name = "CollatedSum"
		c, err := NewCollation(nil, SumCollator{Metrics: []string{"Aggregate"}, Values: []string{"Nodes", "Edges"}}, sc)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
