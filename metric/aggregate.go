// File: aggregate.go
// Role: Whole-graph counters: Nodes, Edges, Density, AverageDegree.

package metric

import (
	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/series"
)

const KindAggregate = "Aggregate"

// Aggregate reports graph size figures. Density is m/(n(n-1)) for directed
// and 2m/(n(n-1)) for undirected graphs; AverageDegree counts every edge end.
type Aggregate struct {
	base
	nodes, edges int
}

// NewAggregate returns the aggregate metric.
func NewAggregate() *Aggregate {
	return &Aggregate{base: base{name: "Aggregate", kind: KindAggregate, sensitive: true}}
}

func (m *Aggregate) Init(g *core.Graph) { m.base.init(g); m.Reset() }
func (m *Aggregate) Reset()             { m.nodes, m.edges = 0, 0 }

func (m *Aggregate) Recompute(g *core.Graph) error {
	m.nodes, m.edges = g.NodeCount(), g.EdgeCount()
	return nil
}

func (m *Aggregate) Data() *series.MetricData {
	d := series.NewMetricData(m.name)
	n, e := float64(m.nodes), float64(m.edges)
	density, avg := 0.0, 0.0
	if m.nodes > 1 {
		density = e / (n * (n - 1))
		if !m.isDirect {
			density *= 2
		}
	}
	if m.nodes > 0 {
		avg = 2 * e / n
	}
	d.SetValue("Nodes", n)
	d.SetValue("Edges", e)
	d.SetValue("Density", density)
	d.SetValue("AverageDegree", avg)
	d.Sort()
	return d
}
