// File: degree.go
// Role: Degree distribution, by recomputation (R) and by patching the
//       degrees of the nodes each update touches (U).
// Output:
//   - Values DegreeMin, DegreeMax (+ InDegreeMin/Max, OutDegreeMin/Max when directed).
//   - Distributions DegreeDistribution (+ InDegreeDistribution, OutDegreeDistribution).
//   - NodeValueLists Degree (+ InDegree, OutDegree when directed).

package metric

import (
	"fmt"

	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/series"
	"github.com/katalvlaran/tempograph/update"
)

const (
	KindDegreeDistribution = "DegreeDistribution"

	// Per-node degree list names.
	DegreeList    = "Degree"
	InDegreeList  = "InDegree"
	OutDegreeList = "OutDegree"
)

// NodeDegrees is one node's total, in and out degree.
type NodeDegrees struct{ All, In, Out int }

// DegreeData renders per-node degrees the way both degree variants report
// them. In and out figures are only emitted when directed is set.
func DegreeData(name string, directed bool, nodes map[int]NodeDegrees) *series.MetricData {
	all := series.NewDistribution("DegreeDistribution")
	in := series.NewDistribution("InDegreeDistribution")
	out := series.NewDistribution("OutDegreeDistribution")
	allList := series.NewNodeValueList(DegreeList)
	inList := series.NewNodeValueList(InDegreeList)
	outList := series.NewNodeValueList(OutDegreeList)
	for n, d := range nodes {
		all.Incr(d.All)
		in.Incr(d.In)
		out.Incr(d.Out)
		allList.Set(n, float64(d.All))
		inList.Set(n, float64(d.In))
		outList.Set(n, float64(d.Out))
	}

	data := series.NewMetricData(name)
	setMinMax(data, "Degree", all)
	data.Distributions = append(data.Distributions, all)
	data.NodeValueLists = append(data.NodeValueLists, allList)
	if directed {
		setMinMax(data, "InDegree", in)
		setMinMax(data, "OutDegree", out)
		data.Distributions = append(data.Distributions, in, out)
		data.NodeValueLists = append(data.NodeValueLists, inList, outList)
	}
	data.Sort()
	return data
}

// degreeState holds the per-node degrees shared by both variants.
type degreeState struct {
	base
	perNode map[int]NodeDegrees
}

func newDegreeState(name string) degreeState {
	return degreeState{base: base{name: name, kind: KindDegreeDistribution, sensitive: true}}
}

func (m *degreeState) Init(g *core.Graph) {
	m.base.init(g)
	m.Reset()
}

func (m *degreeState) Reset() { m.perNode = make(map[int]NodeDegrees) }

func (m *degreeState) Recompute(g *core.Graph) error {
	m.Reset()
	for _, n := range g.Nodes() {
		if err := m.add(g, n); err != nil {
			return err
		}
	}
	return nil
}

// add reads n's degrees from g and records them.
func (m *degreeState) add(g *core.Graph, n int) error {
	d, err := readDegrees(g, n)
	if err != nil {
		return fmt.Errorf("metric: %s: %w", m.name, err)
	}
	m.perNode[n] = d
	return nil
}

func readDegrees(g *core.Graph, n int) (NodeDegrees, error) {
	all, err := g.Degree(n)
	if err != nil {
		return NodeDegrees{}, err
	}
	in, err := g.InDegree(n)
	if err != nil {
		return NodeDegrees{}, err
	}
	out, err := g.OutDegree(n)
	if err != nil {
		return NodeDegrees{}, err
	}
	return NodeDegrees{All: all, In: in, Out: out}, nil
}

func (m *degreeState) Data() *series.MetricData { return DegreeData(m.name, m.isDirect, m.perNode) }

// setMinMax stores <prefix>Min and <prefix>Max, both 0 for an empty graph.
func setMinMax(d *series.MetricData, prefix string, dist *series.Distribution) {
	lo, hi := dist.Min(), dist.Max()
	if lo < 0 {
		lo, hi = 0, 0
	}
	d.SetValue(prefix+"Min", float64(lo))
	d.SetValue(prefix+"Max", float64(hi))
}

// DegreeDistributionR recomputes the degree distribution after every batch.
type DegreeDistributionR struct {
	degreeState
}

// NewDegreeDistributionR returns the recomputing variant.
func NewDegreeDistributionR() *DegreeDistributionR {
	return &DegreeDistributionR{degreeState: newDegreeState("DegreeDistributionR")}
}

// DegreeDistributionU patches the degrees of the nodes each update touches.
type DegreeDistributionU struct {
	degreeState
	// touched holds the nodes whose entries the pending update invalidates.
	touched []int
}

// NewDegreeDistributionU returns the incremental variant.
func NewDegreeDistributionU() *DegreeDistributionU {
	return &DegreeDistributionU{degreeState: newDegreeState("DegreeDistributionU")}
}

func (m *DegreeDistributionU) BeforeBatch(*core.Graph, *update.Batch) bool { return true }

// BeforeUpdate withdraws the entries of every node u changes the degree of.
// For a node removal that includes all current neighbors.
func (m *DegreeDistributionU) BeforeUpdate(g *core.Graph, u update.Update) bool {
	m.touched = m.touched[:0]
	switch v := u.(type) {
	case update.NodeAddition, update.EdgeAddition, update.EdgeRemoval:
		m.touched = append(m.touched, update.Touches(v)...)
	case update.NodeRemoval:
		nbs, err := g.Neighbors(v.Node.Index)
		if err != nil {
			return false
		}
		m.touched = append(m.touched, v.Node.Index)
		m.touched = append(m.touched, nbs...)
	default:
		return true
	}
	for _, n := range m.touched {
		delete(m.perNode, n)
	}
	return true
}

// AfterUpdate re-reads the touched nodes that still exist.
func (m *DegreeDistributionU) AfterUpdate(g *core.Graph, _ update.Update) bool {
	for _, n := range m.touched {
		if !g.HasNode(n) {
			continue
		}
		if _, seen := m.perNode[n]; seen {
			continue
		}
		if err := m.add(g, n); err != nil {
			return false
		}
	}
	m.touched = m.touched[:0]
	return true
}

func (m *DegreeDistributionU) AfterBatch(*core.Graph, *update.Batch) bool { return true }
