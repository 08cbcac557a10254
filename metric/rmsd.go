// File: rmsd.go
// Role: Root mean square deviation of node positions between consecutive
//       snapshots. Node weights are positions; a node "changes" when it is
//       present in both snapshots at a non-zero distance.
// Output:
//   - Values RootMeanSquareDeviation, Changes.
//   - Distribution DistanceDistribution (bin width DistanceBinWidth).
// Notes:
//   - The first snapshot has no reference and reports 0.
//   - Only Int/Double scalar, 2D and 3D node weights qualify.

package metric

import (
	"math"

	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/series"
	"github.com/katalvlaran/tempograph/update"
	"github.com/katalvlaran/tempograph/weight"
)

const (
	KindRootMeanSquareDeviation = "RootMeanSquareDeviation"

	// DistanceBinWidth is the width of one DistanceDistribution bin.
	DistanceBinWidth = 0.05
)

// positionKinds are the node weight kinds treated as positions.
var positionKinds = map[weight.Kind]bool{
	weight.Int: true, weight.Int2D: true, weight.Int3D: true,
	weight.Double: true, weight.Double2D: true, weight.Double3D: true,
}

// rmsdState holds the reference positions and the last result.
type rmsdState struct {
	base
	// positions is the snapshot the next comparison starts from; nil before
	// the first snapshot.
	positions map[int]weight.Weight
	changes   int
	rmsd      float64
	distances *series.Distribution
}

func newRMSDState(name string) rmsdState {
	return rmsdState{base: base{name: name, kind: KindRootMeanSquareDeviation}}
}

func (m *rmsdState) Init(g *core.Graph) { m.base.init(g); m.Reset() }

func (m *rmsdState) Reset() {
	m.positions = nil
	m.clearResult()
}

func (m *rmsdState) clearResult() {
	m.changes, m.rmsd = 0, 0
	m.distances = series.NewDistribution("DistanceDistribution")
}

// ApplicableToGraph requires position-like node weights.
func (m *rmsdState) ApplicableToGraph(g *core.Graph) bool {
	return positionKinds[g.NodeWeightKind()]
}

// Recompute compares g against the reference snapshot, then makes g the new
// reference.
func (m *rmsdState) Recompute(g *core.Graph) error {
	m.clearResult()
	current := make(map[int]weight.Weight, g.NodeCount())
	for _, n := range g.Nodes() {
		node, err := g.Node(n)
		if err != nil {
			return err
		}
		current[n] = node.Weight
		if prev, ok := m.positions[n]; ok {
			m.record(weight.Distance(prev, node.Weight))
		}
	}
	m.positions = current
	m.finish()
	return nil
}

// record adds one node's movement; zero distance is not a change.
func (m *rmsdState) record(dist float64) {
	if dist == 0 {
		return
	}
	m.changes++
	m.rmsd += dist * dist
	m.distances.Incr(int(math.Floor(dist / DistanceBinWidth)))
}

// finish turns the squared sum into the root mean.
func (m *rmsdState) finish() {
	if m.changes > 0 {
		m.rmsd = math.Sqrt(m.rmsd / float64(m.changes))
	}
}

func (m *rmsdState) Data() *series.MetricData {
	d := series.NewMetricData(m.name)
	d.SetValue("RootMeanSquareDeviation", m.rmsd)
	d.SetValue("Changes", float64(m.changes))
	d.Distributions = append(d.Distributions, m.distances.Clone())
	d.Sort()
	return d
}

// RootMeanSquareDeviationR compares full snapshots.
type RootMeanSquareDeviationR struct {
	rmsdState
}

// NewRootMeanSquareDeviationR returns the recomputing variant.
func NewRootMeanSquareDeviationR() *RootMeanSquareDeviationR {
	return &RootMeanSquareDeviationR{rmsdState: newRMSDState("RootMeanSquareDeviationR")}
}

// RootMeanSquareDeviationU compares only the nodes whose weight a batch
// changed. The reference snapshot is left untouched until AfterBatch, so a
// fallback recomputation still sees the pre-batch positions.
type RootMeanSquareDeviationU struct {
	rmsdState
	moved   map[int]bool
	added   map[int]bool
	removed map[int]bool
}

// NewRootMeanSquareDeviationU returns the incremental variant.
func NewRootMeanSquareDeviationU() *RootMeanSquareDeviationU {
	return &RootMeanSquareDeviationU{rmsdState: newRMSDState("RootMeanSquareDeviationU")}
}

func (m *RootMeanSquareDeviationU) BeforeBatch(*core.Graph, *update.Batch) bool {
	if m.positions == nil {
		// No reference yet: the first snapshot must come from Recompute.
		return false
	}
	m.moved = make(map[int]bool)
	m.added = make(map[int]bool)
	m.removed = make(map[int]bool)
	return true
}

func (m *RootMeanSquareDeviationU) BeforeUpdate(_ *core.Graph, u update.Update) bool {
	switch v := u.(type) {
	case update.NodeAddition:
		return m.nodeAdded(v.Node.Index)
	case update.EdgeAddition:
		for _, n := range v.NewNodes {
			if !m.nodeAdded(n.Index) {
				return false
			}
		}
	case update.NodeRemoval:
		m.removed[v.Node.Index] = true
		delete(m.moved, v.Node.Index)
		delete(m.added, v.Node.Index)
	case update.NodeWeightChange:
		if !m.added[v.Index] {
			m.moved[v.Index] = true
		}
	}
	return true
}

// nodeAdded fails for a node that left earlier in the same batch: its old
// position is the reference, which the delta no longer tracks.
func (m *RootMeanSquareDeviationU) nodeAdded(n int) bool {
	if m.removed[n] {
		return false
	}
	m.added[n] = true
	return true
}

func (m *RootMeanSquareDeviationU) AfterUpdate(*core.Graph, update.Update) bool { return true }

func (m *RootMeanSquareDeviationU) AfterBatch(g *core.Graph, _ *update.Batch) bool {
	m.clearResult()
	for _, n := range sortedKeys(m.moved) {
		node, err := g.Node(n)
		if err != nil {
			return false
		}
		m.record(weight.Distance(m.positions[n], node.Weight))
		m.positions[n] = node.Weight
	}
	m.finish()
	for n := range m.removed {
		delete(m.positions, n)
	}
	for n := range m.added {
		node, err := g.Node(n)
		if err != nil {
			return false
		}
		m.positions[n] = node.Weight
	}
	return true
}
