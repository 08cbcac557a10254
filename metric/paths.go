// File: paths.go
// Role: Unweighted all-pairs shortest paths by one breadth-first search per
//       node. Directed graphs follow edge direction.
// Output:
//   - Values existingPaths, possiblePaths, characteristicPathLength, diameter.
//   - Distribution APSP (bin = hop distance, count = ordered pairs).

package metric

import (
	"fmt"

	"github.com/katalvlaran/tempograph/bfs"
	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/series"
	"github.com/katalvlaran/tempograph/update"
)

const KindUnweightedAllPairsShortestPaths = "UnweightedAllPairsShortestPaths"

// UnweightedAllPairsShortestPathsR recomputes the path length distribution.
type UnweightedAllPairsShortestPathsR struct {
	base
	nodes int
	apsp  *series.Distribution
}

// NewUnweightedAllPairsShortestPathsR returns the recomputing metric.
func NewUnweightedAllPairsShortestPathsR() *UnweightedAllPairsShortestPathsR {
	return &UnweightedAllPairsShortestPathsR{base: base{
		name: "UnweightedAllPairsShortestPathsR", kind: KindUnweightedAllPairsShortestPaths, sensitive: true,
	}}
}

func (m *UnweightedAllPairsShortestPathsR) Init(g *core.Graph) { m.base.init(g); m.Reset() }

func (m *UnweightedAllPairsShortestPathsR) Reset() {
	m.nodes = 0
	m.apsp = series.NewDistribution("APSP")
}

// ApplicableToBatch rejects batches that only change weights; path lengths
// ignore weights, so such a batch leaves nothing to report.
func (m *UnweightedAllPairsShortestPathsR) ApplicableToBatch(b *update.Batch) bool {
	return b.Len() == 0 || !b.Only(update.NodeWeightType, update.EdgeWeightType)
}

func (m *UnweightedAllPairsShortestPathsR) Recompute(g *core.Graph) error {
	m.Reset()
	nodes := g.Nodes()
	m.nodes = len(nodes)
	for _, n := range nodes {
		res, err := bfs.BFS(g, n)
		if err != nil {
			return fmt.Errorf("metric: %s: %w", m.name, err)
		}
		for _, v := range res.Order {
			if v != n {
				m.apsp.Incr(res.Depth[v])
			}
		}
	}
	return nil
}

func (m *UnweightedAllPairsShortestPathsR) Data() *series.MetricData {
	d := series.NewMetricData(m.name)
	existing := m.apsp.Total()
	var sum int64
	for dist, c := range m.apsp.Bins {
		sum += int64(dist) * c
	}
	cpl := 0.0
	if existing > 0 {
		cpl = float64(sum) / float64(existing)
	}
	diameter := m.apsp.Max()
	if diameter < 0 {
		diameter = 0
	}
	d.SetValue("existingPaths", float64(existing))
	d.SetValue("possiblePaths", float64(m.nodes)*float64(m.nodes-1))
	d.SetValue("characteristicPathLength", cpl)
	d.SetValue("diameter", float64(diameter))
	d.Distributions = append(d.Distributions, m.apsp.Clone())
	d.Sort()
	return d
}
