// File: workload.go
// Role: A synthetic workload for access profiling: depth-first searches from
//       randomly drawn start nodes. Directed graphs follow out edges.
// Output:
//   - Values Runs (searches performed) and AverageVisited.
//   - Distribution Visited (bin = nodes reached by one search).
// Notes:
//   - Start nodes come from Graph.RandomNode, so the node list sees Random
//     accesses and the adjacency lists see Iterate accesses.
//   - The generator is reseeded on Init, so runs are reproducible.

package metric

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/dfs"
	"github.com/katalvlaran/tempograph/series"
)

const (
	KindWorkload = "Workload"

	DefaultWorkloadTimes   = 1
	DefaultWorkloadSamples = 10
	DefaultWorkloadSeed    = 1
)

// DFSWorkload runs times rounds of samples depth-first searches per snapshot.
type DFSWorkload struct {
	base
	times, samples int
	seed           int64
	rng            *rand.Rand
	runs           int
	visited        *series.Distribution
}

// NewDFSWorkload returns a workload; non-positive counts fall back to the defaults.
func NewDFSWorkload(times, samples int) *DFSWorkload {
	if times <= 0 {
		times = DefaultWorkloadTimes
	}
	if samples <= 0 {
		samples = DefaultWorkloadSamples
	}
	return &DFSWorkload{
		base:    base{name: "DFSWorkload", kind: KindWorkload, sensitive: true},
		times:   times,
		samples: samples,
		seed:    DefaultWorkloadSeed,
		visited: series.NewDistribution("Visited"),
	}
}

func (m *DFSWorkload) Init(g *core.Graph) {
	m.base.init(g)
	m.rng = rand.New(rand.NewSource(m.seed))
	m.Reset()
}

func (m *DFSWorkload) Reset() {
	m.runs = 0
	m.visited = series.NewDistribution("Visited")
}

func (m *DFSWorkload) Recompute(g *core.Graph) error {
	m.Reset()
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(m.seed))
	}
	for t := 0; t < m.times; t++ {
		for s := 0; s < m.samples; s++ {
			start, ok := g.RandomNode(m.rng)
			if !ok {
				return nil
			}
			res, err := dfs.DFS(g, start.Index)
			if err != nil {
				return fmt.Errorf("metric: %s: %w", m.name, err)
			}
			m.runs++
			m.visited.Incr(len(res.Visited))
		}
	}
	return nil
}

func (m *DFSWorkload) Data() *series.MetricData {
	d := series.NewMetricData(m.name)
	d.SetValue("Runs", float64(m.runs))
	avg := 0.0
	if m.runs > 0 {
		var sum int64
		for bin, c := range m.visited.Bins {
			sum += int64(bin) * c
		}
		avg = float64(sum) / float64(m.runs)
	}
	d.SetValue("AverageVisited", avg)
	d.Distributions = append(d.Distributions, m.visited.Clone())
	d.Sort()
	return d
}
