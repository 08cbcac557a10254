// File: connectivity.go
// Role: Weakly connected components, by depth-first recomputation (R) and by
//       union-find over additions (U).
// Output:
//   - Values Components, LargestComponent.
//   - Distribution ComponentSizes (bin = component size).
// Notes:
//   - Union-find cannot split a component, so the U variant reports failure
//     on any edge or node removal and the engine recomputes.

package metric

import (
	"fmt"

	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/dfs"
	"github.com/katalvlaran/tempograph/series"
	"github.com/katalvlaran/tempograph/update"
)

const KindWeakConnectivity = "WeakConnectivity"

// WeakConnectivityR recomputes components with a full depth-first traversal.
type WeakConnectivityR struct {
	base
	sizes []int
}

// NewWeakConnectivityR returns the recomputing variant.
func NewWeakConnectivityR() *WeakConnectivityR {
	return &WeakConnectivityR{base: base{name: "WeakConnectivityR", kind: KindWeakConnectivity}}
}

func (m *WeakConnectivityR) Init(g *core.Graph) { m.base.init(g); m.Reset() }
func (m *WeakConnectivityR) Reset()             { m.sizes = nil }

func (m *WeakConnectivityR) Recompute(g *core.Graph) error {
	comps, err := dfs.Components(g)
	if err != nil {
		return fmt.Errorf("metric: %s: %w", m.name, err)
	}
	m.sizes = m.sizes[:0]
	for _, c := range comps {
		m.sizes = append(m.sizes, len(c))
	}
	return nil
}

func (m *WeakConnectivityR) Data() *series.MetricData { return componentData(m.name, m.sizes) }

// componentData renders the component sizes.
func componentData(name string, sizes []int) *series.MetricData {
	d := series.NewMetricData(name)
	dist := series.NewDistribution("ComponentSizes")
	largest := 0
	for _, s := range sizes {
		dist.Incr(s)
		if s > largest {
			largest = s
		}
	}
	d.SetValue("Components", float64(len(sizes)))
	d.SetValue("LargestComponent", float64(largest))
	d.Distributions = append(d.Distributions, dist)
	d.Sort()
	return d
}

// WeakConnectivityU maintains a union-find forest over node additions and
// edge additions.
type WeakConnectivityU struct {
	base
	parent map[int]int
	size   map[int]int
}

// NewWeakConnectivityU returns the incremental variant.
func NewWeakConnectivityU() *WeakConnectivityU {
	return &WeakConnectivityU{base: base{name: "WeakConnectivityU", kind: KindWeakConnectivity}}
}

func (m *WeakConnectivityU) Init(g *core.Graph) { m.base.init(g); m.Reset() }

func (m *WeakConnectivityU) Reset() {
	m.parent = make(map[int]int)
	m.size = make(map[int]int)
}

// Recompute seeds the forest with one tree per component.
func (m *WeakConnectivityU) Recompute(g *core.Graph) error {
	comps, err := dfs.Components(g)
	if err != nil {
		return fmt.Errorf("metric: %s: %w", m.name, err)
	}
	m.Reset()
	for _, c := range comps {
		root := c[0]
		for _, n := range c {
			m.parent[n] = root
		}
		m.size[root] = len(c)
	}
	return nil
}

func (m *WeakConnectivityU) BeforeBatch(*core.Graph, *update.Batch) bool { return true }

func (m *WeakConnectivityU) BeforeUpdate(_ *core.Graph, u update.Update) bool {
	switch u.(type) {
	case update.NodeRemoval, update.EdgeRemoval:
		return false
	}
	return true
}

func (m *WeakConnectivityU) AfterUpdate(_ *core.Graph, u update.Update) bool {
	switch v := u.(type) {
	case update.NodeAddition:
		m.makeSet(v.Node.Index)
	case update.EdgeAddition:
		for _, n := range v.NewNodes {
			m.makeSet(n.Index)
		}
		m.union(v.Edge.Src, v.Edge.Dst)
	}
	return true
}

func (m *WeakConnectivityU) AfterBatch(*core.Graph, *update.Batch) bool { return true }

func (m *WeakConnectivityU) Data() *series.MetricData {
	sizes := make([]int, 0, len(m.size))
	for _, s := range m.size {
		sizes = append(sizes, s)
	}
	return componentData(m.name, sizes)
}

func (m *WeakConnectivityU) makeSet(n int) {
	m.parent[n] = n
	m.size[n] = 1
}

// find returns n's root, compressing the path behind it.
func (m *WeakConnectivityU) find(n int) int {
	root := n
	for m.parent[root] != root {
		root = m.parent[root]
	}
	for m.parent[n] != root {
		n, m.parent[n] = m.parent[n], root
	}
	return root
}

// union merges by size.
func (m *WeakConnectivityU) union(a, b int) {
	ra, rb := m.find(a), m.find(b)
	if ra == rb {
		return
	}
	if m.size[ra] < m.size[rb] {
		ra, rb = rb, ra
	}
	m.parent[rb] = ra
	m.size[ra] += m.size[rb]
	delete(m.size, rb)
}
