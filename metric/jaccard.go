// File: jaccard.go
// Role: Weighted Jaccard similarity of node neighborhoods on undirected graphs
//       with Int edge weights. For nodes a and b, with w_a(k) the weight of
//       the edge a-k:
//         sim(a, b) = Σ min(w_a(k), w_b(k)) / Σ max(w_a(k), w_b(k))
//       over the union of both neighborhoods. Non-positive weights count as 0.
// Output:
//   - NodeNodeValueLists Jaccard (similarity) and Matching (the min-sum),
//     holding the pairs a <= b with non-zero similarity.
//   - Distribution JaccardDistribution over every pair a <= b, bin width
//     JaccardBinWidth.
//   - Distribution AverageSimilarityDistribution over nodes: the sum of a
//     node's similarities divided by the node count, bin width
//     AverageSimilarityBinWidth.
//   - Values Pairs, SimilarPairs.

package metric

import (
	"math"
	"sort"

	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/series"
	"github.com/katalvlaran/tempograph/update"
	"github.com/katalvlaran/tempograph/weight"
)

const (
	KindJaccard = "JaccardUndirectedIntWeighted"

	JaccardBinWidth           = 0.1
	AverageSimilarityBinWidth = 0.01
)

type jaccardState struct {
	base
	nodes int
	// sim and matching hold non-zero pairs only, keyed with N1 <= N2.
	sim      map[series.NodePair]float64
	matching map[series.NodePair]float64
	partners map[int]map[int]bool
}

func newJaccardState(name string) jaccardState {
	return jaccardState{base: base{name: name, kind: KindJaccard}}
}

func (m *jaccardState) Init(g *core.Graph) { m.base.init(g); m.Reset() }

func (m *jaccardState) Reset() {
	m.nodes = 0
	m.sim = make(map[series.NodePair]float64)
	m.matching = make(map[series.NodePair]float64)
	m.partners = make(map[int]map[int]bool)
}

// ApplicableToGraph requires an undirected graph with Int edge weights.
func (m *jaccardState) ApplicableToGraph(g *core.Graph) bool {
	return !g.Directed() && g.EdgeWeightKind() == weight.Int
}

func (m *jaccardState) Recompute(g *core.Graph) error {
	m.Reset()
	nodes := g.Nodes()
	m.nodes = len(nodes)
	nbrs := make(map[int]map[int]float64, len(nodes))
	for _, n := range nodes {
		nb, err := neighborWeights(g, n)
		if err != nil {
			return err
		}
		nbrs[n] = nb
	}
	for i, a := range nodes {
		for _, b := range nodes[i:] {
			inter, frac := similarity(nbrs[a], nbrs[b])
			m.set(a, b, inter, frac)
		}
	}
	return nil
}

func pairOf(a, b int) series.NodePair {
	if a > b {
		a, b = b, a
	}
	return series.NodePair{N1: a, N2: b}
}

func (m *jaccardState) set(a, b int, inter, frac float64) {
	if frac == 0 {
		return
	}
	p := pairOf(a, b)
	m.sim[p] = frac
	m.matching[p] = inter
	for _, ends := range [2][2]int{{a, b}, {b, a}} {
		if m.partners[ends[0]] == nil {
			m.partners[ends[0]] = make(map[int]bool)
		}
		m.partners[ends[0]][ends[1]] = true
	}
}

// forget drops every pair involving n.
func (m *jaccardState) forget(n int) {
	for o := range m.partners[n] {
		p := pairOf(n, o)
		delete(m.sim, p)
		delete(m.matching, p)
		if o != n {
			delete(m.partners[o], n)
		}
	}
	delete(m.partners, n)
}

func (m *jaccardState) Data() *series.MetricData {
	d := series.NewMetricData(m.name)
	sims := series.NewNodeNodeValueList("Jaccard")
	match := series.NewNodeNodeValueList("Matching")
	dist := series.NewDistribution("JaccardDistribution")

	pairs := make([]series.NodePair, 0, len(m.sim))
	for p := range m.sim {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].N1 != pairs[j].N1 {
			return pairs[i].N1 < pairs[j].N1
		}
		return pairs[i].N2 < pairs[j].N2
	})

	rows := make(map[int]float64)
	for _, p := range pairs {
		v := m.sim[p]
		sims.Set(p.N1, p.N2, v)
		match.Set(p.N1, p.N2, m.matching[p])
		dist.Incr(binOf(v, JaccardBinWidth))
		rows[p.N1] += v
		if p.N2 != p.N1 {
			rows[p.N2] += v
		}
	}
	total := int64(m.nodes) * int64(m.nodes+1) / 2
	dist.Add(0, total-int64(len(pairs)))

	avg := series.NewDistribution("AverageSimilarityDistribution")
	if m.nodes > 0 {
		for _, sum := range rows {
			avg.Incr(binOf(sum/float64(m.nodes), AverageSimilarityBinWidth))
		}
		avg.Add(0, int64(m.nodes-len(rows)))
	}

	d.SetValue("Pairs", float64(total))
	d.SetValue("SimilarPairs", float64(len(pairs)))
	d.Distributions = append(d.Distributions, dist, avg)
	d.NodeNodeValueLists = append(d.NodeNodeValueLists, sims, match)
	d.Sort()
	return d
}

func binOf(v, width float64) int { return int(math.Floor(v/width + 1e-9)) }

// neighborWeights maps every neighbor of n to the weight of the edge to it.
func neighborWeights(g *core.Graph, n int) (map[int]float64, error) {
	es, err := g.IncidentEdges(n)
	if err != nil {
		return nil, err
	}
	out := make(map[int]float64, len(es))
	for _, e := range es {
		w := 0.0
		if e.Weight != nil {
			if c := e.Weight.Components(); len(c) > 0 && c[0] > 0 {
				w = c[0]
			}
		}
		out[e.Other(n)] = w
	}
	return out, nil
}

// similarity returns the min-sum of a and b and their weighted Jaccard index.
func similarity(a, b map[int]float64) (inter, frac float64) {
	var union float64
	for k, wa := range a {
		if wb, ok := b[k]; ok {
			inter += math.Min(wa, wb)
			union += math.Max(wa, wb)
		} else {
			union += wa
		}
	}
	for k, wb := range b {
		if _, ok := a[k]; !ok {
			union += wb
		}
	}
	if inter == 0 || union == 0 {
		return inter, 0
	}
	return inter, inter / union
}

// JaccardUndirectedIntWeightedR recomputes every pair.
type JaccardUndirectedIntWeightedR struct {
	jaccardState
}

// NewJaccardUndirectedIntWeightedR returns the recomputing variant.
func NewJaccardUndirectedIntWeightedR() *JaccardUndirectedIntWeightedR {
	return &JaccardUndirectedIntWeightedR{jaccardState: newJaccardState("JaccardUndirectedIntWeightedR")}
}

// JaccardUndirectedIntWeightedU rescores only the nodes whose neighborhood a
// batch changed, against the nodes two hops away from them.
type JaccardUndirectedIntWeightedU struct {
	jaccardState
	touched map[int]bool
}

// NewJaccardUndirectedIntWeightedU returns the incremental variant.
func NewJaccardUndirectedIntWeightedU() *JaccardUndirectedIntWeightedU {
	return &JaccardUndirectedIntWeightedU{jaccardState: newJaccardState("JaccardUndirectedIntWeightedU")}
}

func (m *JaccardUndirectedIntWeightedU) BeforeBatch(*core.Graph, *update.Batch) bool {
	m.touched = make(map[int]bool)
	return true
}

func (m *JaccardUndirectedIntWeightedU) BeforeUpdate(g *core.Graph, u update.Update) bool {
	switch v := u.(type) {
	case update.NodeAddition:
		m.touched[v.Node.Index] = true
	case update.NodeRemoval:
		// Removal cascades into the neighbors' edges.
		nbrs, err := g.Neighbors(v.Node.Index)
		if err != nil {
			return false
		}
		m.touched[v.Node.Index] = true
		for _, n := range nbrs {
			m.touched[n] = true
		}
	case update.EdgeAddition:
		m.touched[v.Edge.Src], m.touched[v.Edge.Dst] = true, true
	case update.EdgeRemoval:
		m.touched[v.Edge.Src], m.touched[v.Edge.Dst] = true, true
	case update.EdgeWeightChange:
		m.touched[v.Edge.Src], m.touched[v.Edge.Dst] = true, true
	}
	return true
}

func (m *JaccardUndirectedIntWeightedU) AfterUpdate(*core.Graph, update.Update) bool { return true }

func (m *JaccardUndirectedIntWeightedU) AfterBatch(g *core.Graph, _ *update.Batch) bool {
	m.nodes = g.NodeCount()
	touched := sortedKeys(m.touched)
	for _, t := range touched {
		m.forget(t)
	}
	for _, t := range touched {
		if !g.HasNode(t) {
			continue
		}
		nt, err := neighborWeights(g, t)
		if err != nil {
			return false
		}
		candidates := map[int]bool{t: true}
		for k := range nt {
			two, err := g.Neighbors(k)
			if err != nil {
				return false
			}
			for _, x := range two {
				candidates[x] = true
			}
		}
		for _, x := range sortedKeys(candidates) {
			nx, err := neighborWeights(g, x)
			if err != nil {
				return false
			}
			inter, frac := similarity(nt, nx)
			m.set(t, x, inter, frac)
		}
	}
	return true
}
