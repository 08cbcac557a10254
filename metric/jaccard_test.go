package metric_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tempograph/builder"
	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/metric"
	"github.com/katalvlaran/tempograph/update"
	"github.com/katalvlaran/tempograph/weight"
)

// weightedPath builds 0 -2- 1 -4- 2.
func weightedPath(t *testing.T) *core.Graph {
	t.Helper()
	g, err := core.NewGraph(core.WithEdgeWeights(weight.Int))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, g.AddNode(i, nil))
	}
	_, err = g.AddEdge(0, 1, weight.NewInt(2))
	require.NoError(t, err)
	_, err = g.AddEdge(1, 2, weight.NewInt(4))
	require.NoError(t, err)
	return g
}

func TestJaccard_WeightedPath(t *testing.T) {
	g := weightedPath(t)
	m := metric.NewJaccardUndirectedIntWeightedR()
	require.True(t, m.ApplicableToGraph(g))
	m.Init(g)
	require.NoError(t, m.Recompute(g))

	d := m.Data()
	v, _ := d.Value("Pairs")
	assert.Equal(t, 6.0, v)
	v, _ = d.Value("SimilarPairs")
	assert.Equal(t, 4.0, v)

	sims := d.NodeNodeValueList("Jaccard")
	require.NotNil(t, sims)
	v, ok := sims.Get(0, 2)
	require.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-12)
	_, ok = sims.Get(0, 1)
	assert.False(t, ok)
	v, _ = sims.Get(1, 1)
	assert.Equal(t, 1.0, v)
	v, _ = d.NodeNodeValueList("Matching").Get(1, 1)
	assert.Equal(t, 6.0, v)

	dist := d.Distribution("JaccardDistribution")
	assert.Equal(t, int64(2), dist.Count(0))
	assert.Equal(t, int64(1), dist.Count(5))
	assert.Equal(t, int64(3), dist.Count(10))

	avg := d.Distribution("AverageSimilarityDistribution")
	assert.Equal(t, int64(2), avg.Count(50))
	assert.Equal(t, int64(1), avg.Count(33))
}

func TestJaccard_Applicability(t *testing.T) {
	m := metric.NewJaccardUndirectedIntWeightedU()

	g, err := builder.BuildGraph(nil, nil, builder.Path(3))
	require.NoError(t, err)
	assert.False(t, m.ApplicableToGraph(g), "unweighted")

	g, err = builder.BuildGraph([]core.GraphOption{
		core.WithDirected(true), core.WithEdgeWeights(weight.Int),
	}, nil, builder.Path(3))
	require.NoError(t, err)
	assert.False(t, m.ApplicableToGraph(g), "directed")

	g, err = builder.BuildGraph([]core.GraphOption{core.WithEdgeWeights(weight.Double)}, nil, builder.Path(3))
	require.NoError(t, err)
	assert.False(t, m.ApplicableToGraph(g), "double weights")

	assert.True(t, m.ApplicableToGraph(weightedPath(t)))
}

func TestJaccard_IncrementalUpdates(t *testing.T) {
	g := weightedPath(t)
	r := metric.NewJaccardUndirectedIntWeightedR()
	u := metric.NewJaccardUndirectedIntWeightedU()
	e, err := metric.NewEngine([]metric.Metric{r, u})
	require.NoError(t, err)
	_, err = e.Init(g)
	require.NoError(t, err)

	batches := []*update.Batch{
		update.NewBatch(0, 1, update.EdgeWeightChange{Edge: update.Edge(0, 1, false, nil), Weight: weight.NewInt(4)}),
		update.NewBatch(1, 2,
			update.NodeAddition{Node: core.Node{Index: 3}},
			update.EdgeAddition{Edge: update.Edge(3, 1, false, weight.NewInt(1))},
		),
		update.NewBatch(2, 3, update.NodeRemoval{Node: core.Node{Index: 1}}),
	}
	for i, b := range batches {
		rep, err := e.ApplyBatch(g, b)
		require.NoError(t, err)
		res, ok := rep.Result(u.Name())
		require.True(t, ok)
		assert.Equal(t, metric.Updated, res.Status, "batch %d", i)
		require.NoError(t, metric.Diff(r, u, metric.DefaultTolerance), "batch %d", i)
	}

	// Only the three isolated nodes remain; nothing is similar.
	v, _ := u.Data().Value("SimilarPairs")
	assert.Equal(t, 0.0, v)
	v, _ = u.Data().Value("Pairs")
	assert.Equal(t, 6.0, v)
}
