package metric_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tempograph/builder"
	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/metric"
	"github.com/katalvlaran/tempograph/weight"
)

func mustGraph(t *testing.T, gopts []core.GraphOption, cons ...builder.Constructor) *core.Graph {
	t.Helper()
	g, err := builder.BuildGraph(gopts, []builder.BuilderOption{
		builder.WithSeed(1),
		builder.WithNodeWeightFn(builder.UniformWeightFn(0, 10)),
	}, cons...)
	require.NoError(t, err)
	return g
}

func TestDegreeDistribution_Star(t *testing.T) {
	g := mustGraph(t, []core.GraphOption{core.WithDirected(true)}, builder.Star(4))
	m := metric.NewDegreeDistributionR()
	m.Init(g)
	require.NoError(t, m.Recompute(g))

	d := m.Data()
	v, ok := d.Value("DegreeMax")
	require.True(t, ok)
	assert.Equal(t, 3.0, v)
	v, _ = d.Value("InDegreeMax")
	assert.Equal(t, 1.0, v)
	v, _ = d.Value("OutDegreeMin")
	assert.Equal(t, 0.0, v)

	dist := d.Distribution("DegreeDistribution")
	require.NotNil(t, dist)
	assert.Equal(t, int64(3), dist.Count(1))
	assert.Equal(t, int64(1), dist.Count(3))

	deg := d.NodeValueList(metric.DegreeList)
	require.NotNil(t, deg)
	x, _ := deg.Get(0)
	assert.Equal(t, 3.0, x)

	// Undirected graphs carry no in/out split.
	u := mustGraph(t, nil, builder.Star(4))
	m.Init(u)
	require.NoError(t, m.Recompute(u))
	_, ok = m.Data().Value("InDegreeMax")
	assert.False(t, ok)
}

func TestAllPairsShortestPaths_Path(t *testing.T) {
	g := mustGraph(t, nil, builder.Path(3))
	m := metric.NewUnweightedAllPairsShortestPathsR()
	m.Init(g)
	require.NoError(t, m.Recompute(g))
	d := m.Data()

	get := func(name string) float64 {
		v, ok := d.Value(name)
		require.True(t, ok, name)
		return v
	}
	assert.Equal(t, 6.0, get("existingPaths"))
	assert.Equal(t, 6.0, get("possiblePaths"))
	assert.InDelta(t, 8.0/6.0, get("characteristicPathLength"), 1e-12)
	assert.Equal(t, 2.0, get("diameter"))

	// Directed path: only forward pairs exist.
	dg := mustGraph(t, []core.GraphOption{core.WithDirected(true)}, builder.Path(3))
	m.Init(dg)
	require.NoError(t, m.Recompute(dg))
	v, _ := m.Data().Value("existingPaths")
	assert.Equal(t, 3.0, v)
}

func TestWeakConnectivity(t *testing.T) {
	g := mustGraph(t, nil, builder.Path(3))
	require.NoError(t, g.AddNode(10, nil))

	r := metric.NewWeakConnectivityR()
	r.Init(g)
	require.NoError(t, r.Recompute(g))
	d := r.Data()
	v, _ := d.Value("Components")
	assert.Equal(t, 2.0, v)
	v, _ = d.Value("LargestComponent")
	assert.Equal(t, 3.0, v)
	assert.Equal(t, int64(1), d.Distribution("ComponentSizes").Count(1))
}

func TestRootMeanSquareDeviation(t *testing.T) {
	g, err := core.NewGraph(core.WithNodeWeights(weight.Double2D))
	require.NoError(t, err)
	require.NoError(t, g.AddNode(0, weight.NewDouble2D(0, 0)))
	require.NoError(t, g.AddNode(1, weight.NewDouble2D(1, 1)))

	m := metric.NewRootMeanSquareDeviationR()
	require.True(t, m.ApplicableToGraph(g))
	m.Init(g)
	require.NoError(t, m.Recompute(g))
	v, _ := m.Data().Value("RootMeanSquareDeviation")
	assert.Equal(t, 0.0, v, "first snapshot has no reference")

	_, err = g.SetNodeWeight(0, weight.NewDouble2D(3, 4))
	require.NoError(t, err)
	require.NoError(t, m.Recompute(g))
	d := m.Data()
	v, _ = d.Value("RootMeanSquareDeviation")
	assert.InDelta(t, 5.0, v, 1e-12)
	v, _ = d.Value("Changes")
	assert.Equal(t, 1.0, v)
	assert.Equal(t, int64(1), d.Distribution("DistanceDistribution").Total())

	long, err := core.NewGraph(core.WithNodeWeights(weight.Long2D))
	require.NoError(t, err)
	assert.False(t, m.ApplicableToGraph(long))
	plain, err := core.NewGraph()
	require.NoError(t, err)
	assert.False(t, m.ApplicableToGraph(plain))
}

func TestAggregate(t *testing.T) {
	g := mustGraph(t, nil, builder.Complete(4))
	m := metric.NewAggregate()
	m.Init(g)
	require.NoError(t, m.Recompute(g))
	d := m.Data()
	v, _ := d.Value("Density")
	assert.Equal(t, 1.0, v)
	v, _ = d.Value("AverageDegree")
	assert.Equal(t, 3.0, v)
}

func TestEqualAndComparable(t *testing.T) {
	g := mustGraph(t, nil, builder.Cycle(5))
	a, b := metric.NewDegreeDistributionR(), metric.NewDegreeDistributionU()
	c := metric.NewWeakConnectivityR()
	for _, m := range []metric.Metric{a, b, c} {
		m.Init(g)
		require.NoError(t, m.Recompute(g))
	}
	assert.True(t, metric.Equal(a, b, metric.DefaultTolerance))
	assert.False(t, a.ComparableTo(c))
	assert.ErrorIs(t, metric.Diff(a, c, metric.DefaultTolerance), metric.ErrNotEqual)

	// Directed and undirected results of a direction-sensitive kind never compare.
	dg := mustGraph(t, []core.GraphOption{core.WithDirected(true)}, builder.Cycle(5))
	b.Init(dg)
	require.NoError(t, b.Recompute(dg))
	assert.False(t, a.ComparableTo(b))

	x, y := a.Data(), a.Data()
	x.SetValue("DegreeMax", 2+1e-12)
	assert.True(t, metric.EqualData(x, y, 1e-9))
	x.SetValue("DegreeMax", 2.5)
	err := metric.DiffData(x, y, 1e-9)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DegreeMax")
	x.SetValue("DegreeMax", math.NaN())
	assert.False(t, metric.EqualData(x, y, 1))
}

func TestRegistry(t *testing.T) {
	names := metric.Names()
	assert.Len(t, names, 11)
	for _, n := range names {
		m, err := metric.New(n)
		require.NoError(t, err)
		assert.Equal(t, n, m.Name())
	}

	_, err := metric.New("PageRank")
	require.ErrorIs(t, err, metric.ErrUnknownMetricType)
	assert.EqualError(t, err, "unknown metric type: PageRank")

	_, err = metric.NewAll([]string{"Aggregate", "Nope"})
	assert.ErrorIs(t, err, metric.ErrUnknownMetricType)
}
