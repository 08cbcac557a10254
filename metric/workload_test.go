package metric_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tempograph/builder"
	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/datastructure"
	"github.com/katalvlaran/tempograph/metric"
	"github.com/katalvlaran/tempograph/profiler"
	"github.com/katalvlaran/tempograph/update"
)

func TestDFSWorkload_Path(t *testing.T) {
	g := mustGraph(t, nil, builder.Path(4))
	m := metric.NewDFSWorkload(2, 3)
	m.Init(g)
	require.NoError(t, m.Recompute(g))

	d := m.Data()
	v, _ := d.Value("Runs")
	assert.Equal(t, 6.0, v)
	v, _ = d.Value("AverageVisited")
	assert.Equal(t, 4.0, v)
	assert.Equal(t, int64(6), d.Distribution("Visited").Count(4))
}

func TestDFSWorkload_Defaults(t *testing.T) {
	m := metric.NewDFSWorkload(0, -1)
	g := mustGraph(t, nil, builder.Cycle(3))
	m.Init(g)
	require.NoError(t, m.Recompute(g))
	v, _ := m.Data().Value("Runs")
	assert.Equal(t, float64(metric.DefaultWorkloadTimes*metric.DefaultWorkloadSamples), v)
}

func TestDFSWorkload_EmptyGraph(t *testing.T) {
	g, err := core.NewGraph()
	require.NoError(t, err)
	m := metric.NewDFSWorkload(1, 5)
	m.Init(g)
	require.NoError(t, m.Recompute(g))
	v, _ := m.Data().Value("Runs")
	assert.Equal(t, 0.0, v)
	v, _ = m.Data().Value("AverageVisited")
	assert.Equal(t, 0.0, v)
}

func TestDFSWorkload_Profiled(t *testing.T) {
	prof := profiler.New()
	g, err := builder.BuildGraph([]core.GraphOption{
		core.WithDirected(true), core.WithObserver(prof),
	}, nil, builder.Path(5))
	require.NoError(t, err)
	m := metric.NewDFSWorkload(1, 4)
	e, err := metric.NewEngine([]metric.Metric{m}, metric.WithProfiler(prof))
	require.NoError(t, err)
	_, err = e.Init(g)
	require.NoError(t, err)

	sec := prof.Section("metric." + m.Name())
	assert.Equal(t, int64(4), sec.Get(datastructure.NodeList, datastructure.Random))
	assert.Positive(t, sec.Total())

	// Recompute-only, so every batch draws again.
	_, err = e.ApplyBatch(g, update.NewBatch(0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(8), prof.Section("metric."+m.Name()).Get(datastructure.NodeList, datastructure.Random))
}
