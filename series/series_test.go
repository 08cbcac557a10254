package series_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tempograph/series"
)

func sampleBatch(ts int64) *series.BatchData {
	b := series.NewBatchData(ts)
	b.Stats = []series.Value{{Name: "nodes", Value: 3}, {Name: "edges", Value: 2}}
	b.GeneralRuntimes = []series.RunTime{{Name: "batchApplication", Duration: 1500 * time.Microsecond}}
	b.MetricRuntimes = []series.RunTime{{Name: "DegreeDistributionU", Duration: 42}}

	m := series.NewMetricData("DegreeDistributionU")
	m.SetValue("DegreeMin", 1)
	m.SetValue("DegreeMax", 2)
	d := series.NewDistribution("DegreeDistribution")
	d.Incr(1)
	d.Incr(1)
	d.Incr(2)
	m.Distributions = append(m.Distributions, d)
	nvl := series.NewNodeValueList("Degree")
	nvl.Set(0, 1)
	nvl.Set(1, 2)
	nvl.Set(2, 1)
	m.NodeValueLists = append(m.NodeValueLists, nvl)
	nnvl := series.NewNodeNodeValueList("Distance")
	nnvl.Set(0, 2, 2.5)
	m.NodeNodeValueLists = append(m.NodeNodeValueLists, nnvl)
	b.Metrics = append(b.Metrics, m)
	return b
}

func TestDistribution(t *testing.T) {
	d := series.NewDistribution("d")
	assert.Equal(t, -1, d.Min())
	d.Incr(3)
	d.Incr(5)
	d.Decr(5)
	d.Decr(0)
	assert.Equal(t, 3, d.Min())
	assert.Equal(t, 3, d.Max())
	assert.Len(t, d.Bins, 4, "trailing empty bins are trimmed")
	assert.Equal(t, int64(1), d.Total())

	o := series.NewDistribution("o")
	o.Incr(1)
	d.Merge(o)
	assert.Equal(t, 1, d.Min())
}

func TestWriteReadBatch_DirAndZip(t *testing.T) {
	for _, zipped := range []bool{false, true} {
		dir := t.TempDir()
		p, err := series.WriteBatch(dir, sampleBatch(7), zipped)
		require.NoError(t, err)
		if zipped {
			assert.Equal(t, filepath.Join(dir, "batch.7.zip"), p)
		} else {
			assert.Equal(t, filepath.Join(dir, "batch.7"), p)
		}

		got, err := series.ReadBatchAuto(dir, 7, series.ReadAll)
		require.NoError(t, err)
		assert.Equal(t, int64(7), got.Timestamp)
		n, ok := got.Stat("nodes")
		assert.True(t, ok)
		assert.Equal(t, 3.0, n)
		require.Len(t, got.GeneralRuntimes, 1)
		assert.Equal(t, 1500*time.Microsecond, got.GeneralRuntimes[0].Duration)

		m := got.Metric("DegreeDistributionU")
		require.NotNil(t, m)
		v, _ := m.Value("DegreeMax")
		assert.Equal(t, 2.0, v)
		require.NotNil(t, m.Distribution("DegreeDistribution"))
		assert.Equal(t, int64(2), m.Distribution("DegreeDistribution").Count(1))
		deg, ok := m.NodeValueList("Degree").Get(1)
		assert.True(t, ok)
		assert.Equal(t, 2.0, deg)
		dist, ok := m.NodeNodeValueList("Distance").Get(0, 2)
		assert.True(t, ok)
		assert.Equal(t, 2.5, dist)
	}
}

func TestReadValuesOnly(t *testing.T) {
	dir := t.TempDir()
	_, err := series.WriteBatch(dir, sampleBatch(1), false)
	require.NoError(t, err)

	got, err := series.ReadBatchAuto(dir, 1, series.ReadValuesOnly)
	require.NoError(t, err)
	m := got.Metric("DegreeDistributionU")
	require.NotNil(t, m)
	assert.Len(t, m.Values, 2)
	assert.Empty(t, m.Distributions)
	assert.Empty(t, m.NodeValueLists)
	assert.Empty(t, got.MetricRuntimes)
}

func TestReadBatch_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := series.ReadBatchAuto(dir, 3, series.ReadAll)
	assert.ErrorIs(t, err, series.ErrBatchNotFound)

	_, err = series.WriteBatch(dir, sampleBatch(3), false)
	require.NoError(t, err)
	bad := filepath.Join(dir, "batch.3", "DegreeDistributionU", "Degree.nvl")
	require.NoError(t, os.WriteFile(bad, []byte("0\t1\nx\t2\n"), 0o644))
	_, err = series.ReadBatchAuto(dir, 3, series.ReadAll)
	assert.ErrorIs(t, err, series.ErrMalformed)
	assert.Contains(t, err.Error(), "Degree.nvl:2")
}

func TestTimestampsAndRunInfo(t *testing.T) {
	dir := t.TempDir()
	for _, ts := range []int64{2, 0, 1} {
		_, err := series.WriteBatch(dir, sampleBatch(ts), ts == 1)
		require.NoError(t, err)
	}
	tss, err := series.Timestamps(dir)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1, 2}, tss)

	info := series.RunInfo{Session: "s", Name: "g", Directed: true, Metrics: []string{"A"}, Timestamps: tss}
	require.NoError(t, series.WriteRunInfo(dir, info))
	back, err := series.ReadRunInfo(dir)
	require.NoError(t, err)
	assert.Equal(t, info.Metrics, back.Metrics)
	assert.Equal(t, info.Timestamps, back.Timestamps)
	assert.True(t, back.Directed)
}
