package parallel_test

import (
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tempograph/builder"
	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/metric"
	"github.com/katalvlaran/tempograph/parallel"
	"github.com/katalvlaran/tempograph/series"
	"github.com/katalvlaran/tempograph/update"
)

func workerRunDir(root string, p int) string {
	return filepath.Join(root, "worker."+strconv.Itoa(p), series.RunDirName(0))
}

// writeValue publishes a worker batch holding metric "Worker" with x = v.
func writeValue(t *testing.T, root string, p int, ts int64, v float64) {
	t.Helper()
	md := series.NewMetricData("Worker")
	md.SetValue("x", v)
	b := series.NewBatchData(ts)
	b.Metrics = append(b.Metrics, md)
	_, err := series.WriteBatch(workerRunDir(root, p), b, p%2 == 1)
	require.NoError(t, err)
}

func sumCollation(t *testing.T, root string) *parallel.Collation {
	t.Helper()
	c, err := parallel.NewCollation(nil, parallel.SumCollator{Metrics: []string{"Worker"}, Values: []string{"x"}},
		parallel.CollationConfig{
			Name:       "Sum",
			InputDir:   filepath.Join(root, "worker."+parallel.PartitionKeyword),
			AuxDir:     filepath.Join(root, "aux"),
			Kind:       parallel.Separated,
			Partitions: 2,
			Interval:   2 * time.Millisecond,
			Timeout:    20 * time.Millisecond,
		})
	require.NoError(t, err)
	return c
}

func TestCollation_SumWithBoundaryDelta(t *testing.T) {
	root := t.TempDir()
	auxDir := filepath.Join(root, "aux")
	g, err := core.NewGraph()
	require.NoError(t, err)

	init := parallel.NewAuxData(parallel.Separated, 2, false)
	init.Nodes[0], init.Nodes[1] = 0, 1
	require.NoError(t, parallel.WriteAux(auxDir, 0, parallel.AuxInit, init))
	writeValue(t, root, 0, 0, 2)
	writeValue(t, root, 1, 0, 3)

	c := sumCollation(t, root)
	c.Init(g)
	require.NoError(t, c.Recompute(g))
	v, _ := c.Data().Value("x")
	assert.Equal(t, 5.0, v)

	add := parallel.NewAuxData(parallel.Separated, 2, false)
	add.Boundary[core.Key(1, 0, false)] = struct{}{}
	require.NoError(t, parallel.WriteAux(auxDir, 1, parallel.AuxAdd, add))
	require.NoError(t, parallel.WriteAux(auxDir, 1, parallel.AuxRemove, parallel.NewAuxData(parallel.Separated, 2, false)))
	writeValue(t, root, 0, 1, 5)
	writeValue(t, root, 1, 1, 5)

	require.NoError(t, g.AdvanceTimestamp(1))
	require.NoError(t, c.Recompute(g))
	d := c.Data()
	assert.Equal(t, "Sum", d.Name)
	v, _ = d.Value("x")
	assert.Equal(t, 10.0, v)
	v, _ = d.Value(parallel.BoundaryEdgesValue)
	assert.Equal(t, 1.0, v)
	assert.Equal(t, []core.EdgeKey{{N1: 0, N2: 1}}, c.Aux().BoundaryEdges())

	// Partition 1 never publishes timestamp 2.
	writeValue(t, root, 0, 2, 5)
	empty := parallel.NewAuxData(parallel.Separated, 2, false)
	require.NoError(t, parallel.WriteAux(auxDir, 2, parallel.AuxAdd, empty))
	require.NoError(t, parallel.WriteAux(auxDir, 2, parallel.AuxRemove, empty))
	require.NoError(t, g.AdvanceTimestamp(2))
	start := time.Now()
	err = c.Recompute(g)
	require.ErrorIs(t, err, parallel.ErrCouldNotRead)
	assert.Contains(t, err.Error(), "could not read (all) worker data from")
	assert.Contains(t, err.Error(), "partition 1")
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestCollation_MissingAuxTimesOut(t *testing.T) {
	root := t.TempDir()
	g, err := core.NewGraph()
	require.NoError(t, err)
	writeValue(t, root, 0, 0, 1)
	writeValue(t, root, 1, 0, 1)

	c := sumCollation(t, root)
	c.Init(g)
	err = c.Recompute(g)
	require.ErrorIs(t, err, parallel.ErrCouldNotRead)
	assert.Contains(t, err.Error(), "aux")
}

func TestNewCollation_Rejects(t *testing.T) {
	good := parallel.CollationConfig{InputDir: "w.PARTITION", AuxDir: "aux", Partitions: 1}
	_, err := parallel.NewCollation(metric.NewDegreeDistributionR(), parallel.DegreeCollator{}, good)
	require.NoError(t, err)

	bad := []parallel.CollationConfig{
		{InputDir: "w", AuxDir: "aux", Partitions: 1},
		{InputDir: "w.PARTITION", Partitions: 1},
		{InputDir: "w.PARTITION", AuxDir: "aux"},
		{InputDir: "w.PARTITION", AuxDir: "aux", Partitions: 1, Kind: parallel.PartitionKind(9)},
	}
	for _, cfg := range bad {
		_, err := parallel.NewCollation(metric.NewDegreeDistributionR(), parallel.DegreeCollator{}, cfg)
		assert.ErrorIs(t, err, parallel.ErrBadCollation)
	}
	_, err = parallel.NewCollation(nil, parallel.DegreeCollator{}, good)
	assert.ErrorIs(t, err, parallel.ErrBadCollation, "unnamed collation without inner metric")
}

func TestAuxData_CodecAndDeltas(t *testing.T) {
	a := parallel.NewAuxData(parallel.Overlapping, 3, true)
	a.Nodes[4], a.Nodes[7] = 2, 0
	a.Boundary[core.Key(7, 4, true)] = struct{}{}

	dir := t.TempDir()
	require.NoError(t, parallel.WriteAux(dir, 9, parallel.AuxInit, a))
	assert.FileExists(t, filepath.Join(dir, "9.aux.overlapping.init"))
	back, err := parallel.ReadAux(dir, 9, parallel.Overlapping, parallel.AuxInit)
	require.NoError(t, err)
	assert.Equal(t, a, back)

	_, err = parallel.ReadAux(dir, 9, parallel.Separated, parallel.AuxInit)
	assert.ErrorIs(t, err, parallel.ErrAuxNotFound)
	_, err = parallel.ReadAux(dir, 10, parallel.Overlapping, parallel.AuxAdd)
	assert.ErrorIs(t, err, parallel.ErrAuxNotFound)

	_, err = parallel.DecodeAux("x", []byte("N 1 0\n"))
	assert.ErrorIs(t, err, parallel.ErrMalformedAux)
	_, err = parallel.DecodeAux("x", []byte("P separated 2 undirected\nN 1 5\n"))
	assert.ErrorIs(t, err, parallel.ErrMalformedAux)

	// A stale removal naming another partition leaves the node alone.
	rem := parallel.NewAuxData(parallel.Overlapping, 3, true)
	rem.Nodes[4] = 1
	rem.Boundary[core.Key(7, 4, true)] = struct{}{}
	a.Remove(rem)
	assert.Equal(t, []int{4}, a.Owned(2))
	assert.Empty(t, a.BoundaryEdges())
}

func TestSleeper(t *testing.T) {
	s := parallel.NewSleeper(0, 0)
	assert.Equal(t, parallel.DefaultInterval, s.Interval)
	assert.Equal(t, parallel.DefaultTimeout, s.Timeout)
	assert.False(t, s.TimedOut())

	s = parallel.NewSleeper(2*time.Second, 0)
	assert.Equal(t, 6*time.Second, s.Timeout)
	s = parallel.NewSleeper(2*time.Second, time.Second)
	assert.Equal(t, time.Second, s.Timeout)

	s = parallel.NewSleeper(time.Millisecond, 3*time.Millisecond)
	for i := 0; i < 3; i++ {
		s.Sleep()
	}
	assert.True(t, s.TimedOut())
	s.Reset()
	assert.False(t, s.TimedOut())
}

func TestPartitionKind(t *testing.T) {
	for _, k := range []parallel.PartitionKind{parallel.Separated, parallel.Overlapping} {
		back, err := parallel.ParsePartitionKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, back)
	}
	_, err := parallel.ParsePartitionKind("striped")
	assert.ErrorIs(t, err, parallel.ErrUnknownPartitionKind)
	_, err = parallel.NewSplitter(parallel.Separated, 0)
	assert.ErrorIs(t, err, parallel.ErrBadPartitionCount)
}

func TestSplitter_InitialSplit(t *testing.T) {
	g, err := builder.BuildGraph(nil, nil, builder.Path(4))
	require.NoError(t, err)

	s, err := parallel.NewSplitter(parallel.Separated, 2)
	require.NoError(t, err)
	parts, aux := s.Split(g)
	require.Len(t, parts, 2)
	assert.Equal(t, []int{0, 2}, parts[0].Nodes())
	assert.Equal(t, []int{1, 3}, parts[1].Nodes())
	assert.Zero(t, parts[0].EdgeCount())
	assert.Len(t, aux.BoundaryEdges(), 3)

	s, err = parallel.NewSplitter(parallel.Overlapping, 2)
	require.NoError(t, err)
	parts, _ = s.Split(g)
	assert.Equal(t, []int{0, 1, 2, 3}, parts[0].Nodes())
	assert.Equal(t, 3, parts[0].EdgeCount())
	// Node 3 is a ghost of partition 0 held by edge 2-3 only; removing that
	// edge drops the ghost as well.
	b := update.NewBatch(0, 1, update.EdgeRemoval{Edge: update.Edge(2, 3, false, nil)})
	pbs, add, rem, err := s.SplitBatch(g, b)
	require.NoError(t, err)
	assert.Equal(t, "ER 2 <-> 3", pbs[0].Updates[0].String())
	assert.Equal(t, "NR 3", pbs[0].Updates[1].String())
	assert.Equal(t, 1, pbs[1].Len())
	assert.True(t, add.Empty())
	assert.Equal(t, []core.EdgeKey{{N1: 2, N2: 3}}, rem.BoundaryEdges())
	require.NoError(t, update.Apply(parts[0], pbs[0]))
	require.NoError(t, update.Apply(parts[1], pbs[1]))
	assert.Equal(t, []int{0, 1, 2}, parts[0].Nodes())
}

func TestSplitter_NetBoundaryDelta(t *testing.T) {
	g, err := builder.BuildGraph(nil, nil, builder.Path(2))
	require.NoError(t, err)
	s, err := parallel.NewSplitter(parallel.Separated, 2)
	require.NoError(t, err)
	_, aux := s.Split(g)
	require.Len(t, aux.Boundary, 1)

	// Removed and re-added within one batch: no delta at all.
	b := update.NewBatch(0, 1,
		update.EdgeRemoval{Edge: update.Edge(0, 1, false, nil)},
		update.EdgeAddition{Edge: update.Edge(0, 1, false, nil)},
	)
	_, add, rem, err := s.SplitBatch(g, b)
	require.NoError(t, err)
	assert.True(t, add.Empty())
	assert.True(t, rem.Empty())

	// A node removed and re-added keeps its partition.
	b = update.NewBatch(1, 2,
		update.NodeRemoval{Node: core.Node{Index: 1}},
		update.NodeAddition{Node: core.Node{Index: 1}},
	)
	pbs, add, rem, err := s.SplitBatch(g, b)
	require.NoError(t, err)
	assert.Equal(t, 2, pbs[1].Len())
	assert.Empty(t, add.Nodes)
	assert.Empty(t, rem.Nodes)
	assert.Equal(t, []core.EdgeKey{{N1: 0, N2: 1}}, rem.BoundaryEdges())
}

// writeWorker recomputes ms on pg and publishes them for partition p.
func writeWorker(t *testing.T, root string, p int, pg *core.Graph, ms ...metric.Metric) {
	t.Helper()
	b := series.NewBatchData(pg.Timestamp())
	for _, m := range ms {
		require.NoError(t, m.Recompute(pg))
		b.Metrics = append(b.Metrics, m.Data())
	}
	_, err := series.WriteBatch(workerRunDir(root, p), b, false)
	require.NoError(t, err)
}

func TestSplitAndCollate_MatchesFullGraph(t *testing.T) {
	for _, kind := range []parallel.PartitionKind{parallel.Separated, parallel.Overlapping} {
		for _, directed := range []bool{false, true} {
			t.Run(kind.String()+"/directed="+strconv.FormatBool(directed), func(t *testing.T) {
				splitAndCollate(t, kind, directed)
			})
		}
	}
}

func splitAndCollate(t *testing.T, kind parallel.PartitionKind, directed bool) {
	const k = 3
	root := t.TempDir()
	auxDir := filepath.Join(root, "aux")

	g, err := builder.BuildGraph([]core.GraphOption{core.WithDirected(directed)},
		[]builder.BuilderOption{builder.WithSeed(7)}, builder.RandomSparse(30, 0.1))
	require.NoError(t, err)
	gen, err := builder.NewBatchGenerator(builder.BatchSpec{
		NodeAdditions: 2, NodeRemovals: 2, EdgeAdditions: 8, EdgeRemovals: 4,
	}, builder.WithSeed(11))
	require.NoError(t, err)

	s, err := parallel.NewSplitter(kind, k)
	require.NoError(t, err)
	parts, aux := s.Split(g)
	require.NoError(t, parallel.WriteAux(auxDir, g.Timestamp(), parallel.AuxInit, aux))

	workers := make([][]metric.Metric, k)
	for p, pg := range parts {
		require.NoError(t, pg.Validate())
		workers[p] = []metric.Metric{metric.NewDegreeDistributionU(), metric.NewAggregate()}
		for _, m := range workers[p] {
			m.Init(pg)
		}
		writeWorker(t, root, p, pg, workers[p]...)
	}

	cols, err := parallel.CollationsFor([]string{"DegreeDistributionU", "Aggregate"}, parallel.CollationConfig{
		InputDir:   filepath.Join(root, "worker."+parallel.PartitionKeyword),
		AuxDir:     auxDir,
		Kind:       kind,
		Partitions: k,
		Interval:   time.Millisecond,
		Timeout:    time.Second,
	})
	require.NoError(t, err)
	require.Len(t, cols, 2)

	cg, err := core.NewGraph(core.WithDirected(directed))
	require.NoError(t, err)
	full := metric.NewDegreeDistributionR()
	full.Init(g)
	for _, c := range cols {
		c.Init(cg)
	}

	check := func() {
		t.Helper()
		for _, c := range cols {
			require.NoError(t, c.Recompute(cg))
		}
		require.NoError(t, full.Recompute(g))
		require.NoError(t, metric.Diff(cols[0], full, metric.DefaultTolerance))
		// The collating graph is empty; the result comes from the workers.
		assert.Zero(t, cg.NodeCount())
		assert.Len(t, cols[0].Aux().Nodes, g.NodeCount())

		if kind == parallel.Separated {
			sum := cols[1].Data()
			nodes, _ := sum.Value("Nodes")
			edges, _ := sum.Value("Edges")
			boundary, _ := sum.Value(parallel.BoundaryEdgesValue)
			assert.Equal(t, float64(g.NodeCount()), nodes)
			assert.Equal(t, float64(g.EdgeCount()), edges+boundary)
		}
	}
	check()

	for i := 0; i < 8; i++ {
		b, err := gen.Next(g)
		require.NoError(t, err)
		pbs, add, rem, err := s.SplitBatch(g, b)
		require.NoError(t, err)
		require.NoError(t, parallel.WriteAux(auxDir, b.To, parallel.AuxAdd, add))
		require.NoError(t, parallel.WriteAux(auxDir, b.To, parallel.AuxRemove, rem))

		for p, pg := range parts {
			require.NoError(t, update.Apply(pg, pbs[p]), "partition %d batch %d", p, i)
			require.NoError(t, pg.Validate())
			writeWorker(t, root, p, pg, workers[p]...)
		}
		require.NoError(t, cg.AdvanceTimestamp(b.To))
		check()
	}
}
