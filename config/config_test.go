package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tempograph/config"
	"github.com/katalvlaran/tempograph/datastructure"
	"github.com/katalvlaran/tempograph/parallel"
	"github.com/katalvlaran/tempograph/weight"
)

// inDir runs fn with dir as the working directory.
func inDir(t *testing.T, dir string, fn func()) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { require.NoError(t, os.Chdir(wd)) }()
	fn()
}

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	k, err := cfg.PartitionKind()
	require.NoError(t, err)
	assert.Equal(t, parallel.Separated, k)
	w, err := cfg.Workload()
	require.NoError(t, err)
	assert.Equal(t, datastructure.Runtime, w)
}

func TestLoad_FileEnvAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
name: sample
metrics: [DegreeDistributionR, Aggregate]
graph:
  directed: true
  nodes: 12
  node_weights: Double2D
  strategy:
    V: ArrayList
parallel:
  kind: overlapping
  interval: 250ms
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TEMPOGRAPH_BATCHES_COUNT=7\n"), 0o644))
	t.Setenv("TEMPOGRAPH_GRAPH_NODES", "42")
	t.Setenv("TEMPOGRAPH_PARALLEL_TIMEOUT", "2s")
	defer os.Unsetenv("TEMPOGRAPH_BATCHES_COUNT")

	var cfg *config.Config
	inDir(t, dir, func() {
		var err error
		cfg, err = config.Load(file)
		require.NoError(t, err)
	})

	assert.Equal(t, "sample", cfg.Name)
	assert.Equal(t, []string{"DegreeDistributionR", "Aggregate"}, cfg.Metrics)
	assert.True(t, cfg.Graph.Directed)
	assert.Equal(t, 42, cfg.Graph.Nodes, "environment beats file")
	assert.Equal(t, 7, cfg.Batches.Count, ".env fills unset variables")
	assert.Equal(t, 250*time.Millisecond, cfg.Parallel.Interval)
	assert.Equal(t, 2*time.Second, cfg.Parallel.Timeout)
	assert.Equal(t, 20, cfg.Batches.EdgeAdditions, "defaults survive")

	g, err := cfg.BuildGraph()
	require.NoError(t, err)
	assert.Equal(t, 42, g.NodeCount())
	assert.True(t, g.Directed())
	assert.Equal(t, weight.Double2D, g.NodeWeightKind())
	assert.Equal(t, "sample", g.Name())

	gen, err := cfg.BatchGenerator()
	require.NoError(t, err)
	assert.Equal(t, cfg.BatchSpec(), gen.Spec())
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	inDir(t, t.TempDir(), func() {
		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, config.Default().Metrics, cfg.Metrics)
	})
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(c *config.Config){
		"no metrics":      func(c *config.Config) { c.Metrics = nil },
		"unknown metric":  func(c *config.Config) { c.Metrics = []string{"PageRank"} },
		"no nodes":        func(c *config.Config) { c.Graph.Nodes = 0 },
		"probability":     func(c *config.Config) { c.Graph.EdgeProbability = 1.5 },
		"weights":         func(c *config.Config) { c.Graph.EdgeWeights = "Quaternion" },
		"strategy":        func(c *config.Config) { c.Graph.Strategy = map[string]string{"V": "Heap"} },
		"batch count":     func(c *config.Config) { c.Batches.Count = -1 },
		"partition kind":  func(c *config.Config) { c.Parallel.Kind = "striped" },
		"partition count": func(c *config.Config) { c.Parallel.Partitions = 0 },
		"workload":        func(c *config.Config) { c.Profiler.Workload = "energy" },
		"log level":       func(c *config.Config) { c.Log.Level = "loud" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), config.ErrInvalid)
		})
	}
}

func TestLogConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, closer, err := config.LogConfig{Level: "debug", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)
	l.WithField("k", 1).Debug("hello")
	require.NoError(t, closer.Close())
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	file := filepath.Join(t.TempDir(), "logs", "tempograph.log")
	l, closer, err = config.LogConfig{Level: "info", File: file, MaxSizeMB: 1}.NewLogger(&buf)
	require.NoError(t, err)
	l.Info("to file")
	require.NoError(t, closer.Close())
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")

	_, _, err = config.LogConfig{Level: "loud"}.NewLogger(&buf)
	assert.ErrorIs(t, err, config.ErrInvalid)
	_, _, err = config.LogConfig{Level: "info", Format: "xml"}.NewLogger(&buf)
	assert.ErrorIs(t, err, config.ErrInvalid)
}
