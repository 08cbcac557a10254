// Package config loads run settings from a YAML file, .env files and
// TEMPOGRAPH_* environment variables, in increasing precedence over the
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/katalvlaran/tempograph/builder"
	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/datastructure"
	"github.com/katalvlaran/tempograph/metric"
	"github.com/katalvlaran/tempograph/parallel"
	"github.com/katalvlaran/tempograph/weight"
)

// EnvPrefix prefixes every environment override, e.g. TEMPOGRAPH_GRAPH_NODES.
const EnvPrefix = "TEMPOGRAPH"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Name     string         `mapstructure:"name"`
	Metrics  []string       `mapstructure:"metrics"`
	Output   OutputConfig   `mapstructure:"output"`
	Log      LogConfig      `mapstructure:"log"`
	Graph    GraphConfig    `mapstructure:"graph"`
	Batches  BatchConfig    `mapstructure:"batches"`
	Parallel ParallelConfig `mapstructure:"parallel"`
	Profiler ProfilerConfig `mapstructure:"profiler"`
}

type OutputConfig struct {
	Dir string `mapstructure:"dir"`
	Run int    `mapstructure:"run"`
	Zip bool   `mapstructure:"zip"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
	// File enables rotation through lumberjack; empty logs to stderr.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// GraphConfig describes the generated initial graph.
type GraphConfig struct {
	Directed        bool    `mapstructure:"directed"`
	Nodes           int     `mapstructure:"nodes"`
	EdgeProbability float64 `mapstructure:"edge_probability"`
	NodeWeights     string  `mapstructure:"node_weights"`
	EdgeWeights     string  `mapstructure:"edge_weights"`
	Seed            int64   `mapstructure:"seed"`
	// Strategy maps list names (V, E, IN, OUT, ADJ) to container names.
	Strategy map[string]string `mapstructure:"strategy"`
}

// BatchConfig describes the generated batches.
type BatchConfig struct {
	Count             int   `mapstructure:"count"`
	Seed              int64 `mapstructure:"seed"`
	NodeAdditions     int   `mapstructure:"node_additions"`
	NodeRemovals      int   `mapstructure:"node_removals"`
	EdgeAdditions     int   `mapstructure:"edge_additions"`
	EdgeRemovals      int   `mapstructure:"edge_removals"`
	NodeWeightChanges int   `mapstructure:"node_weight_changes"`
	EdgeWeightChanges int   `mapstructure:"edge_weight_changes"`
}

type ParallelConfig struct {
	Partitions int           `mapstructure:"partitions"`
	Kind       string        `mapstructure:"kind"`
	Interval   time.Duration `mapstructure:"interval"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type ProfilerConfig struct {
	Workload string `mapstructure:"workload"` // "runtime" or "memory"
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Name:    "tempograph",
		Metrics: []string{"DegreeDistributionU", "WeakConnectivityU", "Aggregate"},
		Output:  OutputConfig{Dir: "out"},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Graph: GraphConfig{
			Nodes:           100,
			EdgeProbability: 0.05,
			Seed:            1,
		},
		Batches: BatchConfig{
			Count:         10,
			Seed:          2,
			NodeAdditions: 5,
			NodeRemovals:  5,
			EdgeAdditions: 20,
			EdgeRemovals:  20,
		},
		Parallel: ParallelConfig{
			Partitions: 2,
			Kind:       parallel.Separated.String(),
			Interval:   parallel.DefaultInterval,
			Timeout:    parallel.DefaultTimeout,
		},
		Profiler: ProfilerConfig{Workload: "runtime"},
	}
}

// setDefaults registers every leaf key so environment overrides resolve.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("name", cfg.Name)
	v.SetDefault("metrics", cfg.Metrics)

	v.SetDefault("output.dir", cfg.Output.Dir)
	v.SetDefault("output.run", cfg.Output.Run)
	v.SetDefault("output.zip", cfg.Output.Zip)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.max_size_mb", cfg.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", cfg.Log.MaxBackups)
	v.SetDefault("log.max_age_days", cfg.Log.MaxAgeDays)
	v.SetDefault("log.compress", cfg.Log.Compress)

	v.SetDefault("graph.directed", cfg.Graph.Directed)
	v.SetDefault("graph.nodes", cfg.Graph.Nodes)
	v.SetDefault("graph.edge_probability", cfg.Graph.EdgeProbability)
	v.SetDefault("graph.node_weights", cfg.Graph.NodeWeights)
	v.SetDefault("graph.edge_weights", cfg.Graph.EdgeWeights)
	v.SetDefault("graph.seed", cfg.Graph.Seed)

	v.SetDefault("batches.count", cfg.Batches.Count)
	v.SetDefault("batches.seed", cfg.Batches.Seed)
	v.SetDefault("batches.node_additions", cfg.Batches.NodeAdditions)
	v.SetDefault("batches.node_removals", cfg.Batches.NodeRemovals)
	v.SetDefault("batches.edge_additions", cfg.Batches.EdgeAdditions)
	v.SetDefault("batches.edge_removals", cfg.Batches.EdgeRemovals)
	v.SetDefault("batches.node_weight_changes", cfg.Batches.NodeWeightChanges)
	v.SetDefault("batches.edge_weight_changes", cfg.Batches.EdgeWeightChanges)

	v.SetDefault("parallel.partitions", cfg.Parallel.Partitions)
	v.SetDefault("parallel.kind", cfg.Parallel.Kind)
	v.SetDefault("parallel.interval", cfg.Parallel.Interval)
	v.SetDefault("parallel.timeout", cfg.Parallel.Timeout)

	v.SetDefault("profiler.workload", cfg.Profiler.Workload)
}

// Load reads path (or ./tempograph.yaml when path is empty and it exists),
// applies .env files and environment overrides and validates the result.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")
	cfg := Default()
	setDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("tempograph")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFiles exports .env.local and .env into the process environment.
// Variables already set win; missing files are skipped.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}

// Validate resolves every name in c, failing on the first unknown one.
func (c *Config) Validate() error {
	if len(c.Metrics) == 0 {
		return fmt.Errorf("%w: no metrics", ErrInvalid)
	}
	if _, err := metric.NewAll(c.Metrics); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Graph.Nodes < 1 || c.Graph.EdgeProbability < 0 || c.Graph.EdgeProbability > 1 {
		return fmt.Errorf("%w: graph: %d nodes, edge probability %g", ErrInvalid, c.Graph.Nodes, c.Graph.EdgeProbability)
	}
	if _, err := c.GraphOptions(); err != nil {
		return err
	}
	if c.Batches.Count < 0 {
		return fmt.Errorf("%w: negative batch count", ErrInvalid)
	}
	if _, err := c.PartitionKind(); err != nil {
		return err
	}
	if c.Parallel.Partitions < 1 {
		return fmt.Errorf("%w: %w", ErrInvalid, parallel.ErrBadPartitionCount)
	}
	if _, err := c.Workload(); err != nil {
		return err
	}
	if _, _, err := c.Log.withoutOutput().NewLogger(io.Discard); err != nil {
		return err
	}
	return nil
}

// GraphOptions translates the graph section into core options.
func (c *Config) GraphOptions() ([]core.GraphOption, error) {
	nk, err := weight.ParseKind(c.Graph.NodeWeights)
	if err != nil {
		return nil, fmt.Errorf("%w: node weights: %w", ErrInvalid, err)
	}
	ek, err := weight.ParseKind(c.Graph.EdgeWeights)
	if err != nil {
		return nil, fmt.Errorf("%w: edge weights: %w", ErrInvalid, err)
	}
	strategy, err := datastructure.ParseStrategy(c.Graph.Strategy)
	if err != nil {
		return nil, fmt.Errorf("%w: strategy: %w", ErrInvalid, err)
	}
	return []core.GraphOption{
		core.WithName(c.Name),
		core.WithDirected(c.Graph.Directed),
		core.WithNodeWeights(nk),
		core.WithEdgeWeights(ek),
		core.WithStrategy(strategy),
	}, nil
}

// BuildGraph generates the configured initial graph. Weighted graphs get
// uniform weights in [0, 10).
func (c *Config) BuildGraph() (*core.Graph, error) {
	gopts, err := c.GraphOptions()
	if err != nil {
		return nil, err
	}
	bopts := []builder.BuilderOption{
		builder.WithSeed(c.Graph.Seed),
		builder.WithNodeWeightFn(builder.UniformWeightFn(0, 10)),
		builder.WithEdgeWeightFn(builder.UniformWeightFn(0, 10)),
	}
	return builder.BuildGraph(gopts, bopts, builder.RandomSparse(c.Graph.Nodes, c.Graph.EdgeProbability))
}

// BatchSpec is the per-batch update mix.
func (c *Config) BatchSpec() builder.BatchSpec {
	return builder.BatchSpec{
		NodeAdditions:     c.Batches.NodeAdditions,
		NodeRemovals:      c.Batches.NodeRemovals,
		EdgeAdditions:     c.Batches.EdgeAdditions,
		EdgeRemovals:      c.Batches.EdgeRemovals,
		NodeWeightChanges: c.Batches.NodeWeightChanges,
		EdgeWeightChanges: c.Batches.EdgeWeightChanges,
	}
}

// BatchGenerator returns a seeded generator for BatchSpec.
func (c *Config) BatchGenerator() (*builder.BatchGenerator, error) {
	return builder.NewBatchGenerator(c.BatchSpec(),
		builder.WithSeed(c.Batches.Seed),
		builder.WithNodeWeightFn(builder.UniformWeightFn(0, 10)),
		builder.WithEdgeWeightFn(builder.UniformWeightFn(0, 10)),
	)
}

func (c *Config) PartitionKind() (parallel.PartitionKind, error) {
	k, err := parallel.ParsePartitionKind(c.Parallel.Kind)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return k, nil
}

func (c *Config) Workload() (datastructure.WorkloadKind, error) {
	switch strings.ToLower(c.Profiler.Workload) {
	case "", "runtime":
		return datastructure.Runtime, nil
	case "memory":
		return datastructure.Memory, nil
	}
	return 0, fmt.Errorf("%w: workload %q", ErrInvalid, c.Profiler.Workload)
}
