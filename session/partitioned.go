// File: partitioned.go
// Role: Runs one graph as partition workers plus a collating session.
// Layout below PartitionedConfig.Dir:
//   worker.<p>/run.<r>/   per-partition series
//   aux/                  aux data per timestamp
//   collation/run.<r>/    collated series
// Notes:
//   - Batches are drawn and split up front; workers and the collator then run
//     concurrently and meet only through the file system.
//   - A collation failure does not stop the workers.

package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/datastructure"
	"github.com/katalvlaran/tempograph/metric"
	"github.com/katalvlaran/tempograph/parallel"
	"github.com/katalvlaran/tempograph/series"
	"github.com/katalvlaran/tempograph/update"
)

// PartitionedConfig tunes RunPartitioned.
type PartitionedConfig struct {
	Name       string
	Dir        string
	Run        int
	Kind       parallel.PartitionKind
	Partitions int
	// Batches is the number of batches drawn from the source; fewer are
	// run if it is exhausted earlier.
	Batches  int
	Metrics  []string
	Zip      bool
	Interval time.Duration
	Timeout  time.Duration
	Workload datastructure.WorkloadKind
	Logger   logrus.FieldLogger
}

// WorkerDirTemplate is the worker series directory with the partition index
// left as parallel.PartitionKeyword.
func (c PartitionedConfig) WorkerDirTemplate() string {
	return filepath.Join(c.Dir, "worker."+parallel.PartitionKeyword)
}

func (c PartitionedConfig) AuxDir() string       { return filepath.Join(c.Dir, "aux") }
func (c PartitionedConfig) CollationDir() string { return filepath.Join(c.Dir, "collation") }

// CollationConfig is the collation setup matching c.
func (c PartitionedConfig) CollationConfig() parallel.CollationConfig {
	return parallel.CollationConfig{
		InputDir:   c.WorkerDirTemplate(),
		AuxDir:     c.AuxDir(),
		Run:        c.Run,
		Kind:       c.Kind,
		Partitions: c.Partitions,
		Interval:   c.Interval,
		Timeout:    c.Timeout,
		Logger:     c.Logger,
	}
}

// PartitionedResult holds the run info of every session RunPartitioned ran.
type PartitionedResult struct {
	Workers []series.RunInfo
	// Collation is nil when no collation applies to the configured metrics.
	Collation *series.RunInfo
}

// RunPartitioned splits g, draws up to cfg.Batches batches from src, runs one
// worker session per partition and a collating session over the full graph.
// g ends at the state after the last batch.
func RunPartitioned(ctx context.Context, g *core.Graph, src BatchSource, cfg PartitionedConfig) (*PartitionedResult, error) {
	if _, err := metric.NewAll(cfg.Metrics); err != nil {
		return nil, err
	}
	splitter, err := parallel.NewSplitter(cfg.Kind, cfg.Partitions)
	if err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		log = quiet
		cfg.Logger = quiet
	}

	parts, aux := splitter.Split(g)
	if err := parallel.WriteAux(cfg.AuxDir(), g.Timestamp(), parallel.AuxInit, aux); err != nil {
		return nil, err
	}
	collGraph := g.Clone()

	perPartition := make([][]*update.Batch, cfg.Partitions)
	var full []*update.Batch
	for i := 0; i < cfg.Batches; i++ {
		b, err := src.Next(g)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("session: next batch: %w", err)
		}
		full = append(full, update.NewBatch(b.From, b.To, b.Updates...))
		pbs, add, remove, err := splitter.SplitBatch(g, b)
		if err != nil {
			return nil, err
		}
		if err := parallel.WriteAux(cfg.AuxDir(), b.To, parallel.AuxAdd, add); err != nil {
			return nil, err
		}
		if err := parallel.WriteAux(cfg.AuxDir(), b.To, parallel.AuxRemove, remove); err != nil {
			return nil, err
		}
		for p, pb := range pbs {
			perPartition[p] = append(perPartition[p], pb)
		}
	}
	log.WithFields(logrus.Fields{
		"partitions": cfg.Partitions,
		"kind":       cfg.Kind.String(),
		"batches":    len(full),
		"boundary":   len(aux.Boundary),
	}).Info("graph split")

	res := &PartitionedResult{Workers: make([]series.RunInfo, cfg.Partitions)}
	var workers errgroup.Group
	for p := range parts {
		workers.Go(func() error {
			metrics, err := metric.NewAll(cfg.Metrics)
			if err != nil {
				return err
			}
			info, err := runAll(ctx, parts[p], metrics, perPartition[p], Config{
				Name:      cfg.Name + ".worker." + strconv.Itoa(p),
				Dir:       strings.ReplaceAll(cfg.WorkerDirTemplate(), parallel.PartitionKeyword, strconv.Itoa(p)),
				Run:       cfg.Run,
				Partition: p,
				Zip:       cfg.Zip,
				Workload:  cfg.Workload,
				Logger:    log.WithField("partition", p),
			})
			res.Workers[p] = info
			if err != nil {
				return fmt.Errorf("session: partition %d: %w", p, err)
			}
			return nil
		})
	}

	var collator errgroup.Group
	collator.Go(func() error {
		cols, err := parallel.CollationsFor(cfg.Metrics, cfg.CollationConfig())
		if err != nil || len(cols) == 0 {
			return err
		}
		metrics := make([]metric.Metric, len(cols))
		for i, c := range cols {
			metrics[i] = c
		}
		info, err := runAll(ctx, collGraph, metrics, full, Config{
			Name:     cfg.Name + ".collation",
			Dir:      cfg.CollationDir(),
			Run:      cfg.Run,
			Zip:      cfg.Zip,
			Workload: cfg.Workload,
			Logger:   log.WithField("role", "collation"),
		})
		res.Collation = &info
		if err != nil {
			return fmt.Errorf("session: collation: %w", err)
		}
		return nil
	})

	return res, errors.Join(workers.Wait(), collator.Wait())
}

// runAll runs a session over g through every batch of bs and closes it.
func runAll(ctx context.Context, g *core.Graph, metrics []metric.Metric, bs []*update.Batch, cfg Config) (series.RunInfo, error) {
	s, err := New(g, metrics, cfg)
	if err != nil {
		return series.RunInfo{}, err
	}
	runErr := s.Run(ctx, NewBatches(bs...), -1)
	info, closeErr := s.Close()
	return info, errors.Join(runErr, closeErr)
}
