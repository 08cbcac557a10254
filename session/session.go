// File: session.go
// Role: One run of metrics over one evolving graph, persisted as a series.
// Lifecycle:
//   New -> Start (init + first snapshot) -> Step* -> Close (run info).
// Notes:
//   - The session owns its profiler and installs it on the graph; Close
//     uninstalls it.
//   - Every snapshot is written before Step returns.

package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/datastructure"
	"github.com/katalvlaran/tempograph/metric"
	"github.com/katalvlaran/tempograph/profiler"
	"github.com/katalvlaran/tempograph/series"
	"github.com/katalvlaran/tempograph/update"
)

var (
	// ErrNotStarted indicates Step or Close before Start.
	ErrNotStarted = errors.New("session: not started")

	// ErrAlreadyStarted indicates a second Start.
	ErrAlreadyStarted = errors.New("session: already started")

	// ErrClosed indicates use after Close.
	ErrClosed = errors.New("session: closed")
)

// BatchSource produces the next batch for g. It returns io.EOF when it has
// no more batches.
type BatchSource interface {
	Next(g *core.Graph) (*update.Batch, error)
}

// Batches is a BatchSource replaying a fixed list.
type Batches struct {
	list []*update.Batch
	next int
}

// NewBatches returns a source over bs, in order.
func NewBatches(bs ...*update.Batch) *Batches { return &Batches{list: bs} }

func (b *Batches) Next(*core.Graph) (*update.Batch, error) {
	if b.next >= len(b.list) {
		return nil, io.EOF
	}
	out := b.list[b.next]
	b.next++
	return out, nil
}

// Config locates the output and tunes a session.
type Config struct {
	Name string
	// Dir is the series directory; batches go to Dir/run.<Run>.
	Dir       string
	Run       int
	Partition int
	Zip       bool
	// Workload is the resource the strategy recommendation optimizes.
	Workload datastructure.WorkloadKind
	Logger   logrus.FieldLogger
}

type lifecycle int

const (
	idle lifecycle = iota
	running
	closed
)

// Session drives an Engine over one graph and writes every snapshot.
type Session struct {
	ID uuid.UUID

	cfg    Config
	g      *core.Graph
	prof   *profiler.Profiler
	engine *metric.Engine
	log    logrus.FieldLogger
	info   series.RunInfo
	state  lifecycle
}

// New prepares a session over g. The metrics must have unique names.
func New(g *core.Graph, metrics []metric.Metric, cfg Config) (*Session, error) {
	id := uuid.New()
	log := cfg.Logger
	if log == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		log = quiet
	}
	log = log.WithFields(logrus.Fields{"session": id.String(), "name": cfg.Name})

	prof := profiler.New()
	engine, err := metric.NewEngine(metrics, metric.WithLogger(log), metric.WithProfiler(prof))
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	names := make([]string, len(metrics))
	for i, m := range metrics {
		names[i] = m.Name()
	}
	g.SetObserver(prof)

	return &Session{
		ID:     id,
		cfg:    cfg,
		g:      g,
		prof:   prof,
		engine: engine,
		log:    log,
		info: series.RunInfo{
			Session:   id.String(),
			Name:      cfg.Name,
			Directed:  g.Directed(),
			Strategy:  g.Strategy().String(),
			Partition: cfg.Partition,
			Metrics:   names,
		},
	}, nil
}

func (s *Session) Graph() *core.Graph           { return s.g }
func (s *Session) Engine() *metric.Engine       { return s.engine }
func (s *Session) Profiler() *profiler.Profiler { return s.prof }

// RunDir is where the batches of this run are written.
func (s *Session) RunDir() string { return filepath.Join(s.cfg.Dir, series.RunDirName(s.cfg.Run)) }

// Start computes every metric on the initial graph and writes the first snapshot.
func (s *Session) Start() (*metric.Report, error) {
	switch s.state {
	case running:
		return nil, ErrAlreadyStarted
	case closed:
		return nil, ErrClosed
	}
	s.info.Started = time.Now()
	s.state = running

	rep, err := s.engine.Init(s.g)
	if err != nil {
		return rep, err
	}
	if err := s.write(nil, rep); err != nil {
		return rep, err
	}
	s.log.WithFields(logrus.Fields{
		"timestamp": rep.Timestamp,
		"nodes":     humanize.Comma(int64(s.g.NodeCount())),
		"edges":     humanize.Comma(int64(s.g.EdgeCount())),
	}).Info("session started")
	return rep, nil
}

// Step applies b through the engine and writes the resulting snapshot.
func (s *Session) Step(b *update.Batch) (*metric.Report, error) {
	switch s.state {
	case idle:
		return nil, ErrNotStarted
	case closed:
		return nil, ErrClosed
	}
	rep, err := s.engine.ApplyBatch(s.g, b)
	if err != nil {
		return nil, err
	}
	if err := s.write(b, rep); err != nil {
		return rep, err
	}
	s.log.WithFields(logrus.Fields{
		"timestamp": rep.Timestamp,
		"updates":   b.Len(),
		"total":     rep.Total,
	}).Debug("batch processed")
	return rep, nil
}

func (s *Session) write(b *update.Batch, rep *metric.Report) error {
	bd := s.engine.Snapshot(s.g, b, rep)
	if _, err := series.WriteBatch(s.RunDir(), bd, s.cfg.Zip); err != nil {
		return err
	}
	s.info.Timestamps = append(s.info.Timestamps, bd.Timestamp)
	return nil
}

// Run starts the session if needed and steps through up to n batches from
// src; n < 0 means until src is exhausted. ctx is checked between batches.
func (s *Session) Run(ctx context.Context, src BatchSource, n int) error {
	if s.state == idle {
		if _, err := s.Start(); err != nil {
			return err
		}
	}
	for i := 0; n < 0 || i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		b, err := src.Next(s.g)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("session: next batch: %w", err)
		}
		if _, err := s.Step(b); err != nil {
			return err
		}
	}
	return nil
}

// Close records the strategy recommendation, writes the run info and
// detaches the profiler from the graph.
func (s *Session) Close() (series.RunInfo, error) {
	switch s.state {
	case idle:
		return s.info, ErrNotStarted
	case closed:
		return s.info, ErrClosed
	}
	s.state = closed
	s.g.SetObserver(nil)

	agg := s.prof.Aggregate()
	n := s.g.NodeCount()
	if n < 1 {
		n = 1
	}
	rec := profiler.Recommend(agg, s.g.Strategy(), s.cfg.Workload, n, core.RequiredAccesses())
	s.info.Recommended = rec.Strategy.String()
	s.info.Finished = time.Now()
	if err := series.WriteRunInfo(s.RunDir(), s.info); err != nil {
		return s.info, err
	}
	s.log.WithFields(logrus.Fields{
		"batches":     len(s.info.Timestamps) - 1,
		"calls":       humanize.Comma(agg.Total()),
		"recommended": s.info.Recommended,
		"estimate":    humanize.Commaf(rec.Estimate),
		"baseline":    humanize.Commaf(rec.Baseline),
		"elapsed":     s.info.Finished.Sub(s.info.Started).Round(time.Millisecond),
	}).Info("session closed")
	return s.info, nil
}
