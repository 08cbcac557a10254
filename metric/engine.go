// File: engine.go
// Role: Drives metrics through init and batch cycles.
// Determinism:
//   - Metrics run in registration order, hooks included.
// Concurrency:
//   - An Engine is single-threaded. The graph must not be mutated by anyone
//     else while ApplyBatch runs.

package metric

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/profiler"
	"github.com/katalvlaran/tempograph/series"
	"github.com/katalvlaran/tempograph/update"
)

var (
	// ErrDuplicateMetric indicates two metrics with the same name in one engine.
	ErrDuplicateMetric = errors.New("metric: duplicate metric name")

	// ErrRecompute wraps a failed recomputation. It aborts the run.
	ErrRecompute = errors.New("metric: recomputation failed")
)

// General runtime names written with every snapshot.
const (
	RuntimeGraphUpdate = "graphUpdate"
	RuntimeMetrics     = "metrics"
	RuntimeTotal       = "total"
)

// Status is what happened to one metric in one cycle.
type Status int

const (
	// Recomputed: the metric rebuilt its state from the graph.
	Recomputed Status = iota
	// Updated: every incremental hook succeeded.
	Updated
	// FellBack: a hook failed and the metric was recomputed instead.
	FellBack
	// NotApplicable: the batch was skipped for this metric.
	NotApplicable
	// Disabled: the metric does not apply to the graph and is off for the run.
	Disabled
)

func (s Status) String() string {
	switch s {
	case Recomputed:
		return "recomputed"
	case Updated:
		return "updated"
	case FellBack:
		return "fell-back"
	case NotApplicable:
		return "not-applicable"
	case Disabled:
		return "disabled"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Reported tells whether a metric with this status has output for the cycle.
func (s Status) Reported() bool { return s != NotApplicable && s != Disabled }

// Result is one metric's outcome for one cycle.
type Result struct {
	Metric  string
	Status  Status
	Runtime time.Duration
}

// Report summarizes one Init or ApplyBatch call.
type Report struct {
	Timestamp int64
	Results   []Result
	// GraphUpdate is the time spent mutating the graph, hooks excluded.
	GraphUpdate time.Duration
	Total       time.Duration
}

// Result looks up the outcome for the named metric.
func (r *Report) Result(name string) (Result, bool) {
	for _, res := range r.Results {
		if res.Metric == name {
			return res, true
		}
	}
	return Result{}, false
}

// MetricTime is the summed runtime of every metric.
func (r *Report) MetricTime() time.Duration {
	var sum time.Duration
	for _, res := range r.Results {
		sum += res.Runtime
	}
	return sum
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithProfiler attributes graph accesses made by metrics to
// "metric.<name>" sections and batch mutations to profiler.SectionBatch.
func WithProfiler(p *profiler.Profiler) Option {
	return func(e *Engine) { e.prof = p }
}

// Engine runs a fixed set of metrics.
type Engine struct {
	metrics  []Metric
	log      logrus.FieldLogger
	prof     *profiler.Profiler
	disabled map[string]bool
	// stale marks incremental metrics whose state missed a batch.
	stale map[string]bool
}

// NewEngine returns an engine over metrics, which must have unique names.
func NewEngine(metrics []Metric, opts ...Option) (*Engine, error) {
	seen := make(map[string]bool, len(metrics))
	for _, m := range metrics {
		if seen[m.Name()] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMetric, m.Name())
		}
		seen[m.Name()] = true
	}
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	e := &Engine{
		metrics:  metrics,
		log:      quiet,
		disabled: make(map[string]bool),
		stale:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Metrics returns every registered metric, disabled ones included.
func (e *Engine) Metrics() []Metric { return e.metrics }

// Active returns the metrics not disabled for the run.
func (e *Engine) Active() []Metric {
	out := make([]Metric, 0, len(e.metrics))
	for _, m := range e.metrics {
		if !e.disabled[m.Name()] {
			out = append(out, m)
		}
	}
	return out
}

// enter switches the profiler section when one is installed.
func (e *Engine) enter(section string) func() {
	if e.prof == nil {
		return func() {}
	}
	return e.prof.Enter(section)
}

// Init checks graph applicability, initializes and computes every metric on g.
func (e *Engine) Init(g *core.Graph) (*Report, error) {
	start := time.Now()
	rep := &Report{Timestamp: g.Timestamp()}
	for _, m := range e.metrics {
		name := m.Name()
		if !m.ApplicableToGraph(g) {
			e.disabled[name] = true
			e.log.WithFields(logrus.Fields{"metric": name, "graph": g.Name()}).
				Warn("metric not applicable to graph, skipped for this run")
			rep.Results = append(rep.Results, Result{Metric: name, Status: Disabled})
			continue
		}
		t0 := time.Now()
		m.Init(g)
		err := e.recompute(m, g)
		rep.Results = append(rep.Results, Result{Metric: name, Status: Recomputed, Runtime: time.Since(t0)})
		if err != nil {
			return rep, err
		}
		delete(e.stale, name)
	}
	rep.Total = time.Since(start)
	return rep, nil
}

func (e *Engine) recompute(m Metric, g *core.Graph) error {
	done := e.enter(profiler.SectionMetricPrefix + m.Name())
	defer done()
	if err := m.Recompute(g); err != nil {
		return fmt.Errorf("%w: %s at %d: %w", ErrRecompute, m.Name(), g.Timestamp(), err)
	}
	return nil
}

// run tracks one metric through a batch.
type run struct {
	m       Metric
	inc     Incremental
	ok      bool
	runtime time.Duration
}

// hook times fn against r and clears r.ok when it fails.
func (e *Engine) hook(r *run, fn func() bool) {
	if !r.ok {
		return
	}
	done := e.enter(profiler.SectionMetricPrefix + r.m.Name())
	t0 := time.Now()
	r.ok = fn()
	r.runtime += time.Since(t0)
	done()
}

// hookListener forwards per-update notifications to the incremental runs.
// spent accumulates the time the hooks take inside update.Apply.
type hookListener struct {
	e     *Engine
	runs  []*run
	spent *time.Duration
}

func (l hookListener) BeforeUpdate(g *core.Graph, u update.Update) {
	t0 := time.Now()
	for _, r := range l.runs {
		l.e.hook(r, func() bool { return r.inc.BeforeUpdate(g, u) })
	}
	*l.spent += time.Since(t0)
}

func (l hookListener) AfterUpdate(g *core.Graph, u update.Update) {
	t0 := time.Now()
	for _, r := range l.runs {
		l.e.hook(r, func() bool { return r.inc.AfterUpdate(g, u) })
	}
	*l.spent += time.Since(t0)
}

// ApplyBatch validates b, applies it to g and brings every active metric to
// the new timestamp. Validation errors are returned before any hook runs and
// leave g and the metrics untouched. Recompute errors are fatal.
func (e *Engine) ApplyBatch(g *core.Graph, b *update.Batch) (*Report, error) {
	start := time.Now()
	if err := update.Validate(g, b); err != nil {
		return nil, err
	}

	var (
		runs        []*run
		incremental []*run
		skipped     []Result
	)
	for _, m := range e.metrics {
		name := m.Name()
		if e.disabled[name] {
			continue
		}
		if !m.ApplicableToBatch(b) {
			e.stale[name] = true
			e.log.WithFields(logrus.Fields{"metric": name, "batch": b.String()}).
				Warn("metric not applicable to batch, skipped")
			skipped = append(skipped, Result{Metric: name, Status: NotApplicable})
			continue
		}
		r := &run{m: m}
		if inc, ok := m.(Incremental); ok && !e.stale[name] {
			r.inc, r.ok = inc, true
			incremental = append(incremental, r)
		}
		runs = append(runs, r)
	}

	for _, r := range incremental {
		e.hook(r, func() bool { return r.inc.BeforeBatch(g, b) })
	}

	var inApply time.Duration
	applyStart := time.Now()
	done := e.enter(profiler.SectionBatch)
	err := update.Apply(g, b, hookListener{e: e, runs: incremental, spent: &inApply})
	done()
	applyTime := time.Since(applyStart)
	if err != nil {
		return nil, err
	}

	for _, r := range incremental {
		e.hook(r, func() bool { return r.inc.AfterBatch(g, b) })
	}

	rep := &Report{Timestamp: g.Timestamp()}
	for _, r := range runs {
		name := r.m.Name()
		res := Result{Metric: name}
		switch {
		case r.inc != nil && r.ok:
			res.Status = Updated
		default:
			res.Status = Recomputed
			if r.inc != nil {
				res.Status = FellBack
				e.log.WithFields(logrus.Fields{"metric": name, "timestamp": b.To}).
					Debug("incremental update failed, recomputing")
			}
			t0 := time.Now()
			if err := e.recompute(r.m, g); err != nil {
				return nil, err
			}
			r.runtime += time.Since(t0)
			delete(e.stale, name)
		}
		res.Runtime = r.runtime
		rep.Results = append(rep.Results, res)
	}
	rep.Results = append(rep.Results, skipped...)
	// BeforeBatch and AfterBatch run outside applyTime.
	rep.GraphUpdate = applyTime - inApply
	if rep.GraphUpdate < 0 {
		rep.GraphUpdate = 0
	}
	rep.Total = time.Since(start)
	return rep, nil
}

// Snapshot assembles the series output for the cycle rep describes. b is the
// batch just applied, or nil after Init. Metrics without output for the cycle
// are left out.
func (e *Engine) Snapshot(g *core.Graph, b *update.Batch, rep *Report) *series.BatchData {
	bd := series.NewBatchData(g.Timestamp())
	bd.Stats = append(bd.Stats,
		series.Value{Name: "Nodes", Value: float64(g.NodeCount())},
		series.Value{Name: "Edges", Value: float64(g.EdgeCount())},
	)
	if b != nil {
		bd.Stats = append(bd.Stats, series.Value{Name: "Updates", Value: float64(b.Len())})
		counts := b.Counts()
		for _, t := range update.Types() {
			bd.Stats = append(bd.Stats, series.Value{Name: "Updates." + t.Tag(), Value: float64(counts[t])})
		}
	}
	if e.prof != nil {
		bd.Stats = append(bd.Stats, e.prof.Aggregate().CallsAsValues("Calls.")...)
	}

	bd.GeneralRuntimes = append(bd.GeneralRuntimes,
		series.RunTime{Name: RuntimeGraphUpdate, Duration: rep.GraphUpdate},
		series.RunTime{Name: RuntimeMetrics, Duration: rep.MetricTime()},
		series.RunTime{Name: RuntimeTotal, Duration: rep.Total},
	)

	byName := make(map[string]Metric, len(e.metrics))
	for _, m := range e.metrics {
		byName[m.Name()] = m
	}
	for _, res := range rep.Results {
		if !res.Status.Reported() {
			continue
		}
		bd.MetricRuntimes = append(bd.MetricRuntimes, series.RunTime{Name: res.Metric, Duration: res.Runtime})
		if m, ok := byName[res.Metric]; ok {
			bd.Metrics = append(bd.Metrics, m.Data())
		}
	}
	return bd
}

func sortedKeys(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
