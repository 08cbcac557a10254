// File: metric.go
// Role: The metric contract and the shared base embedded by concrete metrics.

package metric

import (
	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/series"
	"github.com/katalvlaran/tempograph/update"
)

// Metric is computed state derived from a graph.
//
// Init allocates empty state for g. Reset returns to the post-Init state.
// Recompute rebuilds the state from g alone; a non-nil error is fatal for the
// run. Data exposes the current result and stays valid until the next call
// that mutates the metric.
type Metric interface {
	// Name identifies the instance, for example "DegreeDistributionU".
	Name() string
	// Kind identifies the metric family shared by every variant.
	Kind() string

	Init(g *core.Graph)
	Reset()
	Recompute(g *core.Graph) error

	ApplicableToGraph(g *core.Graph) bool
	ApplicableToBatch(b *update.Batch) bool
	ComparableTo(o Metric) bool

	Data() *series.MetricData
}

// Incremental is a Metric that patches its state from the observed delta.
// A false return from any hook means the state could not be maintained for
// the current batch.
type Incremental interface {
	Metric

	BeforeBatch(g *core.Graph, b *update.Batch) bool
	BeforeUpdate(g *core.Graph, u update.Update) bool
	AfterUpdate(g *core.Graph, u update.Update) bool
	AfterBatch(g *core.Graph, b *update.Batch) bool
}

// directedness is implemented by metrics whose result depends on edge
// direction.
type directedness interface {
	directed() bool
}

// base carries identity and directedness for the concrete metrics.
type base struct {
	name     string
	kind     string
	isDirect bool
	// sensitive marks results that differ between directed and undirected graphs.
	sensitive bool
}

func (b *base) Name() string { return b.name }
func (b *base) Kind() string { return b.kind }

func (b *base) directed() bool { return b.isDirect }

// ApplicableToGraph accepts every graph.
func (b *base) ApplicableToGraph(*core.Graph) bool { return true }

// ApplicableToBatch accepts every batch.
func (b *base) ApplicableToBatch(*update.Batch) bool { return true }

// ComparableTo requires the same kind and, for direction-sensitive metrics,
// the same directedness.
func (b *base) ComparableTo(o Metric) bool {
	if o == nil || o.Kind() != b.kind {
		return false
	}
	if !b.sensitive {
		return true
	}
	if od, ok := o.(directedness); ok {
		return od.directed() == b.isDirect
	}
	return true
}

func (b *base) init(g *core.Graph) { b.isDirect = g.Directed() }
