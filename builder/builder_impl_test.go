// File: builder_impl_test.go
// Functional tests for the Constructor implementations: counts, topology and
// weight policy.
package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tempograph/builder"
	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/weight"
)

// TestBuilders_Functional runs table-driven functional tests for each builder.
func TestBuilders_Functional(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		gopts []core.GraphOption
		ctor  builder.Constructor
		wantV int
		wantE int
		check func(t *testing.T, g *core.Graph)
	}{
		{
			name: "Cycle(5)", ctor: builder.Cycle(5), wantV: 5, wantE: 5,
			check: func(t *testing.T, g *core.Graph) {
				for i := 0; i < 5; i++ {
					assert.True(t, g.HasEdge(i, (i+1)%5), "edge %d-%d", i, (i+1)%5)
				}
			},
		},
		{
			name: "Path(4)", ctor: builder.Path(4), wantV: 4, wantE: 3,
			check: func(t *testing.T, g *core.Graph) {
				assert.False(t, g.HasEdge(3, 0))
			},
		},
		{
			name: "Star(5) directed", gopts: []core.GraphOption{core.WithDirected(true)},
			ctor: builder.Star(5), wantV: 5, wantE: 4,
			check: func(t *testing.T, g *core.Graph) {
				out, err := g.OutDegree(0)
				require.NoError(t, err)
				assert.Equal(t, 4, out)
			},
		},
		{name: "Complete(4)", ctor: builder.Complete(4), wantV: 4, wantE: 6},
		{
			name: "Complete(4) directed", gopts: []core.GraphOption{core.WithDirected(true)},
			ctor: builder.Complete(4), wantV: 4, wantE: 12,
		},
		{name: "RandomSparse(p=1)", ctor: builder.RandomSparse(5, 1), wantV: 5, wantE: 10},
		{name: "RandomSparse(p=0)", ctor: builder.RandomSparse(5, 0), wantV: 5, wantE: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := builder.BuildGraph(tc.gopts, nil, tc.ctor)
			require.NoError(t, err)
			assert.Equal(t, tc.wantV, g.NodeCount())
			assert.Equal(t, tc.wantE, g.EdgeCount())
			require.NoError(t, g.Validate())
			if tc.check != nil {
				tc.check(t, g)
			}
		})
	}
}

func TestBuilders_Errors(t *testing.T) {
	_, err := builder.BuildGraph(nil, nil, builder.Cycle(2))
	assert.ErrorIs(t, err, builder.ErrTooFewVertices)

	_, err = builder.BuildGraph(nil, nil, builder.RandomSparse(3, 1.5))
	assert.ErrorIs(t, err, builder.ErrInvalidProbability)

	_, err = builder.BuildGraph(nil, nil, builder.RandomSparse(3, 0.5))
	assert.ErrorIs(t, err, builder.ErrNeedRandSource)

	_, err = builder.BuildGraph(nil, nil, nil)
	assert.ErrorIs(t, err, builder.ErrConstructFailed)

	// Two constructors over the same indices collide.
	_, err = builder.BuildGraph(nil, nil, builder.Path(3), builder.Path(3))
	assert.ErrorIs(t, err, core.ErrDuplicateNode)
}

func TestBuilders_OffsetAndWeights(t *testing.T) {
	g, err := builder.BuildGraph(
		[]core.GraphOption{core.WithNodeWeights(weight.Double2D), core.WithEdgeWeights(weight.Int)},
		[]builder.BuilderOption{
			builder.WithOffset(10),
			builder.WithNodeWeightFn(builder.ConstantWeightFn(1.5)),
			builder.WithEdgeWeightFn(builder.ConstantWeightFn(3.9)),
		},
		builder.Path(3),
	)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11, 12}, g.Nodes())

	n, err := g.Node(11)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 1.5}, n.Weight.Components())

	e, err := g.Edge(10, 11)
	require.NoError(t, err)
	assert.Equal(t, "3", e.Weight.String(), "integer kinds truncate")
}

func TestRandomSparse_Deterministic(t *testing.T) {
	build := func() *core.Graph {
		g, err := builder.BuildGraph(nil, []builder.BuilderOption{builder.WithSeed(7)}, builder.RandomSparse(30, 0.2))
		require.NoError(t, err)
		return g
	}
	a, b := build(), build()
	assert.Equal(t, a.Edges(), b.Edges())
}
