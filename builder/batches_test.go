package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tempograph/builder"
	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/update"
	"github.com/katalvlaran/tempograph/weight"
)

func TestBatchGenerator_ProducesValidBatches(t *testing.T) {
	for _, directed := range []bool{false, true} {
		g, err := builder.BuildGraph(
			[]core.GraphOption{core.WithDirected(directed), core.WithNodeWeights(weight.Double3D), core.WithEdgeWeights(weight.Int)},
			[]builder.BuilderOption{builder.WithSeed(3)},
			builder.RandomSparse(20, 0.15),
		)
		require.NoError(t, err)

		gen, err := builder.NewBatchGenerator(builder.BatchSpec{
			NodeAdditions: 2, NodeRemovals: 2, EdgeAdditions: 6, EdgeRemovals: 3,
			NodeWeightChanges: 3, EdgeWeightChanges: 2,
		}, builder.WithSeed(11), builder.WithNodeWeightFn(builder.UniformWeightFn(0, 1)))
		require.NoError(t, err)

		for i := 0; i < 25; i++ {
			b, err := gen.Next(g)
			require.NoError(t, err)
			assert.Equal(t, g.Timestamp(), b.From)
			require.NoError(t, update.Apply(g, b), "batch %d: %s", i, b)
			require.NoError(t, g.Validate())
		}
		assert.Equal(t, int64(25), g.Timestamp())
	}
}

func TestBatchGenerator_Deterministic(t *testing.T) {
	spec := builder.BatchSpec{NodeAdditions: 1, EdgeAdditions: 4, EdgeRemovals: 1, NodeRemovals: 1}
	run := func() []string {
		g, err := builder.BuildGraph(nil, nil, builder.Cycle(8))
		require.NoError(t, err)
		gen, err := builder.NewBatchGenerator(spec, builder.WithSeed(5))
		require.NoError(t, err)
		var out []string
		for i := 0; i < 5; i++ {
			b, err := gen.Next(g)
			require.NoError(t, err)
			for _, u := range b.Updates {
				out = append(out, u.String())
			}
			require.NoError(t, update.Apply(g, b))
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestBatchGenerator_Errors(t *testing.T) {
	_, err := builder.NewBatchGenerator(builder.BatchSpec{NodeAdditions: 1})
	assert.ErrorIs(t, err, builder.ErrNeedRandSource)

	_, err = builder.NewBatchGenerator(builder.BatchSpec{EdgeRemovals: -1}, builder.WithSeed(1))
	assert.ErrorIs(t, err, builder.ErrOptionViolation)

	// Weight changes are skipped on unweighted graphs.
	g, err := builder.BuildGraph(nil, nil, builder.Path(3))
	require.NoError(t, err)
	gen, err := builder.NewBatchGenerator(builder.BatchSpec{NodeWeightChanges: 3, EdgeWeightChanges: 3}, builder.WithSeed(1))
	require.NoError(t, err)
	b, err := gen.Next(g)
	require.NoError(t, err)
	assert.Zero(t, b.Len())
}
