package builder_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tempograph/builder"
	"github.com/katalvlaran/tempograph/weight"
)

func TestWeightFns(t *testing.T) {
	assert.Nil(t, builder.DefaultWeightFn(nil, weight.Double))

	w := builder.ConstantWeightFn(2)(nil, weight.Long3D)
	require.NotNil(t, w)
	assert.Equal(t, weight.Long3D, w.Kind())
	assert.Equal(t, "2,2,2", w.String())

	r := rand.New(rand.NewSource(1))
	u := builder.UniformWeightFn(1, 3)
	for i := 0; i < 50; i++ {
		c := u(r, weight.Double2D).Components()
		for _, x := range c {
			assert.GreaterOrEqual(t, x, 1.0)
			assert.LessOrEqual(t, x, 3.0)
		}
	}
	assert.Equal(t, []float64{1}, u(nil, weight.Double).Components())

	assert.Panics(t, func() { builder.UniformWeightFn(3, 1) })
	assert.Panics(t, func() { builder.WithNodeWeightFn(nil) })
	assert.Panics(t, func() { builder.WithOffset(-1) })
}
