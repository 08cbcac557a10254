package weight_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tempograph/weight"
)

func TestParse_AllKinds(t *testing.T) {
	cases := []struct {
		kind weight.Kind
		in   string
		want weight.Weight
	}{
		{weight.Int, "7", weight.NewInt(7)},
		{weight.Long, "-9000000000", weight.NewLong(-9000000000)},
		{weight.Double, "2.5", weight.NewDouble(2.5)},
		{weight.Int2D, "1,2", weight.NewInt2D(1, 2)},
		{weight.Int3D, "1, 2, 3", weight.NewInt3D(1, 2, 3)},
		{weight.Long2D, "4,5", weight.NewLong2D(4, 5)},
		{weight.Long3D, "4,5,6", weight.NewLong3D(4, 5, 6)},
		{weight.Double2D, "0.5,1", weight.NewDouble2D(0.5, 1)},
		{weight.Double3D, "0.5,1,1.5", weight.NewDouble3D(0.5, 1, 1.5)},
	}
	for _, tc := range cases {
		got, err := weight.Parse(tc.kind, tc.in)
		require.NoError(t, err, tc.in)
		assert.True(t, weight.Equal(tc.want, got), "%s: got %v", tc.in, got)

		back, err := weight.Parse(tc.kind, got.String())
		require.NoError(t, err)
		assert.True(t, weight.Equal(got, back))
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := weight.Parse(weight.Int2D, "1")
	assert.ErrorIs(t, err, weight.ErrMalformed)
	_, err = weight.Parse(weight.Int, "x")
	assert.ErrorIs(t, err, weight.ErrMalformed)
	_, err = weight.Parse(weight.None, "1")
	assert.ErrorIs(t, err, weight.ErrMalformed)
	_, err = weight.ParseKind("Quad")
	assert.ErrorIs(t, err, weight.ErrUnknownKind)
}

func TestEqualAndDistance(t *testing.T) {
	assert.False(t, weight.Equal(weight.NewInt(1), weight.NewLong(1)), "kinds differ")
	assert.True(t, weight.Equal(nil, nil))
	assert.False(t, weight.Equal(weight.NewInt(1), nil))
	assert.InDelta(t, 5.0, weight.Distance(weight.NewDouble2D(0, 0), weight.NewDouble2D(3, 4)), 1e-12)

	k, err := weight.ParseKind("double3d")
	require.NoError(t, err)
	assert.Equal(t, weight.Double3D, k)
	assert.Equal(t, 3, k.Dim())
}

func TestFromComponents(t *testing.T) {
	w, err := weight.FromComponents(weight.Int2D, []float64{1.9, -2.2})
	require.NoError(t, err)
	assert.Equal(t, "1,-2", w.String())
	_, err = weight.FromComponents(weight.Double, []float64{1, 2})
	assert.ErrorIs(t, err, weight.ErrMalformed)
}
