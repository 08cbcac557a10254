package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tempograph/core"
)

func TestKey_UndirectedIsSymmetric(t *testing.T) {
	for a := 0; a < 6; a++ {
		for b := 0; b < 6; b++ {
			if a == b {
				continue
			}
			k1 := core.Key(a, b, false)
			k2 := core.Key(b, a, false)
			require.Equal(t, k1, k2)
			assert.LessOrEqual(t, k1.N1, k1.N2)

			back, err := core.ParseEdgeKey(core.FormatEdgeKey(k1, false), false)
			require.NoError(t, err)
			assert.Equal(t, k1, back)
		}
	}
	assert.NotEqual(t, core.Key(1, 2, true), core.Key(2, 1, true))
}

func TestParseEdgeKey(t *testing.T) {
	k, err := core.ParseEdgeKey("7 <-> 3", false)
	require.NoError(t, err)
	assert.Equal(t, core.EdgeKey{N1: 3, N2: 7}, k, "parse canonicalizes")

	k, err = core.ParseEdgeKey("7 -> 3", true)
	require.NoError(t, err)
	assert.Equal(t, core.EdgeKey{N1: 7, N2: 3}, k)
	assert.Equal(t, "7 -> 3", core.FormatEdgeKey(k, true))

	bad := []struct {
		in       string
		directed bool
	}{
		{"1", true},
		{"1 -> 2 -> 3", true},
		{"1 <-> 2", true},
		{"1 -> 2", false},
		{"a <-> 2", false},
		{"-1 <-> 2", false},
		{"1 <-> 99999999999", false},
		{" <-> 2", false},
		{"+1 <-> 2", false},
		{"007 -> 3", true},
		{"1 -> 00", true},
		{"1 <-> 0x2", false},
	}
	for _, tc := range bad {
		_, err := core.ParseEdgeKey(tc.in, tc.directed)
		assert.ErrorIs(t, err, core.ErrMalformedEdge, tc.in)
	}
}

func TestParseIndex(t *testing.T) {
	for in, want := range map[string]int{"0": 0, "7": 7, " 10 ": 10, "1000000": 1000000} {
		got, err := core.ParseIndex(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "+1", "-1", "007", "00", "1e3", "1 2", "99999999999"} {
		_, err := core.ParseIndex(in)
		assert.Error(t, err, in)
	}
}
