package update_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/update"
	"github.com/katalvlaran/tempograph/weight"
)

func newGraph(t *testing.T, opts ...core.GraphOption) *core.Graph {
	t.Helper()
	g, err := core.NewGraph(opts...)
	require.NoError(t, err)
	return g
}

func na(i int) update.Update { return update.NodeAddition{Node: core.Node{Index: i}} }
func nr(i int) update.Update { return update.NodeRemoval{Node: core.Node{Index: i}} }
func ea(g *core.Graph, a, b int) update.Update {
	return update.EdgeAddition{Edge: update.Edge(a, b, g.Directed(), nil)}
}
func er(g *core.Graph, a, b int) update.Update {
	return update.EdgeRemoval{Edge: update.Edge(a, b, g.Directed(), nil)}
}

// TestEndToEnd_Directed walks the directed two-node scenario through two batches.
func TestEndToEnd_Directed(t *testing.T) {
	g := newGraph(t, core.WithDirected(true))

	b1 := update.NewBatch(0, 1, na(1), na(2), ea(g, 1, 2))
	require.NoError(t, update.Apply(g, b1))
	assert.Equal(t, update.Applied, b1.State())
	assert.Equal(t, int64(1), g.Timestamp())

	out, err := g.OutDegree(1)
	require.NoError(t, err)
	assert.Equal(t, 1, out)
	in, err := g.InDegree(2)
	require.NoError(t, err)
	assert.Equal(t, 1, in)

	b2 := update.NewBatch(1, 2, nr(1))
	require.NoError(t, update.Apply(g, b2))
	assert.False(t, g.HasEdge(1, 2))
	in, err = g.InDegree(2)
	require.NoError(t, err)
	assert.Equal(t, 0, in)
	require.NoError(t, g.Validate())
}

func TestApply_TimestampMismatchLeavesGraphUntouched(t *testing.T) {
	g := newGraph(t, core.WithTimestamp(5))
	require.NoError(t, g.AddNode(1, nil))

	b := update.NewBatch(4, 6, na(2), nr(1))
	err := update.Apply(g, b)
	assert.ErrorIs(t, err, update.ErrTimestampMismatch)
	assert.Equal(t, update.Rejected, b.State())
	assert.Equal(t, []int{1}, g.Nodes())
	assert.Equal(t, int64(5), g.Timestamp())

	err = update.Apply(g, update.NewBatch(5, 5, na(2)))
	assert.ErrorIs(t, err, update.ErrBadTimestamp)

	err = update.Apply(g, b)
	assert.ErrorIs(t, err, update.ErrBatchState)
}

func TestApply_ProgressiveValidation(t *testing.T) {
	g := newGraph(t)
	require.NoError(t, g.AddNode(1, nil))
	require.NoError(t, g.AddNode(2, nil))
	_, err := g.AddEdge(1, 2, nil)
	require.NoError(t, err)

	// Later updates see earlier ones: node 3 exists when its edge is added,
	// and removing node 1 cascades so 1-2 can be added again after re-adding 1.
	b := update.NewBatch(0, 1,
		na(3), ea(g, 3, 2),
		nr(1), na(1), ea(g, 2, 1),
	)
	require.NoError(t, update.Apply(g, b))
	assert.Equal(t, 2, g.EdgeCount())
	require.NoError(t, g.Validate())
}

func TestApply_RejectsWithoutMutation(t *testing.T) {
	cases := map[string]func(g *core.Graph) []update.Update{
		"edge to removed node": func(g *core.Graph) []update.Update {
			return []update.Update{na(5), nr(1), ea(g, 1, 2)}
		},
		"edge removed by cascade": func(g *core.Graph) []update.Update {
			return []update.Update{nr(2), er(g, 1, 2)}
		},
		"duplicate in batch": func(g *core.Graph) []update.Update {
			return []update.Update{na(5), ea(g, 5, 1), ea(g, 1, 5)}
		},
		"existing edge": func(g *core.Graph) []update.Update {
			return []update.Update{ea(g, 2, 1)}
		},
		"duplicate node": func(g *core.Graph) []update.Update {
			return []update.Update{na(1)}
		},
		"weight on unweighted": func(g *core.Graph) []update.Update {
			return []update.Update{update.NodeWeightChange{Index: 1, Weight: weight.NewInt(1)}}
		},
		"embedded node not endpoint": func(g *core.Graph) []update.Update {
			return []update.Update{update.EdgeAddition{Edge: update.Edge(1, 2, false, nil), NewNodes: []core.Node{{Index: 9}}}}
		},
	}
	for name, mk := range cases {
		t.Run(name, func(t *testing.T) {
			g := newGraph(t)
			require.NoError(t, g.AddNode(1, nil))
			require.NoError(t, g.AddNode(2, nil))
			_, err := g.AddEdge(1, 2, nil)
			require.NoError(t, err)

			called := false
			l := update.ListenerFuncs{Before: func(*core.Graph, update.Update) { called = true }}
			b := update.NewBatch(0, 1, mk(g)...)
			err = update.Apply(g, b, l)
			assert.ErrorIs(t, err, update.ErrInvalidUpdate)
			assert.Equal(t, update.Rejected, b.State())
			assert.False(t, called)
			assert.Equal(t, []int{1, 2}, g.Nodes())
			assert.Equal(t, 1, g.EdgeCount())
			assert.Equal(t, int64(0), g.Timestamp())
		})
	}
}

func TestApply_ListenersAndInverse(t *testing.T) {
	g := newGraph(t, core.WithNodeWeights(weight.Double))
	require.NoError(t, g.AddNode(1, weight.NewDouble(1)))

	var trace []string
	l := update.ListenerFuncs{
		Before: func(g *core.Graph, u update.Update) { trace = append(trace, "before "+u.String()) },
		After:  func(g *core.Graph, u update.Update) { trace = append(trace, "after "+u.String()) },
	}
	b := update.NewBatch(0, 1, update.NodeWeightChange{Index: 1, Weight: weight.NewDouble(4)})
	require.NoError(t, update.Apply(g, b, l))
	assert.Equal(t, []string{"before NW 1 w=4", "after NW 1 w=4"}, trace)

	applied := b.Applied()
	require.Len(t, applied, 1)
	inv := applied[0].Inverse().(update.NodeWeightChange)
	assert.Equal(t, "1", inv.Weight.String())

	require.NoError(t, update.Apply(g, update.NewBatch(1, 2, inv)))
	n, _ := g.Node(1)
	assert.Equal(t, "1", n.Weight.String())
}

func TestCodec_RoundTrip(t *testing.T) {
	f := update.Format{Directed: false, NodeKind: weight.Int, EdgeKind: weight.Double}
	text := `# sample
B 3 4
NA 7 w=2
EA 7 <-> 2 w=0.5 +2=1
NW 7 w=9
EW 2 <-> 7 w=1.5
ER 2 <-> 7
NR 7
`
	b, err := update.ReadBatch(strings.NewReader(text), f)
	require.NoError(t, err)
	assert.Equal(t, int64(3), b.From)
	assert.Equal(t, int64(4), b.To)
	require.Equal(t, 6, b.Len())

	ea := b.Updates[1].(update.EdgeAddition)
	assert.Equal(t, 2, ea.Edge.Src, "undirected endpoints are canonical")
	assert.Equal(t, 7, ea.Edge.Dst)
	require.Len(t, ea.NewNodes, 1)
	assert.Equal(t, "1", ea.NewNodes[0].Weight.String())

	counts := b.Counts()
	assert.Equal(t, 1, counts[update.EdgeAdditionType])
	assert.Equal(t, 1, counts[update.NodeRemovalType])

	var buf bytes.Buffer
	require.NoError(t, update.WriteBatch(&buf, b))
	again, err := update.ReadBatch(&buf, f)
	require.NoError(t, err)
	require.Equal(t, b.Len(), again.Len())
	for i := range b.Updates {
		assert.Equal(t, b.Updates[i].String(), again.Updates[i].String())
	}
}

func TestCodec_Errors(t *testing.T) {
	f := update.Format{Directed: true}
	bad := []string{
		"NA 1\n",
		"B 1\n",
		"B 0 1\nXX 1\n",
		"B 0 1\nEA 1 <-> 2\n",
		"B 0 1\nEA 1 -> 2 -> 3\n",
		"B 0 1\nNA -3\n",
		"B 0 1\nNW 1\n",
		"B 0 1\nNA 1 w=2\n",
		"B 0 1\nNA +1\n",
		"B 0 1\nNR 01\n",
		"B 0 1\nEA 1 -> 2 +03\n",
	}
	for _, in := range bad {
		_, err := update.ReadBatches(strings.NewReader(in), f)
		assert.ErrorIs(t, err, update.ErrMalformedBatch, in)
	}
}
