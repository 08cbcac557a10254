package bfs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tempograph/bfs"
	"github.com/katalvlaran/tempograph/core"
)

func chain(t *testing.T, directed bool, n int) *core.Graph {
	t.Helper()
	g, err := core.NewGraph(core.WithDirected(directed))
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, g.AddNode(i, nil))
	}
	for i := 0; i+1 < n; i++ {
		_, err = g.AddEdge(i, i+1, nil)
		require.NoError(t, err)
	}
	return g
}

func TestBFS_DepthAndPath(t *testing.T) {
	g := chain(t, false, 5)
	res, err := bfs.BFS(g, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 3, 0, 4}, res.Order)
	assert.Equal(t, 2, res.Depth[0])
	p, err := res.PathTo(4)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, p)
}

func TestBFS_DirectedFollowsOutEdges(t *testing.T) {
	g := chain(t, true, 4)
	res, err := bfs.BFS(g, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, res.Order)
	_, err = res.PathTo(0)
	assert.Error(t, err)

	res, err = bfs.BFS(g, 2, bfs.WithIgnoreDirection())
	require.NoError(t, err)
	assert.Len(t, res.Order, 4)
}

func TestBFS_Options(t *testing.T) {
	g := chain(t, false, 6)

	res, err := bfs.BFS(g, 0, bfs.WithMaxDepth(2))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, res.Order)

	_, err = bfs.BFS(g, 0, bfs.WithMaxDepth(-1))
	assert.ErrorIs(t, err, bfs.ErrOptionViolation)

	res, err = bfs.BFS(g, 0, bfs.WithFilterNeighbor(func(_, nb int) bool { return nb != 3 }))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, res.Order)

	stop := errors.New("stop")
	_, err = bfs.BFS(g, 0, bfs.WithOnVisit(func(id, _ int) error {
		if id == 1 {
			return stop
		}
		return nil
	}))
	assert.ErrorIs(t, err, stop)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = bfs.BFS(g, 0, bfs.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = bfs.BFS(g, 42)
	assert.ErrorIs(t, err, bfs.ErrStartNodeNotFound)
	_, err = bfs.BFS(nil, 0)
	assert.ErrorIs(t, err, bfs.ErrGraphNil)
}
