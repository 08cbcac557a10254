package dfs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/dfs"
)

func build(t *testing.T, directed bool, nodes []int, edges [][2]int) *core.Graph {
	t.Helper()
	g, err := core.NewGraph(core.WithDirected(directed))
	require.NoError(t, err)
	for _, n := range nodes {
		require.NoError(t, g.AddNode(n, nil))
	}
	for _, e := range edges {
		_, err = g.AddEdge(e[0], e[1], nil)
		require.NoError(t, err)
	}
	return g
}

func TestDFS_PostOrder(t *testing.T) {
	g := build(t, false, []int{0, 1, 2, 3}, [][2]int{{0, 1}, {1, 2}, {0, 3}})
	res, err := dfs.DFS(g, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 3, 0}, res.Order)
	assert.Equal(t, 2, res.Depth[2])
	assert.Equal(t, 1, res.Parent[2])

	_, err = dfs.DFS(g, 9)
	assert.ErrorIs(t, err, dfs.ErrStartNodeNotFound)
	_, err = dfs.DFS(nil, 0)
	assert.ErrorIs(t, err, dfs.ErrGraphNil)
}

func TestDFS_FilterAndDepth(t *testing.T) {
	g := build(t, false, []int{0, 1, 2, 3}, [][2]int{{0, 1}, {1, 2}, {2, 3}})
	res, err := dfs.DFS(g, 0, dfs.WithFilterNeighbor(func(id int) bool { return id != 2 }))
	require.NoError(t, err)
	assert.Len(t, res.Visited, 2)
	assert.Equal(t, 1, res.SkippedNeighbors)

	res, err = dfs.DFS(g, 0, dfs.WithMaxDepth(1))
	require.NoError(t, err)
	assert.True(t, res.Visited[1])
	assert.False(t, res.Visited[2])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = dfs.DFS(g, 0, dfs.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComponents(t *testing.T) {
	// Directed edges still join components weakly.
	g := build(t, true, []int{0, 1, 2, 3, 4, 5}, [][2]int{{1, 0}, {2, 1}, {4, 3}})
	comps, err := dfs.Components(g)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4}, {5}}, comps)

	empty := build(t, false, nil, nil)
	comps, err = dfs.Components(empty)
	require.NoError(t, err)
	assert.Empty(t, comps)
}
