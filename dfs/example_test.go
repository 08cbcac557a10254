package dfs_test

import (
	"fmt"

	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/dfs"
)

// ExampleDFS records nodes in post-order: a node is listed once every
// neighbor below it is done.
func ExampleDFS() {
	g, _ := core.NewGraph()
	for i := 0; i < 6; i++ {
		_ = g.AddNode(i, nil)
	}
	for _, e := range [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 4}, {4, 5}} {
		_, _ = g.AddEdge(e[0], e[1], nil)
	}

	res, err := dfs.DFS(g, 0)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(res.Order)
	fmt.Println("parent of 5:", res.Parent[5])
	// Output:
	// [3 1 5 4 2 0]
	// parent of 5: 4
}

// ExampleDFS_directed follows out edges only, unless told otherwise.
func ExampleDFS_directed() {
	g, _ := core.NewGraph(core.WithDirected(true))
	for i := 0; i < 4; i++ {
		_ = g.AddNode(i, nil)
	}
	for _, e := range [][2]int{{0, 1}, {1, 2}, {3, 1}} {
		_, _ = g.AddEdge(e[0], e[1], nil)
	}

	res, _ := dfs.DFS(g, 0)
	fmt.Println(len(res.Visited))
	res, _ = dfs.DFS(g, 0, dfs.WithIgnoreDirection())
	fmt.Println(len(res.Visited))
	// Output:
	// 3
	// 4
}

// ExampleComponents lists weakly connected components, smallest node first.
func ExampleComponents() {
	g, _ := core.NewGraph(core.WithDirected(true))
	for i := 0; i < 6; i++ {
		_ = g.AddNode(i, nil)
	}
	for _, e := range [][2]int{{1, 0}, {2, 1}, {4, 3}} {
		_, _ = g.AddEdge(e[0], e[1], nil)
	}

	comps, _ := dfs.Components(g)
	fmt.Println(comps)
	// Output:
	// [[0 1 2] [3 4] [5]]
}
