package bfs_test

import (
	"fmt"

	"github.com/katalvlaran/tempograph/bfs"
	"github.com/katalvlaran/tempograph/core"
)

// treeGraph builds the undirected tree 0-1, 0-2, 1-3, 2-4, 4-5.
func treeGraph() *core.Graph {
	g, _ := core.NewGraph()
	for i := 0; i < 6; i++ {
		_ = g.AddNode(i, nil)
	}
	for _, e := range [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 4}, {4, 5}} {
		_, _ = g.AddEdge(e[0], e[1], nil)
	}
	return g
}

// ExampleBFS visits the tree level by level; neighbors are taken in
// ascending index order.
func ExampleBFS() {
	res, err := bfs.BFS(treeGraph(), 0)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(res.Order)
	fmt.Println("depth of 5:", res.Depth[5])
	// Output:
	// [0 1 2 3 4 5]
	// depth of 5: 3
}

// ExampleBFSResult_PathTo reconstructs the fewest-hop path from the start.
func ExampleBFSResult_PathTo() {
	res, _ := bfs.BFS(treeGraph(), 0)
	path, err := res.PathTo(5)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(path)
	// Output:
	// [0 2 4 5]
}

// ExampleWithMaxDepth stops the search one hop from the start.
func ExampleWithMaxDepth() {
	res, _ := bfs.BFS(treeGraph(), 0, bfs.WithMaxDepth(1))
	fmt.Println(res.Order)
	// Output:
	// [0 1 2]
}
