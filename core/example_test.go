package core_test

import (
	"fmt"

	"github.com/katalvlaran/tempograph/core"
)

// ExampleGraph builds a small directed graph, then removes a node and shows
// that its edges went with it.
func ExampleGraph() {
	g, _ := core.NewGraph(core.WithDirected(true))
	_ = g.AddNode(1, nil)
	_ = g.AddNode(2, nil)
	_, _ = g.AddEdge(1, 2, nil)

	out, _ := g.OutDegree(1)
	in, _ := g.InDegree(2)
	fmt.Println(g.Edges()[0], out, in)

	_, _ = g.RemoveNode(1)
	in, _ = g.InDegree(2)
	fmt.Println(g.HasEdge(1, 2), in)

	// Output:
	// 1 -> 2 1 1
	// false 0
}
