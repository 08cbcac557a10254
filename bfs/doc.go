// Package bfs provides breadth-first search over a core.Graph,
// returning unweighted shortest-path distances, parent links, and visit order.
//
// What
//
//   - Explore nodes in non-decreasing hop distance from a start node.
//   - BFSResult carries Order (visit sequence), Depth (node -> distance) and
//     Parent (node -> predecessor in the BFS tree).
//   - Hooks: OnEnqueue, OnDequeue, OnVisit (may abort with an error).
//   - WithFilterNeighbor prunes individual steps, WithMaxDepth bounds the
//     search, WithIgnoreDirection walks directed graphs as undirected.
//
// Determinism
//
//	core.Graph returns neighbors sorted ascending and BFS enqueues them in that
//	order, so the visit sequence is reproducible for any collection strategy.
//
// Complexity (V = nodes, E = edges)
//
//   - Time:   O(V + E)
//   - Memory: O(V)
package bfs
