// Package dfs implements depth-first traversal and weakly connected
// components on a core.Graph.
//
// What:
//
//   - DFS: explores as far as possible along each branch before backtracking.
//     Supports pre-order (OnVisit) and post-order (OnExit) hooks, a root hook
//     for full traversals (OnRoot), cancellation via context.Context, depth
//     limiting, neighbor filtering and direction-agnostic walks.
//   - Components: the weakly connected components of a graph, each sorted,
//     ordered by their smallest node.
//
// Key Types:
//
//   - Option: functional options for DFS behavior
//   - DFSOptions: holds Context, hooks, MaxDepth, FilterNeighbor
//   - DFSResult: collects post-order, Depth, Parent, Visited maps
//
// Complexity:
//
//   - DFS:        Time O(V+E), Memory O(V)
//   - Components: Time O(V+E), Memory O(V)
//
// Errors:
//
//   - ErrGraphNil           graph pointer is nil
//   - ErrStartNodeNotFound  start node not in graph
//   - context.Canceled      DFS canceled via context
//   - hook errors           propagated from OnVisit or OnExit
package dfs
