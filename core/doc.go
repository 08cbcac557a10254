// Package core defines the central Graph, Node and Edge types and the
// structural mutation primitives every batch is ultimately applied through.
//
// Ownership:
//
// The Graph is the sole owner of its nodes and edges. Nodes are keyed by their
// non-negative index; edges live in an index-addressed arena of slots, and node
// records reference them by slot id only. No node or edge holds a pointer to
// another, so removing an edge is a matter of invalidating its slot and
// removing a node cascades to every slot its lists reference.
//
// Collections:
//
// Every internal list (the node list, the edge list and the per-node in, out
// and incident edge lists) is a datastructure.Container chosen once by the
// graph's datastructure.Strategy. NewGraph rejects a strategy whose containers
// cannot serve an access the graph performs; after construction no call can
// fail for that reason. Each list access is reported to the optional Observer,
// which is how the profiler package counts accesses.
//
// Canonical form:
//
// Undirected edges are stored with the lower index first. Key, AddEdge,
// RemoveEdge, Edge, HasEdge and ParseEdgeKey all canonicalize the same way, so
// (a,b) and (b,a) always denote the same undirected edge.
//
// Determinism:
//
// Nodes, Edges, Neighbors and the per-node edge queries return sorted slices
// regardless of the container kinds in use.
//
// Errors:
//
//	ErrNegativeIndex       - node index below zero.
//	ErrDuplicateNode       - node index already present.
//	ErrNodeNotFound        - requested node does not exist.
//	ErrDuplicateEdge       - an equivalent edge already connects the pair.
//	ErrDanglingEndpoint    - an edge endpoint is not in the graph.
//	ErrEdgeNotFound        - requested edge does not exist.
//	ErrLoopNotAllowed      - self-loop when loops are disabled.
//	ErrBadWeight           - weight kind does not match the graph's declared kind.
//	ErrTimestampRegression - timestamp would move backwards.
//	ErrInconsistent        - well-formedness check failed.
//	ErrMalformedEdge       - textual edge encoding could not be parsed.
//
// Concurrency:
//
// A Graph is guarded by a sync.RWMutex; mutation is expected from a single
// goroutine at a time (one batch after another) while readers may run in
// parallel between batches.
package core
