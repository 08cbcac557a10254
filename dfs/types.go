package dfs

import (
	"context"
	"errors"
)

var (
	// ErrGraphNil is returned when a nil *core.Graph is passed.
	ErrGraphNil = errors.New("dfs: graph is nil")

	// ErrStartNodeNotFound is returned when the start node does not exist.
	ErrStartNodeNotFound = errors.New("dfs: start node not found")
)

// Option configures DFSOptions.
type Option func(*DFSOptions)

// DFSOptions holds traversal parameters and hooks.
type DFSOptions struct {
	// Ctx allows cancellation.
	Ctx context.Context

	// OnRoot is called when a full traversal starts a new tree.
	OnRoot func(id int) error

	// OnVisit is called on entry to a node (pre-order).
	OnVisit func(id int) error

	// OnExit is called after all descendants of a node are explored (post-order).
	OnExit func(id int) error

	// MaxDepth limits recursion depth; negative means unlimited.
	MaxDepth int

	// FilterNeighbor skips neighbors for which it returns false.
	FilterNeighbor func(id int) bool

	// FullTraversal restarts from every unvisited node, ascending.
	FullTraversal bool

	// IgnoreDirection follows directed edges both ways.
	IgnoreDirection bool

	// SkippedNeighbors counts neighbors rejected by FilterNeighbor.
	SkippedNeighbors int
}

// DefaultOptions returns unlimited depth, no hooks and no filtering.
func DefaultOptions() DFSOptions {
	return DFSOptions{
		Ctx:      context.Background(),
		MaxDepth: -1,
	}
}

// WithContext sets the cancellation context.
func WithContext(ctx context.Context) Option {
	return func(o *DFSOptions) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithOnRoot registers the tree-root hook.
func WithOnRoot(fn func(id int) error) Option {
	return func(o *DFSOptions) { o.OnRoot = fn }
}

// WithOnVisit registers the pre-order hook.
func WithOnVisit(fn func(id int) error) Option {
	return func(o *DFSOptions) { o.OnVisit = fn }
}

// WithOnExit registers the post-order hook.
func WithOnExit(fn func(id int) error) Option {
	return func(o *DFSOptions) { o.OnExit = fn }
}

// WithMaxDepth limits recursion depth.
func WithMaxDepth(limit int) Option {
	return func(o *DFSOptions) { o.MaxDepth = limit }
}

// WithFilterNeighbor registers a neighbor filter.
func WithFilterNeighbor(fn func(id int) bool) Option {
	return func(o *DFSOptions) { o.FilterNeighbor = fn }
}

// WithFullTraversal visits every node, not only those reachable from start.
func WithFullTraversal() Option {
	return func(o *DFSOptions) { o.FullTraversal = true }
}

// WithIgnoreDirection treats directed edges as undirected.
func WithIgnoreDirection() Option {
	return func(o *DFSOptions) { o.IgnoreDirection = true }
}

// DFSResult collects traversal output.
type DFSResult struct {
	// Order is the post-order sequence.
	Order []int

	// Depth maps node -> depth in its DFS tree.
	Depth map[int]int

	// Parent maps node -> DFS tree parent (roots have none).
	Parent map[int]int

	// Visited marks every reached node.
	Visited map[int]bool

	// SkippedNeighbors counts neighbors rejected by FilterNeighbor.
	SkippedNeighbors int
}
