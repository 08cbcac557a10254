package dfs

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/tempograph/core"
)

// dfsWalker holds traversal state.
type dfsWalker struct {
	graph *core.Graph // underlying graph
	opts  DFSOptions  // traversal options
	res   *DFSResult  // result collector
}

// DFS performs a depth-first traversal from start, or over every node
// (ascending roots) when WithFullTraversal is set, in which case start is
// ignored.
func DFS(g *core.Graph, start int, opts ...Option) (*DFSResult, error) {
	if g == nil {
		return nil, ErrGraphNil
	}

	dopts := DefaultOptions()
	for _, fn := range opts {
		fn(&dopts)
	}

	if !dopts.FullTraversal && !g.HasNode(start) {
		return nil, fmt.Errorf("%w: %d", ErrStartNodeNotFound, start)
	}

	nodes := g.Nodes()
	res := &DFSResult{
		Order:   make([]int, 0, len(nodes)),
		Depth:   make(map[int]int, len(nodes)),
		Parent:  make(map[int]int, len(nodes)),
		Visited: make(map[int]bool, len(nodes)),
	}

	walker := &dfsWalker{graph: g, opts: dopts, res: res}

	if dopts.FullTraversal {
		for _, v := range nodes {
			if res.Visited[v] {
				continue
			}
			if dopts.OnRoot != nil {
				if err := dopts.OnRoot(v); err != nil {
					return res, fmt.Errorf("dfs: OnRoot hook for %d: %w", v, err)
				}
			}
			if err := walker.traverse(v, 0); err != nil {
				return res, err
			}
		}
	} else if err := walker.traverse(start, 0); err != nil {
		return res, err
	}

	res.SkippedNeighbors = walker.opts.SkippedNeighbors

	return res, nil
}

func (w *dfsWalker) traverse(id int, depth int) error {
	select {
	case <-w.opts.Ctx.Done():
		return w.opts.Ctx.Err()
	default:
	}

	if w.opts.MaxDepth >= 0 && depth > w.opts.MaxDepth {
		return nil
	}

	w.res.Visited[id] = true
	w.res.Depth[id] = depth

	if w.opts.OnVisit != nil {
		if err := w.opts.OnVisit(id); err != nil {
			w.res.Order = nil

			return fmt.Errorf("dfs: OnVisit hook for %d: %w", id, err)
		}
	}

	var (
		nbs []int
		err error
	)
	if w.opts.IgnoreDirection || !w.graph.Directed() {
		nbs, err = w.graph.Neighbors(id)
	} else {
		nbs, err = w.graph.Successors(id)
	}
	if err != nil {
		w.res.Order = nil

		return fmt.Errorf("dfs: neighbors of %d: %w", id, err)
	}

	for _, nid := range nbs {
		if nid == id {
			continue
		}
		if w.opts.FilterNeighbor != nil && !w.opts.FilterNeighbor(nid) {
			w.opts.SkippedNeighbors++
			continue
		}
		if !w.res.Visited[nid] {
			w.res.Parent[nid] = id
			if err = w.traverse(nid, depth+1); err != nil {
				return err
			}
		}
	}

	if w.opts.OnExit != nil {
		if err = w.opts.OnExit(id); err != nil {
			w.res.Order = nil

			return fmt.Errorf("dfs: OnExit hook for %d: %w", id, err)
		}
	}

	w.res.Order = append(w.res.Order, id)

	return nil
}

// Components returns the weakly connected components of g. Each component is
// sorted ascending and components are ordered by their smallest node.
func Components(g *core.Graph) ([][]int, error) {
	var (
		comps [][]int
		cur   []int
	)
	_, err := DFS(g, 0,
		WithFullTraversal(),
		WithIgnoreDirection(),
		WithOnRoot(func(int) error {
			if cur != nil {
				comps = append(comps, cur)
			}
			cur = []int{}
			return nil
		}),
		WithOnVisit(func(id int) error {
			cur = append(cur, id)
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	if cur != nil {
		comps = append(comps, cur)
	}
	for _, c := range comps {
		sort.Ints(c)
	}
	return comps, nil
}
