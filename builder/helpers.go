// SPDX-License-Identifier: MIT
// Package: tempograph/builder
//
// helpers.go: shared node/edge emission for constructors.

package builder

import (
	"fmt"

	"github.com/katalvlaran/tempograph/core"
)

// addNodes inserts n nodes with indices cfg.indexFn(0..n-1) and returns them
// in emission order.
func addNodes(method string, g *core.Graph, cfg builderConfig, n int) ([]int, error) {
	ids := make([]int, n)
	kind := g.NodeWeightKind()
	for i := 0; i < n; i++ {
		ids[i] = cfg.indexFn(i)
		if err := g.AddNode(ids[i], draw(cfg.nodeWeightFn, cfg.rng, kind)); err != nil {
			return nil, fmt.Errorf("%s: AddNode(%d): %w", method, ids[i], err)
		}
	}

	return ids, nil
}

// addEdge inserts u→v (or u-v) with a generated weight.
func addEdge(method string, g *core.Graph, cfg builderConfig, u, v int) error {
	w := draw(cfg.edgeWeightFn, cfg.rng, g.EdgeWeightKind())
	if _, err := g.AddEdge(u, v, w); err != nil {
		return fmt.Errorf("%s: AddEdge(%d→%d): %w", method, u, v, err)
	}

	return nil
}
