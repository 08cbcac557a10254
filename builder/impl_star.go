// SPDX-License-Identifier: MIT
// Package: tempograph/builder
//
// impl_star.go - implementation of Star(n) constructor.
//
// Contract:
//   - n ≥ 2 (else ErrTooFewVertices).
//   - The center is the first emitted node (cfg.indexFn(0)); leaves follow.
//   - Directed graphs get center→leaf spokes.
//
// Complexity: O(n) nodes + O(n-1) edges.

package builder

import (
	"fmt"

	"github.com/katalvlaran/tempograph/core"
)

const (
	methodStar   = "Star"
	minStarNodes = 2
)

// Star returns a Constructor that builds a star with n-1 leaves.
func Star(n int) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if n < minStarNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodStar, n, minStarNodes, ErrTooFewVertices)
		}

		ids, err := addNodes(methodStar, g, cfg, n)
		if err != nil {
			return err
		}
		center := ids[0]
		for _, leaf := range ids[1:] {
			if err = addEdge(methodStar, g, cfg, center, leaf); err != nil {
				return err
			}
		}

		return nil
	}
}
