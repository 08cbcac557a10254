// SPDX-License-Identifier: MIT
// Package: tempograph/builder
//
// config.go: resolved builder configuration.
//
// builderConfig is immutable once resolved; every constructor receives it
// by value from BuildGraph and never writes back.

package builder

import (
	"math/rand" // RNG for stochastic builders
)

// builderConfig holds the resolved options.
type builderConfig struct {
	// indexFn maps a constructor-local position to a node index.
	indexFn func(int) int

	// rng drives every stochastic choice; nil means deterministic paths only.
	rng *rand.Rand

	// nodeWeightFn and edgeWeightFn produce weights for weighted graphs.
	nodeWeightFn WeightFn
	edgeWeightFn WeightFn
}

// newBuilderConfig applies opts over the defaults.
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		indexFn:      identityIndex,   // 0,1,2,...
		rng:          nil,             // no RNG unless explicitly set
		nodeWeightFn: DefaultWeightFn, // zero weight of the graph kind
		edgeWeightFn: DefaultWeightFn,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func identityIndex(i int) int { return i }
