// SPDX-License-Identifier: MIT
// Package: tempograph/builder
//
// options.go: functional options for the builder package.
//
// Contract (strict):
//   • Options are functional (type BuilderOption func(*builderConfig)).
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     Constructors themselves MUST NOT panic.
//   • Determinism is explicit: seeding is done via WithSeed or WithRand.

package builder

import (
	"math/rand" // RNG source for stochastic builders
)

// BuilderOption customizes the behavior of a constructor by mutating a
// builderConfig instance before graph construction begins.
type BuilderOption func(*builderConfig)

// WithIndexScheme sets the deterministic node index generator: i -> index.
// The scheme must be injective and return non-negative values.
// Panics on nil.
func WithIndexScheme(fn func(int) int) BuilderOption {
	if fn == nil {
		panic("builder: WithIndexScheme(nil)")
	}
	return func(c *builderConfig) {
		c.indexFn = fn
	}
}

// WithOffset shifts node indices by offset (index = offset + i).
// Panics on a negative offset.
func WithOffset(offset int) BuilderOption {
	if offset < 0 {
		panic("builder: WithOffset(offset<0)")
	}
	return WithIndexScheme(func(i int) int { return offset + i })
}

// WithRand provides an explicit RNG for stochastic builders.
// Panics on nil; prefer WithSeed for reproducible runs.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) {
		c.rng = r
	}
}

// WithSeed creates a new *rand.Rand with the given seed (deterministic).
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) {
		// Seeded source → reproducible draws.
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithNodeWeightFn overrides the per-node weight generator. It is consulted
// only when the graph carries node weights. Panics on nil.
func WithNodeWeightFn(fn WeightFn) BuilderOption {
	if fn == nil {
		panic("builder: WithNodeWeightFn(nil)")
	}
	return func(c *builderConfig) {
		c.nodeWeightFn = fn
	}
}

// WithEdgeWeightFn overrides the per-edge weight generator. It is consulted
// only when the graph carries edge weights. Panics on nil.
func WithEdgeWeightFn(fn WeightFn) BuilderOption {
	if fn == nil {
		panic("builder: WithEdgeWeightFn(nil)")
	}
	return func(c *builderConfig) {
		c.edgeWeightFn = fn
	}
}
