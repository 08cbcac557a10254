// Package builder provides deterministic graph constructors and a seeded
// random batch generator for tempograph runs and tests.
//
// The package offers the following key components:
//
//   - Configuration primitives:
//     – BuilderOption:   a function that mutates builderConfig before use.
//     – builderConfig:   holds RNG, index scheme and weight functions.
//   - Topology constructors (Constructor implementations):
//     – Cycle, Path, Star, Complete, RandomSparse.
//   - Weight distributions (WeightFn implementations):
//     – DefaultWeightFn:  nil, so the graph stores the zero weight of its kind.
//     – ConstantWeightFn: every component set to a fixed value.
//     – UniformWeightFn:  every component drawn from U[min,max].
//   - Batch generation:
//     – BatchGenerator:   emits valid batches against the current graph state,
//     using the same progressive rules the update engine validates with.
//
// Guarantees:
//
//   - Determinism: same inputs, options, seed and call order produce identical
//     graphs and batches.
//   - Fast-fail on invalid option parameters via panics in option constructors.
//   - Constructors return sentinel errors and never panic at runtime.
package builder
