// SPDX-License-Identifier: MIT
// Package: tempograph/builder
//
// weight_fn.go: weight generators for weighted graphs.
//
// A WeightFn receives the (possibly nil) RNG and the kind the graph expects.
// Returning nil lets the graph store the zero weight of that kind.

package builder

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/tempograph/weight"
)

// WeightFn produces one weight of kind k.
type WeightFn func(rng *rand.Rand, k weight.Kind) weight.Weight

// DefaultWeightFn returns nil; the graph substitutes the zero weight.
func DefaultWeightFn(_ *rand.Rand, _ weight.Kind) weight.Weight {
	return nil
}

// ConstantWeightFn sets every component to value. Integer kinds truncate.
func ConstantWeightFn(value float64) WeightFn {
	return func(_ *rand.Rand, k weight.Kind) weight.Weight {
		return fill(k, func() float64 { return value })
	}
}

// UniformWeightFn draws every component from U[min,max]. Integer kinds
// truncate. Without an RNG it falls back to min.
// Panics when max < min.
func UniformWeightFn(min, max float64) WeightFn {
	if max < min {
		panic(fmt.Sprintf("UniformWeightFn: require min ≤ max, got min=%g, max=%g", min, max))
	}
	return func(rng *rand.Rand, k weight.Kind) weight.Weight {
		return fill(k, func() float64 {
			if rng == nil || max == min {
				return min
			}
			return min + rng.Float64()*(max-min)
		})
	}
}

// fill builds a weight of kind k drawing each component from next.
func fill(k weight.Kind, next func() float64) weight.Weight {
	if k == weight.None {
		return nil
	}
	c := make([]float64, k.Dim())
	for i := range c {
		c[i] = next()
	}
	w, err := weight.FromComponents(k, c)
	if err != nil {
		return nil
	}
	return w
}

// draw evaluates fn only for weighted kinds.
func draw(fn WeightFn, rng *rand.Rand, k weight.Kind) weight.Weight {
	if k == weight.None {
		return nil
	}
	return fn(rng, k)
}
