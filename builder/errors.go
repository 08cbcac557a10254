// SPDX-License-Identifier: MIT
// Package: tempograph/builder
//
// errors.go - sentinel errors for the builder package.
//
// Policy:
//   - Callers branch with errors.Is; context is added with %w at call sites.
//   - Messages are stable and prefixed with "builder:".

package builder

import "errors"

// ErrTooFewVertices indicates a size parameter below the constructor minimum.
var ErrTooFewVertices = errors.New("builder: parameter too small")

// ErrInvalidProbability indicates a probability outside [0,1].
var ErrInvalidProbability = errors.New("builder: probability out of range")

// ErrNeedRandSource indicates a stochastic path was taken without an RNG.
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrConstructFailed indicates a nil constructor or a graph refusing a mutation.
var ErrConstructFailed = errors.New("builder: construction failed")

// ErrOptionViolation indicates a batch specification that cannot be honored.
var ErrOptionViolation = errors.New("builder: invalid option value")
