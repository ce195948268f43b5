// Package random provides the dice for every resolution routine. All game
// randomness flows through a Source so outcomes can be reproduced in tests
// by injecting a seeded or scripted implementation.
package random

import "math/rand"

// Source is the subset of math/rand that resolution logic draws from.
type Source interface {
	// Intn returns a uniform int in [0, n). Panics if n <= 0.
	Intn(n int) int
	// Float64 returns a uniform float64 in [0.0, 1.0).
	Float64() float64
}

// Default returns the process-wide source backed by math/rand's locked
// global generator. Safe for concurrent use.
func Default() Source {
	return globalSource{}
}

// NewSeeded returns a deterministic source for tests. Not safe for
// concurrent use.
func NewSeeded(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

type globalSource struct{}

func (globalSource) Intn(n int) int   { return rand.Intn(n) }
func (globalSource) Float64() float64 { return rand.Float64() }

// IntBetween returns a uniform int in [min, max] inclusive. Degenerate
// ranges collapse to min.
func IntBetween(src Source, min, max int) int {
	if max <= min {
		return min
	}
	return min + src.Intn(max-min+1)
}

// FloatBetween returns a uniform float64 in [min, max).
func FloatBetween(src Source, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + src.Float64()*(max-min)
}
