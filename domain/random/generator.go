// Package random provides the deterministic pseudo-random source that every
// sampler in the system draws from.
package random

import (
	"scenforge/domain/core"
	"scenforge/domain/sample"
)

// Generator is a single-stream Mulberry32 source over one 32-bit state word.
// Identical (seed, draw count) always yields the identical future sequence.
// A generator is exclusively owned by one run: it is not safe for concurrent
// use and never locks.
type Generator struct {
	state uint32
	seed  core.Seed
}

// New creates a generator positioned at the start of the seed's sequence.
func New(seed core.Seed) *Generator {
	return &Generator{state: uint32(seed), seed: seed}
}

// Next consumes one draw and returns a uniform float in [0,1). O(1), no
// allocation, no blocking.
func (g *Generator) Next() float64 {
	g.state += 0x6D2B79F5
	t := g.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// Reseed replaces the state outright, independent of draw history. The
// generator continues exactly as a fresh instance built from seed would.
func (g *Generator) Reseed(seed core.Seed) {
	g.state = uint32(seed)
	g.seed = seed
}

// Reset rewinds to the most recent seed.
func (g *Generator) Reset() {
	g.state = uint32(g.seed)
}

// Seed returns the seed the generator was last constructed or reseeded with.
func (g *Generator) Seed() core.Seed {
	return g.seed
}

// State exposes the raw state word for diagnostics and tests.
func (g *Generator) State() uint32 {
	return g.state
}

// NextInt returns an integer in [min,max] inclusive via a scaled floor of
// Next.
func (g *Generator) NextInt(min, max int) (int, error) {
	if min > max {
		return 0, core.NewInvalidParameterError("min", "must not exceed max")
	}
	return min + int(g.Next()*float64(max-min+1)), nil
}

// Uniform returns a float in the half-open interval [min,max).
func (g *Generator) Uniform(min, max float64) (float64, error) {
	return sample.Uniform(g, min, max)
}

// Gaussian returns a normal sample with the given mean and deviation.
func (g *Generator) Gaussian(mean, stdDev float64) (float64, error) {
	return sample.Gaussian(g, mean, stdDev)
}

// Poisson returns a count sample for the given rate.
func (g *Generator) Poisson(lambda float64) (int, error) {
	return sample.Poisson(g, lambda)
}

// Weighted selects a label from the ordered weight list by cumulative sum.
func (g *Generator) Weighted(weights sample.Weights) (string, error) {
	return sample.Categorical(g, weights)
}
