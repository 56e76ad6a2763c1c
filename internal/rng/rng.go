// Package rng provides the seeded pseudo-random source used by the
// simulator. A single seed determines the entire draw sequence, which is
// what lets two runs with identical configuration reproduce identical
// results.
package rng

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// RNG is the PRNG surface the simulator depends on: uniform ints, uniform
// reals in [0,1), normal(mu, sigma), and Bernoulli(p).
type RNG struct {
	src  *rand.Rand
	seed int64
}

// New returns an RNG deterministically seeded from seed.
func New(seed int64) *RNG {
	return &RNG{src: rand.New(rand.NewSource(seed)), seed: seed}
}

// Seed returns the seed this RNG was constructed with.
func (r *RNG) Seed() int64 { return r.seed }

// UniformInt returns a uniform pseudo-random integer in [0, n).
// Panics if n <= 0, matching math/rand.Intn's contract.
func (r *RNG) UniformInt(n int) int {
	return r.src.Intn(n)
}

// UniformFloat64 returns a uniform pseudo-random real in [0, 1).
func (r *RNG) UniformFloat64() float64 {
	return r.src.Float64()
}

// UniformRange returns a uniform pseudo-random real in [lo, hi).
func (r *RNG) UniformRange(lo, hi float64) float64 {
	return lo + (hi-lo)*r.UniformFloat64()
}

// Normal returns a draw from Normal(mu, sigma). sigma == 0 always returns mu.
func (r *RNG) Normal(mu, sigma float64) float64 {
	if sigma == 0 {
		return mu
	}
	dist := distuv.Normal{Mu: mu, Sigma: sigma, Src: r.src}
	return dist.Rand()
}

// Bernoulli returns true with probability p (0 <= p <= 1).
func (r *RNG) Bernoulli(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	dist := distuv.Bernoulli{P: p, Src: r.src}
	return dist.Rand() == 1
}
