// Package random provides the injectable source of randomness used for caption
// sampling, layout jitter and template selection.
package random

import (
	"math/rand/v2"
	"sync"
)

// Rand is the subset of math/rand/v2 the generator needs.
type Rand interface {
	IntN(n int) int
	Float64() float64
	Perm(n int) []int
}

type global struct{}

func (global) IntN(n int) int {
	return rand.IntN(n)
}

func (global) Float64() float64 {
	return rand.Float64()
}

func (global) Perm(n int) []int {
	return rand.Perm(n)
}

// Default returns a Rand backed by the goroutine-safe top-level functions.
func Default() Rand {
	return global{}
}

// seeded wraps a deterministic generator. rand.Rand is not safe for concurrent use.
type seeded struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeeded returns a deterministic Rand for reproducible renders and tests.
func NewSeeded(seed uint64) Rand {
	return &seeded{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seeded) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

func (s *seeded) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *seeded) Perm(n int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Perm(n)
}

// Uniform returns an integer in [-spread, spread]. A non-positive spread yields 0.
func Uniform(r Rand, spread int) int {
	if spread <= 0 {
		return 0
	}
	return r.IntN(2*spread+1) - spread
}
