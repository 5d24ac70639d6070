// Package sampling provides the injectable random source behind the
// stochastic parts of the recommendation pipeline.
package sampling

import (
	"math/rand/v2"
	"sync"
)

// Source yields floats in [0, 1). Implementations must be safe for
// concurrent use.
type Source interface {
	Float64() float64
}

// Uniform draws from U(lo, hi) using src.
func Uniform(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Default returns the process-wide generator from math/rand/v2, which is
// safe for concurrent use.
func Default() Source {
	return globalSource{}
}

// LockedSource is a seeded, reproducible generator guarded by a mutex.
type LockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded returns a reproducible Source for seed.
func NewSeeded(seed uint64) *LockedSource {
	return &LockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *LockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Fixed always returns the same value. Values outside [0,1) are clamped.
type Fixed float64

func (f Fixed) Float64() float64 {
	switch {
	case f < 0:
		return 0
	case f >= 1:
		return 0.9999999999
	default:
		return float64(f)
	}
}

// Sequence replays values in order and then repeats the last one.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	next   int
}

func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next]
	if s.next < len(s.values)-1 {
		s.next++
	}
	return Fixed(v).Float64()
}
