// Package rng centralizes deterministic random generation for the
// solvers: a single seeded stream per solver instance, and a
// SplitMix64-style derivation for independent per-window sub-streams.
//
// math/rand.Rand is not goroutine-safe; do not share a *Stream across
// goroutines. Derive an independent stream per worker instead.
package rng

import "math/rand"

// Stream is a deterministic draw source wrapping math/rand.
type Stream struct {
	r *rand.Rand
}

// New returns a Stream seeded deterministically from seed.
func New(seed int64) *Stream {
	return &Stream{r: rand.New(rand.NewSource(seed))}
}

// Intn draws a uniform integer in [0, n). Mirrors
// std::uniform_int_distribution(0, n-1) in the reference solver.
func (s *Stream) Intn(n int) int {
	return s.r.Intn(n)
}

// Derive produces an independent child stream identified by id, mixing
// the parent's next draw with id via a SplitMix64 finalizer so that
// sibling children (e.g. one per NWFC window) are well decorrelated.
func (s *Stream) Derive(id uint64) *Stream {
	parent := s.r.Int63()
	return New(deriveSeed(parent, id))
}

// deriveSeed mixes a parent seed and a stream identifier into a new
// 64-bit seed via the canonical SplitMix64 finalizer.
func deriveSeed(parent int64, id uint64) int64 {
	x := uint64(parent) ^ (id + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}
