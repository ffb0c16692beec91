package pbs

import (
	"math/rand"
	"sync"
	"sync/atomic"
)

// Source is the seedable PRNG and precomputed entropy stream the core
// consumes. It is passed explicitly to every function that needs
// randomness rather than reached for as a process-wide global, per the
// "Global PRNG and file-backed entropy" design note: the file-backed
// implementation lives in the out-of-core entropyfile package and is
// injected here through this interface.
type Source interface {
	// Float64 returns a uniform random value in [0, 1).
	Float64() float64
	// Intn returns a uniform random value in [0, n).
	Intn(n int) int
	// Shuffle randomizes the order of n elements using swap.
	Shuffle(n int, swap func(i, j int))
	// NextEntropyIndex draws the next value from the precomputed float
	// stream, skipping values >= bound, and returns it as an int index.
	// The stream wraps around on exhaustion.
	NextEntropyIndex(bound int) int
}

// RandSource is the default Source: a seeded math/rand generator paired
// with an immutable, atomically-indexed precomputed float stream. It is
// safe for concurrent use by the two parallel sections described in the
// concurrency model: math/rand.Rand is not itself safe for concurrent
// callers, so a mutex guards the handful of call sites (cold-start bid
// draws, shuffles) that still reach into it directly; the entropy stream
// cursor — the hot path inside the per-builder bid search — advances
// without that lock, via an atomic index.
type RandSource struct {
	mu     sync.Mutex
	rng    *rand.Rand
	stream []float64
	cursor atomic.Uint64
}

// NewRandSource builds a Source from a seed and a precomputed entropy
// stream. A nil or empty stream is legal: NextEntropyIndex then falls
// back to the PRNG directly, which keeps tests that don't care about the
// entropy file simple.
func NewRandSource(seed int64, stream []float64) *RandSource {
	return &RandSource{
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec
		stream: stream,
	}
}

func (s *RandSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *RandSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func (s *RandSource) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(n, swap)
}

func (s *RandSource) NextEntropyIndex(bound int) int {
	if bound <= 0 {
		return 0
	}
	if len(s.stream) == 0 {
		return s.Intn(bound)
	}
	for {
		// wrap around on exhaustion
		pos := (s.cursor.Add(1) - 1) % uint64(len(s.stream))
		v := int(s.stream[pos])
		if v < bound {
			return v
		}
	}
}
