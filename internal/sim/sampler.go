package sim

import (
	"math/rand/v2"

	"github.com/statmech/boltzsim/internal/levels"
)

// splitmix64 is the SplitMix64 finalizer. It mixes a seed and a stream
// number into a well-distributed 64-bit value so that per-worker PRNG
// streams derived from the same base seed are uncorrelated.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// newStream returns a deterministic PRNG for the given worker stream.
// The same (seed, stream) pair always yields an identical sequence.
func newStream(seed int64, stream uint64) *rand.Rand {
	s1 := splitmix64(uint64(seed) ^ stream)
	s2 := splitmix64(s1)
	return rand.New(rand.NewPCG(s1, s2))
}

// Sampler draws candidate microstates: independent, uniformly distributed
// level indices with replacement. It is the sole source of randomness in
// the engine. A Sampler is not safe for concurrent use; each worker owns
// its own.
type Sampler struct {
	rng *rand.Rand
	n   int
}

// NewSampler creates a sampler over the given level space using rng.
func NewSampler(space levels.Space, rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng, n: space.Len()}
}

// Sample fills dst with one uniformly drawn level index per entry.
// Entries are independent within a call and across calls.
func (s *Sampler) Sample(dst []int) {
	for i := range dst {
		dst[i] = s.rng.IntN(s.n)
	}
}
