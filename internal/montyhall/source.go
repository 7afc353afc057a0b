//go:generate mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks

package montyhall

import "math/rand/v2"

// Source supplies uniformly distributed draws.
//
// Implementations are not required to be safe for concurrent use: every
// worker owns its own Source.
type Source interface {
	// Uniform returns an integer uniformly distributed in [1, n].
	// It is called with n in {2, 3}.
	Uniform(n int) int
}

// TrialSource is a PCG-backed Source that is re-keyed for every trial.
//
// After Reset(i) the draw sequence depends only on the run seed and i, so a
// seeded run produces the same trials whichever worker evaluates them.
type TrialSource struct {
	key uint64
	pcg *rand.PCG
	rng *rand.Rand
}

// NewTrialSource returns a source for the given run seed. Call Reset before
// the first draw of each trial.
func NewTrialSource(seed uint64) *TrialSource {
	pcg := rand.NewPCG(0, 0)
	s := &TrialSource{
		key: splitmix64(seed),
		pcg: pcg,
		rng: rand.New(pcg),
	}
	s.Reset(0)
	return s
}

// Reset re-keys the generator for trial index.
func (s *TrialSource) Reset(index uint64) {
	s.pcg.Seed(s.key, splitmix64(index^s.key))
}

// Uniform returns a value in [1, n]. It returns 0 when n < 1, which the
// evaluator reports as an out-of-range draw.
func (s *TrialSource) Uniform(n int) int {
	if n < 1 {
		return 0
	}
	return s.rng.IntN(n) + 1
}

// NewSeed returns a fresh seed from the runtime's concurrency-safe generator.
func NewSeed() uint64 {
	return rand.Uint64()
}

// splitmix64 is the SplitMix64 finalizer. It is a bijection on uint64, so
// distinct trial indices always map to distinct PCG states.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
