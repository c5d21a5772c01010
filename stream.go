package shapeset

import "math/rand/v2"

// Stream domains keep batch-level and unit-level draws apart even when the
// numeric path components coincide.
const (
	streamBatch uint64 = iota + 1
	streamUnit
)

// NewStream returns an independent PCG random stream for the unit of work
// addressed by path under seed. Equal (seed, path) pairs always yield the
// same sequence; distinct paths yield unrelated sequences.
func NewStream(seed uint64, path ...uint64) *rand.Rand {
	key := splitmix64(uint64(len(path)))
	for _, p := range path {
		key = splitmix64(key ^ p)
	}
	return rand.New(rand.NewPCG(seed, key))
}

// splitmix64 is the SplitMix64 finalizer.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
