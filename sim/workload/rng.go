package workload

import (
	"hash/fnv"
	"math/rand"
)

// Field stream names. Each sampled field draws from its own stream so that
// changing one distribution leaves the values of every other field intact.
const (
	StreamSize         = "size"
	StreamInterArrival = "inter_arrival"
	StreamProcessing   = "processing"
	StreamIOFrequency  = "io_freq"
	StreamIODuration   = "io_duration"
)

// PartitionedRNG provides deterministic, isolated RNG instances per field.
//
// Derivation formula: seed XOR fnv1a64(streamName).
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	seed    int64
	streams map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a generator seed.
func NewPartitionedRNG(seed int64) *PartitionedRNG {
	return &PartitionedRNG{
		seed:    seed,
		streams: make(map[string]*rand.Rand),
	}
}

// ForStream returns a deterministically-seeded RNG for the named stream.
// The same name always returns the same *rand.Rand instance (cached).
func (p *PartitionedRNG) ForStream(name string) *rand.Rand {
	if rng, ok := p.streams[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.seed ^ fnv1a64(name)))
	p.streams[name] = rng
	return rng
}

// Seed returns the seed the streams are derived from.
func (p *PartitionedRNG) Seed() int64 {
	return p.seed
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
