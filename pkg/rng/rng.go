package rng

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
)

// RNG provides deterministic random number generation for a single
// perturbation/annealing stage. Each stage derives its own seed from the
// master seed to ensure isolation and reproducibility. The derivation
// follows the formula:
//
//	seed_stage = H(masterSeed, stageName, configHash)
//
// where H is SHA-256 and the first 8 bytes are used as the uint64 seed.
//
// All methods are deterministic given the same initial seed, making
// layouts reproducible across runs with identical inputs.
type RNG struct {
	source *rand.Rand
}

// NewRNG creates a stage-specific RNG by deriving a sub-seed from the master seed.
// The derivation uses SHA-256 to combine:
//   - masterSeed: the top-level seed for the entire generation run
//   - stageName: identifies the chain/attempt being seeded or evolved, e.g.
//     "chain_3_attempt_1"
//   - configHash: hash of the generator configuration, so config changes
//     yield different sequences
//
// This ensures that:
//  1. Same inputs always produce the same RNG sequence (determinism)
//  2. Different chains and retry attempts get independent sequences (isolation)
//  3. Config changes result in different sequences (sensitivity)
func NewRNG(masterSeed uint64, stageName string, configHash []byte) *RNG {
	h := sha256.New()

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], masterSeed)
	h.Write(buf[:])

	h.Write([]byte(stageName))
	h.Write(configHash)

	hash := h.Sum(nil)
	derivedSeed := binary.BigEndian.Uint64(hash[:8])

	return &RNG{
		source: rand.New(rand.NewSource(int64(derivedSeed))),
	}
}

// Intn returns a pseudo-random integer in [0, n), used to pick among
// candidate shape variants or candidate positions. It panics if n <= 0.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn argument must be positive")
	}
	return r.source.Intn(n)
}

// Float64 returns a pseudo-random float64 in [0.0, 1.0), used for the
// shape-perturbation coin flip and the Metropolis acceptance test.
func (r *RNG) Float64() float64 {
	return r.source.Float64()
}
