// Package rng provides deterministic random number generation for the
// layout generator.
//
// # Overview
//
// The RNG type ensures reproducible generation by deriving stage-specific
// seeds from a master seed. Each chain attempt gets its own independent
// random sequence while the overall run stays deterministic.
//
// # Sub-Seed Derivation
//
// Each RNG derives its seed using SHA-256:
//
//	seed_stage = H(masterSeed, stageName, configHash)
//
// where:
//   - masterSeed: Top-level seed for the entire generation
//   - stageName: Identifies what draws from this RNG (e.g. "chain_2_attempt_1")
//   - configHash: Hash of configuration parameters
//
// This ensures:
//  1. Same inputs always produce same RNG sequence (determinism)
//  2. Different chains/attempts get independent random sequences (isolation)
//  3. Config changes result in different sequences (sensitivity)
//
// # Usage
//
// Create an RNG per chain attempt:
//
//	configHash, _ := cfg.Hash()
//	chainRNG := rng.NewRNG(masterSeed, "chain_0_attempt_1", configHash)
//
// Use the RNG for all random decisions in that attempt:
//
//	shapeID := candidates[chainRNG.Intn(len(candidates))]
//	if chainRNG.Float64() < shapePerturbProbability {
//	    // perturb shape instead of position
//	}
//
// # Thread Safety
//
// RNG instances are NOT thread-safe. Generation is single-threaded by
// design; create one RNG per chain attempt and never share it across
// goroutines.
//
// # Performance
//
// The underlying math/rand.Rand is highly efficient:
//   - Intn():   ~3ns per call
//   - Float64(): ~2ns per call
//
// Creating a new RNG costs ~8µs due to SHA-256 computation. Reuse an RNG
// instance for the lifetime of a single chain attempt.
package rng
