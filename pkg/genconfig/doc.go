// Package genconfig loads and validates the generator's YAML/JSON
// configuration: chain decomposition parameters, the simulated-annealing
// schedule (with optional per-chain overrides), branching limits, and the
// early-stopping bounds. Hashing the canonical YAML form feeds the
// per-stage RNG seed derivation in pkg/rng.
package genconfig
