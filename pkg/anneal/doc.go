// Package anneal implements the two-stage simulated-annealing evolver
// that drives a single chain to a zero-energy placement: stage 1 is a
// geometric cooling schedule with Metropolis acceptance; stage 2, skipped
// for face-originated chains, reseeds the chain's root at random and
// retries stage 1 up to a configured number of times.
package anneal
