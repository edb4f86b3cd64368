// Package energy implements the pluggable constraint/energy model: each
// constraint contributes an additive per-node energy term, and a layout
// is valid iff every node's total energy is zero. Constraints expose a
// pure Compute for a candidate placement and an incremental Update for a
// placed neighbor whose perturbed partner moved.
package energy
