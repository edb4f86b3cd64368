// Package genplan drives chain-by-chain placement with bounded
// backtracking: a stack of planner nodes, one per placed prefix, each
// retried at most SimulatedAnnealingMaxBranching times before it is
// discarded in favor of an earlier ancestor. Convert lifts the internal
// integer-indexed Layout back into the caller's original node identifiers
// with absolute coordinates, resolving every corridor node's shape and
// position from its two real neighbors.
package genplan
