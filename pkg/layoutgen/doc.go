// Package layoutgen is the top-level entry point: it canonicalizes a
// caller's level description, precomputes the configuration space,
// decomposes the graph into chains, and drives the planner to a full
// layout, publishing perturbation and validity events along the way.
package layoutgen
