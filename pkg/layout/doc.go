// Package layout defines the partial-assignment data structure the
// evolver and planner operate on: a node's Configuration (shape variant,
// offset, cached energy), and the Layout that maps node index to
// Configuration for every node in the current chain's closure. Layouts
// are cloned on every accepted perturbation; configurations reference
// their owning layout only by node index, never by pointer, so cloning
// never has to break an ownership cycle.
package layout
