package energy

import "github.com/arcanumforge/layoutforge/pkg/layout"

// MinDistanceData caches the threshold-violating pairs found for a node.
type MinDistanceData struct {
	Violations map[int]int // non-adjacent room index -> L∞ distance found
}

// MinDistanceConstraint charges energy for non-adjacent room pairs placed
// closer than ctx.MinimumRoomDistance (L∞). A zero threshold disables the
// constraint entirely.
type MinDistanceConstraint struct{}

// Name implements Constraint.
func (MinDistanceConstraint) Name() string { return "min_distance" }

// Compute implements Constraint.
func (MinDistanceConstraint) Compute(ctx *Context, l *layout.Layout, node int, candidate layout.Configuration) (float64, any) {
	data := MinDistanceData{Violations: map[int]int{}}
	if ctx.MinimumRoomDistance <= 0 {
		return 0, data
	}
	poly, ok := polygonOf(ctx, candidate)
	if !ok {
		return 0, data
	}

	var contribution float64
	for _, idx := range l.PlacedIndices() {
		if idx == node || ctx.Graph.AreNeighbors(node, idx) {
			continue
		}
		if ctx.Graph.Nodes[idx].IsCorridor || ctx.Graph.Nodes[node].IsCorridor {
			continue
		}
		otherCfg, _ := l.Get(idx)
		otherPoly, ok := polygonOf(ctx, otherCfg)
		if !ok {
			continue
		}
		dist := poly.Bounds().LInfDistance(otherPoly.Bounds())
		if dist < ctx.MinimumRoomDistance {
			gap := ctx.MinimumRoomDistance - dist
			data.Violations[idx] = dist
			contribution += float64(gap)
		}
	}
	return contribution, data
}

// Update implements Constraint.
func (m MinDistanceConstraint) Update(ctx *Context, l *layout.Layout, perturbedNode int, newConfig layout.Configuration, neighbor int, oldData any) (float64, any) {
	cfg, ok := l.Get(neighbor)
	if !ok {
		return 0, MinDistanceData{Violations: map[int]int{}}
	}
	return m.Compute(ctx, l, neighbor, cfg)
}
