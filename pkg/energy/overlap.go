package energy

import "github.com/arcanumforge/layoutforge/pkg/layout"

// overlapWeight scales area-of-overlap between adjacent rooms into energy.
const overlapWeight = 1.0

// nonNeighborOverlapPenaltyFactor multiplies ctx.EnergyScale() to produce
// the flat energy charged per non-neighbor pair of rooms that overlap at
// all, so the penalty stays decisively larger than any in-scale overlap
// contribution regardless of the pool's room size.
const nonNeighborOverlapPenaltyFactor = 250.0

// OverlapData is the scratch data the overlap constraint caches per node.
type OverlapData struct {
	NeighborOverlapArea map[int]int
	NonNeighborOverlaps []int
}

// OverlapConstraint charges energy for area overlap with placed
// neighbors, plus a flat penalty per non-neighbor room that overlaps at
// all. When ctx.OptimizeCorridorConstraints is set, overlap with corridor
// nodes is excluded from the non-neighbor check (corridor placement is
// resolved separately, by the corridor constraint).
type OverlapConstraint struct{}

// Name implements Constraint.
func (OverlapConstraint) Name() string { return "overlap" }

// Compute implements Constraint.
func (OverlapConstraint) Compute(ctx *Context, l *layout.Layout, node int, candidate layout.Configuration) (float64, any) {
	poly, ok := polygonOf(ctx, candidate)
	if !ok {
		return 0, OverlapData{}
	}

	var contribution float64
	data := OverlapData{NeighborOverlapArea: map[int]int{}}

	for _, nb := range ctx.Graph.Neighbors(node) {
		if !l.Placed(nb) {
			continue
		}
		nbCfg, _ := l.Get(nb)
		nbPoly, ok := polygonOf(ctx, nbCfg)
		if !ok {
			continue
		}
		area := ctx.Overlap.OverlapArea(poly, nbPoly)
		data.NeighborOverlapArea[nb] = area
		contribution += float64(area) * overlapWeight
	}

	for _, idx := range l.PlacedIndices() {
		if idx == node || ctx.Graph.AreNeighbors(node, idx) {
			continue
		}
		if ctx.OptimizeCorridorConstraints && ctx.Graph.Nodes[idx].IsCorridor {
			continue
		}
		otherCfg, _ := l.Get(idx)
		otherPoly, ok := polygonOf(ctx, otherCfg)
		if !ok {
			continue
		}
		if ctx.Overlap.Overlaps(poly, otherPoly) {
			data.NonNeighborOverlaps = append(data.NonNeighborOverlaps, idx)
			contribution += nonNeighborOverlapPenaltyFactor * ctx.EnergyScale()
		}
	}

	return contribution, data
}

// Update implements Constraint by fully recomputing the neighbor's
// contribution from its own (unchanged) configuration against the
// layout's current state, which now includes perturbedNode's new
// placement.
func (o OverlapConstraint) Update(ctx *Context, l *layout.Layout, perturbedNode int, newConfig layout.Configuration, neighbor int, oldData any) (float64, any) {
	cfg, ok := l.Get(neighbor)
	if !ok {
		return 0, OverlapData{}
	}
	return o.Compute(ctx, l, neighbor, cfg)
}
