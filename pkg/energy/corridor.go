package energy

import (
	"github.com/arcanumforge/layoutforge/pkg/geom"
	"github.com/arcanumforge/layoutforge/pkg/layout"
	"github.com/arcanumforge/layoutforge/pkg/mapdesc"
)

// corridorGapWeightFactor multiplies ctx.EnergyScale() to scale the L1 gap
// between the closest reachable corridor position and the position
// actually required, so an unreachable corridor costs more in a pool of
// large rooms (where a given gap is proportionally a smaller shortfall)
// than in a pool of small ones.
const corridorGapWeightFactor = 2.5

// CorridorData records, per corridor node this constraint evaluated,
// whether a feasible placement was found.
type CorridorData struct {
	Feasible map[int]bool
}

// CorridorConstraint charges energy when no placement of a corridor node
// c exists that simultaneously connects c's two neighbors a and b at
// their current placements. Corridor nodes are never placed by the
// evolver themselves; this constraint only checks reachability between
// their two real neighbors, and is attributed to the lower-indexed
// neighbor so each corridor triple is charged exactly once.
type CorridorConstraint struct{}

// Name implements Constraint.
func (CorridorConstraint) Name() string { return "corridor" }

// Compute implements Constraint.
func (CorridorConstraint) Compute(ctx *Context, l *layout.Layout, node int, candidate layout.Configuration) (float64, any) {
	var contribution float64
	data := CorridorData{Feasible: map[int]bool{}}

	for _, c := range ctx.Graph.Neighbors(node) {
		if !ctx.Graph.Nodes[c].IsCorridor {
			continue
		}
		other, ok := corridorOtherEnd(ctx, c, node)
		if !ok || !l.Placed(other) {
			continue
		}
		if node > other {
			continue // charged once, from the lower-indexed endpoint
		}
		otherCfg, _ := l.Get(other)
		gap, feasible := corridorGap(ctx, candidate, otherCfg, ctx.Graph.Nodes[c])
		data.Feasible[c] = feasible
		if !feasible {
			contribution += gap * corridorGapWeightFactor * ctx.EnergyScale()
		}
	}

	return contribution, data
}

// Update implements Constraint.
func (c CorridorConstraint) Update(ctx *Context, l *layout.Layout, perturbedNode int, newConfig layout.Configuration, neighbor int, oldData any) (float64, any) {
	cfg, ok := l.Get(neighbor)
	if !ok {
		return 0, CorridorData{}
	}
	return c.Compute(ctx, l, neighbor, cfg)
}

// corridorOtherEnd returns corridor node c's neighbor other than from.
func corridorOtherEnd(ctx *Context, c, from int) (int, bool) {
	nbs := ctx.Graph.Neighbors(c)
	if len(nbs) != 2 {
		return 0, false
	}
	if nbs[0] == from {
		return nbs[1], true
	}
	return nbs[0], true
}

// corridorGap checks, across every shape variant available to the
// corridor node, whether the required offset (b relative to a) lies in
// the Minkowski sum CS(A, C) ⊕ CS(C, B) for some variant C; if not, it
// returns the L1 distance from the closest reachable offset.
func corridorGap(ctx *Context, a, b layout.Configuration, corridorDesc mapdesc.NodeDescription) (float64, bool) {
	required := b.Offset.Sub(a.Offset)
	best := -1
	for _, sv := range corridorDesc.Shapes {
		cID := sv.ID
		csAC := ctx.Space.Lookup(a.ShapeID, cID)
		csCB := ctx.Space.Lookup(cID, b.ShapeID)
		for _, d1 := range csAC {
			for _, d2 := range csCB {
				combined := geom.Point{X: d1.Delta.X + d2.Delta.X, Y: d1.Delta.Y + d2.Delta.Y}
				if combined == required {
					return 0, true
				}
				gap := l1(combined, required)
				if best < 0 || gap < best {
					best = gap
				}
			}
		}
	}
	if best < 0 {
		return 0, false
	}
	return float64(best), false
}

func l1(a, b geom.Point) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
