package energy

import (
	"github.com/arcanumforge/layoutforge/pkg/configspace"
	"github.com/arcanumforge/layoutforge/pkg/geom"
	"github.com/arcanumforge/layoutforge/pkg/layout"
	"github.com/arcanumforge/layoutforge/pkg/mapdesc"
)

// Context carries the read-only collaborators every constraint needs:
// the canonical graph, the precomputed configuration space, the overlap
// tester, and the handful of config knobs constraints consult
// (OptimizeCorridorConstraints, MinimumRoomDistance).
type Context struct {
	Graph                       *mapdesc.Graph
	Space                       *configspace.Space
	Overlap                     geom.OverlapTester
	OptimizeCorridorConstraints bool
	MinimumRoomDistance         int
}

// baselineEnergyScale is the fallback scale used when the configuration
// space carries no variants (so GetAverageSize is zero), keeping the flat
// per-constraint weights well-defined even on a degenerate space.
const baselineEnergyScale = 4.0

// EnergyScale returns the reference length flat-penalty constraints
// multiply against, seeded from the configuration space's average variant
// diagonal (configspace.Space.GetAverageSize) so penalties stay
// proportionate whether the caller's shapes are tiny closets or sprawling
// halls, rather than fixed constants tuned to one room scale.
func (ctx *Context) EnergyScale() float64 {
	if ctx.Space == nil {
		return baselineEnergyScale
	}
	if avg := ctx.Space.GetAverageSize(); avg > 0 {
		return avg
	}
	return baselineEnergyScale
}

// Constraint is a pluggable per-node energy term.
type Constraint interface {
	// Name identifies the constraint; used as the key into a node's
	// EnergyBlock.Contributions and EnergyBlock.Data.
	Name() string
	// Compute returns the constraint's energy contribution for node
	// placed at candidate, plus whatever scratch data it wants cached
	// alongside. Compute must not mutate l.
	Compute(ctx *Context, l *layout.Layout, node int, candidate layout.Configuration) (contribution float64, data any)
	// Update recomputes the contribution for neighbor, whose own
	// configuration is unchanged but whose neighbor perturbedNode just
	// moved to newConfig. oldData is the neighbor's previously cached
	// data for this constraint.
	Update(ctx *Context, l *layout.Layout, perturbedNode int, newConfig layout.Configuration, neighbor int, oldData any) (contribution float64, data any)
}

// Evaluator aggregates a fixed set of constraints into per-node energy
// blocks. Total node energy is the sum of every constraint's
// contribution; total layout energy is the sum over nodes.
type Evaluator struct {
	ctx         *Context
	constraints []Constraint
}

// NewEvaluator builds an Evaluator over the given constraints, evaluated
// in the order given (deterministic, since constraint map keys are
// written in this order too).
func NewEvaluator(ctx *Context, constraints ...Constraint) *Evaluator {
	return &Evaluator{ctx: ctx, constraints: constraints}
}

// Constraints returns the evaluator's constraint set.
func (e *Evaluator) Constraints() []Constraint { return e.constraints }

// ComputeNode runs every constraint's Compute for node at candidate and
// assembles the resulting EnergyBlock.
func (e *Evaluator) ComputeNode(l *layout.Layout, node int, candidate layout.Configuration) layout.EnergyBlock {
	block := layout.NewEnergyBlock()
	for _, c := range e.constraints {
		contribution, data := c.Compute(e.ctx, l, node, candidate)
		block.Contributions[c.Name()] = contribution
		block.Data[c.Name()] = data
	}
	return block
}

// UpdateNeighbor runs every constraint's Update for neighbor, whose
// partner perturbedNode just moved to newConfig, and returns neighbor's
// refreshed EnergyBlock.
func (e *Evaluator) UpdateNeighbor(l *layout.Layout, perturbedNode int, newConfig layout.Configuration, neighbor int) layout.EnergyBlock {
	old, _ := l.Get(neighbor)
	block := layout.NewEnergyBlock()
	for _, c := range e.constraints {
		contribution, data := c.Update(e.ctx, l, perturbedNode, newConfig, neighbor, old.Energy.Data[c.Name()])
		block.Contributions[c.Name()] = contribution
		block.Data[c.Name()] = data
	}
	return block
}
