package anneal

import (
	"errors"
	"math"

	"github.com/arcanumforge/layoutforge/pkg/chain"
	"github.com/arcanumforge/layoutforge/pkg/genconfig"
	"github.com/arcanumforge/layoutforge/pkg/layout"
	"github.com/arcanumforge/layoutforge/pkg/perturb"
	"github.com/arcanumforge/layoutforge/pkg/rng"
)

// Evolver repeatedly invokes a perturb.Controller, accepting or rejecting
// perturbations against a cooling schedule, until a chain is valid or its
// budget is exhausted.
type Evolver struct {
	Controller *perturb.Controller
	RNG        *rng.RNG
	Config     genconfig.SimulatedAnnealingConfig

	// OnAccept, if set, is called with every layout produced by an
	// accepted perturbation (energy-reducing or Metropolis-accepted).
	OnAccept func(*layout.Layout)
}

// Result is the outcome of evolving one chain.
type Result struct {
	Layout    *layout.Layout
	Success   bool
	Cancelled bool
}

// Evolve drives ch to a valid placement starting from seeded, or gives up
// per the configured stage-2 failure cap. Face-originated chains skip
// stage 2 entirely (they have no simple root to reseed from).
func (e *Evolver) Evolve(seeded *layout.Layout, ch chain.Chain, budget *Budget) (Result, error) {
	cur := seeded
	best := seeded
	stageTwoFailures := 0

	for {
		res, err := e.stage1(cur, best, ch, budget)
		if err != nil {
			return Result{Layout: res.Layout}, err
		}
		if res.Success || res.Cancelled {
			return res, nil
		}
		if ch.IsFromFace {
			return res, nil
		}
		stageTwoFailures++
		if stageTwoFailures > e.Config.MaxStageTwoFailures {
			return res, nil
		}

		restarted, err := e.randomRestart(res.Layout, ch)
		if err != nil {
			return Result{Layout: res.Layout}, err
		}
		cur = restarted
		best = restarted
	}
}

// stage1 runs the geometric cooling schedule: Cycles cycles of
// TrialsPerCycle perturbations each, accepting energy-reducing moves
// unconditionally and energy-increasing moves with Metropolis
// probability exp(-ΔE/T). A cycle that accepts nothing is retried at the
// same temperature rather than cooling further; MaxIterationsWithoutSuccess
// consecutive non-improving trials triggers a soft restart from the best
// layout seen so far.
func (e *Evolver) stage1(cur, best *layout.Layout, ch chain.Chain, budget *Budget) (Result, error) {
	noSuccess := 0
	bestEnergy := best.TotalEnergy()

	for k := 0; k < e.Config.Cycles; {
		temperature := e.Config.InitialTemperature * math.Pow(e.Config.CoolingAlpha, float64(k))
		acceptedInCycle := false

		for t := 0; t < e.Config.TrialsPerCycle; t++ {
			if budget.Tick() {
				return Result{Layout: best, Cancelled: true}, nil
			}

			candidate, err := e.Controller.Perturb(cur, ch.Nodes)
			if err != nil {
				if errors.Is(err, perturb.ErrRepeatModeNotSatisfied) {
					return Result{Layout: best}, err
				}
				continue
			}

			curEnergy := cur.TotalEnergy()
			candEnergy := candidate.TotalEnergy()
			accept := candEnergy <= curEnergy
			if !accept {
				p := math.Exp(-(candEnergy - curEnergy) / temperature)
				accept = e.RNG.Float64() < p
			}

			if !accept {
				noSuccess++
				if noSuccess >= e.Config.MaxIterationsWithoutSuccess {
					return Result{Layout: best}, nil
				}
				continue
			}

			acceptedInCycle = true
			cur = candidate
			if e.OnAccept != nil {
				e.OnAccept(cur)
			}
			if candEnergy < bestEnergy {
				best = candidate
				bestEnergy = candEnergy
				noSuccess = 0
			} else {
				noSuccess++
			}
			if candEnergy == 0 && e.chainFullyPlaced(cur, ch) {
				return Result{Layout: cur, Success: true}, nil
			}
			if noSuccess >= e.Config.MaxIterationsWithoutSuccess {
				return Result{Layout: best}, nil
			}
		}

		if acceptedInCycle {
			k++
		}
	}

	return Result{Layout: best}, nil
}

// randomRestart reseeds ch's first placeable (non-corridor) node with a
// random valid placement, leaving the rest of the chain's prior
// placements intact, for stage 2.
func (e *Evolver) randomRestart(l *layout.Layout, ch chain.Chain) (*layout.Layout, error) {
	root := -1
	for _, n := range ch.Nodes {
		if !e.Controller.Graph.Nodes[n].IsCorridor {
			root = n
			break
		}
	}
	if root == -1 {
		return l, nil
	}
	stripped := l.Clone()
	stripped.Delete(root)
	return SeedChain(stripped, e.Controller, e.Controller.RoomShapes, e.RNG, ch)
}

// chainFullyPlaced reports whether every non-corridor node of ch has a
// configuration. Corridor nodes are never placed by the evolver, so they
// are excluded from this check.
func (e *Evolver) chainFullyPlaced(l *layout.Layout, ch chain.Chain) bool {
	for _, n := range ch.Nodes {
		if e.Controller.Graph.Nodes[n].IsCorridor {
			continue
		}
		if !l.Placed(n) {
			return false
		}
	}
	return true
}
