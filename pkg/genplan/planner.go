package genplan

import (
	"fmt"
	"time"

	"github.com/arcanumforge/layoutforge/pkg/anneal"
	"github.com/arcanumforge/layoutforge/pkg/chain"
	"github.com/arcanumforge/layoutforge/pkg/configspace"
	"github.com/arcanumforge/layoutforge/pkg/energy"
	"github.com/arcanumforge/layoutforge/pkg/genconfig"
	"github.com/arcanumforge/layoutforge/pkg/layout"
	"github.com/arcanumforge/layoutforge/pkg/mapdesc"
	"github.com/arcanumforge/layoutforge/pkg/perturb"
	"github.com/arcanumforge/layoutforge/pkg/rng"
)

// plannerNode is a layout prefix on the backtracking stack: the layout
// with chains [0..ChainIndex) placed, and how many times this prefix has
// been used to attempt ChainIndex so far.
type plannerNode struct {
	ChainIndex int
	Layout     *layout.Layout
	Attempts   int
}

// Planner drives chain-by-chain placement over a precomputed chain
// sequence with bounded backtracking.
type Planner struct {
	Graph     *mapdesc.Graph
	Chains    []chain.Chain
	Space     *configspace.Space
	Evaluator *energy.Evaluator
	Cfg       genconfig.Config

	MasterSeed uint64
	ConfigHash []byte

	Cancel *anneal.CancelToken

	// OnPerturbed, if set, is called with the layout produced by every
	// accepted perturbation during any chain's evolution.
	OnPerturbed func(*layout.Layout)
	// OnChainPlaced, if set, is called with the prefix layout every time
	// a chain reaches a valid placement.
	OnChainPlaced func(chainIndex int, l *layout.Layout)
}

// Result is the outcome of running the planner to completion.
type Result struct {
	Layout     *layout.Layout
	Success    bool
	Cancelled  bool
	Iterations int
	Elapsed    time.Duration
}

// Generate runs the planner: pop the top prefix, attempt its next chain,
// push a successor on success, backtrack on failure, discarding any
// ancestor that has already been retried SimulatedAnnealingMaxBranching
// times. Succeeds when every chain is placed; fails when the stack
// empties.
func (p *Planner) Generate() (Result, error) {
	budget := anneal.NewBudget(p.Cancel, p.Cfg.EarlyStopIfIterationsExceeded, p.Cfg.EarlyStopIfTimeExceeded)
	start := time.Now()

	stack := []*plannerNode{{ChainIndex: 0, Layout: layout.New(p.Graph)}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.ChainIndex == len(p.Chains) {
			return Result{Layout: top.Layout, Success: true, Iterations: budget.Iterations(), Elapsed: time.Since(start)}, nil
		}

		if p.Cancel.Cancelled() {
			return Result{Layout: top.Layout, Cancelled: true, Iterations: budget.Iterations(), Elapsed: time.Since(start)}, nil
		}

		ch := p.Chains[top.ChainIndex]
		top.Attempts++

		res, cancelled, err := p.attempt(top.Layout, ch, top.Attempts, budget)
		if err != nil {
			return Result{Layout: top.Layout}, fmt.Errorf("genplan: chain %d: %w", ch.Seq, err)
		}
		if cancelled {
			return Result{Layout: top.Layout, Cancelled: true, Iterations: budget.Iterations(), Elapsed: time.Since(start)}, nil
		}

		if res.Success {
			if p.OnChainPlaced != nil {
				p.OnChainPlaced(ch.Seq, res.Layout)
			}
			stack = append(stack, &plannerNode{ChainIndex: top.ChainIndex + 1, Layout: res.Layout})
			continue
		}

		for len(stack) > 0 && stack[len(stack)-1].Attempts >= p.Cfg.SimulatedAnnealingMaxBranching {
			stack = stack[:len(stack)-1]
		}
	}

	return Result{Success: false, Iterations: budget.Iterations(), Elapsed: time.Since(start)}, nil
}

// attempt seeds and evolves (or greedily solves) a single chain from
// prefix, using a sub-seed keyed by the chain's sequence number and the
// attempt count so retries from the same prefix draw a fresh but
// reproducible stream.
func (p *Planner) attempt(prefix *layout.Layout, ch chain.Chain, attemptNo int, budget *anneal.Budget) (anneal.Result, bool, error) {
	stageName := fmt.Sprintf("chain_%d_attempt_%d", ch.Seq, attemptNo)
	chainRNG := rng.NewRNG(p.MasterSeed, stageName, p.ConfigHash)

	controller := p.newController(chainRNG)

	seeded, err := anneal.SeedChain(prefix, controller, controller.RoomShapes, chainRNG, ch)
	if err != nil {
		return anneal.Result{}, false, err
	}

	if p.Cfg.ChainDecomposition.HandleTreesGreedily && !ch.IsFromFace {
		res := solveGreedy(prefix, ch, controller)
		return res, false, nil
	}

	evolver := &anneal.Evolver{Controller: controller, RNG: chainRNG, Config: p.Cfg.ConfigFor(ch.Seq), OnAccept: p.OnPerturbed}
	res, err := evolver.Evolve(seeded, ch, budget)
	if err != nil {
		return res, false, err
	}
	return res, res.Cancelled, nil
}

func (p *Planner) newController(r *rng.RNG) *perturb.Controller {
	var override *mapdesc.RepeatMode
	if p.Cfg.RepeatModeOverride != nil {
		m := mapdesc.RepeatMode(*p.Cfg.RepeatModeOverride)
		override = &m
	}
	return &perturb.Controller{
		Graph:     p.Graph,
		Space:     p.Space,
		Evaluator: p.Evaluator,
		RNG:       r,
		RoomShapes: &perturb.RoomShapesHandler{
			Graph:    p.Graph,
			Override: override,
		},
		ThrowIfRepeatModeNotSatisfied: p.Cfg.ThrowIfRepeatModeNotSatisfied,
	}
}
