package layoutgen

import (
	"context"
	"fmt"
	"time"

	"github.com/arcanumforge/layoutforge/pkg/anneal"
	"github.com/arcanumforge/layoutforge/pkg/chain"
	"github.com/arcanumforge/layoutforge/pkg/configspace"
	"github.com/arcanumforge/layoutforge/pkg/energy"
	"github.com/arcanumforge/layoutforge/pkg/events"
	"github.com/arcanumforge/layoutforge/pkg/genconfig"
	"github.com/arcanumforge/layoutforge/pkg/genplan"
	"github.com/arcanumforge/layoutforge/pkg/geom"
	"github.com/arcanumforge/layoutforge/pkg/layout"
	"github.com/arcanumforge/layoutforge/pkg/mapdesc"
	"github.com/arcanumforge/layoutforge/pkg/shape"
)

// Options bundles a generation request: the caller's level description,
// generator configuration, master seed, the external capability objects
// the core never implements itself, and an optional event publisher and
// cancellation source.
//
// Context and Cancel are two views of the same cancellation: if Context is
// non-nil, its cancellation is forwarded to Cancel (or to a token Generate
// creates internally if Cancel is nil) for the duration of the call.
type Options struct {
	Level  mapdesc.LevelDescription
	Config genconfig.Config
	Seed   uint64

	DoorHandler shape.Handler
	Overlap     geom.OverlapTester

	Context   context.Context
	Cancel    *anneal.CancelToken
	Publisher *events.Publisher
}

// Result is the outcome of a full generation.
type Result struct {
	MapLayout  *genplan.MapLayout
	Success    bool
	Cancelled  bool
	Iterations int
	Elapsed    time.Duration
}

// Generate runs the full pipeline: canonicalize the level description,
// precompute the configuration space, decompose the graph into chains,
// and drive the planner to a full layout. A setup failure returns
// ErrConfiguration; planner exhaustion returns a Result with
// Success=false alongside ErrGenerationFailed; cancellation with no valid
// layout returns a Result with Success=false and Cancelled=true and a nil
// error; an internal consistency failure returns ErrInvariantViolation.
func Generate(opts Options) (Result, error) {
	if err := opts.Config.Validate(); err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrConfiguration, err)
	}
	if (opts.Cancel != nil || opts.Context != nil) && opts.Config.HasEarlyStop() {
		return Result{}, fmt.Errorf("%w: cancellation token and early-stop bounds cannot both be configured", ErrConfiguration)
	}
	if opts.DoorHandler == nil {
		return Result{}, fmt.Errorf("%w: door handler is required", ErrConfiguration)
	}
	if opts.Overlap == nil {
		return Result{}, fmt.Errorf("%w: overlap tester is required", ErrConfiguration)
	}

	graph, err := mapdesc.Canonicalize(opts.Level)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrConfiguration, err)
	}

	variants := collectVariants(graph)
	if len(variants) == 0 {
		return Result{}, fmt.Errorf("%w: level description has no shape variants", ErrConfiguration)
	}

	space, err := configspace.Generate(variants, opts.DoorHandler, opts.Overlap)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrConfiguration, err)
	}

	configHash, err := opts.Config.Hash()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrConfiguration, err)
	}

	chains, err := chain.Decompose(graph, opts.Config.ChainDecomposition)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrInvariantViolation, err)
	}

	ctx := &energy.Context{
		Graph:                       graph,
		Space:                       space,
		Overlap:                     opts.Overlap,
		OptimizeCorridorConstraints: opts.Config.OptimizeCorridorConstraints,
		MinimumRoomDistance:         graph.MinimumRoomDistance,
	}
	evaluator := energy.NewEvaluator(ctx, energy.OverlapConstraint{}, energy.CorridorConstraint{}, energy.MinDistanceConstraint{})

	cancel := opts.Cancel
	if cancel == nil {
		cancel = &anneal.CancelToken{}
	}

	// Bridge an optional caller context onto the polling-based cancel
	// token: the planner/evolver loops check cancel.Cancelled() at trial
	// boundaries rather than selecting on a channel, so ctx.Done() is
	// forwarded onto the token by a short-lived goroutine stopped when
	// Generate returns. An already-cancelled context is caught here
	// synchronously so the very first trial sees it.
	if opts.Context != nil {
		if opts.Context.Err() != nil {
			cancel.Cancel()
		} else if done := opts.Context.Done(); done != nil {
			stop := make(chan struct{})
			defer close(stop)
			go func() {
				select {
				case <-done:
					cancel.Cancel()
				case <-stop:
				}
			}()
		}
	}

	publisher := opts.Publisher

	planner := &genplan.Planner{
		Graph:      graph,
		Chains:     chains,
		Space:      space,
		Evaluator:  evaluator,
		Cfg:        opts.Config,
		MasterSeed: opts.Seed,
		ConfigHash: configHash,
		Cancel:     cancel,
	}
	if publisher != nil {
		planner.OnPerturbed = func(l *layout.Layout) {
			publisher.Publish(events.Snapshot{Kind: events.OnPerturbed, Layout: l})
		}
		planner.OnChainPlaced = func(chainIndex int, l *layout.Layout) {
			publisher.Publish(events.Snapshot{Kind: events.OnPartialValid, ChainIndex: chainIndex, Layout: l})
		}
	}

	res, err := planner.Generate()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrInvariantViolation, err)
	}

	out := Result{Success: res.Success, Cancelled: res.Cancelled, Iterations: res.Iterations, Elapsed: res.Elapsed}

	if !res.Success {
		if publisher != nil {
			publisher.Close()
		}
		if res.Cancelled {
			return out, nil
		}
		return out, fmt.Errorf("%w: planner exhausted its backtracking budget", ErrGenerationFailed)
	}

	converted, err := genplan.Convert(graph, space, res.Layout)
	if err != nil {
		if publisher != nil {
			publisher.Close()
		}
		return Result{}, fmt.Errorf("%w: %s", ErrInvariantViolation, err)
	}
	out.MapLayout = &converted

	if publisher != nil {
		publisher.Publish(events.Snapshot{Kind: events.OnValid, ChainIndex: len(chains) - 1, Layout: res.Layout, Converted: &converted})
		publisher.Close()
	}

	return out, nil
}

func collectVariants(g *mapdesc.Graph) []shape.Variant {
	seen := map[string]bool{}
	var out []shape.Variant
	for _, n := range g.Nodes {
		for _, v := range n.Shapes {
			if seen[v.ID] {
				continue
			}
			seen[v.ID] = true
			out = append(out, v)
		}
	}
	return out
}
