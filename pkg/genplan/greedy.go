package genplan

import (
	"sort"

	"github.com/arcanumforge/layoutforge/pkg/anneal"
	"github.com/arcanumforge/layoutforge/pkg/chain"
	"github.com/arcanumforge/layoutforge/pkg/geom"
	"github.com/arcanumforge/layoutforge/pkg/layout"
	"github.com/arcanumforge/layoutforge/pkg/perturb"
)

// solveGreedy implements the chain-decomposition "handle trees greedily"
// option: instead of handing a tree chain to the evolver, try each
// allowed shape and each offset in configuration space, in a fixed
// deterministic order, and accept the first zero-energy placement found
// for every node in the chain.
func solveGreedy(seeded *layout.Layout, ch chain.Chain, controller *perturb.Controller) anneal.Result {
	cur := seeded
	for _, node := range ch.Nodes {
		if cur.Placed(node) || cur.Graph.Nodes[node].IsCorridor {
			continue
		}
		cfg, ok := greedyPlaceOne(cur, controller, node)
		if !ok {
			return anneal.Result{Layout: cur}
		}
		cur = controller.RecomputeNode(cur, node, cfg)
	}
	return anneal.Result{Layout: cur, Success: true}
}

func greedyPlaceOne(l *layout.Layout, controller *perturb.Controller, node int) (layout.Configuration, bool) {
	candidates := controller.RoomShapes.InitialCandidates(l, node)
	sort.Strings(candidates)

	neighbors := l.PlacedNeighbors(node)
	for _, shapeID := range candidates {
		positions := candidatePositions(l, controller, node, shapeID, neighbors)
		for _, pos := range positions {
			candidate := layout.Configuration{ShapeID: shapeID, Offset: pos}
			energyBlock := controller.Evaluator.ComputeNode(l, node, candidate)
			if energyBlock.Total() == 0 {
				candidate.Energy = energyBlock
				return candidate, true
			}
		}
		if len(neighbors) == 0 {
			candidate := layout.Configuration{ShapeID: shapeID, Offset: geom.Point{}}
			energyBlock := controller.Evaluator.ComputeNode(l, node, candidate)
			if energyBlock.Total() == 0 {
				candidate.Energy = energyBlock
				return candidate, true
			}
		}
	}
	return layout.Configuration{}, false
}

// candidatePositions returns the intersection of configuration spaces
// with every placed neighbor (falling back to the union when the
// intersection is empty), as a deterministically sorted slice of
// absolute positions.
func candidatePositions(l *layout.Layout, controller *perturb.Controller, node int, shapeID string, neighbors []int) []geom.Point {
	if len(neighbors) == 0 {
		return nil
	}
	sets := make([]map[geom.Point]bool, 0, len(neighbors))
	for _, nb := range neighbors {
		nbCfg, _ := l.Get(nb)
		set := map[geom.Point]bool{}
		for _, off := range controller.Space.Lookup(nbCfg.ShapeID, shapeID) {
			set[nbCfg.Offset.Add(off.Delta)] = true
		}
		sets = append(sets, set)
	}
	pool := intersect(sets)
	if len(pool) == 0 {
		pool = union(sets)
	}
	out := make([]geom.Point, 0, len(pool))
	for p := range pool {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}

func intersect(sets []map[geom.Point]bool) map[geom.Point]bool {
	if len(sets) == 0 {
		return nil
	}
	out := map[geom.Point]bool{}
	for p := range sets[0] {
		out[p] = true
	}
	for _, s := range sets[1:] {
		for p := range out {
			if !s[p] {
				delete(out, p)
			}
		}
	}
	return out
}

func union(sets []map[geom.Point]bool) map[geom.Point]bool {
	out := map[geom.Point]bool{}
	for _, s := range sets {
		for p := range s {
			out[p] = true
		}
	}
	return out
}
