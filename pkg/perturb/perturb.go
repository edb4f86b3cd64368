package perturb

import (
	"errors"
	"fmt"
	"sort"

	"github.com/arcanumforge/layoutforge/pkg/configspace"
	"github.com/arcanumforge/layoutforge/pkg/energy"
	"github.com/arcanumforge/layoutforge/pkg/geom"
	"github.com/arcanumforge/layoutforge/pkg/layout"
	"github.com/arcanumforge/layoutforge/pkg/mapdesc"
	"github.com/arcanumforge/layoutforge/pkg/rng"
)

// ErrNoValidPosition is returned when a perturbation cannot find any
// offset (even an invalid, positive-energy one) consistent with at least
// one already-placed neighbor — meaning the node's shape pool shares no
// compatible door with that neighbor's shape pool at all.
var ErrNoValidPosition = errors.New("perturb: no candidate position exists for this shape pairing")

// ErrRepeatModeNotSatisfied is returned when shape perturbation finds no
// candidate shape left after repeat-mode filtering and the controller was
// configured to treat that as fatal.
var ErrRepeatModeNotSatisfied = errors.New("perturb: no candidate shape satisfies repeat-mode policy")

const shapePerturbProbability = 0.4

// Controller performs single perturbation steps against a partial layout:
// picking a node, proposing a new shape or offset, and recomputing
// energy for the perturbed node and every placed neighbor.
type Controller struct {
	Graph      *mapdesc.Graph
	Space      *configspace.Space
	Evaluator  *energy.Evaluator
	RNG        *rng.RNG
	RoomShapes *RoomShapesHandler

	ThrowIfRepeatModeNotSatisfied bool
}

// Perturb applies one perturbation to a random already-placed node within
// chainNodes and returns the resulting layout. It never mutates l.
func (c *Controller) Perturb(l *layout.Layout, chainNodes []int) (*layout.Layout, error) {
	placed := placedAmong(l, chainNodes)
	if len(placed) == 0 {
		return l, nil
	}
	node := placed[c.RNG.Intn(len(placed))]

	if c.RNG.Float64() < shapePerturbProbability {
		return c.perturbShape(l, node)
	}
	return c.perturbPosition(l, node)
}

func placedAmong(l *layout.Layout, nodes []int) []int {
	out := make([]int, 0, len(nodes))
	for _, n := range nodes {
		if l.Placed(n) {
			out = append(out, n)
		}
	}
	return out
}

// SeedPosition computes an initial absolute position for node under
// shapeID from whatever neighbors are already placed. It returns false if
// node has no placed neighbors yet, in which case the caller (normally
// the planner, seeding the very first node of the very first chain)
// should place it at an arbitrary origin instead.
func (c *Controller) SeedPosition(l *layout.Layout, node int, shapeID string) (geom.Point, bool) {
	neighbors := l.PlacedNeighbors(node)
	if len(neighbors) == 0 {
		return geom.Point{}, false
	}
	return c.samplePosition(l, node, shapeID, neighbors)
}

// RecomputeNode computes node's energy under candidate and updates every
// placed neighbor's energy to account for it, without choosing a new
// shape or offset — used by the planner after seeding a chain's initial
// placement.
func (c *Controller) RecomputeNode(l *layout.Layout, node int, candidate layout.Configuration) *layout.Layout {
	return c.applyAndRecompute(l, node, candidate, l.PlacedNeighbors(node))
}

func (c *Controller) perturbShape(l *layout.Layout, node int) (*layout.Layout, error) {
	candidates := c.RoomShapes.Candidates(l, node)
	if len(candidates) == 0 {
		if c.ThrowIfRepeatModeNotSatisfied {
			return nil, fmt.Errorf("%w: node %d", ErrRepeatModeNotSatisfied, node)
		}
		return l, nil
	}
	newShape := candidates[c.RNG.Intn(len(candidates))]

	cur, _ := l.Get(node)
	neighbors := l.PlacedNeighbors(node)

	pos := cur.Offset
	if !c.positionValidFor(l, node, newShape, pos, neighbors) {
		chosen, ok := c.samplePosition(l, node, newShape, neighbors)
		if !ok {
			return nil, fmt.Errorf("%w: node %d shape %s", ErrNoValidPosition, node, newShape)
		}
		pos = chosen
	}

	return c.applyAndRecompute(l, node, layout.Configuration{ShapeID: newShape, Offset: pos}, neighbors), nil
}

func (c *Controller) perturbPosition(l *layout.Layout, node int) (*layout.Layout, error) {
	cur, _ := l.Get(node)
	neighbors := l.PlacedNeighbors(node)
	if len(neighbors) == 0 {
		return l, nil
	}
	chosen, ok := c.samplePosition(l, node, cur.ShapeID, neighbors)
	if !ok {
		return nil, fmt.Errorf("%w: node %d shape %s", ErrNoValidPosition, node, cur.ShapeID)
	}
	return c.applyAndRecompute(l, node, layout.Configuration{ShapeID: cur.ShapeID, Offset: chosen}, neighbors), nil
}

func (c *Controller) applyAndRecompute(l *layout.Layout, node int, candidate layout.Configuration, _ []int) *layout.Layout {
	out := l.Clone()
	candidate.Energy = c.Evaluator.ComputeNode(out, node, candidate)
	out.Set(node, candidate)
	for _, nb := range out.EnergyNeighbors(node) {
		nbCfg, _ := out.Get(nb)
		nbCfg.Energy = c.Evaluator.UpdateNeighbor(out, node, candidate, nb)
		out.Set(nb, nbCfg)
	}
	return out
}

// positionValidFor reports whether pos is consistent with every neighbor
// under newShape: for each neighbor u, (pos - u.Offset) must be a member
// of CS(u.Shape, newShape).
func (c *Controller) positionValidFor(l *layout.Layout, node int, newShape string, pos geom.Point, neighbors []int) bool {
	for _, nb := range neighbors {
		nbCfg, _ := l.Get(nb)
		delta := pos.Sub(nbCfg.Offset)
		if _, ok := c.Space.Contains(nbCfg.ShapeID, newShape, delta); !ok {
			return false
		}
	}
	return true
}

// samplePosition computes the intersection of configuration spaces with
// every already-placed neighbor (as absolute candidate positions) and
// samples one at random; if the intersection is empty it falls back to
// the union, so the sampled position connects to at least one neighbor
// but not necessarily to all of them.
func (c *Controller) samplePosition(l *layout.Layout, node int, shapeID string, neighbors []int) (geom.Point, bool) {
	perNeighborSets := make([]map[geom.Point]bool, 0, len(neighbors))
	for _, nb := range neighbors {
		nbCfg, _ := l.Get(nb)
		set := map[geom.Point]bool{}
		for _, off := range c.Space.Lookup(nbCfg.ShapeID, shapeID) {
			set[nbCfg.Offset.Add(off.Delta)] = true
		}
		perNeighborSets = append(perNeighborSets, set)
	}

	intersection := intersectAll(perNeighborSets)
	pool := intersection
	if len(pool) == 0 {
		pool = unionAll(perNeighborSets)
	}
	if len(pool) == 0 {
		return geom.Point{}, false
	}

	points := make([]geom.Point, 0, len(pool))
	for p := range pool {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].X != points[j].X {
			return points[i].X < points[j].X
		}
		return points[i].Y < points[j].Y
	})
	return points[c.RNG.Intn(len(points))], true
}

func intersectAll(sets []map[geom.Point]bool) map[geom.Point]bool {
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

func unionAll(sets []map[geom.Point]bool) map[geom.Point]bool {
	out := map[geom.Point]bool{}
	for _, s := range sets {
		for p := range s {
			out[p] = true
		}
	}
	return out
}
