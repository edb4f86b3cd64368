package genplan

import (
	"fmt"
	"sort"

	"github.com/arcanumforge/layoutforge/pkg/configspace"
	"github.com/arcanumforge/layoutforge/pkg/geom"
	"github.com/arcanumforge/layoutforge/pkg/layout"
	"github.com/arcanumforge/layoutforge/pkg/mapdesc"
)

// PlacedNode is one node's resolved placement in caller-facing terms.
type PlacedNode struct {
	ID       string
	ShapeID  string
	Position geom.Point
}

// DoorAssignment records which door index on each side of an edge
// carries the connection.
type DoorAssignment struct {
	From, To         string
	DoorFrom, DoorTo int
}

// MapLayout is the converter's output: every node's resolved shape and
// absolute position, plus the door pair realizing each edge.
type MapLayout struct {
	Nodes []PlacedNode
	Doors []DoorAssignment
}

// Convert lifts l's internal integer-indexed placements back into g's
// original node identifiers, resolving every corridor node's shape and
// position from its two real neighbors (corridor nodes are never placed
// by the evolver) and recording the door pair realizing each edge.
func Convert(g *mapdesc.Graph, space *configspace.Space, l *layout.Layout) (MapLayout, error) {
	positions := make([]layout.Configuration, g.NodeCount())
	resolved := make([]bool, g.NodeCount())

	for i := 0; i < g.NodeCount(); i++ {
		if g.Nodes[i].IsCorridor {
			continue
		}
		cfg, ok := l.Get(i)
		if !ok {
			return MapLayout{}, fmt.Errorf("genplan: node %q was never placed", g.Nodes[i].ID)
		}
		positions[i] = cfg
		resolved[i] = true
	}

	for i := 0; i < g.NodeCount(); i++ {
		if !g.Nodes[i].IsCorridor {
			continue
		}
		cfg, err := resolveCorridor(g, space, positions, i)
		if err != nil {
			return MapLayout{}, err
		}
		positions[i] = cfg
		resolved[i] = true
	}

	out := MapLayout{Nodes: make([]PlacedNode, 0, g.NodeCount())}
	for i := 0; i < g.NodeCount(); i++ {
		if !resolved[i] {
			return MapLayout{}, fmt.Errorf("genplan: node %q could not be resolved", g.Nodes[i].ID)
		}
		out.Nodes = append(out.Nodes, PlacedNode{
			ID:       g.Nodes[i].ID,
			ShapeID:  positions[i].ShapeID,
			Position: positions[i].Offset,
		})
	}

	doors, err := assignDoors(g, space, positions)
	if err != nil {
		return MapLayout{}, err
	}
	out.Doors = doors
	return out, nil
}

// resolveCorridor finds a corridor variant and offset pair that connects
// c's two real neighbors at their current placements, mirroring the
// feasibility search the corridor energy constraint performs, and returns
// the corridor's own resolved configuration.
func resolveCorridor(g *mapdesc.Graph, space *configspace.Space, positions []layout.Configuration, c int) (layout.Configuration, error) {
	nbs := g.Neighbors(c)
	if len(nbs) != 2 {
		return layout.Configuration{}, fmt.Errorf("genplan: corridor node %q does not have degree 2", g.Nodes[c].ID)
	}
	a, b := nbs[0], nbs[1]
	aCfg, bCfg := positions[a], positions[b]
	required := bCfg.Offset.Sub(aCfg.Offset)

	for _, sv := range g.Nodes[c].Shapes {
		csAC := space.Lookup(aCfg.ShapeID, sv.ID)
		csCB := space.Lookup(sv.ID, bCfg.ShapeID)
		for _, d1 := range csAC {
			for _, d2 := range csCB {
				if d1.Delta.Add(d2.Delta) == required {
					return layout.Configuration{ShapeID: sv.ID, Offset: aCfg.Offset.Add(d1.Delta)}, nil
				}
			}
		}
	}
	return layout.Configuration{}, fmt.Errorf("genplan: no feasible placement connects %q and %q through corridor %q", g.Nodes[a].ID, g.Nodes[b].ID, g.Nodes[c].ID)
}

// assignDoors walks every canonical edge once and records the door pair
// that realizes it: for a room-room edge, the single configuration-space
// offset matching the two nodes' relative position; for the two edges
// flanking a corridor, the door pair the corresponding CS lookup in
// resolveCorridor already proved compatible, recomputed here the same
// way for a stable, side-effect-free result.
func assignDoors(g *mapdesc.Graph, space *configspace.Space, positions []layout.Configuration) ([]DoorAssignment, error) {
	type edge struct{ u, v int }
	var edges []edge
	for i := 0; i < g.NodeCount(); i++ {
		for _, j := range g.Neighbors(i) {
			if i < j {
				edges = append(edges, edge{i, j})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].u != edges[j].u {
			return edges[i].u < edges[j].u
		}
		return edges[i].v < edges[j].v
	})

	out := make([]DoorAssignment, 0, len(edges))
	for _, e := range edges {
		uCfg, vCfg := positions[e.u], positions[e.v]
		delta := vCfg.Offset.Sub(uCfg.Offset)
		off, ok := space.Contains(uCfg.ShapeID, vCfg.ShapeID, delta)
		if !ok {
			return nil, fmt.Errorf("genplan: no door pair realizes edge %q-%q", g.Nodes[e.u].ID, g.Nodes[e.v].ID)
		}
		out = append(out, DoorAssignment{From: g.Nodes[e.u].ID, To: g.Nodes[e.v].ID, DoorFrom: off.DoorU, DoorTo: off.DoorV})
	}
	return out, nil
}
