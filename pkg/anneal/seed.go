package anneal

import (
	"fmt"

	"github.com/arcanumforge/layoutforge/pkg/chain"
	"github.com/arcanumforge/layoutforge/pkg/geom"
	"github.com/arcanumforge/layoutforge/pkg/layout"
	"github.com/arcanumforge/layoutforge/pkg/perturb"
	"github.com/arcanumforge/layoutforge/pkg/rng"
)

// SeedChain gives every not-yet-placed, non-corridor node of ch an
// initial shape and position: a random allowed shape (honoring
// repeat-mode), positioned from the intersection (falling back to the
// union) of configuration spaces with whatever neighbors are already
// placed. A node with no directly placed neighbor (such as the very first
// node of the very first chain, or a node whose only placed relation runs
// through an unplaced corridor) is placed at the origin. Corridor nodes are
// never placed here; their position is resolved at layout-conversion
// time from their two real neighbors.
func SeedChain(l *layout.Layout, controller *perturb.Controller, roomShapes *perturb.RoomShapesHandler, r *rng.RNG, ch chain.Chain) (*layout.Layout, error) {
	out := l
	for _, node := range ch.Nodes {
		if out.Placed(node) || controller.Graph.Nodes[node].IsCorridor {
			continue
		}
		candidates := roomShapes.InitialCandidates(out, node)
		if len(candidates) == 0 {
			return nil, fmt.Errorf("anneal: node %d has no allowed shape under its repeat-mode policy", node)
		}
		shapeID := candidates[r.Intn(len(candidates))]

		pos, ok := controller.SeedPosition(out, node, shapeID)
		if !ok {
			pos = geom.Point{}
		}
		out = controller.RecomputeNode(out, node, layout.Configuration{ShapeID: shapeID, Offset: pos})
	}
	return out, nil
}
