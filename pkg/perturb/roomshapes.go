package perturb

import (
	"github.com/arcanumforge/layoutforge/pkg/layout"
	"github.com/arcanumforge/layoutforge/pkg/mapdesc"
)

// RoomShapesHandler enforces a node's repeat-mode policy when filtering
// candidate shapes at perturbation time.
type RoomShapesHandler struct {
	Graph    *mapdesc.Graph
	Override *mapdesc.RepeatMode
}

// effectiveMode returns the repeat mode that applies to node, honoring a
// global override when one is configured.
func (h *RoomShapesHandler) effectiveMode(node int) mapdesc.RepeatMode {
	if h.Override != nil {
		return *h.Override
	}
	return h.Graph.Nodes[node].RepeatMode
}

// Candidates returns every shape variant ID node may adopt, excluding its
// current shape and any alias forbidden by its repeat-mode policy.
func (h *RoomShapesHandler) Candidates(l *layout.Layout, node int) []string {
	cur, _ := l.Get(node)
	return h.filter(l, node, cur.ShapeID)
}

// InitialCandidates returns every shape variant ID node may adopt when
// first seeded (no current shape to exclude), honoring repeat-mode.
func (h *RoomShapesHandler) InitialCandidates(l *layout.Layout, node int) []string {
	return h.filter(l, node, "")
}

func (h *RoomShapesHandler) filter(l *layout.Layout, node int, exclude string) []string {
	mode := h.effectiveMode(node)

	forbidden := map[int]bool{}
	switch mode {
	case mapdesc.RepeatForbidNeighbors:
		for _, nb := range h.Graph.Neighbors(node) {
			if cfg, ok := l.Get(nb); ok {
				if alias, ok := h.aliasOf(cfg.ShapeID); ok {
					forbidden[alias] = true
				}
			}
		}
	case mapdesc.RepeatForbidGlobal:
		for _, idx := range l.PlacedIndices() {
			if idx == node {
				continue
			}
			if cfg, ok := l.Get(idx); ok {
				if alias, ok := h.aliasOf(cfg.ShapeID); ok {
					forbidden[alias] = true
				}
			}
		}
	}

	var out []string
	for _, v := range h.Graph.Nodes[node].Shapes {
		if v.ID == exclude {
			continue
		}
		if forbidden[v.Alias] {
			continue
		}
		out = append(out, v.ID)
	}
	return out
}

func (h *RoomShapesHandler) aliasOf(shapeID string) (int, bool) {
	for _, n := range h.Graph.Nodes {
		for _, v := range n.Shapes {
			if v.ID == shapeID {
				return v.Alias, true
			}
		}
	}
	return 0, false
}
