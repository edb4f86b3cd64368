package energy

import (
	"github.com/arcanumforge/layoutforge/pkg/geom"
	"github.com/arcanumforge/layoutforge/pkg/layout"
)

// polygonOf returns cfg's shape polygon translated to its placed offset.
func polygonOf(ctx *Context, cfg layout.Configuration) (geom.Polygon, bool) {
	v, ok := ctx.Space.Variant(cfg.ShapeID)
	if !ok {
		return geom.Polygon{}, false
	}
	return v.Polygon.Translate(cfg.Offset), true
}
