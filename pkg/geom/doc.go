// Package geom defines the minimal axis-aligned geometry surface the rest
// of the engine depends on: points, integer offsets, rectangles, and the
// two capability interfaces (overlap testing, orthogonal line intersection)
// that a caller is expected to supply. A reference implementation is
// included so the module runs standalone, but it is not a general-purpose
// geometry library and production callers should bring their own.
package geom
