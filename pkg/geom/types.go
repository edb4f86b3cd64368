package geom

import "fmt"

// Point is an integer 2D coordinate.
type Point struct {
	X, Y int
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the offset from q to p (p - q).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Neg returns the additive inverse of p, used when checking configuration
// space symmetry (Δ ∈ CS(A,B) ⇔ −Δ ∈ CS(B,A)).
func (p Point) Neg() Point {
	return Point{X: -p.X, Y: -p.Y}
}

// LInfDistance returns the Chebyshev (L∞) distance between two points.
func (p Point) LInfDistance(q Point) int {
	dx := abs(p.X - q.X)
	dy := abs(p.Y - q.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Rect is an axis-aligned integer bounding box, inclusive of Min and
// exclusive of Max on both axes (half-open), matching grid-cell conventions.
type Rect struct {
	Min, Max Point
}

// Width returns the rectangle's extent along X.
func (r Rect) Width() int { return r.Max.X - r.Min.X }

// Height returns the rectangle's extent along Y.
func (r Rect) Height() int { return r.Max.Y - r.Min.Y }

// Translate returns r shifted by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{Min: r.Min.Add(d), Max: r.Max.Add(d)}
}

// Empty reports whether r encloses zero area.
func (r Rect) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Intersect returns the overlapping region of r and s. The result is
// Empty() when the rectangles do not overlap.
func (r Rect) Intersect(s Rect) Rect {
	out := Rect{
		Min: Point{X: maxInt(r.Min.X, s.Min.X), Y: maxInt(r.Min.Y, s.Min.Y)},
		Max: Point{X: minInt(r.Max.X, s.Max.X), Y: minInt(r.Max.Y, s.Max.Y)},
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// Area returns the rectangle's area, 0 if empty.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width() * r.Height()
}

// LInfDistance returns the Chebyshev distance between two rectangles: 0 if
// they overlap or touch, otherwise the gap along whichever axis separates
// them most.
func (r Rect) LInfDistance(s Rect) int {
	dx := axisGap(r.Min.X, r.Max.X, s.Min.X, s.Max.X)
	dy := axisGap(r.Min.Y, r.Max.Y, s.Min.Y, s.Max.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func axisGap(aMin, aMax, bMin, bMax int) int {
	if aMax <= bMin {
		return bMin - aMax
	}
	if bMax <= aMin {
		return aMin - bMax
	}
	return 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Segment is an axis-aligned line segment: either horizontal (A.Y == B.Y)
// or vertical (A.X == B.X). Door lines are always segments of this kind.
type Segment struct {
	A, B Point
}

// Horizontal reports whether the segment runs along the X axis.
func (s Segment) Horizontal() bool { return s.A.Y == s.B.Y }

// Length returns the segment's length along its axis.
func (s Segment) Length() int {
	if s.Horizontal() {
		return abs(s.B.X - s.A.X)
	}
	return abs(s.B.Y - s.A.Y)
}

// Translate returns s shifted by d.
func (s Segment) Translate(d Point) Segment {
	return Segment{A: s.A.Add(d), B: s.B.Add(d)}
}

// Validate reports whether the segment is genuinely axis-aligned and
// non-degenerate.
func (s Segment) Validate() error {
	if s.A.X != s.B.X && s.A.Y != s.B.Y {
		return fmt.Errorf("geom: segment %+v is not axis-aligned", s)
	}
	if s.A == s.B {
		return fmt.Errorf("geom: segment %+v is degenerate", s)
	}
	return nil
}

// Polygon is a closed axis-aligned orthogonal polygon, represented as its
// bounding rectangle plus an optional list of rectangular holes/notches.
// The core only ever needs overlap area and bounds, so a simple
// rectangle-union representation (one outer rect, zero or more subtracted
// rects) is sufficient for every shape the engine places; a caller with
// genuinely non-rectilinear footprints supplies its own OverlapTester.
type Polygon struct {
	Outer Rect
	Holes []Rect
}

// Bounds returns the polygon's outer bounding rectangle.
func (p Polygon) Bounds() Rect { return p.Outer }

// Translate returns p shifted by d.
func (p Polygon) Translate(d Point) Polygon {
	holes := make([]Rect, len(p.Holes))
	for i, h := range p.Holes {
		holes[i] = h.Translate(d)
	}
	return Polygon{Outer: p.Outer.Translate(d), Holes: holes}
}
