package shape

import (
	"fmt"

	"github.com/arcanumforge/layoutforge/pkg/geom"
)

// Orientation identifies which side of a polygon's bounding rectangle a
// door line sits on.
type Orientation int

const (
	North Orientation = iota
	South
	East
	West
)

// Opposite returns the orientation a connecting shape's door must face to
// meet this one head-on (room-room joins require opposite orientations).
func (o Orientation) Opposite() Orientation {
	switch o {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

func (o Orientation) String() string {
	switch o {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	default:
		return "west"
	}
}

// Door is a line segment on a variant's boundary through which it can
// connect to a neighboring variant. IsCorridorDoor marks doors that belong
// to a corridor shape, which connect only to a door of the opposite
// orientation and, in addition, of the same length.
type Door struct {
	Line          geom.Segment
	Orientation   Orientation
	IsCorridorDoor bool
}

// Variant is a single candidate polygon for a node: its footprint, the
// door lines on its boundary, and an Alias used for cheap repeat-mode
// equality (two variants are interchangeable for repeat-mode purposes iff
// they share the same Alias).
type Variant struct {
	ID      string
	Polygon geom.Polygon
	Doors   []Door
	Alias   int
}

// Validate checks that every door is a valid axis-aligned segment lying on
// the variant's boundary. Doors are not checked against each other, so
// overlapping doors are accepted.
func (v Variant) Validate() error {
	b := v.Polygon.Bounds()
	for i, d := range v.Doors {
		if err := d.Line.Validate(); err != nil {
			return fmt.Errorf("shape: variant %q door %d: %w", v.ID, i, err)
		}
		if !onBoundary(d.Line, b) {
			return fmt.Errorf("shape: variant %q door %d is not on the polygon boundary", v.ID, i)
		}
	}
	return nil
}

func onBoundary(s geom.Segment, b geom.Rect) bool {
	if s.Horizontal() {
		return (s.A.Y == b.Min.Y || s.A.Y == b.Max.Y) && s.A.X >= b.Min.X && s.B.X <= b.Max.X
	}
	return (s.A.X == b.Min.X || s.A.X == b.Max.X) && s.A.Y >= b.Min.Y && s.B.Y <= b.Max.Y
}

// Diagonal returns the variant's bounding-box diagonal length, used by the
// configuration-space generator to seed energy scale.
func (v Variant) Diagonal() float64 {
	b := v.Polygon.Bounds()
	w, h := float64(b.Width()), float64(b.Height())
	return sqrt(w*w + h*h)
}

func sqrt(x float64) float64 {
	if x <= 0 {
		return 0
	}
	z := x
	for i := 0; i < 30; i++ {
		z -= (z*z - x) / (2 * z)
	}
	return z
}

// Handler enumerates permissible door positions for shape variants. The
// default implementation reads Variant.Doors directly; a caller may supply
// a richer handler that derives doors procedurally instead of storing them.
type Handler interface {
	// Doors returns every door on v's boundary.
	Doors(v Variant) []Door
}

// DefaultHandler is the module's reference Handler: it returns the doors
// stored directly on the Variant.
type DefaultHandler struct{}

// Doors implements Handler.
func (DefaultHandler) Doors(v Variant) []Door {
	return v.Doors
}
