package configspace

import (
	"fmt"
	"sort"

	"github.com/arcanumforge/layoutforge/pkg/geom"
	"github.com/arcanumforge/layoutforge/pkg/shape"
)

// Offset is a single element of a configuration space: a relative
// translation Δ at which placing the second variant connects to the first
// through the identified door pair.
type Offset struct {
	Delta      geom.Point
	DoorU, DoorV int
}

// Space is the precomputed, immutable configuration space over a pool of
// shape variants: for every ordered pair of variant IDs, the set of
// offsets at which they connect legally.
type Space struct {
	offsets  map[string]map[string][]Offset
	variants map[string]shape.Variant
	avgSize  float64
}

// Lookup returns the configuration space CS(u, v) for the ordered pair of
// variant IDs (u, v).
func (s *Space) Lookup(uID, vID string) []Offset {
	return s.offsets[uID][vID]
}

// Contains reports whether delta is a member of CS(u, v), returning the
// matching Offset when it is.
func (s *Space) Contains(uID, vID string, delta geom.Point) (Offset, bool) {
	for _, o := range s.Lookup(uID, vID) {
		if o.Delta == delta {
			return o, true
		}
	}
	return Offset{}, false
}

// GetAverageSize returns the mean bounding-box diagonal across all
// variants, used to seed energy scale.
func (s *Space) GetAverageSize() float64 { return s.avgSize }

// IntAliasMapping returns each variant's equivalence alias, keyed by
// variant ID.
func (s *Space) IntAliasMapping() map[string]int {
	out := make(map[string]int, len(s.variants))
	for id, v := range s.variants {
		out[id] = v.Alias
	}
	return out
}

// Variant returns the variant registered under id.
func (s *Space) Variant(id string) (shape.Variant, bool) {
	v, ok := s.variants[id]
	return v, ok
}

// Generate precomputes the configuration space over every ordered pair of
// variants, using handler to enumerate doors and overlap to reject
// offsets that cause area overlap. It is built once per generation.
func Generate(variants []shape.Variant, handler shape.Handler, overlap geom.OverlapTester) (*Space, error) {
	s := &Space{
		offsets:  make(map[string]map[string][]Offset),
		variants: make(map[string]shape.Variant, len(variants)),
	}

	var totalDiag float64
	for _, v := range variants {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("configspace: %w", err)
		}
		if _, dup := s.variants[v.ID]; dup {
			return nil, fmt.Errorf("configspace: duplicate variant id %q", v.ID)
		}
		s.variants[v.ID] = v
		totalDiag += v.Diagonal()
	}
	if len(variants) > 0 {
		s.avgSize = totalDiag / float64(len(variants))
	}

	for _, a := range variants {
		s.offsets[a.ID] = make(map[string][]Offset)
		for _, b := range variants {
			offs := pairOffsets(a, b, handler, overlap)
			sortOffsets(offs)
			s.offsets[a.ID][b.ID] = offs
		}
	}
	return s, nil
}

// pairOffsets computes CS(a, b): every offset at which b connects to a
// through a compatible door pair without area overlap.
func pairOffsets(a, b shape.Variant, handler shape.Handler, overlap geom.OverlapTester) []Offset {
	var out []Offset
	doorsA := handler.Doors(a)
	doorsB := handler.Doors(b)
	for ai, da := range doorsA {
		for bi, db := range doorsB {
			if !doorsCompatible(da, db) {
				continue
			}
			matchFull := da.IsCorridorDoor || db.IsCorridorDoor
			for _, delta := range slideOffsets(da, db, matchFull) {
				translated := b.Polygon.Translate(delta)
				if overlap.Overlaps(a.Polygon, translated) {
					continue
				}
				out = append(out, Offset{Delta: delta, DoorU: ai, DoorV: bi})
			}
		}
	}
	return out
}

// doorsCompatible decides whether two doors can join: room-room doors
// require opposite orientations (a door facing north meets one facing
// south); a join where either side is a corridor door additionally
// requires the two door lines to share the same length, since a corridor
// mouth must fit its partner's wall opening exactly.
func doorsCompatible(a, b shape.Door) bool {
	if a.Orientation.Opposite() != b.Orientation {
		return false
	}
	if a.IsCorridorDoor || b.IsCorridorDoor {
		return a.Line.Length() == b.Line.Length()
	}
	return true
}

// slideOffsets returns every integer offset that brings door b's line into
// overlapping alignment with door a's line. When matchFull is set (a
// corridor join), only the single offset giving full coincidence is
// returned instead of the whole slide range.
func slideOffsets(a, b shape.Door, matchFull bool) []geom.Point {
	horizA, fixedA, loA, hiA := doorRange(a)
	horizB, fixedB, loB, hiB := doorRange(b)
	if horizA != horizB {
		return nil
	}
	fixedDelta := fixedA - fixedB

	if matchFull {
		s := loA - loB
		return []geom.Point{assemble(horizA, fixedDelta, s)}
	}

	sMin := loA - hiB + 1
	sMax := hiA - loB - 1
	if sMin > sMax {
		return nil
	}
	out := make([]geom.Point, 0, sMax-sMin+1)
	for s := sMin; s <= sMax; s++ {
		out = append(out, assemble(horizA, fixedDelta, s))
	}
	return out
}

// doorRange decomposes a door line into its fixed boundary coordinate and
// the [lo, hi) range it spans along the free axis.
func doorRange(d shape.Door) (horizontal bool, fixed, lo, hi int) {
	horizontal = d.Line.Horizontal()
	if horizontal {
		fixed = d.Line.A.Y
		lo, hi = minMax(d.Line.A.X, d.Line.B.X)
		return
	}
	fixed = d.Line.A.X
	lo, hi = minMax(d.Line.A.Y, d.Line.B.Y)
	return
}

func minMax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}

// assemble builds the 2D offset from a horizontal/vertical door's fixed
// and free axis components: a horizontal door's fixed axis is Y (doors on
// the top/bottom edges), a vertical door's fixed axis is X.
func assemble(horizontal bool, fixedDelta, freeDelta int) geom.Point {
	if horizontal {
		return geom.Point{X: freeDelta, Y: fixedDelta}
	}
	return geom.Point{X: fixedDelta, Y: freeDelta}
}

func sortOffsets(offs []Offset) {
	sort.Slice(offs, func(i, j int) bool {
		if offs[i].Delta.X != offs[j].Delta.X {
			return offs[i].Delta.X < offs[j].Delta.X
		}
		if offs[i].Delta.Y != offs[j].Delta.Y {
			return offs[i].Delta.Y < offs[j].Delta.Y
		}
		return offs[i].DoorU < offs[j].DoorU
	})
}
