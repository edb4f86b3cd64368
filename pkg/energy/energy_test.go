package energy_test

import (
	"testing"

	"github.com/arcanumforge/layoutforge/pkg/configspace"
	"github.com/arcanumforge/layoutforge/pkg/energy"
	"github.com/arcanumforge/layoutforge/pkg/geom"
	"github.com/arcanumforge/layoutforge/pkg/layout"
	"github.com/arcanumforge/layoutforge/pkg/mapdesc"
	"github.com/arcanumforge/layoutforge/pkg/shape"
)

func rectVariant(id string, w, h int, doors ...shape.Door) shape.Variant {
	return shape.Variant{
		ID:      id,
		Polygon: geom.Polygon{Outer: geom.Rect{Min: geom.Point{}, Max: geom.Point{X: w, Y: h}}},
		Doors:   doors,
	}
}

func twoRoomGraph(t *testing.T) *mapdesc.Graph {
	t.Helper()
	lvl := mapdesc.LevelDescription{
		Nodes: []mapdesc.NodeDescription{{ID: "a"}, {ID: "b"}},
		Edges: []mapdesc.Edge{{From: "a", To: "b"}},
	}
	g, err := mapdesc.Canonicalize(lvl)
	if err != nil {
		t.Fatalf("Canonicalize() error = %v", err)
	}
	return g
}

func TestOverlapConstraintZeroWhenDisjoint(t *testing.T) {
	g := twoRoomGraph(t)
	a := rectVariant("a", 4, 4)
	b := rectVariant("b", 4, 4)
	space, err := configspace.Generate([]shape.Variant{a, b}, shape.DefaultHandler{}, geom.DefaultOverlapTester{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	ctx := &energy.Context{Graph: g, Space: space, Overlap: geom.DefaultOverlapTester{}}

	l := layout.New(g)
	l.Set(0, layout.Configuration{ShapeID: "a", Offset: geom.Point{}})

	eval := energy.NewEvaluator(ctx, energy.OverlapConstraint{})
	block := eval.ComputeNode(l, 1, layout.Configuration{ShapeID: "b", Offset: geom.Point{X: 20, Y: 20}})
	if block.Total() != 0 {
		t.Fatalf("Total() = %v for disjoint rooms, want 0", block.Total())
	}
}

func TestOverlapConstraintChargesOverlappingNeighbors(t *testing.T) {
	g := twoRoomGraph(t)
	a := rectVariant("a", 4, 4)
	b := rectVariant("b", 4, 4)
	space, err := configspace.Generate([]shape.Variant{a, b}, shape.DefaultHandler{}, geom.DefaultOverlapTester{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	ctx := &energy.Context{Graph: g, Space: space, Overlap: geom.DefaultOverlapTester{}}

	l := layout.New(g)
	l.Set(0, layout.Configuration{ShapeID: "a", Offset: geom.Point{}})

	eval := energy.NewEvaluator(ctx, energy.OverlapConstraint{})
	block := eval.ComputeNode(l, 1, layout.Configuration{ShapeID: "b", Offset: geom.Point{X: 2, Y: 2}})
	if block.Total() <= 0 {
		t.Fatalf("Total() = %v for overlapping neighbors, want > 0", block.Total())
	}
}

func TestOverlapConstraintNonNeighborPenalty(t *testing.T) {
	lvl := mapdesc.LevelDescription{
		Nodes: []mapdesc.NodeDescription{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []mapdesc.Edge{{From: "a", To: "b"}, {From: "b", To: "c"}},
	}
	g, err := mapdesc.Canonicalize(lvl)
	if err != nil {
		t.Fatalf("Canonicalize() error = %v", err)
	}
	variant := rectVariant("r", 4, 4)
	space, err := configspace.Generate([]shape.Variant{variant}, shape.DefaultHandler{}, geom.DefaultOverlapTester{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	ctx := &energy.Context{Graph: g, Space: space, Overlap: geom.DefaultOverlapTester{}}

	l := layout.New(g)
	l.Set(0, layout.Configuration{ShapeID: "r", Offset: geom.Point{}}) // a, not adjacent to c

	eval := energy.NewEvaluator(ctx, energy.OverlapConstraint{})
	block := eval.ComputeNode(l, 2, layout.Configuration{ShapeID: "r", Offset: geom.Point{}}) // c overlapping a
	if block.Total() <= 0 {
		t.Fatalf("Total() = %v for overlapping non-neighbor rooms, want > 0 penalty", block.Total())
	}
}

func TestMinDistanceConstraintDisabledAtZero(t *testing.T) {
	lvl := mapdesc.LevelDescription{
		Nodes: []mapdesc.NodeDescription{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []mapdesc.Edge{{From: "a", To: "b"}, {From: "b", To: "c"}},
	}
	g, err := mapdesc.Canonicalize(lvl)
	if err != nil {
		t.Fatalf("Canonicalize() error = %v", err)
	}
	variant := rectVariant("r", 2, 2)
	space, err := configspace.Generate([]shape.Variant{variant}, shape.DefaultHandler{}, geom.DefaultOverlapTester{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	ctx := &energy.Context{Graph: g, Space: space, Overlap: geom.DefaultOverlapTester{}, MinimumRoomDistance: 0}

	l := layout.New(g)
	l.Set(0, layout.Configuration{ShapeID: "r", Offset: geom.Point{}})

	eval := energy.NewEvaluator(ctx, energy.MinDistanceConstraint{})
	block := eval.ComputeNode(l, 2, layout.Configuration{ShapeID: "r", Offset: geom.Point{X: 2, Y: 0}})
	if block.Total() != 0 {
		t.Fatalf("Total() = %v with MinimumRoomDistance=0, want 0", block.Total())
	}
}

func TestMinDistanceConstraintChargesCloseNonNeighbors(t *testing.T) {
	lvl := mapdesc.LevelDescription{
		Nodes: []mapdesc.NodeDescription{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []mapdesc.Edge{{From: "a", To: "b"}, {From: "b", To: "c"}},
	}
	g, err := mapdesc.Canonicalize(lvl)
	if err != nil {
		t.Fatalf("Canonicalize() error = %v", err)
	}
	variant := rectVariant("r", 2, 2)
	space, err := configspace.Generate([]shape.Variant{variant}, shape.DefaultHandler{}, geom.DefaultOverlapTester{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	ctx := &energy.Context{Graph: g, Space: space, Overlap: geom.DefaultOverlapTester{}, MinimumRoomDistance: 10}

	l := layout.New(g)
	l.Set(0, layout.Configuration{ShapeID: "r", Offset: geom.Point{}})

	eval := energy.NewEvaluator(ctx, energy.MinDistanceConstraint{})
	block := eval.ComputeNode(l, 2, layout.Configuration{ShapeID: "r", Offset: geom.Point{X: 2, Y: 0}})
	if block.Total() <= 0 {
		t.Fatalf("Total() = %v for rooms closer than minimum distance, want > 0", block.Total())
	}
}

func corridorTestGraphAndSpace(t *testing.T) (*mapdesc.Graph, *configspace.Space) {
	t.Helper()
	room := rectVariant("room", 4, 4,
		shape.Door{Line: geom.Segment{A: geom.Point{X: 4, Y: 0}, B: geom.Point{X: 4, Y: 4}}, Orientation: shape.East},
		shape.Door{Line: geom.Segment{A: geom.Point{X: 0, Y: 0}, B: geom.Point{X: 0, Y: 4}}, Orientation: shape.West},
	)
	corr := rectVariant("corr", 2, 4,
		shape.Door{Line: geom.Segment{A: geom.Point{X: 0, Y: 0}, B: geom.Point{X: 0, Y: 4}}, Orientation: shape.West, IsCorridorDoor: true},
		shape.Door{Line: geom.Segment{A: geom.Point{X: 2, Y: 0}, B: geom.Point{X: 2, Y: 4}}, Orientation: shape.East, IsCorridorDoor: true},
	)

	lvl := mapdesc.LevelDescription{
		Nodes: []mapdesc.NodeDescription{
			{ID: "a", Shapes: []shape.Variant{room}},
			{ID: "c", IsCorridor: true, Shapes: []shape.Variant{corr}},
			{ID: "b", Shapes: []shape.Variant{room}},
		},
		Edges: []mapdesc.Edge{{From: "a", To: "c"}, {From: "c", To: "b"}},
	}
	g, err := mapdesc.Canonicalize(lvl)
	if err != nil {
		t.Fatalf("Canonicalize() error = %v", err)
	}

	space, err := configspace.Generate([]shape.Variant{room, corr}, shape.DefaultHandler{}, geom.DefaultOverlapTester{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return g, space
}

func TestCorridorConstraintFeasibleWhenReachable(t *testing.T) {
	g, space := corridorTestGraphAndSpace(t)
	ctx := &energy.Context{Graph: g, Space: space, Overlap: geom.DefaultOverlapTester{}}

	l := layout.New(g)
	l.Set(0, layout.Configuration{ShapeID: "room", Offset: geom.Point{}})
	l.Set(2, layout.Configuration{ShapeID: "room", Offset: geom.Point{X: 6, Y: 0}})

	cc := energy.CorridorConstraint{}
	contribution, _ := cc.Compute(ctx, l, 0, layout.Configuration{ShapeID: "room", Offset: geom.Point{}})
	if contribution != 0 {
		t.Fatalf("Compute() contribution = %v for a reachable corridor gap, want 0", contribution)
	}
}

func TestEnergyScaleTracksAverageVariantSize(t *testing.T) {
	small := rectVariant("small", 2, 2)
	large := rectVariant("large", 40, 40)

	smallSpace, err := configspace.Generate([]shape.Variant{small}, shape.DefaultHandler{}, geom.DefaultOverlapTester{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	largeSpace, err := configspace.Generate([]shape.Variant{large}, shape.DefaultHandler{}, geom.DefaultOverlapTester{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	smallCtx := &energy.Context{Space: smallSpace}
	largeCtx := &energy.Context{Space: largeSpace}

	if smallCtx.EnergyScale() != smallSpace.GetAverageSize() {
		t.Fatalf("EnergyScale() = %v, want GetAverageSize() = %v", smallCtx.EnergyScale(), smallSpace.GetAverageSize())
	}
	if largeCtx.EnergyScale() <= smallCtx.EnergyScale() {
		t.Fatalf("EnergyScale() for a pool of large rooms (%v) did not exceed a pool of small rooms (%v)", largeCtx.EnergyScale(), smallCtx.EnergyScale())
	}
}

func TestEnergyScaleFallsBackWithoutSpace(t *testing.T) {
	ctx := &energy.Context{}
	if ctx.EnergyScale() <= 0 {
		t.Fatalf("EnergyScale() with no Space = %v, want a positive fallback", ctx.EnergyScale())
	}
}

func TestCorridorConstraintChargesUnreachableGap(t *testing.T) {
	g, space := corridorTestGraphAndSpace(t)
	ctx := &energy.Context{Graph: g, Space: space, Overlap: geom.DefaultOverlapTester{}}

	l := layout.New(g)
	l.Set(0, layout.Configuration{ShapeID: "room", Offset: geom.Point{}})
	l.Set(2, layout.Configuration{ShapeID: "room", Offset: geom.Point{X: 10, Y: 0}})

	cc := energy.CorridorConstraint{}
	contribution, _ := cc.Compute(ctx, l, 0, layout.Configuration{ShapeID: "room", Offset: geom.Point{}})
	if contribution <= 0 {
		t.Fatalf("Compute() contribution = %v for an unreachable corridor gap, want > 0", contribution)
	}
}
