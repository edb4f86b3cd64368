package anneal_test

import (
	"testing"
	"time"

	"github.com/arcanumforge/layoutforge/pkg/anneal"
	"github.com/arcanumforge/layoutforge/pkg/chain"
	"github.com/arcanumforge/layoutforge/pkg/configspace"
	"github.com/arcanumforge/layoutforge/pkg/energy"
	"github.com/arcanumforge/layoutforge/pkg/genconfig"
	"github.com/arcanumforge/layoutforge/pkg/geom"
	"github.com/arcanumforge/layoutforge/pkg/layout"
	"github.com/arcanumforge/layoutforge/pkg/mapdesc"
	"github.com/arcanumforge/layoutforge/pkg/perturb"
	"github.com/arcanumforge/layoutforge/pkg/rng"
	"github.com/arcanumforge/layoutforge/pkg/shape"
)

func TestCancelTokenCancel(t *testing.T) {
	var tok anneal.CancelToken
	if tok.Cancelled() {
		t.Fatal("fresh CancelToken reports Cancelled() = true")
	}
	tok.Cancel()
	if !tok.Cancelled() {
		t.Fatal("Cancelled() = false after Cancel(), want true")
	}
}

func TestBudgetTickHonorsExternalCancel(t *testing.T) {
	var tok anneal.CancelToken
	b := anneal.NewBudget(&tok, nil, nil)
	if b.Tick() {
		t.Fatal("Tick() = true before any cancellation, want false")
	}
	tok.Cancel()
	if !b.Tick() {
		t.Fatal("Tick() = false after manual cancel, want true")
	}
}

func TestBudgetTickFiresOnMaxIterations(t *testing.T) {
	var tok anneal.CancelToken
	max := 3
	b := anneal.NewBudget(&tok, &max, nil)
	for i := 0; i < max-1; i++ {
		if b.Tick() {
			t.Fatalf("Tick() fired early at iteration %d", i)
		}
	}
	if !b.Tick() {
		t.Fatal("Tick() did not fire once MaxIterations was reached")
	}
	if !tok.Cancelled() {
		t.Fatal("exceeding MaxIterations did not set the shared CancelToken")
	}
}

func TestBudgetTickFiresOnWallTime(t *testing.T) {
	var tok anneal.CancelToken
	d := time.Nanosecond
	b := anneal.NewBudget(&tok, nil, &d)
	for i := 0; i < 100; i++ {
		b.Tick()
	}
	if !tok.Cancelled() {
		t.Fatal("exceeding MaxWallTime did not set the shared CancelToken")
	}
}

func rectVariant(id string, w, h int, doors ...shape.Door) shape.Variant {
	return shape.Variant{
		ID:      id,
		Polygon: geom.Polygon{Outer: geom.Rect{Min: geom.Point{}, Max: geom.Point{X: w, Y: h}}},
		Doors:   doors,
	}
}

func eastDoor() shape.Door {
	return shape.Door{Line: geom.Segment{A: geom.Point{X: 4, Y: 0}, B: geom.Point{X: 4, Y: 4}}, Orientation: shape.East}
}

func westDoor() shape.Door {
	return shape.Door{Line: geom.Segment{A: geom.Point{X: 0, Y: 0}, B: geom.Point{X: 0, Y: 4}}, Orientation: shape.West}
}

func buildController(t *testing.T, g *mapdesc.Graph, variants []shape.Variant) *perturb.Controller {
	t.Helper()
	space, err := configspace.Generate(variants, shape.DefaultHandler{}, geom.DefaultOverlapTester{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	ctx := &energy.Context{Graph: g, Space: space, Overlap: geom.DefaultOverlapTester{}}
	eval := energy.NewEvaluator(ctx, energy.OverlapConstraint{})
	return &perturb.Controller{
		Graph:      g,
		Space:      space,
		Evaluator:  eval,
		RNG:        rng.NewRNG(7, "test_seed", []byte("cfg")),
		RoomShapes: &perturb.RoomShapesHandler{Graph: g},
	}
}

func TestSeedChainSkipsCorridorNodes(t *testing.T) {
	variants := []shape.Variant{rectVariant("r", 4, 4, eastDoor(), westDoor())}
	lvl := mapdesc.LevelDescription{
		Nodes: []mapdesc.NodeDescription{
			{ID: "a", Shapes: variants},
			{ID: "c", IsCorridor: true, Shapes: []shape.Variant{rectVariant("corr", 2, 4)}},
			{ID: "b", Shapes: variants},
		},
		Edges: []mapdesc.Edge{{From: "a", To: "c"}, {From: "c", To: "b"}},
	}
	g, err := mapdesc.Canonicalize(lvl)
	if err != nil {
		t.Fatalf("Canonicalize() error = %v", err)
	}
	c := buildController(t, g, variants)
	r := rng.NewRNG(3, "seed_test", []byte("cfg"))
	ch := chain.Chain{Nodes: []int{0, 1, 2}}

	out, err := anneal.SeedChain(layout.New(g), c, c.RoomShapes, r, ch)
	if err != nil {
		t.Fatalf("SeedChain() error = %v", err)
	}
	if !out.Placed(0) || !out.Placed(2) {
		t.Fatal("SeedChain() left a non-corridor node unplaced")
	}
	if out.Placed(1) {
		t.Fatal("SeedChain() placed a corridor node, want it left unplaced")
	}
}

func TestEvolveCancelledReturnsImmediately(t *testing.T) {
	variants := []shape.Variant{rectVariant("r", 4, 4, eastDoor(), westDoor())}
	g := mapdescTwoRoomGraph(t, variants)
	c := buildController(t, g, variants)
	r := rng.NewRNG(11, "evolve_test", []byte("cfg"))
	ch := chain.Chain{Nodes: []int{0, 1}}

	seeded, err := anneal.SeedChain(layout.New(g), c, c.RoomShapes, r, ch)
	if err != nil {
		t.Fatalf("SeedChain() error = %v", err)
	}

	var tok anneal.CancelToken
	tok.Cancel()
	budget := anneal.NewBudget(&tok, nil, nil)

	evolver := &anneal.Evolver{Controller: c, RNG: r, Config: genconfig.DefaultSimulatedAnnealingConfig()}
	res, err := evolver.Evolve(seeded, ch, budget)
	if err != nil {
		t.Fatalf("Evolve() error = %v", err)
	}
	if !res.Cancelled {
		t.Fatal("Evolve() with a pre-cancelled token returned Cancelled=false")
	}
	if res.Layout != seeded {
		t.Fatal("Evolve() with a pre-cancelled token should return the seeded layout unchanged")
	}
}

func mapdescTwoRoomGraph(t *testing.T, shapes []shape.Variant) *mapdesc.Graph {
	t.Helper()
	lvl := mapdesc.LevelDescription{
		Nodes: []mapdesc.NodeDescription{
			{ID: "a", Shapes: shapes},
			{ID: "b", Shapes: shapes},
		},
		Edges: []mapdesc.Edge{{From: "a", To: "b"}},
	}
	g, err := mapdesc.Canonicalize(lvl)
	if err != nil {
		t.Fatalf("Canonicalize() error = %v", err)
	}
	return g
}
