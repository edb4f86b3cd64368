package layout_test

import (
	"testing"

	"github.com/arcanumforge/layoutforge/pkg/geom"
	"github.com/arcanumforge/layoutforge/pkg/layout"
	"github.com/arcanumforge/layoutforge/pkg/mapdesc"
)

func chainGraph(t *testing.T) *mapdesc.Graph {
	t.Helper()
	lvl := mapdesc.LevelDescription{
		Nodes: []mapdesc.NodeDescription{
			{ID: "a"}, {ID: "c", IsCorridor: true}, {ID: "b"},
		},
		Edges: []mapdesc.Edge{{From: "a", To: "c"}, {From: "c", To: "b"}},
	}
	g, err := mapdesc.Canonicalize(lvl)
	if err != nil {
		t.Fatalf("Canonicalize() error = %v", err)
	}
	return g
}

func TestLayoutSetGetPlaced(t *testing.T) {
	g := chainGraph(t)
	l := layout.New(g)
	if l.Placed(0) {
		t.Fatal("new layout should have no placed nodes")
	}
	l.Set(0, layout.Configuration{ShapeID: "s1", Offset: geom.Point{X: 1, Y: 2}})
	if !l.Placed(0) {
		t.Fatal("Placed(0) = false after Set, want true")
	}
	cfg, ok := l.Get(0)
	if !ok || cfg.ShapeID != "s1" {
		t.Fatalf("Get(0) = %+v,%v, want shape s1,true", cfg, ok)
	}
}

func TestLayoutCloneIsIndependent(t *testing.T) {
	g := chainGraph(t)
	l := layout.New(g)
	l.Set(0, layout.Configuration{ShapeID: "s1"})
	clone := l.Clone()
	clone.Set(0, layout.Configuration{ShapeID: "s2"})
	orig, _ := l.Get(0)
	if orig.ShapeID != "s1" {
		t.Fatalf("mutating clone affected original: %+v", orig)
	}
	clone.Delete(2)
	if !l.Placed(0) {
		t.Fatal("original layout corrupted by clone mutation")
	}
}

func TestEnergyNeighborsCrossesCorridor(t *testing.T) {
	g := chainGraph(t) // a(0) - c(1, corridor) - b(2)
	l := layout.New(g)
	l.Set(0, layout.Configuration{ShapeID: "sa"})
	l.Set(2, layout.Configuration{ShapeID: "sb"})
	// corridor node 1 is never placed.

	got := l.EnergyNeighbors(0)
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("EnergyNeighbors(0) = %v, want [2]", got)
	}
	got2 := l.EnergyNeighbors(2)
	if len(got2) != 1 || got2[0] != 0 {
		t.Fatalf("EnergyNeighbors(2) = %v, want [0]", got2)
	}
}

func TestPlacedNeighborsExcludesCorridor(t *testing.T) {
	g := chainGraph(t)
	l := layout.New(g)
	l.Set(0, layout.Configuration{ShapeID: "sa"})
	l.Set(2, layout.Configuration{ShapeID: "sb"})
	if got := l.PlacedNeighbors(0); len(got) != 0 {
		t.Fatalf("PlacedNeighbors(0) = %v, want empty (corridor neighbor unplaced)", got)
	}
}

func TestIsValidRequiresZeroEnergy(t *testing.T) {
	g := chainGraph(t)
	l := layout.New(g)
	block := layout.NewEnergyBlock()
	block.Contributions["overlap"] = 0
	l.Set(0, layout.Configuration{ShapeID: "sa", Energy: block})
	if !l.IsValid() {
		t.Fatal("IsValid() = false for zero-energy layout, want true")
	}

	bad := layout.NewEnergyBlock()
	bad.Contributions["overlap"] = 4
	l.Set(2, layout.Configuration{ShapeID: "sb", Energy: bad})
	if l.IsValid() {
		t.Fatal("IsValid() = true for nonzero-energy layout, want false")
	}
	if l.TotalEnergy() != 4 {
		t.Fatalf("TotalEnergy() = %v, want 4", l.TotalEnergy())
	}
}

func TestPlacedIndicesSorted(t *testing.T) {
	g := chainGraph(t)
	l := layout.New(g)
	l.Set(2, layout.Configuration{ShapeID: "sb"})
	l.Set(0, layout.Configuration{ShapeID: "sa"})
	got := l.PlacedIndices()
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("PlacedIndices() = %v, want [0 2]", got)
	}
}
