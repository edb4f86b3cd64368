package layout

import (
	"sort"

	"github.com/arcanumforge/layoutforge/pkg/geom"
	"github.com/arcanumforge/layoutforge/pkg/mapdesc"
)

// EnergyBlock is a node's per-constraint energy contributions plus
// whatever scratch data each constraint needs to update incrementally
// (e.g. overlap amount with each neighbor, corridor-validity flag). Total
// node energy is the sum of Contributions.
type EnergyBlock struct {
	Contributions map[string]float64
	Data          map[string]any
}

// NewEnergyBlock returns an empty EnergyBlock.
func NewEnergyBlock() EnergyBlock {
	return EnergyBlock{Contributions: map[string]float64{}, Data: map[string]any{}}
}

// Total returns the sum of every constraint's contribution.
func (e EnergyBlock) Total() float64 {
	var sum float64
	for _, v := range e.Contributions {
		sum += v
	}
	return sum
}

// Clone returns a deep copy of the energy block. Data values are copied
// by reference (constraints are expected to replace, not mutate, their
// stored data on Update), which is cheap since blocks are small.
func (e EnergyBlock) Clone() EnergyBlock {
	out := EnergyBlock{
		Contributions: make(map[string]float64, len(e.Contributions)),
		Data:          make(map[string]any, len(e.Data)),
	}
	for k, v := range e.Contributions {
		out.Contributions[k] = v
	}
	for k, v := range e.Data {
		out.Data[k] = v
	}
	return out
}

// Configuration is a node's current placement: the chosen shape variant,
// an integer 2D offset applied to the variant's canonical polygon, and
// its cached energy block. A configuration never stores a reference back
// to its layout; callers look it up by node index instead, which is what
// keeps cloning a layout a cheap, cycle-free operation.
type Configuration struct {
	ShapeID string
	Offset  geom.Point
	Energy  EnergyBlock
}

// Layout is a partial assignment from node index to Configuration, valid
// for every node in the current chain's closure. Nodes outside that
// closure are simply absent from Nodes.
type Layout struct {
	Graph *mapdesc.Graph
	Nodes map[int]Configuration
}

// New returns an empty layout over g.
func New(g *mapdesc.Graph) *Layout {
	return &Layout{Graph: g, Nodes: make(map[int]Configuration)}
}

// Placed reports whether node i currently has a configuration.
func (l *Layout) Placed(i int) bool {
	_, ok := l.Nodes[i]
	return ok
}

// Get returns node i's configuration.
func (l *Layout) Get(i int) (Configuration, bool) {
	c, ok := l.Nodes[i]
	return c, ok
}

// Set assigns node i's configuration.
func (l *Layout) Set(i int, cfg Configuration) {
	l.Nodes[i] = cfg
}

// Delete removes node i's configuration, used by the evolver's stage-2
// restart to unplace a chain's root before reseeding it.
func (l *Layout) Delete(i int) {
	delete(l.Nodes, i)
}

// PlacedNeighbors returns the already-placed neighbors of node i, sorted
// for deterministic iteration.
func (l *Layout) PlacedNeighbors(i int) []int {
	var out []int
	for _, n := range l.Graph.Neighbors(i) {
		if l.Placed(n) {
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}

// EnergyNeighbors returns every placed node whose energy depends on i's
// configuration: i's direct placed neighbors, plus, for each corridor
// neighbor of i, that corridor's other (placed) end. Corridor nodes are
// never themselves placed, so a move on one side of a corridor never
// reaches the other side through PlacedNeighbors alone.
func (l *Layout) EnergyNeighbors(i int) []int {
	set := map[int]bool{}
	for _, n := range l.Graph.Neighbors(i) {
		if l.Placed(n) {
			set[n] = true
			continue
		}
		if l.Graph.Nodes[n].IsCorridor {
			for _, m := range l.Graph.Neighbors(n) {
				if m != i && l.Placed(m) {
					set[m] = true
				}
			}
		}
	}
	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// TotalEnergy sums every placed node's energy.
func (l *Layout) TotalEnergy() float64 {
	var sum float64
	for _, cfg := range l.Nodes {
		sum += cfg.Energy.Total()
	}
	return sum
}

// IsValid reports whether every placed node's energy is exactly zero.
func (l *Layout) IsValid() bool {
	for _, cfg := range l.Nodes {
		if cfg.Energy.Total() != 0 {
			return false
		}
	}
	return true
}

// Clone returns a copy-on-write clone: a new Layout with a freshly
// allocated Nodes map holding copies of every Configuration (and its
// EnergyBlock). Mutating the clone never affects the original.
func (l *Layout) Clone() *Layout {
	out := &Layout{Graph: l.Graph, Nodes: make(map[int]Configuration, len(l.Nodes))}
	for i, cfg := range l.Nodes {
		out.Nodes[i] = Configuration{ShapeID: cfg.ShapeID, Offset: cfg.Offset, Energy: cfg.Energy.Clone()}
	}
	return out
}

// PlacedIndices returns every placed node index, sorted.
func (l *Layout) PlacedIndices() []int {
	out := make([]int, 0, len(l.Nodes))
	for i := range l.Nodes {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
