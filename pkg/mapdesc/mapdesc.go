package mapdesc

import (
	"fmt"
	"sort"

	"github.com/arcanumforge/layoutforge/pkg/shape"
)

// RepeatMode governs whether a node's placed shape variant may be reused
// by other nodes in the same generation.
type RepeatMode int

const (
	// RepeatAllowAnywhere permits the same shape alias on any two nodes.
	RepeatAllowAnywhere RepeatMode = iota
	// RepeatForbidNeighbors forbids the same alias on adjacent nodes only.
	RepeatForbidNeighbors
	// RepeatForbidGlobal forbids the same alias anywhere in the layout.
	RepeatForbidGlobal
)

// EdgeKind distinguishes room-room adjacency from room-corridor-room
// adjacency.
type EdgeKind int

const (
	RoomRoom EdgeKind = iota
	RoomCorridor
)

// NodeDescription is a caller-supplied node's metadata: its allowed shape
// variants, whether it is a corridor, and its repeat-mode policy.
type NodeDescription struct {
	ID         string
	Shapes     []shape.Variant
	IsCorridor bool
	RepeatMode RepeatMode
}

// Edge connects two nodes by their original identifiers.
type Edge struct {
	From, To string
	Kind     EdgeKind
}

// LevelDescription is the caller's raw input: nodes keyed by arbitrary
// identifier, edges between them, and the minimum room distance applied by
// the minimum-distance constraint.
type LevelDescription struct {
	Nodes              []NodeDescription
	Edges              []Edge
	MinimumRoomDistance int
}

// Graph is the canonicalized, dense-integer-indexed view of a
// LevelDescription: unweighted, undirected, no self-loops. Corridor nodes
// always have exactly two neighbors.
type Graph struct {
	Nodes     []NodeDescription // indexed 0..N-1
	Adjacency [][]int           // Adjacency[i] = sorted neighbor indices of node i
	EdgeKinds map[[2]int]EdgeKind
	index     map[string]int
	MinimumRoomDistance int
}

// NodeCount returns the number of nodes in the canonical graph.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// IndexOf returns the dense index for an original node identifier.
func (g *Graph) IndexOf(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// Neighbors returns the sorted neighbor indices of node i.
func (g *Graph) Neighbors(i int) []int { return g.Adjacency[i] }

// AreNeighbors reports whether i and j are adjacent.
func (g *Graph) AreNeighbors(i, j int) bool {
	for _, n := range g.Adjacency[i] {
		if n == j {
			return true
		}
	}
	return false
}

// EdgeKindOf returns the kind of the edge between i and j, assuming they
// are adjacent.
func (g *Graph) EdgeKindOf(i, j int) EdgeKind {
	k := edgeKey(i, j)
	return g.EdgeKinds[k]
}

func edgeKey(i, j int) [2]int {
	if i < j {
		return [2]int{i, j}
	}
	return [2]int{j, i}
}

// Canonicalize builds a Graph from a LevelDescription, assigning dense
// indices in the order nodes appear, and validates the structural
// invariants spec.md requires of the input graph: no self-loops,
// connected, and corridor nodes of degree exactly 2.
func Canonicalize(lvl LevelDescription) (*Graph, error) {
	g := &Graph{
		index:     make(map[string]int, len(lvl.Nodes)),
		EdgeKinds: make(map[[2]int]EdgeKind, len(lvl.Edges)),
		MinimumRoomDistance: lvl.MinimumRoomDistance,
	}
	for i, n := range lvl.Nodes {
		if _, dup := g.index[n.ID]; dup {
			return nil, fmt.Errorf("mapdesc: duplicate node id %q", n.ID)
		}
		g.index[n.ID] = i
		g.Nodes = append(g.Nodes, n)
	}
	g.Adjacency = make([][]int, len(g.Nodes))

	for _, e := range lvl.Edges {
		fi, ok := g.index[e.From]
		if !ok {
			return nil, fmt.Errorf("mapdesc: edge references unknown node %q", e.From)
		}
		ti, ok := g.index[e.To]
		if !ok {
			return nil, fmt.Errorf("mapdesc: edge references unknown node %q", e.To)
		}
		if fi == ti {
			return nil, fmt.Errorf("mapdesc: self-loop on node %q", e.From)
		}
		g.Adjacency[fi] = append(g.Adjacency[fi], ti)
		g.Adjacency[ti] = append(g.Adjacency[ti], fi)
		g.EdgeKinds[edgeKey(fi, ti)] = e.Kind
	}
	for i := range g.Adjacency {
		sort.Ints(g.Adjacency[i])
	}

	if err := g.validateCorridorDegree(); err != nil {
		return nil, err
	}
	if err := g.validateConnected(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Graph) validateCorridorDegree() error {
	for i, n := range g.Nodes {
		if n.IsCorridor && len(g.Adjacency[i]) != 2 {
			return fmt.Errorf("mapdesc: corridor node %q has degree %d, want 2", n.ID, len(g.Adjacency[i]))
		}
	}
	return nil
}

func (g *Graph) validateConnected() error {
	if len(g.Nodes) == 0 {
		return nil
	}
	visited := make([]bool, len(g.Nodes))
	stack := []int{0}
	visited[0] = true
	count := 1
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, nb := range g.Adjacency[cur] {
			if !visited[nb] {
				visited[nb] = true
				count++
				stack = append(stack, nb)
			}
		}
	}
	if count != len(g.Nodes) {
		return fmt.Errorf("mapdesc: graph is disconnected (%d of %d nodes reachable from node 0)", count, len(g.Nodes))
	}
	return nil
}
