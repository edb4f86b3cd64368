package chain

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/katalvlaran/lvlath/bfs"
	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dfs"

	"github.com/arcanumforge/layoutforge/pkg/genconfig"
	"github.com/arcanumforge/layoutforge/pkg/mapdesc"
)

// Chain is an ordered list of node indices placed as a unit by the
// evolver, a sequence number, and whether it was created from a graph
// face (cycle) — relevant to greedy-tree handling.
type Chain struct {
	Seq        int
	Nodes      []int
	IsFromFace bool
}

type edgeKey [2]int

func mkEdgeKey(a, b int) edgeKey {
	if a < b {
		return edgeKey{a, b}
	}
	return edgeKey{b, a}
}

// Decompose partitions g into an ordered list of chains. Every node
// appears in at least one chain; a tree chain that grows out of earlier
// chains repeats the shared node as its first element. Every edge appears
// in exactly one chain; chain k > 0 shares at least one node with the
// union of chains 0..k-1.
func Decompose(g *mapdesc.Graph, cfg genconfig.ChainDecompositionConfig) ([]Chain, error) {
	if g.NodeCount() == 0 {
		return nil, nil
	}

	lg := toLvlathGraph(g)

	used := map[edgeKey]bool{}
	covered := map[int]bool{}

	faceChains, err := extractFaces(lg, g, used)
	if err != nil {
		return nil, fmt.Errorf("chain: face extraction: %w", err)
	}
	for _, fc := range faceChains {
		for _, n := range fc.Nodes {
			covered[n] = true
		}
	}

	treeChains, err := extendTrees(g, cfg, used, covered)
	if err != nil {
		return nil, fmt.Errorf("chain: tree extension: %w", err)
	}

	chains := append(faceChains, treeChains...)
	for i := range chains {
		chains[i].Seq = i
	}

	if err := validateCover(g, chains); err != nil {
		return nil, err
	}
	return chains, nil
}

func toLvlathGraph(g *mapdesc.Graph) *core.Graph {
	lg := core.NewGraph()
	for i := range g.Nodes {
		_ = lg.AddVertex(strconv.Itoa(i))
	}
	seen := map[edgeKey]bool{}
	for i := range g.Nodes {
		for _, j := range g.Neighbors(i) {
			k := mkEdgeKey(i, j)
			if seen[k] {
				continue
			}
			seen[k] = true
			_, _ = lg.AddEdge(strconv.Itoa(i), strconv.Itoa(j), 0)
		}
	}
	return lg
}

// extractFaces repeatedly selects the shortest remaining simple cycle
// that still has at least one unused edge, marks every edge of that cycle
// used, and emits it as a face chain. Chains are ordered size ascending,
// then by the smallest node index in the cycle.
func extractFaces(lg *core.Graph, g *mapdesc.Graph, used map[edgeKey]bool) ([]Chain, error) {
	found, rawCycles, err := dfs.DetectCycles(lg)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	cycles := make([][]int, 0, len(rawCycles))
	for _, rc := range rawCycles {
		nodes, err := parseCycle(rc)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, nodes)
	}

	var faces []Chain
	for {
		bestIdx := -1
		var bestEdges []edgeKey
		for i, c := range cycles {
			if c == nil {
				continue
			}
			edges := cycleEdges(c)
			if allUsed(edges, used) {
				continue
			}
			if bestIdx == -1 || better(c, cycles[bestIdx]) {
				bestIdx = i
				bestEdges = edges
			}
		}
		if bestIdx == -1 {
			break
		}
		for _, e := range bestEdges {
			used[e] = true
		}
		faces = append(faces, Chain{Nodes: append([]int(nil), cycles[bestIdx]...), IsFromFace: true})
		cycles[bestIdx] = nil
	}

	sort.SliceStable(faces, func(i, j int) bool {
		if len(faces[i].Nodes) != len(faces[j].Nodes) {
			return len(faces[i].Nodes) < len(faces[j].Nodes)
		}
		return minNode(faces[i].Nodes) < minNode(faces[j].Nodes)
	})
	return faces, nil
}

func parseCycle(rc []string) ([]int, error) {
	// rc is a closed loop [v0, v1, ..., v0]; drop the duplicated closing
	// vertex to get the chain's node set.
	if len(rc) < 2 {
		return nil, fmt.Errorf("chain: degenerate cycle %v", rc)
	}
	body := rc[:len(rc)-1]
	nodes := make([]int, 0, len(body))
	for _, s := range body {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("chain: non-integer node id %q: %w", s, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func cycleEdges(nodes []int) []edgeKey {
	edges := make([]edgeKey, len(nodes))
	for i := range nodes {
		a := nodes[i]
		b := nodes[(i+1)%len(nodes)]
		edges[i] = mkEdgeKey(a, b)
	}
	return edges
}

func allUsed(edges []edgeKey, used map[edgeKey]bool) bool {
	for _, e := range edges {
		if !used[e] {
			return false
		}
	}
	return true
}

func better(a, b []int) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return minNode(a) < minNode(b)
}

func minNode(nodes []int) int {
	m := nodes[0]
	for _, n := range nodes[1:] {
		if n < m {
			m = n
		}
	}
	return m
}

// extendTrees partitions the residual graph (edges not marked used) into
// connected components and decomposes each by breadth-first traversal
// from a root shared with an earlier chain (or, for the very first chain
// overall, the component's smallest node).
func extendTrees(g *mapdesc.Graph, cfg genconfig.ChainDecompositionConfig, used map[edgeKey]bool, covered map[int]bool) ([]Chain, error) {
	residual := make([][]int, g.NodeCount())
	for i := range g.Nodes {
		for _, j := range g.Neighbors(i) {
			if !used[mkEdgeKey(i, j)] {
				residual[i] = append(residual[i], j)
			}
		}
	}

	componentOf := make([]int, g.NodeCount())
	for i := range componentOf {
		componentOf[i] = -1
	}
	var components [][]int
	for i := range g.Nodes {
		if componentOf[i] != -1 || len(residual[i]) == 0 {
			continue
		}
		comp := floodFill(i, residual, componentOf, len(components))
		components = append(components, comp)
	}
	sort.Slice(components, func(i, j int) bool { return minNode(components[i]) < minNode(components[j]) })

	var chains []Chain
	for _, comp := range components {
		root := pickRoot(comp, covered)
		lg := residualLvlathGraph(comp, residual)
		res, err := bfs.BFS(lg, strconv.Itoa(root))
		if err != nil {
			return nil, err
		}
		children := childrenOf(res.Parent)
		d := &treeDecomposer{cfg: cfg}
		d.emit(root, children)
		for _, c := range d.chains {
			chains = append(chains, c)
			for _, n := range c.Nodes {
				covered[n] = true
			}
			nodesUsed := c.Nodes
			for k := 0; k < len(nodesUsed)-1; k++ {
				used[mkEdgeKey(nodesUsed[k], nodesUsed[k+1])] = true
			}
		}
	}
	return chains, nil
}

func floodFill(start int, residual [][]int, componentOf []int, compID int) []int {
	var comp []int
	stack := []int{start}
	componentOf[start] = compID
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		comp = append(comp, cur)
		for _, nb := range residual[cur] {
			if componentOf[nb] == -1 {
				componentOf[nb] = compID
				stack = append(stack, nb)
			}
		}
	}
	sort.Ints(comp)
	return comp
}

func pickRoot(comp []int, covered map[int]bool) int {
	best := -1
	for _, n := range comp {
		if covered[n] {
			if best == -1 || n < best {
				best = n
			}
		}
	}
	if best != -1 {
		return best
	}
	return minNode(comp)
}

func residualLvlathGraph(comp []int, residual [][]int) *core.Graph {
	lg := core.NewGraph()
	in := make(map[int]bool, len(comp))
	for _, n := range comp {
		in[n] = true
		_ = lg.AddVertex(strconv.Itoa(n))
	}
	seen := map[edgeKey]bool{}
	for _, n := range comp {
		for _, nb := range residual[n] {
			if !in[nb] {
				continue
			}
			k := mkEdgeKey(n, nb)
			if seen[k] {
				continue
			}
			seen[k] = true
			_, _ = lg.AddEdge(strconv.Itoa(n), strconv.Itoa(nb), 0)
		}
	}
	return lg
}

func childrenOf(parent map[string]string) map[int][]int {
	children := map[int][]int{}
	for childStr, parentStr := range parent {
		c, _ := strconv.Atoi(childStr)
		p, _ := strconv.Atoi(parentStr)
		children[p] = append(children[p], c)
	}
	for p := range children {
		sort.Ints(children[p])
	}
	return children
}

// treeDecomposer walks a BFS tree and cuts it into chains, starting a new
// chain whenever the traversal frontier reaches a branch (a node with
// more than one child) or a preset chain size.
type treeDecomposer struct {
	cfg    genconfig.ChainDecompositionConfig
	chains []Chain
}

func (d *treeDecomposer) emit(start int, children map[int][]int) {
	d.walk(-1, start, children)
}

func (d *treeDecomposer) walk(boundary, node int, children map[int][]int) {
	var current []int
	if boundary >= 0 {
		current = []int{boundary, node}
	} else {
		current = []int{node}
	}
	cur := node
	for {
		kids := children[cur]
		if len(kids) == 0 {
			break
		}
		if len(kids) > 1 || len(current) >= d.cfg.MaxTreeChainSize {
			d.chains = append(d.chains, Chain{Nodes: current})
			for _, k := range kids {
				d.walk(cur, k, children)
			}
			return
		}
		cur = kids[0]
		current = append(current, cur)
	}
	d.chains = append(d.chains, Chain{Nodes: current})
}

func validateCover(g *mapdesc.Graph, chains []Chain) error {
	seenNode := make([]bool, g.NodeCount())
	for _, c := range chains {
		for _, n := range c.Nodes {
			seenNode[n] = true
		}
	}
	for i, ok := range seenNode {
		if !ok {
			return fmt.Errorf("chain: node %d not covered by any chain", i)
		}
	}
	return nil
}
