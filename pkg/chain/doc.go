// Package chain decomposes a canonical graph into an ordered sequence of
// chains — small connected subgraphs placed incrementally by the
// generator planner. Decomposition runs in two stages: face extraction
// (small cycles, via github.com/katalvlaran/lvlath/dfs) followed by tree
// extension over the remaining edges (via github.com/katalvlaran/lvlath/bfs).
package chain
