// Package heuristic precomputes admissible shortest-path distances used to
// guide the low-level time-expanded A* search.
//
// The teacher's astar.go heuristic is a placeholder ("TODO: Proper heuristic
// using workspace positions") that always returns 0 or 1. That is
// inadmissible around obstacles and causes A* to overexpand. This package
// replaces it with exact breadth-first distances, computed once per goal,
// in the style of lvlath/gridgraph's ConnectedComponents and lvlath/bfs's
// queue-based walker (precomputed neighbor offsets, explicit InBounds
// checks, no recursion).
package heuristic

import "github.com/elektrokombinacija/cbs-ta/internal/core"

// Unreachable is returned by Value for a cell with no path to the goal. The
// low-level search must never be asked to reach such a cell in a solvable
// instance (spec.md §4.1).
const Unreachable = 1 << 30

// GridHeuristic holds, for every goal in a Problem, the exact BFS distance
// from that goal to every free cell reachable from it. It is built once and
// shared, read-only, across every low-level search — the same "compute once,
// use everywhere" contract the teacher gives its GridHeuristic equivalent
// (the NextBestAssignment cost matrix is seeded from the same distances).
type GridHeuristic struct {
	grid  *core.Grid
	goals []core.Cell
	dist  []map[core.Cell]int // dist[goalIdx][cell] = distance, absent = unreachable
}

// New computes all-pairs BFS distances from every goal in goals to every
// free cell of grid reachable from it. Unreachable cells are simply absent
// from the per-goal map; Value reports them as Unreachable.
func New(grid *core.Grid, goals []core.Cell) *GridHeuristic {
	h := &GridHeuristic{grid: grid, goals: goals, dist: make([]map[core.Cell]int, len(goals))}
	for i, g := range goals {
		h.dist[i] = bfsDistances(grid, g)
	}
	return h
}

// bfsDistances runs a single-source BFS from src over the grid's free
// cells, returning the distance map.
func bfsDistances(grid *core.Grid, src core.Cell) map[core.Cell]int {
	dist := make(map[core.Cell]int)
	if !grid.IsFree(src) {
		return dist
	}
	dist[src] = 0
	queue := []core.Cell{src}
	for i := 0; i < len(queue); i++ {
		cur := queue[i]
		d := dist[cur]
		for _, n := range grid.Neighbors(cur) {
			if _, seen := dist[n.Cell]; seen {
				continue
			}
			dist[n.Cell] = d + 1
			queue = append(queue, n.Cell)
		}
	}
	return dist
}

// Value returns the exact shortest-path distance from cell to the goal at
// goalIdx, ignoring other agents and time-indexed constraints. Returns
// Unreachable if no such path exists.
func (h *GridHeuristic) Value(cell core.Cell, goalIdx core.GoalID) int {
	d, ok := h.dist[int(goalIdx)][cell]
	if !ok {
		return Unreachable
	}
	return d
}

// CostMatrix builds the agent x goal cost matrix NextBestAssignment needs,
// using these BFS distances as the entry for (agent, goal) and Unreachable
// where the agent cannot reach the goal at all. groupSize, when less than
// len(starts), restricts agent i to goals whose index falls in its block
// window — see Problem.GroupSize (spec.md §4.3, "Grouping").
func (h *GridHeuristic) CostMatrix(starts []core.State, groupSize int) [][]int {
	n := len(starts)
	m := len(h.goals)
	cost := make([][]int, n)
	for i, s := range starts {
		row := make([]int, m)
		groupStart := (i / groupSize) * groupSize
		groupEnd := groupStart + groupSize
		for j := 0; j < m; j++ {
			if groupSize < n && (j < groupStart || j >= groupEnd) {
				row[j] = Unreachable
				continue
			}
			row[j] = h.Value(s.Cell(), core.GoalID(j))
		}
		cost[i] = row
	}
	return cost
}
