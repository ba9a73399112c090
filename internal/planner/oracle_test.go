package planner

import (
	"container/heap"
	"fmt"

	"github.com/elektrokombinacija/cbs-ta/internal/core"
)

// jointNode is one node of the brute-force oracle's time-expanded joint
// search: every agent's current cell, whether it has reached its goal yet,
// and the time it did so (-1 if not yet).
type jointNode struct {
	t        int
	pos      []core.Cell
	arrived  []bool
	arriveAt []int
	cost     int
	index    int
}

type jointHeap []*jointNode

func (h jointHeap) Len() int           { return len(h) }
func (h jointHeap) Less(i, j int) bool { return h[i].cost < h[j].cost }
func (h jointHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *jointHeap) Push(x any) {
	n := x.(*jointNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *jointHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// bruteForceOptimalCost finds, by exhaustive time-expanded joint search over
// every combination of per-agent wait/move actions, the minimum sum of
// arrival times over every conflict-free combination of paths from starts
// to goals (a fixed, already-paired correspondence). It is the independent
// correctness oracle spec.md §8 property 7 calls for: small instances only,
// since the branching factor is up to 5^numAgents per time step.
func bruteForceOptimalCost(grid *core.Grid, starts, goals []core.Cell, maxT int) (int, bool) {
	n := len(starts)
	start := &jointNode{
		t:        0,
		pos:      append([]core.Cell(nil), starts...),
		arrived:  make([]bool, n),
		arriveAt: make([]int, n),
	}
	for i := range start.arriveAt {
		start.arriveAt[i] = -1
		if starts[i] == goals[i] {
			start.arrived[i] = true
			start.arriveAt[i] = 0
		}
	}

	open := &jointHeap{}
	heap.Init(open)
	heap.Push(open, start)
	visited := make(map[string]bool)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*jointNode)

		if allArrived(cur.arrived) {
			total := 0
			for _, at := range cur.arriveAt {
				total += at
			}
			return total, true
		}
		if cur.t >= maxT {
			continue
		}

		key := jointKey(cur)
		if visited[key] {
			continue
		}
		visited[key] = true

		for _, next := range jointSuccessors(grid, cur, goals) {
			heap.Push(open, next)
		}
	}
	return 0, false
}

func allArrived(arrived []bool) bool {
	for _, a := range arrived {
		if !a {
			return false
		}
	}
	return true
}

func jointKey(n *jointNode) string {
	s := fmt.Sprintf("%d", n.t)
	for i, p := range n.pos {
		s += fmt.Sprintf("|%d,%d,%d", p.X, p.Y, n.arriveAt[i])
	}
	return s
}

// jointSuccessors expands every combination of per-agent actions: a
// not-yet-arrived agent may wait or take any free grid move; an already
// arrived agent is frozen at its goal. Combinations with a vertex or edge
// conflict between any two agents are discarded.
func jointSuccessors(grid *core.Grid, cur *jointNode, goals []core.Cell) []*jointNode {
	n := len(cur.pos)
	options := make([][]core.Cell, n)
	for i := 0; i < n; i++ {
		if cur.arrived[i] {
			options[i] = []core.Cell{cur.pos[i]}
			continue
		}
		opts := []core.Cell{cur.pos[i]}
		for _, nb := range grid.Neighbors(cur.pos[i]) {
			opts = append(opts, nb.Cell)
		}
		options[i] = opts
	}

	var out []*jointNode
	var rec func(i int, next []core.Cell)
	rec = func(i int, next []core.Cell) {
		if i == n {
			if hasConflict(cur.pos, next) {
				return
			}
			nn := &jointNode{
				t:        cur.t + 1,
				pos:      append([]core.Cell(nil), next...),
				arrived:  append([]bool(nil), cur.arrived...),
				arriveAt: append([]int(nil), cur.arriveAt...),
			}
			cost := 0
			for a := 0; a < n; a++ {
				if !nn.arrived[a] && nn.pos[a] == goals[a] {
					nn.arrived[a] = true
					nn.arriveAt[a] = nn.t
				}
				if nn.arrived[a] {
					cost += nn.arriveAt[a]
				} else {
					cost += nn.t
				}
			}
			nn.cost = cost
			out = append(out, nn)
			return
		}
		for _, c := range options[i] {
			rec(i+1, append(next, c))
		}
	}
	rec(0, make([]core.Cell, 0, n))
	return out
}

func hasConflict(from, to []core.Cell) bool {
	n := len(to)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if to[i] == to[j] {
				return true
			}
			if from[i] == to[j] && from[j] == to[i] && from[i] != to[i] {
				return true
			}
		}
	}
	return false
}

// permuteCells returns every permutation of cells, for brute-forcing the
// best agent-to-goal correspondence alongside the best routing.
func permuteCells(cells []core.Cell) [][]core.Cell {
	if len(cells) <= 1 {
		return [][]core.Cell{append([]core.Cell(nil), cells...)}
	}
	var out [][]core.Cell
	for i := range cells {
		rest := make([]core.Cell, 0, len(cells)-1)
		rest = append(rest, cells[:i]...)
		rest = append(rest, cells[i+1:]...)
		for _, p := range permuteCells(rest) {
			out = append(out, append([]core.Cell{cells[i]}, p...))
		}
	}
	return out
}

// bruteForceOptimalAssignmentCost is bruteForceOptimalCost maximized over
// every possible agent-to-goal assignment, matching what the CBS-TA engine
// itself searches over (NextBestAssignment plus conflict resolution).
func bruteForceOptimalAssignmentCost(grid *core.Grid, starts, goals []core.Cell, maxT int) (int, bool) {
	best := -1
	for _, perm := range permuteCells(goals) {
		cost, ok := bruteForceOptimalCost(grid, starts, perm, maxT)
		if !ok {
			continue
		}
		if best == -1 || cost < best {
			best = cost
		}
	}
	return best, best != -1
}
