// Package lowlevel implements the time-expanded A* search used to plan a
// single agent's path under a fixed set of vertex/edge constraints.
//
// The heap scaffolding (astarNode/astarHeap) is carried over from the
// teacher's internal/algo/astar.go almost verbatim — container/heap,
// pointer nodes with a parent link for path reconstruction, explicit heap
// index bookkeeping — but the domain is specialized from continuous
// travel-time graph edges to unit-cost grid moves, and the tie-break and
// goal test are made to match spec.md §4.2 exactly (lastGoalConstraintTime,
// two-tier (f, -g) ordering). Search also keeps the teacher's maxTime
// expansion cutoff and takes a context.Context checked between pops, so an
// unreachable goal or a cancelled caller can't leave it running forever.
package lowlevel

import (
	"container/heap"
	"context"

	"github.com/elektrokombinacija/cbs-ta/internal/core"
	"github.com/elektrokombinacija/cbs-ta/internal/heuristic"
)

// Heuristic returns an admissible estimate of the remaining cost from cell
// to the search's goal. internal/heuristic.GridHeuristic.Value satisfies
// this once partially applied to a goal index.
type Heuristic func(cell core.Cell) int

// astarNode is one open/closed-set entry. seq breaks ties deterministically
// when f and g are both equal, per spec.md §9 ("Heap keys... make it
// explicit rather than relying on the underlying heap's behavior").
type astarNode struct {
	state  core.State
	g      int
	f      int
	parent *astarNode
	seq    int
	index  int
}

type astarHeap []*astarNode

func (h astarHeap) Len() int { return len(h) }

func (h astarHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	if h[i].g != h[j].g {
		return h[i].g > h[j].g // prefer deeper (larger g) among equal f
	}
	return h[i].seq < h[j].seq
}

func (h astarHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *astarHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *astarHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// Result is the outcome of a single-agent search: the optimal path (as a
// sequence of States starting at the given start state) and the number of
// low-level nodes popped, for Stats.LowLevelExpanded.
type Result struct {
	Path     []core.State
	Expanded int
}

// Search runs time-expanded A* for one agent from start to goal, under
// constraints, using h as the admissible heuristic. Successors of (t,x,y)
// are the five actions (spec.md §4.2): the four grid moves plus Wait,
// filtered by grid bounds/obstacles and by constraints.V / constraints.E.
// The goal test requires the agent's arrival time to strictly exceed
// constraints.LastGoalConstraintTime(goal) (spec.md §4.2). Returns ok=false
// if the open set is exhausted without finding a solution, if the goal is
// known unreachable, if ctx is cancelled mid-search, or once maxTime is hit.
//
// maxTime bounds the time coordinate a node may be expanded at, the same
// cutoff the teacher's astar.go applies at line 250 ("if current.state.T >=
// maxTime { continue }"): without it, Wait keeps manufacturing new (t,x,y)
// states forever when the goal is spatially unreachable, since no state
// ever repeats across time and the open set never drains.
func Search(ctx context.Context, grid *core.Grid, h Heuristic, start core.State, goal core.Cell, constraints core.Constraints) (Result, bool) {
	if h(start.Cell()) >= heuristic.Unreachable {
		return Result{}, false
	}

	lastGoalT := constraints.LastGoalConstraintTime(goal)
	maxTime := grid.W*grid.H*2 + lastGoalT + 1

	open := &astarHeap{}
	heap.Init(open)

	seq := 0
	push := func(n *astarNode) {
		n.seq = seq
		seq++
		heap.Push(open, n)
	}

	push(&astarNode{state: start, g: 0, f: h(start.Cell())})

	visited := make(map[core.State]bool)
	expanded := 0

	for open.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return Result{Expanded: expanded}, false
		}

		cur := heap.Pop(open).(*astarNode)
		expanded++

		if visited[cur.state] {
			continue
		}
		visited[cur.state] = true

		if cur.state.Cell() == goal && cur.state.T > lastGoalT {
			return Result{Path: reconstruct(cur), Expanded: expanded}, true
		}

		if cur.state.T >= maxTime {
			continue
		}

		for _, succ := range successors(grid, cur.state) {
			if visited[succ.state] {
				continue
			}
			if violates(constraints, cur.state, succ.state) {
				continue
			}
			g := cur.g + 1
			push(&astarNode{
				state:  succ.state,
				g:      g,
				f:      g + h(succ.state.Cell()),
				parent: cur,
			})
		}
	}

	return Result{Expanded: expanded}, false
}

type successor struct {
	state core.State
}

// successors returns the up-to-five time-expanded successors of s: the
// Wait action plus every free, in-bounds grid move. Constraint filtering
// happens in the caller (violates), matching the original's
// stateValid/transitionValid split.
func successors(grid *core.Grid, s core.State) []successor {
	out := make([]successor, 0, 5)
	out = append(out, successor{state: s.Apply(core.Wait)})
	for _, n := range grid.Neighbors(s.Cell()) {
		out = append(out, successor{state: core.State{T: s.T + 1, X: n.Cell.X, Y: n.Cell.Y}})
	}
	return out
}

// violates reports whether moving from `from` to `to` (one time step)
// breaks a vertex or edge constraint in c.
func violates(c core.Constraints, from, to core.State) bool {
	if _, blocked := c.V[core.VertexConstraint{T: to.T, X: to.X, Y: to.Y}]; blocked {
		return true
	}
	ec := core.EdgeConstraint{T: from.T, X1: from.X, Y1: from.Y, X2: to.X, Y2: to.Y}
	_, blocked := c.E[ec]
	return blocked
}

func reconstruct(n *astarNode) []core.State {
	var path []core.State
	for cur := n; cur != nil; cur = cur.parent {
		path = append([]core.State{cur.state}, path...)
	}
	return path
}
