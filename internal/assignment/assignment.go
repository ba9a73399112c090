// Package assignment implements NextBestAssignment (spec.md §4.3): a lazy
// enumerator that yields agent→goal assignments in non-decreasing total
// cost, using Murty's k-best algorithm over a min-cost bipartite matcher.
//
// The teacher's computeAssignment (internal/algo/cbs.go) is a single greedy
// pass — it has no notion of "next-best" and no priority queue of
// subproblems. Murty's ranking has no direct analogue anywhere in the
// retrieved pack, so the partitioned-subproblem heap here is original,
// built in the same style as the teacher's cbsHeap (container/heap over a
// slice of pointer nodes with explicit index bookkeeping) and the matcher
// itself is the standard O(n^3) Hungarian algorithm (successive shortest
// augmenting paths with vertex potentials).
package assignment

import (
	"container/heap"

	"github.com/katalvlaran/lvlath/matrix"

	"github.com/elektrokombinacija/cbs-ta/internal/core"
)

// Infeasible marks a cost-matrix entry as forbidden. Any solved assignment
// touching an entry at or above this threshold is discarded as infeasible.
// It matches internal/heuristic.Unreachable by value so a GridHeuristic
// cost matrix can be fed in directly.
const Infeasible = 1 << 30

type pair struct {
	agent int
	goal  int
}

// subDef is one partitioned Murty subproblem: a set of (agent, goal) edges
// forced into the matching (included) and a set forbidden from it
// (excluded). The root subproblem has both empty.
type subDef struct {
	included []pair
	excluded map[pair]bool
}

// item is one entry of the subproblem heap: a subDef together with its
// already-solved optimal assignment and cost, so popping the heap's
// minimum directly yields the next solution with no further work.
type item struct {
	cost       int
	assignment core.Assignment
	def        subDef
	seq        int
	index      int
}

type itemHeap []*item

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].cost != h[j].cost {
		return h[i].cost < h[j].cost
	}
	return h[i].seq < h[j].seq // stable tie-break on insertion order, spec.md §5
}

func (h itemHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *itemHeap) Push(x any) {
	n := x.(*item)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// NextBestAssignment lazily enumerates assignments of a square agent×goal
// cost matrix in non-decreasing total cost. Each call to NextSolution
// solves exactly one fresh subproblem (the root, on the first call) and
// pushes its children back onto the heap, so work is proportional to the
// number of assignments actually requested.
type NextBestAssignment struct {
	cost [][]int
	n    int
	pq   *itemHeap
	seq  int
}

// New builds an enumerator over cost, an n×n agent×goal matrix (spec.md
// requires |goals| == |startStates|, so cost is always square). Entries
// at or above Infeasible are treated as forbidden.
func New(cost [][]int) *NextBestAssignment {
	n := len(cost)
	nba := &NextBestAssignment{cost: cost, n: n, pq: &itemHeap{}}
	heap.Init(nba.pq)
	nba.trySolveAndPush(subDef{excluded: map[pair]bool{}})
	return nba
}

// NextSolution returns the next-cheapest feasible assignment and its total
// cost, or ok=false once the subproblem space is exhausted (spec.md's
// AssignmentExhausted condition).
func (nba *NextBestAssignment) NextSolution() (cost int, assignment core.Assignment, ok bool) {
	if nba.pq.Len() == 0 {
		return 0, nil, false
	}
	top := heap.Pop(nba.pq).(*item)
	nba.partition(top)
	return top.cost, top.assignment, true
}

// partition splits top's solved assignment into len(freeEdges) sibling
// subproblems: the k-th child fixes the first k free edges as included and
// forbids the (k+1)-th, per Murty's algorithm (spec.md §4.3 step 3).
// "Free" edges are those not already pinned by top.def.included.
func (nba *NextBestAssignment) partition(top *item) {
	includedAgents := make(map[int]bool, len(top.def.included))
	for _, p := range top.def.included {
		includedAgents[p.agent] = true
	}

	var free []pair
	for a := 0; a < nba.n; a++ {
		if includedAgents[a] {
			continue
		}
		g, ok := top.assignment[core.AgentID(a)]
		if !ok {
			continue
		}
		free = append(free, pair{agent: a, goal: int(g)})
	}

	included := append([]pair{}, top.def.included...)
	for _, edge := range free {
		excluded := cloneExcluded(top.def.excluded)
		excluded[edge] = true
		nba.trySolveAndPush(subDef{included: append([]pair{}, included...), excluded: excluded})
		included = append(included, edge)
	}
}

func (nba *NextBestAssignment) trySolveAndPush(def subDef) {
	cost, assignment, ok := nba.solve(def)
	if !ok {
		return
	}
	nba.seq++
	heap.Push(nba.pq, &item{cost: cost, assignment: assignment, def: def, seq: nba.seq})
}

// solve computes the optimal assignment respecting def's fixed inclusions
// and exclusions: it removes included agents/goals from the matching
// problem (accounting for their cost directly) and solves the remaining
// free×free submatrix with the Hungarian algorithm, with excluded cells
// forced to Infeasible.
func (nba *NextBestAssignment) solve(def subDef) (int, core.Assignment, bool) {
	includedGoalOf := make(map[int]int, len(def.included))
	includedAgent := make(map[int]bool, len(def.included))
	includedGoal := make(map[int]bool, len(def.included))
	fixedCost := 0
	for _, p := range def.included {
		if nba.cost[p.agent][p.goal] >= Infeasible {
			return 0, nil, false
		}
		includedGoalOf[p.agent] = p.goal
		includedAgent[p.agent] = true
		includedGoal[p.goal] = true
		fixedCost += nba.cost[p.agent][p.goal]
	}

	var freeAgents, freeGoals []int
	for a := 0; a < nba.n; a++ {
		if !includedAgent[a] {
			freeAgents = append(freeAgents, a)
		}
	}
	for g := 0; g < nba.n; g++ {
		if !includedGoal[g] {
			freeGoals = append(freeGoals, g)
		}
	}

	assignment := make(core.Assignment, nba.n)
	for a, g := range includedGoalOf {
		assignment[core.AgentID(a)] = core.GoalID(g)
	}

	if len(freeAgents) == 0 {
		return fixedCost, assignment, true
	}

	k := len(freeAgents)
	sub := make([][]int, k)
	for i, a := range freeAgents {
		row := make([]int, k)
		for j, g := range freeGoals {
			c := nba.cost[a][g]
			if def.excluded[pair{agent: a, goal: g}] {
				c = Infeasible
			}
			row[j] = c
		}
		sub[i] = row
	}

	subCost, colOf := hungarian(sub)
	if subCost >= Infeasible {
		return 0, nil, false
	}

	for i, a := range freeAgents {
		g := freeGoals[colOf[i]]
		if nba.cost[a][g] >= Infeasible {
			return 0, nil, false
		}
		assignment[core.AgentID(a)] = core.GoalID(g)
	}

	return fixedCost + subCost, assignment, true
}

// CostMatrix returns a read-only snapshot of the underlying agent×goal cost
// matrix as a lvlath Dense matrix, for diagnostics and serialization —
// callers that want to render or persist the matrix work with the same
// Matrix abstraction the rest of the ecosystem uses, instead of a raw
// [][]int. Infeasible entries are carried through as-is (as a large finite
// float64, never +Inf, since lvlath/matrix rejects non-finite values).
func (nba *NextBestAssignment) CostMatrix() (matrix.Matrix, error) {
	dense, err := matrix.NewDense(nba.n, nba.n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < nba.n; i++ {
		for j := 0; j < nba.n; j++ {
			if err := dense.Set(i, j, float64(nba.cost[i][j])); err != nil {
				return nil, err
			}
		}
	}
	return dense, nil
}

func cloneExcluded(m map[pair]bool) map[pair]bool {
	out := make(map[pair]bool, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// hungarian solves the minimum-cost perfect matching of an n×n cost matrix
// via successive shortest augmenting paths with vertex potentials (the
// standard O(n^3) Hungarian algorithm, e.g. Kuhn 1955 / Munkres 1957).
// Returns the total cost and, for each row, the column it is matched to.
func hungarian(cost [][]int) (int, []int) {
	n := len(cost)
	const inf = 1 << 60

	u := make([]int, n+1)
	v := make([]int, n+1)
	p := make([]int, n+1) // p[j] = row matched to column j
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]int, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = inf
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	colOf := make([]int, n)
	total := 0
	for j := 1; j <= n; j++ {
		if p[j] == 0 {
			continue
		}
		colOf[p[j]-1] = j - 1
		total += cost[p[j]-1][j-1]
	}
	return total, colOf
}
