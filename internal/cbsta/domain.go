// Package cbsta implements HighLevelSearch (spec.md §4.5): the CBS-TA
// main loop over a forest of (assignment, constraint-profile) nodes.
//
// spec.md §9 asks for the domain (grid/State/Action/Conflict/Constraints)
// to be modeled behind a single capability-set interface so the engine
// itself stays parametric — Domain below is that interface, and GridDomain
// is the concrete grid implementation wiring internal/heuristic,
// internal/lowlevel, internal/assignment and internal/conflict together.
// The teacher has no equivalent seam (CBS is hard-wired to its own
// Workspace/Robot types in internal/algo/cbs.go); this abstraction is new,
// grounded directly in the design note rather than in a specific file.
package cbsta

import (
	"context"

	"github.com/elektrokombinacija/cbs-ta/internal/assignment"
	"github.com/elektrokombinacija/cbs-ta/internal/conflict"
	"github.com/elektrokombinacija/cbs-ta/internal/core"
	"github.com/elektrokombinacija/cbs-ta/internal/heuristic"
	"github.com/elektrokombinacija/cbs-ta/internal/lowlevel"
)

// Domain bundles the operations the high-level search needs from the
// underlying planning domain: admissibleHeuristic + isSolution +
// getNeighbors collapse into PlanAgent (the low-level search owns them
// internally), getFirstConflict is FirstConflict, createConstraintsFromConflict
// lives on conflict.Conflict itself, and nextTaskAssignment is NextAssignment.
type Domain interface {
	// PlanAgent runs the low-level search for one agent from its start
	// state to its assigned goal under constraints. expanded is the number
	// of low-level nodes popped, for Stats.LowLevelExpanded. ctx is checked
	// between low-level node expansions (spec.md §5), not just before the
	// call, so a long or unreachable search can't ignore cancellation.
	PlanAgent(ctx context.Context, agent core.AgentID, goal core.Cell, constraints core.Constraints) (result core.PlanResult, expanded int, ok bool)

	// FirstConflict scans a joint Solution for the earliest conflict.
	FirstConflict(sol core.Solution) (conflict.Conflict, bool)

	// NextAssignment requests the next-cheapest agent->goal assignment from
	// the enumerator, or ok=false once it is exhausted.
	NextAssignment() (cost int, a core.Assignment, ok bool)

	// GoalCell resolves a goal index (as stored in an Assignment) to its
	// grid Cell.
	GoalCell(g core.GoalID) core.Cell
}

// GridDomain is the Domain implementation for a 4-connected grid with unit
// move costs, wiring GridHeuristic, the time-expanded A* search, and
// NextBestAssignment together the way spec.md §2's data-flow diagram
// describes.
type GridDomain struct {
	grid   *core.Grid
	starts []core.State
	goals  []core.Cell
	h      *heuristic.GridHeuristic
	nba    *assignment.NextBestAssignment
}

// NewGridDomain builds a GridDomain over problem's grid, start states and
// goals, seeding both the GridHeuristic and the assignment enumerator from
// a single cost matrix (spec.md §2: "Problem -> GridHeuristic -> seed C3").
func NewGridDomain(p *core.Problem) *GridDomain {
	grid := p.Grid()
	h := heuristic.New(grid, p.Goals)
	cost := h.CostMatrix(p.Starts, p.EffectiveGroupSize())
	return &GridDomain{
		grid:   grid,
		starts: p.Starts,
		goals:  p.Goals,
		h:      h,
		nba:    assignment.New(cost),
	}
}

func (d *GridDomain) PlanAgent(ctx context.Context, agent core.AgentID, goal core.Cell, constraints core.Constraints) (core.PlanResult, int, bool) {
	goalIdx := d.goalIndex(goal)
	hf := func(c core.Cell) int { return d.h.Value(c, goalIdx) }

	res, ok := lowlevel.Search(ctx, d.grid, hf, d.starts[agent], goal, constraints)
	if !ok {
		return core.PlanResult{}, res.Expanded, false
	}

	states := make([]core.StateGoal, len(res.Path))
	actions := make([]core.ActionCost, 0, len(res.Path)-1)
	for i, s := range res.Path {
		states[i] = core.StateGoal{State: s, G: i}
		if i > 0 {
			actions = append(actions, core.ActionCost{Action: actionBetween(res.Path[i-1], s), Cost: 1})
		}
	}
	return core.PlanResult{States: states, Actions: actions, Cost: len(res.Path) - 1}, res.Expanded, true
}

func (d *GridDomain) FirstConflict(sol core.Solution) (conflict.Conflict, bool) {
	return conflict.FindFirst(sol)
}

func (d *GridDomain) NextAssignment() (int, core.Assignment, bool) {
	return d.nba.NextSolution()
}

func (d *GridDomain) GoalCell(g core.GoalID) core.Cell {
	return d.goals[g]
}

func (d *GridDomain) goalIndex(goal core.Cell) core.GoalID {
	for i, g := range d.goals {
		if g == goal {
			return core.GoalID(i)
		}
	}
	return core.GoalID(-1)
}

func actionBetween(from, to core.State) core.Action {
	switch {
	case to.X == from.X && to.Y == from.Y:
		return core.Wait
	case to.Y == from.Y-1:
		return core.Up
	case to.Y == from.Y+1:
		return core.Down
	case to.X == from.X-1:
		return core.Left
	default:
		return core.Right
	}
}
