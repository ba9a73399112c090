package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/elektrokombinacija/cbs-ta/internal/conflict"
	"github.com/elektrokombinacija/cbs-ta/internal/core"
)

// TestSwapCorridor is scenario S1: 3x1 grid, no obstacles, agents swap
// ends. No direct swap is possible on a corridor, so one agent must wait.
func TestSwapCorridor(t *testing.T) {
	problem := &core.Problem{
		W: 3, H: 1,
		Starts: []core.State{{X: 0, Y: 0}, {X: 2, Y: 0}},
		Goals:  []core.Cell{{X: 2, Y: 0}, {X: 0, Y: 0}},
	}

	plan, err := New().Solve(context.Background(), problem)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if plan.Stats.Cost != 6 {
		t.Errorf("cost = %d, want 6", plan.Stats.Cost)
	}
	if plan.Stats.Makespan != 4 {
		t.Errorf("makespan = %d, want 4", plan.Stats.Makespan)
	}
	assertNoConflict(t, plan.Agents)
}

// TestTrivialNoConflict is scenario S2: two agents on parallel straight
// lines never interact.
func TestTrivialNoConflict(t *testing.T) {
	problem := &core.Problem{
		W: 5, H: 5,
		Starts: []core.State{{X: 0, Y: 0}, {X: 0, Y: 4}},
		Goals:  []core.Cell{{X: 4, Y: 0}, {X: 4, Y: 4}},
	}

	plan, err := New().Solve(context.Background(), problem)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if plan.Stats.Cost != 8 {
		t.Errorf("cost = %d, want 8", plan.Stats.Cost)
	}
	if plan.Stats.Makespan != 4 {
		t.Errorf("makespan = %d, want 4", plan.Stats.Makespan)
	}
}

// TestTaskReassignmentWins is scenario S3: the cheapest assignment leaves
// both agents in place.
func TestTaskReassignmentWins(t *testing.T) {
	problem := &core.Problem{
		W: 4, H: 1,
		Starts: []core.State{{X: 0, Y: 0}, {X: 3, Y: 0}},
		Goals:  []core.Cell{{X: 0, Y: 0}, {X: 3, Y: 0}},
	}

	plan, err := New().Solve(context.Background(), problem)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if plan.Stats.Cost != 0 {
		t.Errorf("cost = %d, want 0", plan.Stats.Cost)
	}
	if plan.Stats.NumTaskAssignments != 1 {
		t.Errorf("numTaskAssignments = %d, want 1 (the cheapest assignment should solve immediately)", plan.Stats.NumTaskAssignments)
	}
}

// TestObstacleDetour is scenario S4: a wall forces a detour, and a
// Manhattan heuristic would misguide the search.
func TestObstacleDetour(t *testing.T) {
	var obstacles []core.Cell
	for y := 0; y < 4; y++ {
		obstacles = append(obstacles, core.Cell{X: 2, Y: y})
	}
	problem := &core.Problem{
		W: 5, H: 5,
		Obstacles: obstacles,
		Starts:    []core.State{{X: 0, Y: 2}, {X: 4, Y: 2}},
		Goals:     []core.Cell{{X: 4, Y: 2}, {X: 0, Y: 2}},
	}

	plan, err := New().Solve(context.Background(), problem)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	assertNoConflict(t, plan.Agents)
	for _, pr := range plan.Agents {
		for _, sg := range pr.States {
			for _, o := range obstacles {
				if sg.State.Cell() == o {
					t.Fatalf("agent path crosses obstacle at %v", o)
				}
			}
		}
	}
}

// TestAssignmentExhaustionNoSolution is scenario S5's actual failure path:
// a sole seeded assignment that NextBestAssignment cannot avoid trying
// first, but which is infeasible, must surface as ErrNoSolution with
// numTaskAssignments == 1 — not a second attempt, and not a hang.
//
// A wall at x=2 splits the corridor into a left component {0,1} and a
// right component {3,4}. Both goals sit in the left component, so agent1
// (parked on the right) cannot reach either one under any bijection;
// agent0 sitting still (cost 0) is strictly cheaper than agent0 taking the
// other goal (cost 1), so the cheapest — and therefore first — assignment
// NextBestAssignment yields pairs agent0 with its own cell and agent1 with
// an unreachable goal. seedRoot's planAll call fails on agent1 precisely
// because lowlevel.Search now short-circuits on heuristic.Unreachable
// instead of spinning forever.
func TestAssignmentExhaustionNoSolution(t *testing.T) {
	problem := &core.Problem{
		W: 5, H: 1,
		MaxTaskAssignments: 1,
		Obstacles:          []core.Cell{{X: 2, Y: 0}},
		Starts:             []core.State{{X: 0, Y: 0}, {X: 3, Y: 0}},
		Goals:              []core.Cell{{X: 1, Y: 0}, {X: 0, Y: 0}},
	}

	plan, err := New().Solve(context.Background(), problem)
	if err == nil {
		t.Fatal("expected an error: agent1 can never reach either goal across the wall")
	}
	if !errors.Is(err, core.ErrNoSolution) {
		t.Errorf("err = %v, want wrapping core.ErrNoSolution", err)
	}
	if plan.Successful {
		t.Error("expected an unsuccessful plan")
	}
	if plan.Stats.NumTaskAssignments != 1 {
		t.Errorf("numTaskAssignments = %d, want exactly 1 (budget must not permit a second attempt)", plan.Stats.NumTaskAssignments)
	}
}

// TestAssignmentExhaustion is scenario S5's budget-counter invariant: with
// maxTaskAssignments=1, the planner must not silently request a second
// assignment even when the first one succeeds outright.
func TestAssignmentExhaustion(t *testing.T) {
	// Three agents on a line, goals permuted so the minimum-cost
	// assignment (identity, cost 0) is also conflict-free — exercising the
	// budget counter without forcing NoSolution, since forcing a genuine
	// unresolvable-within-budget conflict would depend on over-specified
	// low-level tie-breaking. The budget invariant itself is what's under
	// test here.
	problem := &core.Problem{
		W: 5, H: 1,
		MaxTaskAssignments: 1,
		Starts:             []core.State{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 4, Y: 0}},
		Goals:              []core.Cell{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 4, Y: 0}},
	}

	plan, err := New().Solve(context.Background(), problem)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if plan.Stats.NumTaskAssignments != 1 {
		t.Errorf("numTaskAssignments = %d, want exactly 1", plan.Stats.NumTaskAssignments)
	}
}

// TestGrouping is scenario S6: agents 0-1 may only take goals 0-1; agents
// 2-3 may only take goals 2-3. Goal index 1 (x=0) sits closer to agent 2
// than anything in its own window, so an ungrouped matcher would cross the
// boundary; GridHeuristic.CostMatrix must mark that entry Unreachable and
// keep every agent inside its window regardless.
func TestGrouping(t *testing.T) {
	problem := &core.Problem{
		W: 4, H: 1,
		GroupSize: 2,
		Starts:    []core.State{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}},
		Goals:     []core.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}},
	}

	plan, err := New().Solve(context.Background(), problem)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if plan.Stats.Cost != 0 {
		t.Errorf("cost = %d, want 0 (every agent already sits on an in-window goal)", plan.Stats.Cost)
	}

	for agent, pr := range plan.Agents {
		final := pr.States[len(pr.States)-1].State
		inWindow := final.X == 0 || final.X == 1
		if agent >= 2 {
			inWindow = final.X == 2 || final.X == 3
		}
		if !inWindow {
			t.Errorf("agent %d settled at x=%d, outside its group window", agent, final.X)
		}
	}
}

func TestInvalidProblemRejected(t *testing.T) {
	problem := &core.Problem{W: 0, H: 3}
	if _, err := New().Solve(context.Background(), problem); err == nil {
		t.Error("expected an error for an invalid problem")
	}
}

func assertNoConflict(t *testing.T, sol core.Solution) {
	t.Helper()
	if _, found := conflict.FindFirst(sol); found {
		t.Error("returned solution still has a conflict")
	}
}
