package core

import (
	"errors"
	"testing"
)

func TestGridNeighbors(t *testing.T) {
	g := NewGrid(3, 3, []Cell{{X: 1, Y: 1}})

	n := g.Neighbors(Cell{X: 0, Y: 0})
	if len(n) != 2 {
		t.Fatalf("expected 2 neighbors for corner cell, got %d", len(n))
	}

	n = g.Neighbors(Cell{X: 1, Y: 0})
	// (1,1) is an obstacle, so only (0,0) and (2,0) remain.
	if len(n) != 2 {
		t.Fatalf("expected 2 neighbors avoiding obstacle, got %d", len(n))
	}
	for _, c := range n {
		if c.Cell == (Cell{X: 1, Y: 1}) {
			t.Fatalf("neighbor list included obstructed cell")
		}
	}
}

func TestStateApply(t *testing.T) {
	s := State{T: 0, X: 2, Y: 2}
	cases := []struct {
		action Action
		want   State
	}{
		{Up, State{T: 1, X: 2, Y: 1}},
		{Down, State{T: 1, X: 2, Y: 3}},
		{Left, State{T: 1, X: 1, Y: 2}},
		{Right, State{T: 1, X: 3, Y: 2}},
		{Wait, State{T: 1, X: 2, Y: 2}},
	}
	for _, c := range cases {
		got := s.Apply(c.action)
		if got != c.want {
			t.Errorf("%v.Apply(%v) = %v, want %v", s, c.action, got, c.want)
		}
	}
}

func TestConstraintsOverlap(t *testing.T) {
	a := NewConstraints()
	a.V[VertexConstraint{T: 1, X: 0, Y: 0}] = struct{}{}
	b := NewConstraints()
	b.V[VertexConstraint{T: 1, X: 0, Y: 0}] = struct{}{}

	if !a.Overlap(b) {
		t.Error("expected overlap on shared vertex constraint")
	}

	c := NewConstraints()
	c.V[VertexConstraint{T: 2, X: 0, Y: 0}] = struct{}{}
	if a.Overlap(c) {
		t.Error("expected no overlap on disjoint constraints")
	}
}

func TestConstraintProfileCloneIsolation(t *testing.T) {
	p := NewConstraintProfile()
	p = p.WithVertex(0, VertexConstraint{T: 1, X: 0, Y: 0})

	child := p.WithVertex(0, VertexConstraint{T: 2, X: 0, Y: 0})
	if len(p.For(0).V) != 1 {
		t.Errorf("parent profile was mutated by child extension, got %d vertex constraints", len(p.For(0).V))
	}
	if len(child.For(0).V) != 2 {
		t.Errorf("expected child to have 2 vertex constraints, got %d", len(child.For(0).V))
	}
}

func TestLastGoalConstraintTime(t *testing.T) {
	c := NewConstraints()
	c.V[VertexConstraint{T: 3, X: 5, Y: 5}] = struct{}{}
	c.V[VertexConstraint{T: 7, X: 5, Y: 5}] = struct{}{}
	c.V[VertexConstraint{T: 9, X: 1, Y: 1}] = struct{}{}

	if got := c.LastGoalConstraintTime(Cell{X: 5, Y: 5}); got != 7 {
		t.Errorf("LastGoalConstraintTime = %d, want 7", got)
	}
	if got := c.LastGoalConstraintTime(Cell{X: 9, Y: 9}); got != -1 {
		t.Errorf("LastGoalConstraintTime for unconstrained goal = %d, want -1", got)
	}
}

func TestProblemValidate(t *testing.T) {
	p := &Problem{
		W: 3, H: 3,
		Starts: []State{{T: 0, X: 0, Y: 0}},
		Goals:  []Cell{{X: 2, Y: 2}},
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("expected valid problem, got %v", err)
	}

	bad := &Problem{
		W: 0, H: 3,
		Starts: []State{{T: 0, X: 0, Y: 0}},
		Goals:  []Cell{{X: 2, Y: 2}},
	}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidProblem) {
		t.Errorf("expected ErrInvalidProblem, got %v", err)
	}

	mismatched := &Problem{
		W: 3, H: 3,
		Starts: []State{{T: 0, X: 0, Y: 0}, {T: 0, X: 1, Y: 1}},
		Goals:  []Cell{{X: 2, Y: 2}},
	}
	if err := mismatched.Validate(); !errors.Is(err, ErrInvalidProblem) {
		t.Errorf("expected ErrInvalidProblem for count mismatch, got %v", err)
	}

	obstructed := &Problem{
		W: 3, H: 3,
		Obstacles: []Cell{{X: 0, Y: 0}},
		Starts:    []State{{T: 0, X: 0, Y: 0}},
		Goals:     []Cell{{X: 2, Y: 2}},
	}
	if err := obstructed.Validate(); !errors.Is(err, ErrInvalidProblem) {
		t.Errorf("expected ErrInvalidProblem for obstructed start, got %v", err)
	}
}

func TestPlanResultStateAt(t *testing.T) {
	pr := PlanResult{
		States: []StateGoal{
			{State: State{T: 0, X: 0, Y: 0}, G: 0},
			{State: State{T: 1, X: 1, Y: 0}, G: 0},
		},
		Cost: 1,
	}

	if got := pr.StateAt(0); got != (State{T: 0, X: 0, Y: 0}) {
		t.Errorf("StateAt(0) = %v", got)
	}
	// Past the end, the agent is assumed to wait at its final cell.
	if got := pr.StateAt(5); got != (State{T: 5, X: 1, Y: 0}) {
		t.Errorf("StateAt(5) = %v, want extrapolated final cell", got)
	}
}
