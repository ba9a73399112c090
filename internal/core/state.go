package core

import "fmt"

// State is an agent space-time node (t, x, y). Equality uses all three
// fields; EqualSpatial ignores t.
type State struct {
	T int
	X, Y int
}

// Cell returns the spatial component of the state.
func (s State) Cell() Cell {
	return Cell{X: s.X, Y: s.Y}
}

// EqualSpatial reports whether two states occupy the same cell, ignoring t.
func (s State) EqualSpatial(o State) bool {
	return s.X == o.X && s.Y == o.Y
}

func (s State) String() string {
	return fmt.Sprintf("%d: (%d,%d)", s.T, s.X, s.Y)
}

// Action is one of the five unit-cost, unit-time moves available to an
// agent on a 4-connected grid.
type Action int

const (
	Up Action = iota
	Down
	Left
	Right
	Wait
)

func (a Action) String() string {
	switch a {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Wait:
		return "Wait"
	default:
		return "Unknown"
	}
}

// Delta returns the (dx, dy) offset for the action.
func (a Action) Delta() (dx, dy int) {
	switch a {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default: // Wait
		return 0, 0
	}
}

// Apply returns the state reached by taking action a from s. Every action
// advances time by exactly 1.
func (s State) Apply(a Action) State {
	dx, dy := a.Delta()
	return State{T: s.T + 1, X: s.X + dx, Y: s.Y + dy}
}
