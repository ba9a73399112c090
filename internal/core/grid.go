package core

import "fmt"

// Cell is an integer grid coordinate. 0 <= X < W, 0 <= Y < H.
type Cell struct {
	X, Y int
}

// Add returns the cell offset by (dx, dy).
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Grid is a rectangular 4-connected grid with a static obstacle set. It is
// immutable after construction and shared-read-only across every low-level
// search and heuristic lookup, mirroring how the teacher's Workspace is
// treated as shared-immutable once built.
type Grid struct {
	W, H      int
	obstacles map[Cell]struct{}
}

// NewGrid builds a Grid of the given dimensions with the given obstacles.
// Obstacles outside [0,W)x[0,H) are ignored; callers should validate via
// Problem.Validate before relying on that.
func NewGrid(w, h int, obstacles []Cell) *Grid {
	g := &Grid{W: w, H: h, obstacles: make(map[Cell]struct{}, len(obstacles))}
	for _, c := range obstacles {
		g.obstacles[c] = struct{}{}
	}
	return g
}

// InBounds reports whether c lies within the grid boundaries.
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.W && c.Y >= 0 && c.Y < g.H
}

// IsObstacle reports whether c is permanently blocked.
func (g *Grid) IsObstacle(c Cell) bool {
	_, blocked := g.obstacles[c]
	return blocked
}

// IsFree reports whether c is in-bounds and not an obstacle.
func (g *Grid) IsFree(c Cell) bool {
	return g.InBounds(c) && !g.IsObstacle(c)
}

// neighborOffsets are the four orthogonal moves, in the fixed order used
// throughout this package (Up, Down, Left, Right) so that successor
// generation and action decoding stay in lockstep.
var neighborOffsets = [4][2]int{
	{0, -1}, // Up
	{0, 1},  // Down
	{-1, 0}, // Left
	{1, 0},  // Right
}

// Neighbors returns the free, in-bounds cells reachable from c by one
// orthogonal move, alongside the Action that reaches each one.
func (g *Grid) Neighbors(c Cell) []struct {
	Cell   Cell
	Action Action
} {
	out := make([]struct {
		Cell   Cell
		Action Action
	}, 0, 4)
	actions := [4]Action{Up, Down, Left, Right}
	for i, off := range neighborOffsets {
		n := c.Add(off[0], off[1])
		if g.IsFree(n) {
			out = append(out, struct {
				Cell   Cell
				Action Action
			}{Cell: n, Action: actions[i]})
		}
	}
	return out
}
