// Package conflict implements the ConflictDetector (spec.md §4.4): scanning
// a joint Solution for the earliest vertex or edge conflict in time order.
//
// The teacher's Solver.FindFirstConflict (internal/algo/solver.go) works
// over continuous, non-uniform travel-time segments and interval overlap
// tests, because its agents move at heterogeneous speeds. Grid moves here
// are unit-cost and unit-time, so the segment/interval machinery collapses
// to a plain per-integer-time scan — this file keeps the teacher's
// "sortedRobotIDs, deterministic i<j pair order, stop at first conflict"
// shape but drops the interval overlap arithmetic entirely.
package conflict

import "github.com/elektrokombinacija/cbs-ta/internal/core"

// Kind distinguishes a vertex conflict (two agents occupy the same cell at
// the same time) from an edge conflict (two agents swap cells across one
// time step).
type Kind int

const (
	Vertex Kind = iota
	Edge
)

// Conflict is the first collision found in a Solution. For a Vertex
// conflict, (X, Y) is the shared cell. For an Edge conflict, agent A moves
// (X1,Y1)->(X2,Y2) while agent B moves the reverse.
type Conflict struct {
	Kind           Kind
	Time           int
	AgentA, AgentB core.AgentID
	X, Y           int
	X2, Y2         int
}

// FindFirst scans solution for the earliest conflict in time order,
// checking vertex conflicts before edge conflicts within each time step,
// and agent pairs in ascending (i, j) order — the exact order spec.md §4.4
// specifies, since it determines which two children the high-level search
// builds next.
func FindFirst(solution core.Solution) (Conflict, bool) {
	makespan := 0
	for _, pr := range solution {
		if n := len(pr.States); n-1 > makespan {
			makespan = n - 1
		}
	}

	for t := 0; t < makespan; t++ {
		for i := 0; i < len(solution); i++ {
			for j := i + 1; j < len(solution); j++ {
				si := solution[i].StateAt(t)
				sj := solution[j].StateAt(t)
				if si.EqualSpatial(sj) {
					return Conflict{
						Kind:   Vertex,
						Time:   t,
						AgentA: core.AgentID(i),
						AgentB: core.AgentID(j),
						X:      si.X,
						Y:      si.Y,
					}, true
				}
			}
		}
		for i := 0; i < len(solution); i++ {
			for j := i + 1; j < len(solution); j++ {
				a := solution[i].StateAt(t)
				b := solution[i].StateAt(t + 1)
				c := solution[j].StateAt(t)
				d := solution[j].StateAt(t + 1)
				if a.EqualSpatial(d) && b.EqualSpatial(c) {
					return Conflict{
						Kind:   Edge,
						Time:   t,
						AgentA: core.AgentID(i),
						AgentB: core.AgentID(j),
						X:      a.X,
						Y:      a.Y,
						X2:     b.X,
						Y2:     b.Y,
					}, true
				}
			}
		}
	}
	return Conflict{}, false
}

// VertexConstraint is the shared-cell constraint both agents receive from a
// Vertex conflict (spec.md §4.5). Only valid when c.Kind == Vertex; both
// agents get an identical constraint, since either one could be the one
// forced to yield the cell.
func (c Conflict) VertexConstraint() core.VertexConstraint {
	return core.VertexConstraint{T: c.Time, X: c.X, Y: c.Y}
}

// EdgeConstraints returns the two directional edge constraints an Edge
// (swap) conflict splits into: agentA's own direction of travel, and
// agentB's reversed direction. Only valid when c.Kind == Edge.
func (c Conflict) EdgeConstraints() (forA, forB core.EdgeConstraint) {
	forA = core.EdgeConstraint{T: c.Time, X1: c.X, Y1: c.Y, X2: c.X2, Y2: c.Y2}
	forB = core.EdgeConstraint{T: c.Time, X1: c.X2, Y1: c.Y2, X2: c.X, Y2: c.Y}
	return forA, forB
}
