package core

// AgentID indexes into Problem.Starts.
type AgentID int

// GoalID indexes into Problem.Goals.
type GoalID int

// VertexConstraint forbids an agent from occupying (X,Y) at time T.
type VertexConstraint struct {
	T    int
	X, Y int
}

// Cell returns the constrained cell.
func (vc VertexConstraint) Cell() Cell { return Cell{X: vc.X, Y: vc.Y} }

// EdgeConstraint forbids an agent at (X1,Y1) at time T from moving to
// (X2,Y2) at time T+1. Directional: a swap conflict produces one
// EdgeConstraint per agent, each in that agent's direction of travel.
type EdgeConstraint struct {
	T          int
	X1, Y1     int
	X2, Y2     int
}

// Constraints is the (V, E) pair of vertex and edge constraints accumulated
// against a single agent along one branch of the constraint tree.
type Constraints struct {
	V map[VertexConstraint]struct{}
	E map[EdgeConstraint]struct{}
}

// NewConstraints returns an empty Constraints value.
func NewConstraints() Constraints {
	return Constraints{V: make(map[VertexConstraint]struct{}), E: make(map[EdgeConstraint]struct{})}
}

// Clone deep-copies c so that extending the copy never aliases the
// original — required because every high-level child receives a
// deep-copied, extended profile (spec.md §5, "no aliasing between
// siblings").
func (c Constraints) Clone() Constraints {
	out := NewConstraints()
	for k := range c.V {
		out.V[k] = struct{}{}
	}
	for k := range c.E {
		out.E[k] = struct{}{}
	}
	return out
}

// Add merges other into c in place (set union), matching the original
// Constraints::add.
func (c Constraints) Add(other Constraints) {
	for k := range other.V {
		c.V[k] = struct{}{}
	}
	for k := range other.E {
		c.E[k] = struct{}{}
	}
}

// Overlap reports whether c and other share any vertex or edge constraint
// (set intersection is non-empty), matching the original Constraints::overlap.
// Not used by the main CBS-TA loop; kept for ConstraintProfile diagnostics
// and tests, per the original source.
func (c Constraints) Overlap(other Constraints) bool {
	for k := range c.V {
		if _, ok := other.V[k]; ok {
			return true
		}
	}
	for k := range c.E {
		if _, ok := other.E[k]; ok {
			return true
		}
	}
	return false
}

// WithVertex returns a clone of c with one additional vertex constraint.
func (c Constraints) WithVertex(vc VertexConstraint) Constraints {
	out := c.Clone()
	out.V[vc] = struct{}{}
	return out
}

// WithEdge returns a clone of c with one additional edge constraint.
func (c Constraints) WithEdge(ec EdgeConstraint) Constraints {
	out := c.Clone()
	out.E[ec] = struct{}{}
	return out
}

// LastGoalConstraintTime returns the largest T over vertex constraints in
// c whose cell equals goal, or -1 if none. The low-level goal test requires
// a solution state's time to exceed this value (spec.md §4.2).
func (c Constraints) LastGoalConstraintTime(goal Cell) int {
	last := -1
	for vc := range c.V {
		if vc.Cell() == goal && vc.T > last {
			last = vc.T
		}
	}
	return last
}

// ConstraintProfile maps agent index to that agent's accumulated
// Constraints. Invariant: each child high-level node extends its parent's
// profile on exactly one agent by exactly one added constraint.
type ConstraintProfile map[AgentID]Constraints

// NewConstraintProfile returns an empty profile.
func NewConstraintProfile() ConstraintProfile {
	return make(ConstraintProfile)
}

// Clone deep-copies the whole profile.
func (p ConstraintProfile) Clone() ConstraintProfile {
	out := make(ConstraintProfile, len(p))
	for a, c := range p {
		out[a] = c.Clone()
	}
	return out
}

// For returns the Constraints for agent a, or an empty value if none have
// been recorded yet.
func (p ConstraintProfile) For(a AgentID) Constraints {
	if c, ok := p[a]; ok {
		return c
	}
	return NewConstraints()
}

// WithVertex returns a clone of p with one vertex constraint added for
// agent a.
func (p ConstraintProfile) WithVertex(a AgentID, vc VertexConstraint) ConstraintProfile {
	out := p.Clone()
	out[a] = out.For(a).WithVertex(vc)
	return out
}

// WithEdge returns a clone of p with one edge constraint added for agent a.
func (p ConstraintProfile) WithEdge(a AgentID, ec EdgeConstraint) ConstraintProfile {
	out := p.Clone()
	out[a] = out.For(a).WithEdge(ec)
	return out
}
