package core

// StateGoal pairs a State with the running goal index it corresponds to in
// PlanResult's state sequence (g0 = 0, gi = i), mirroring the original's
// PlanResult<State, Action, Cost> states/actions layout, specialized to a
// single goal per agent (spec.md's PlanResult invariant: consecutive states
// differ by the claimed Action, final state on the agent's goal).
type StateGoal struct {
	State State
	G     int
}

// ActionCost pairs an Action with its cost (always 1 on a unit-cost grid).
type ActionCost struct {
	Action Action
	Cost   int
}

// PlanResult is one agent's realized path: an ordered sequence of
// (State, g) paired with (Action, cost), plus the total path cost.
type PlanResult struct {
	States  []StateGoal
	Actions []ActionCost
	Cost    int
}

// Path returns just the State sequence, in order.
func (p PlanResult) Path() []State {
	out := make([]State, len(p.States))
	for i, sg := range p.States {
		out[i] = sg.State
	}
	return out
}

// StateAt returns the agent's state at time t. Per spec.md §4.4, an agent
// that has already reached its goal is assumed to wait there indefinitely,
// so querying past the end of the path returns the final state with T
// reset to t — this is what makes late-time conflicts against a completed,
// stationary agent detectable (spec.md §9, "getState" semantics).
func (p PlanResult) StateAt(t int) State {
	if len(p.States) == 0 {
		return State{T: t}
	}
	if t < len(p.States) {
		return p.States[t].State
	}
	last := p.States[len(p.States)-1].State
	return State{T: t, X: last.X, Y: last.Y}
}

// Solution is the ordered-by-agent-index list of per-agent PlanResults for
// one high-level node.
type Solution []PlanResult

// SumOfCosts returns the sum of per-agent path costs.
func (s Solution) SumOfCosts() int {
	total := 0
	for _, pr := range s {
		total += pr.Cost
	}
	return total
}

// Makespan returns the max per-agent path cost.
func (s Solution) Makespan() int {
	max := 0
	for _, pr := range s {
		if pr.Cost > max {
			max = pr.Cost
		}
	}
	return max
}

// Stats accumulates the counters the planner exposes externally.
type Stats struct {
	Cost               int
	Makespan           int
	RuntimeSeconds     float64
	HighLevelExpanded  int
	LowLevelExpanded   int
	NumTaskAssignments int
}

// Plan is the engine's output: statistics plus the per-agent schedule, or
// an "unsuccessful" marker with partial statistics on infeasibility.
type Plan struct {
	Successful bool
	Stats      Stats
	Agents     Solution // Agents[i] is agent i's PlanResult.
}
