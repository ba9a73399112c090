package core

// Assignment is a bijective partial map from agent index to goal index.
// Each high-level node carries exactly one fixed Assignment; the low-level
// search uses it to know each agent's goal.
type Assignment map[AgentID]GoalID

// Clone returns a shallow copy (Assignment values are comparable ints, so a
// shallow copy is a full copy).
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Cost sums the per-(agent,goal) entries of cost against this assignment.
// cost[a][g] must be finite for every (a, assignment[a]) pair.
func (a Assignment) Cost(cost [][]int) int {
	total := 0
	for agent, goal := range a {
		total += cost[agent][goal]
	}
	return total
}
