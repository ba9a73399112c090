package cbsta

import (
	"container/heap"
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/elektrokombinacija/cbs-ta/internal/conflict"
	"github.com/elektrokombinacija/cbs-ta/internal/core"
)

// highLevelNode is one node of the CBS-TA constraint tree: a fixed
// Assignment, the ConstraintProfile that produced its Solution, and the
// Solution's total cost (spec.md §3, "HighLevelNode").
type highLevelNode struct {
	assignment core.Assignment
	profile    core.ConstraintProfile
	solution   core.Solution
	cost       int
	isRoot     bool
	seq        int
	index      int
}

type nodeHeap []*highLevelNode

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].cost != h[j].cost {
		return h[i].cost < h[j].cost
	}
	if h[i].isRoot != h[j].isRoot {
		return !h[i].isRoot // non-root (already-realized-assignment) preferred
	}
	return h[i].seq < h[j].seq
}

func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*highLevelNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// Option configures an Engine.
type Option func(*Engine)

// WithParallelChildren expands a conflict's two children concurrently via
// golang.org/x/sync/errgroup, since they read only immutable problem data
// and a node-local profile (spec.md §5: "the design permits parallelizing
// sibling child expansions... this is not required for correctness").
func WithParallelChildren(enabled bool) Option {
	return func(e *Engine) { e.parallel = enabled }
}

// WithLogger overrides the engine's structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// Engine runs the CBS-TA high-level search (spec.md §4.5) over a Domain.
type Engine struct {
	domain             Domain
	numAgents          int
	maxTaskAssignments int
	parallel           bool
	log                *slog.Logger
}

// New builds an Engine for numAgents agents over domain, cut off after
// maxTaskAssignments distinct assignments (pass a value >= 1<<30 for
// effectively unbounded, matching core.Problem.EffectiveMaxTaskAssignments).
func New(domain Domain, numAgents, maxTaskAssignments int, opts ...Option) *Engine {
	e := &Engine{
		domain:             domain,
		numAgents:          numAgents,
		maxTaskAssignments: maxTaskAssignments,
		log:                slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Solve runs the CBS-TA main loop to completion, cancellation, or
// exhaustion of the open set. It implements spec.md §4.5 exactly: lazy
// root seeding on every isRoot pop, conflict-based splitting with
// single-agent replanning otherwise.
func (e *Engine) Solve(ctx context.Context) (core.Plan, error) {
	stats := core.Stats{}
	if err := ctx.Err(); err != nil {
		return core.Plan{Successful: false, Stats: stats}, fmt.Errorf("%w: %v", core.ErrCancelled, err)
	}

	open := &nodeHeap{}
	heap.Init(open)
	seq := 0

	seedRoot := func() bool {
		if stats.NumTaskAssignments >= e.maxTaskAssignments {
			return false
		}
		_, a, ok := e.domain.NextAssignment()
		if !ok {
			return false
		}
		stats.NumTaskAssignments++

		profile := core.NewConstraintProfile()
		sol, expanded, ok := e.planAll(ctx, a, profile)
		stats.LowLevelExpanded += expanded
		if !ok {
			e.log.Debug("root assignment infeasible under empty constraints", "assignment", a)
			return false
		}
		seq++
		heap.Push(open, &highLevelNode{
			assignment: a,
			profile:    profile,
			solution:   sol,
			cost:       sol.SumOfCosts(),
			isRoot:     true,
			seq:        seq,
		})
		return true
	}

	if !seedRoot() {
		if err := ctx.Err(); err != nil {
			return core.Plan{Successful: false, Stats: stats}, fmt.Errorf("%w: %v", core.ErrCancelled, err)
		}
		return core.Plan{Successful: false, Stats: stats}, fmt.Errorf("%w: initial assignment infeasible", core.ErrNoSolution)
	}

	for open.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return core.Plan{Successful: false, Stats: stats}, fmt.Errorf("%w: %v", core.ErrCancelled, err)
		}

		node := heap.Pop(open).(*highLevelNode)
		stats.HighLevelExpanded++

		c, found := e.domain.FirstConflict(node.solution)
		if !found {
			stats.Cost = node.solution.SumOfCosts()
			stats.Makespan = node.solution.Makespan()
			return core.Plan{Successful: true, Stats: stats, Agents: node.solution}, nil
		}

		if node.isRoot {
			seedRoot()
		}

		e.log.Debug("splitting on conflict", "kind", c.Kind, "time", c.Time, "agentA", c.AgentA, "agentB", c.AgentB)

		children := e.buildChildren(ctx, node, c, &stats)
		for _, child := range children {
			seq++
			child.seq = seq
			heap.Push(open, child)
		}
	}

	if err := ctx.Err(); err != nil {
		return core.Plan{Successful: false, Stats: stats}, fmt.Errorf("%w: %v", core.ErrCancelled, err)
	}
	return core.Plan{Successful: false, Stats: stats}, core.ErrNoSolution
}

// buildChildren produces the (at most two) children of node by constraining
// each conflicting agent in turn and replanning only that agent.
func (e *Engine) buildChildren(ctx context.Context, node *highLevelNode, c conflict.Conflict, stats *core.Stats) []*highLevelNode {
	type branch struct {
		agent core.AgentID
		apply func(core.ConstraintProfile) core.ConstraintProfile
	}

	var branches []branch
	if c.Kind == conflict.Vertex {
		v := c.VertexConstraint()
		branches = []branch{
			{c.AgentA, func(p core.ConstraintProfile) core.ConstraintProfile { return p.WithVertex(c.AgentA, v) }},
			{c.AgentB, func(p core.ConstraintProfile) core.ConstraintProfile { return p.WithVertex(c.AgentB, v) }},
		}
	} else {
		forA, forB := c.EdgeConstraints()
		branches = []branch{
			{c.AgentA, func(p core.ConstraintProfile) core.ConstraintProfile { return p.WithEdge(c.AgentA, forA) }},
			{c.AgentB, func(p core.ConstraintProfile) core.ConstraintProfile { return p.WithEdge(c.AgentB, forB) }},
		}
	}

	// Each branch writes only its own slot, so the slices are safe to share
	// across goroutines without a mutex; stats is folded in sequentially
	// after every branch has finished (spec.md §5 shared-resources rule:
	// the engine's own bookkeeping is not part of the "no shared mutable
	// state" contract, so it still needs an explicit join point).
	results := make([]*highLevelNode, len(branches))
	expandedPerBranch := make([]int, len(branches))
	build := func(i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		b := branches[i]
		profile := b.apply(node.profile)
		goal := e.domain.GoalCell(node.assignment[b.agent])
		result, expanded, ok := e.domain.PlanAgent(ctx, b.agent, goal, profile.For(b.agent))
		expandedPerBranch[i] = expanded
		if !ok {
			return nil
		}
		sol := make(core.Solution, len(node.solution))
		copy(sol, node.solution)
		sol[b.agent] = result
		results[i] = &highLevelNode{
			assignment: node.assignment,
			profile:    profile,
			solution:   sol,
			cost:       sol.SumOfCosts(),
		}
		return nil
	}

	if e.parallel {
		g, gctx := errgroup.WithContext(ctx)
		ctx = gctx
		for i := range branches {
			i := i
			g.Go(func() error { return build(i) })
		}
		_ = g.Wait()
	} else {
		for i := range branches {
			_ = build(i)
		}
	}

	out := make([]*highLevelNode, 0, len(results))
	for i, r := range results {
		stats.LowLevelExpanded += expandedPerBranch[i]
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// planAll runs the low-level search for every agent under a's assignment
// and the given profile, returning the combined Solution. ctx is checked
// between agents as well as within each agent's own search.
func (e *Engine) planAll(ctx context.Context, a core.Assignment, profile core.ConstraintProfile) (core.Solution, int, bool) {
	sol := make(core.Solution, e.numAgents)
	expanded := 0
	for agent := 0; agent < e.numAgents; agent++ {
		if err := ctx.Err(); err != nil {
			return nil, expanded, false
		}
		aid := core.AgentID(agent)
		goalID, ok := a[aid]
		if !ok {
			return nil, expanded, false
		}
		goalCell := e.domain.GoalCell(goalID)
		result, n, ok := e.domain.PlanAgent(ctx, aid, goalCell, profile.For(aid))
		expanded += n
		if !ok {
			return nil, expanded, false
		}
		sol[agent] = result
	}
	return sol, expanded, true
}
