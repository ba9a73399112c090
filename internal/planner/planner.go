// Package planner is the facade spec.md §2's component table calls C7: it
// wires Problem validation, GridDomain construction and the CBS-TA engine
// together into a single Solve call, the way the teacher's cmd/mapfhet
// wires CBS+Workspace+Solver together inline rather than through a
// reusable facade — this package gives that wiring a stable, testable
// entry point instead of repeating it in every caller (cmd/cbsta,
// benchmarks, tests).
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/elektrokombinacija/cbs-ta/internal/cbsta"
	"github.com/elektrokombinacija/cbs-ta/internal/core"
)

// Option configures a Planner.
type Option func(*Planner)

// WithParallelChildren enables concurrent conflict-child expansion in the
// high-level search (spec.md §5).
func WithParallelChildren(enabled bool) Option {
	return func(p *Planner) { p.parallel = enabled }
}

// WithLogger overrides the planner's structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) { p.log = l }
}

// Planner runs CBS-TA end to end over a validated Problem.
type Planner struct {
	parallel bool
	log      *slog.Logger
}

// New builds a Planner.
func New(opts ...Option) *Planner {
	p := &Planner{log: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Solve validates problem, builds its GridDomain and runs the CBS-TA engine
// to completion, cancellation, or exhaustion. On validation failure it
// returns core.ErrInvalidProblem before any search begins (spec.md §7:
// InvalidProblem is fatal and detected at construction).
func (p *Planner) Solve(ctx context.Context, problem *core.Problem) (core.Plan, error) {
	if err := problem.Validate(); err != nil {
		return core.Plan{}, err
	}

	start := time.Now()
	domain := cbsta.NewGridDomain(problem)
	engine := cbsta.New(
		domain,
		len(problem.Starts),
		problem.EffectiveMaxTaskAssignments(),
		cbsta.WithParallelChildren(p.parallel),
		cbsta.WithLogger(p.log),
	)

	plan, err := engine.Solve(ctx)
	plan.Stats.RuntimeSeconds = time.Since(start).Seconds()

	if err != nil {
		p.log.Warn("planning did not produce a solution", "error", err)
		return plan, err
	}

	p.log.Info("planning succeeded",
		"cost", plan.Stats.Cost,
		"makespan", plan.Stats.Makespan,
		"highLevelExpanded", plan.Stats.HighLevelExpanded,
		"lowLevelExpanded", plan.Stats.LowLevelExpanded,
		"numTaskAssignments", plan.Stats.NumTaskAssignments,
		"runtimeSeconds", plan.Stats.RuntimeSeconds,
	)
	return plan, nil
}

// Validate checks problem's invariants without running the search, useful
// for a collaborator parser to fail fast (spec.md §6).
func Validate(problem *core.Problem) error {
	if err := problem.Validate(); err != nil {
		return fmt.Errorf("planner: %w", err)
	}
	return nil
}
