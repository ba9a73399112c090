package core

import "errors"

// Sentinel errors surfaced by the planner. Callers should use errors.Is,
// since Validate and the high-level search wrap these with context via
// fmt.Errorf("%w: ...", ...).
var (
	// ErrInvalidProblem indicates a Problem fails validation: non-positive
	// dimensions, an out-of-bounds or obstructed start/goal, or a start/goal
	// count mismatch. Fatal, detected before search begins.
	ErrInvalidProblem = errors.New("cbsta: invalid problem")

	// ErrNoSolution indicates the high-level open set emptied before any
	// conflict-free node was popped.
	ErrNoSolution = errors.New("cbsta: no solution")

	// ErrCancelled indicates the caller's context was cancelled mid-search.
	ErrCancelled = errors.New("cbsta: cancelled")

	// ErrUnreachable indicates a single agent cannot reach its assigned
	// goal under its current constraints. Callers of internal/lowlevel see
	// this; internal/cbsta recovers from it locally by discarding the node.
	ErrUnreachable = errors.New("cbsta: goal unreachable under constraints")

	// ErrAssignmentExhausted indicates NextBestAssignment has no further
	// feasible assignment to offer.
	ErrAssignmentExhausted = errors.New("cbsta: assignment space exhausted")
)
