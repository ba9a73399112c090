// Command cbsta runs CBS-TA over a YAML problem instance, mirroring the
// original cbs_ta.cpp example's --input/--output/--maxTaskAssignments/
// --groupSize flags (spec.md §6).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elektrokombinacija/cbs-ta/internal/ioformat"
	"github.com/elektrokombinacija/cbs-ta/internal/planner"
)

func main() {
	input := flag.String("input", "", "input YAML problem file (required)")
	output := flag.String("output", "", "output YAML plan file (required)")
	maxTaskAssignments := flag.Int("max-task-assignments", 0, "cap on distinct assignments explored (0 = unbounded)")
	groupSize := flag.Int("group-size", 0, "agent/goal grouping window (0 = disabled)")
	timeout := flag.Duration("timeout", 0, "overall search timeout (0 = none)")
	parallel := flag.Bool("parallel", false, "expand conflict children concurrently")
	text := flag.Bool("text", false, "also print a text-rendered schedule to stdout")
	flag.Parse()

	log := slog.Default()

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "cbsta: -input and -output are required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(log, *input, *output, *maxTaskAssignments, *groupSize, *timeout, *parallel, *text); err != nil {
		log.Error("cbsta failed", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, input, output string, maxTaskAssignments, groupSize int, timeout time.Duration, parallel, text bool) error {
	inFile, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("cbsta: open input: %w", err)
	}
	defer inFile.Close()

	problem, err := ioformat.LoadProblem(inFile)
	if err != nil {
		return fmt.Errorf("cbsta: load problem: %w", err)
	}
	problem.MaxTaskAssignments = maxTaskAssignments
	problem.GroupSize = groupSize

	ctx := context.Background()
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := planner.New(
		planner.WithParallelChildren(parallel),
		planner.WithLogger(log),
	)

	plan, solveErr := p.Solve(ctx, problem)
	// A plan is still written out on failure: the original records partial
	// statistics rather than leaving the caller with nothing (spec.md §6).

	outFile, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("cbsta: create output: %w", err)
	}
	if err := ioformat.WriteResult(outFile, plan); err != nil {
		outFile.Close()
		return fmt.Errorf("cbsta: write plan: %w", err)
	}
	if err := outFile.Close(); err != nil {
		return fmt.Errorf("cbsta: close output: %w", err)
	}

	if text && plan.Successful {
		if err := ioformat.RenderText(os.Stdout, problem.Grid(), plan); err != nil {
			return fmt.Errorf("cbsta: render schedule: %w", err)
		}
	}

	return solveErr
}
