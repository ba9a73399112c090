// Command run_benchmarks runs the CBS-TA planner over a directory of YAML
// instances (as produced by tools/gen_instances) and writes a CSV report.
// Adapted from the teacher's benchmark runner: that one shelled out to a
// fixed list of named solver binaries via os/exec because it compared many
// heterogeneous algorithms; this project has exactly one engine, so it
// calls internal/planner directly in-process instead and drops os/exec
// (see DESIGN.md).
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/elektrokombinacija/cbs-ta/internal/ioformat"
	"github.com/elektrokombinacija/cbs-ta/internal/planner"
)

// result captures one instance run's outcome, mirroring the teacher's
// BenchmarkResult shape minus the fields (deadlines, energy) that had no
// analogue once specialized to CBS-TA.
type result struct {
	Instance           string
	GoVersion          string
	OS, Arch           string
	NumAgents          int
	GridSize           string
	Success            bool
	RuntimeMs          float64
	Cost               int
	Makespan           int
	HighLevelExpanded  int
	LowLevelExpanded   int
	NumTaskAssignments int
}

func runInstance(path string, timeout time.Duration, parallel bool) (*result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	problem, err := ioformat.LoadProblem(f)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	r := &result{
		Instance:  filepath.Base(path),
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumAgents: len(problem.Starts),
		GridSize:  fmt.Sprintf("%dx%d", problem.W, problem.H),
	}

	plan, err := planner.New(planner.WithParallelChildren(parallel)).Solve(ctx, problem)
	r.Success = err == nil && plan.Successful
	r.RuntimeMs = plan.Stats.RuntimeSeconds * 1000
	r.Cost = plan.Stats.Cost
	r.Makespan = plan.Stats.Makespan
	r.HighLevelExpanded = plan.Stats.HighLevelExpanded
	r.LowLevelExpanded = plan.Stats.LowLevelExpanded
	r.NumTaskAssignments = plan.Stats.NumTaskAssignments
	return r, nil
}

func writeCSV(results []*result, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{
		"instance", "go_version", "os", "arch", "num_agents", "grid_size",
		"success", "runtime_ms", "cost", "makespan",
		"high_level_expanded", "low_level_expanded", "num_task_assignments",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.Instance, r.GoVersion, r.OS, r.Arch,
			fmt.Sprintf("%d", r.NumAgents), r.GridSize,
			fmt.Sprintf("%t", r.Success), fmt.Sprintf("%.3f", r.RuntimeMs),
			fmt.Sprintf("%d", r.Cost), fmt.Sprintf("%d", r.Makespan),
			fmt.Sprintf("%d", r.HighLevelExpanded), fmt.Sprintf("%d", r.LowLevelExpanded),
			fmt.Sprintf("%d", r.NumTaskAssignments),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(results []*result) {
	sort.Slice(results, func(i, j int) bool { return results[i].Instance < results[j].Instance })

	fmt.Println("\n=== BENCHMARK SUMMARY ===")
	fmt.Printf("%-36s %8s %10s %8s %8s %10s %10s\n",
		"Instance", "Agents", "Runtime(ms)", "Cost", "Makespan", "HLExp", "LLExp")
	successes := 0
	for _, r := range results {
		status := "FAILED"
		if r.Success {
			status = "OK"
			successes++
		}
		fmt.Printf("%-36s %8d %10.2f %8d %8d %10d %10d  %s\n",
			r.Instance, r.NumAgents, r.RuntimeMs, r.Cost, r.Makespan,
			r.HighLevelExpanded, r.LowLevelExpanded, status)
	}
	fmt.Printf("\n%d/%d instances solved\n", successes, len(results))
}

func main() {
	inputDir := flag.String("input", "testdata", "directory containing instance YAML files")
	outputFile := flag.String("output", "evidence/benchmark_results.csv", "output CSV file")
	timeout := flag.Duration("timeout", 5*time.Minute, "timeout per instance")
	parallel := flag.Bool("parallel", false, "expand conflict children concurrently")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*outputFile), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "run_benchmarks: creating output directory: %v\n", err)
		os.Exit(1)
	}

	files, err := filepath.Glob(filepath.Join(*inputDir, "*.yaml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "run_benchmarks: finding instance files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "no instance files found in %s; run gen_instances first\n", *inputDir)
		os.Exit(1)
	}

	var results []*result
	for i, file := range files {
		fmt.Printf("\r[%d/%d] running...", i+1, len(files))
		r, err := runInstance(file, *timeout, *parallel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "\nrun_benchmarks: %s: %v\n", file, err)
			continue
		}
		results = append(results, r)
	}
	fmt.Println()

	if err := writeCSV(results, *outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "run_benchmarks: writing results: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("results written to: %s\n", *outputFile)

	printSummary(results)
}
