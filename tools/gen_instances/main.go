// Command gen_instances generates deterministic random MAPF-TA grid
// instances for benchmarking and for the brute-force optimality oracle
// (spec.md §8, property 7). Adapted from the teacher's instance generator,
// specialized to a 4-connected grid with agent starts and unassigned goal
// cells in place of the original's heterogeneous robot/task workspace.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/elektrokombinacija/cbs-ta/internal/core"
	"github.com/elektrokombinacija/cbs-ta/internal/ioformat"
)

// genParams mirrors the teacher's InstanceParams: every knob that makes one
// generated run reproducibly different from another.
type genParams struct {
	Seed         int64
	NumAgents    int
	GridWidth    int
	GridHeight   int
	ObstacleFrac float64
}

// generateProblem builds a random core.Problem: an obstacle field at the
// requested density, then NumAgents free cells assigned as starts and
// another NumAgents free cells (disjoint from the starts) assigned as
// goals, with no attempt at agent-to-goal correspondence — that pairing is
// the planner's job.
func generateProblem(p genParams) *core.Problem {
	rng := rand.New(rand.NewSource(p.Seed))

	var obstacles []core.Cell
	occupied := make(map[core.Cell]bool)
	for y := 0; y < p.GridHeight; y++ {
		for x := 0; x < p.GridWidth; x++ {
			if rng.Float64() < p.ObstacleFrac {
				c := core.Cell{X: x, Y: y}
				obstacles = append(obstacles, c)
				occupied[c] = true
			}
		}
	}

	free := make([]core.Cell, 0, p.GridWidth*p.GridHeight)
	for y := 0; y < p.GridHeight; y++ {
		for x := 0; x < p.GridWidth; x++ {
			c := core.Cell{X: x, Y: y}
			if !occupied[c] {
				free = append(free, c)
			}
		}
	}
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	need := 2 * p.NumAgents
	if need > len(free) {
		need = len(free) - (len(free) % 2)
	}
	picked := free[:need]

	problem := &core.Problem{
		W:         p.GridWidth,
		H:         p.GridHeight,
		Obstacles: obstacles,
	}
	n := need / 2
	for i := 0; i < n; i++ {
		problem.Starts = append(problem.Starts, core.State{X: picked[i].X, Y: picked[i].Y})
		problem.Goals = append(problem.Goals, picked[n+i])
	}
	return problem
}

func main() {
	seed := flag.Int64("seed", 42, "random seed for deterministic generation")
	numAgents := flag.Int("agents", 10, "number of agents")
	width := flag.Int("width", 10, "grid width")
	height := flag.Int("height", 10, "grid height")
	obstacleFrac := flag.Float64("obstacles", 0.1, "fraction of cells that are obstacles")
	outputDir := flag.String("output", "testdata", "output directory")
	count := flag.Int("count", 1, "number of instances to generate, seeded sequentially from -seed")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "gen_instances: creating output directory: %v\n", err)
		os.Exit(1)
	}

	for i := 0; i < *count; i++ {
		params := genParams{
			Seed:         *seed + int64(i),
			NumAgents:    *numAgents,
			GridWidth:    *width,
			GridHeight:   *height,
			ObstacleFrac: *obstacleFrac,
		}
		problem := generateProblem(params)

		name := fmt.Sprintf("mapfta_%da_%dx%d_%d.yaml", len(problem.Starts), params.GridWidth, params.GridHeight, params.Seed)
		path := filepath.Join(*outputDir, name)

		f, err := os.Create(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gen_instances: %v\n", err)
			continue
		}
		if err := ioformat.WriteProblem(f, problem); err != nil {
			fmt.Fprintf(os.Stderr, "gen_instances: writing %s: %v\n", path, err)
		}
		f.Close()

		fmt.Printf("generated: %s (%d agents, %dx%d grid, %d obstacles)\n",
			path, len(problem.Starts), params.GridWidth, params.GridHeight, len(problem.Obstacles))
	}
}
