package ioformat

import (
	"fmt"
	"io"
	"strings"

	"github.com/elektrokombinacija/cbs-ta/internal/core"
)

// agentGlyphs cycles through a fixed alphabet for agent markers, the same
// "one character per agent, obstacles as a fixed glyph" convention the
// teacher's draw package uses for its grid cells, just rendered to a
// monospace string instead of a gioui canvas.
const agentGlyphs = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func glyphFor(agent int) byte {
	return agentGlyphs[agent%len(agentGlyphs)]
}

// renderFrame draws the grid at time t as a W*H grid of characters: '#' for
// an obstacle, '.' for free space, and the glyph of whichever agent occupies
// that cell at t (per PlanResult.StateAt's hold-at-goal semantics).
func renderFrame(w io.Writer, grid *core.Grid, sol core.Solution, t int) error {
	occupied := make(map[core.Cell]byte, len(sol))
	for i, pr := range sol {
		st := pr.StateAt(t)
		occupied[st.Cell()] = glyphFor(i)
	}

	var b strings.Builder
	for y := 0; y < grid.H; y++ {
		for x := 0; x < grid.W; x++ {
			c := core.Cell{X: x, Y: y}
			switch g, ok := occupied[c]; {
			case ok:
				b.WriteByte(g)
			case grid.IsObstacle(c):
				b.WriteByte('#')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("ioformat: render text: %w", err)
	}
	return nil
}

// RenderText writes a human-readable dump of plan: the statistics line,
// then one grid frame per timestep from 0 through the makespan. It stands
// in for the teacher's gioui workspace widget (internal/vis), which this
// project carries no GUI dependency to drive — grid rendering is
// out-of-scope per spec.md §1, so this is a minimal debugging aid, not a
// replacement visualizer.
func RenderText(w io.Writer, grid *core.Grid, plan core.Plan) error {
	if !plan.Successful {
		_, err := fmt.Fprintf(w, "no solution (highLevelExpanded=%d, lowLevelExpanded=%d)\n",
			plan.Stats.HighLevelExpanded, plan.Stats.LowLevelExpanded)
		return err
	}

	if _, err := fmt.Fprintf(w, "cost=%d makespan=%d agents=%d\n",
		plan.Stats.Cost, plan.Stats.Makespan, len(plan.Agents)); err != nil {
		return fmt.Errorf("ioformat: render text: %w", err)
	}

	makespan := plan.Agents.Makespan()
	for t := 0; t <= makespan; t++ {
		if _, err := fmt.Fprintf(w, "t=%d\n", t); err != nil {
			return fmt.Errorf("ioformat: render text: %w", err)
		}
		if err := renderFrame(w, grid, plan.Agents, t); err != nil {
			return err
		}
	}
	return nil
}
