package ioformat

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/cbs-ta/internal/core"
)

type yamlStats struct {
	Cost               int     `yaml:"cost"`
	Makespan           int     `yaml:"makespan"`
	Runtime            float64 `yaml:"runtime"`
	HighLevelExpanded  int     `yaml:"highLevelExpanded"`
	LowLevelExpanded   int     `yaml:"lowLevelExpanded"`
	NumTaskAssignments int     `yaml:"numTaskAssignments"`
}

type yamlScheduleEntry struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	T int `yaml:"t"`
}

type yamlPlan struct {
	Successful bool                           `yaml:"successful"`
	Statistics yamlStats                      `yaml:"statistics"`
	Schedule   map[string][]yamlScheduleEntry `yaml:"schedule,omitempty"`
}

// WriteResult serializes plan to the statistics/schedule YAML shape the
// original cbs_ta.cpp main() writes, plus a top-level "successful" marker
// for the infeasible case the original only logs to stdout (spec.md §6:
// "On infeasibility: an unsuccessful marker and partial statistics").
func WriteResult(w io.Writer, plan core.Plan) error {
	doc := yamlPlan{
		Successful: plan.Successful,
		Statistics: yamlStats{
			Cost:               plan.Stats.Cost,
			Makespan:           plan.Stats.Makespan,
			Runtime:            plan.Stats.RuntimeSeconds,
			HighLevelExpanded:  plan.Stats.HighLevelExpanded,
			LowLevelExpanded:   plan.Stats.LowLevelExpanded,
			NumTaskAssignments: plan.Stats.NumTaskAssignments,
		},
	}
	if plan.Successful {
		doc.Schedule = make(map[string][]yamlScheduleEntry, len(plan.Agents))
		for i, pr := range plan.Agents {
			entries := make([]yamlScheduleEntry, len(pr.States))
			for j, sg := range pr.States {
				entries[j] = yamlScheduleEntry{X: sg.State.X, Y: sg.State.Y, T: sg.State.T}
			}
			doc.Schedule[fmt.Sprintf("agent%d", i)] = entries
		}
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("ioformat: encode plan: %w", err)
	}
	return nil
}
