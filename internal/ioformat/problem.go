// Package ioformat is the external-collaborator boundary (spec.md §6,
// C8/C10): loading a Problem from YAML and writing a Plan back out, plus a
// plain-text schedule renderer that stands in for the teacher's gioui
// visualizer (internal/vis), which this project has no GUI surface for.
//
// The wire shape mirrors the original cbs_ta.cpp example's YAML exactly
// (map.dimensions/map.obstacles/agents[].start|goal on input,
// statistics/schedule on output) — that file used yaml-cpp; this one uses
// gopkg.in/yaml.v3, the ecosystem's equivalent and the library already
// present across the retrieved pack.
package ioformat

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/cbs-ta/internal/core"
)

type yamlMap struct {
	Dimensions [2]int   `yaml:"dimensions"`
	Obstacles  [][2]int `yaml:"obstacles"`
}

type yamlAgent struct {
	Start [2]int `yaml:"start"`
	Goal  [2]int `yaml:"goal"`
}

type yamlProblem struct {
	Map    yamlMap     `yaml:"map"`
	Agents []yamlAgent `yaml:"agents"`
}

// LoadProblem parses a YAML document of the form:
//
//	map:
//	  dimensions: [w, h]
//	  obstacles: [[x, y], ...]
//	agents:
//	  - start: [x, y]
//	    goal: [x, y]
//
// into a core.Problem. maxTaskAssignments and groupSize are not part of the
// wire format (the original treats them as CLI flags, not instance data)
// and are set on the returned Problem by the caller.
func LoadProblem(r io.Reader) (*core.Problem, error) {
	var doc yamlProblem
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("ioformat: decode problem: %w", err)
	}

	p := &core.Problem{
		W: doc.Map.Dimensions[0],
		H: doc.Map.Dimensions[1],
	}
	for _, o := range doc.Map.Obstacles {
		p.Obstacles = append(p.Obstacles, core.Cell{X: o[0], Y: o[1]})
	}
	for _, a := range doc.Agents {
		p.Starts = append(p.Starts, core.State{X: a.Start[0], Y: a.Start[1]})
		p.Goals = append(p.Goals, core.Cell{X: a.Goal[0], Y: a.Goal[1]})
	}
	return p, nil
}

// WriteProblem serializes problem back to the same YAML shape LoadProblem
// reads, mainly for round-trip tests and for tools/gen_instances.
func WriteProblem(w io.Writer, p *core.Problem) error {
	doc := yamlProblem{
		Map: yamlMap{Dimensions: [2]int{p.W, p.H}},
	}
	for _, o := range p.Obstacles {
		doc.Map.Obstacles = append(doc.Map.Obstacles, [2]int{o.X, o.Y})
	}
	for i := range p.Starts {
		doc.Agents = append(doc.Agents, yamlAgent{
			Start: [2]int{p.Starts[i].X, p.Starts[i].Y},
			Goal:  [2]int{p.Goals[i].X, p.Goals[i].Y},
		})
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("ioformat: encode problem: %w", err)
	}
	return nil
}
