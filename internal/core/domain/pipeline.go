package domain

import "go.trai.ch/zerr"

// Stage is a group of tasks with no ordering among them.
type Stage []Task

// Pipeline is an ordered sequence of stages. Every task in a stage depends on
// every task of the previous stage, so a stage starts only after the prior one
// has completed as a whole.
type Pipeline struct {
	Name   string
	Target Target
	Stages []Stage
}

// NewPipeline creates an empty pipeline for the given target.
func NewPipeline(name string, target Target) *Pipeline {
	return &Pipeline{Name: name, Target: target}
}

// Then appends a stage made of the given tasks.
func (p *Pipeline) Then(tasks ...Task) *Pipeline {
	stage := make(Stage, len(tasks))
	copy(stage, tasks)
	p.Stages = append(p.Stages, stage)
	return p
}

// TaskNames lists the task names stage by stage.
func (p *Pipeline) TaskNames() []string {
	var names []string
	for _, stage := range p.Stages {
		for i := range stage {
			names = append(names, stage[i].Name.String())
		}
	}
	return names
}

// Graph compiles the pipeline into a validated dependency graph.
// The first stage must hold exactly one task; it becomes the graph entry.
func (p *Pipeline) Graph() (*Graph, error) {
	if len(p.Stages) == 0 || len(p.Stages[0]) == 0 {
		return nil, zerr.With(ErrEmptyPipeline, "pipeline", p.Name)
	}
	if len(p.Stages[0]) > 1 {
		err := zerr.With(ErrMultipleEntries, "pipeline", p.Name)
		return nil, zerr.With(err, "entries", len(p.Stages[0]))
	}

	g := NewGraph()
	g.SetName(p.Name)
	g.SetEntry(p.Stages[0][0].Name.String())

	var previous []InternedString
	for _, stage := range p.Stages {
		if len(stage) == 0 {
			return nil, zerr.With(ErrEmptyStage, "pipeline", p.Name)
		}
		current := make([]InternedString, 0, len(stage))
		for i := range stage {
			task := stage[i]
			task.Dependencies = append(append([]InternedString(nil), task.Dependencies...), previous...)
			if err := g.AddTask(&task); err != nil {
				return nil, zerr.With(err, "pipeline", p.Name)
			}
			current = append(current, task.Name)
		}
		previous = current
	}

	if err := g.Validate(); err != nil {
		return nil, zerr.With(err, "pipeline", p.Name)
	}
	return g, nil
}
