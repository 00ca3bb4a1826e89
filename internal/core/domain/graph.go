// Package domain contains the core domain models for the asset pipeline task graph.
package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph represents a dependency graph of tasks.
// Nodes and edges are plain data so the graph can be validated before anything runs.
type Graph struct {
	name           string
	entry          InternedString
	tasks          map[InternedString]Task
	dependents     map[InternedString][]InternedString
	executionOrder []InternedString
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		tasks:      make(map[InternedString]Task),
		dependents: make(map[InternedString][]InternedString),
	}
}

// SetName labels the graph, usually with the pipeline name.
func (g *Graph) SetName(name string) {
	g.name = name
}

// Name returns the graph label.
func (g *Graph) Name() string {
	return g.name
}

// SetEntry designates the single task every other task must be reachable from.
func (g *Graph) SetEntry(name string) {
	g.entry = NewInternedString(name)
}

// Entry returns the designated entry task name. It is only populated after
// SetEntry or a successful Validate.
func (g *Graph) Entry() InternedString {
	return g.entry
}

// AddTask adds a task to the graph.
// It returns an error if a task with the same name already exists.
func (g *Graph) AddTask(t *Task) error {
	if _, exists := g.tasks[t.Name]; exists {
		return zerr.With(ErrTaskAlreadyExists, "task_name", t.Name.String())
	}
	g.tasks[t.Name] = *t
	return nil
}

// GetTask returns the task with the given name.
func (g *Graph) GetTask(name InternedString) (Task, bool) {
	t, ok := g.tasks[name]
	return t, ok
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.tasks)
}

// Validate checks the graph for missing dependencies and cycles, enforces a
// single entry task from which every task is reachable, and populates the
// execution order. Ties are broken by task name so the order is deterministic.
func (g *Graph) Validate() error {
	if len(g.tasks) == 0 {
		g.executionOrder = nil
		return nil
	}

	if err := g.topologicalSort(); err != nil {
		return err
	}

	g.indexDependents()

	if err := g.resolveEntry(); err != nil {
		return err
	}

	return g.checkReachable()
}

func (g *Graph) sortedNames() []InternedString {
	names := make([]InternedString, 0, len(g.tasks))
	for name := range g.tasks {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b InternedString) int {
		return strings.Compare(a.String(), b.String())
	})
	return names
}

func (g *Graph) topologicalSort() error {
	g.executionOrder = make([]InternedString, 0, len(g.tasks))
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		task, exists := g.tasks[u]
		if !exists {
			return zerr.With(ErrMissingDependency, "dependency", u.String())
		}

		for _, dep := range task.Dependencies {
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if _, ok := g.tasks[dep]; !ok {
					err := zerr.With(ErrMissingDependency, "dependency", dep.String())
					return zerr.With(err, "task", u.String())
				}
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	for _, name := range g.sortedNames() {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []InternedString, dep InternedString) error {
	var sb strings.Builder
	startIdx := 0
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	for i := startIdx; i < len(path); i++ {
		sb.WriteString(path[i].String())
		sb.WriteString(" -> ")
	}
	sb.WriteString(dep.String())
	return zerr.With(ErrCycleDetected, "cycle", sb.String())
}

func (g *Graph) indexDependents() {
	g.dependents = make(map[InternedString][]InternedString, len(g.tasks))
	for _, name := range g.executionOrder {
		for _, dep := range g.tasks[name].Dependencies {
			g.dependents[dep] = append(g.dependents[dep], name)
		}
	}
}

// Roots returns the tasks without dependencies in execution order.
func (g *Graph) Roots() []InternedString {
	var roots []InternedString
	for _, name := range g.executionOrder {
		if len(g.tasks[name].Dependencies) == 0 {
			roots = append(roots, name)
		}
	}
	return roots
}

func (g *Graph) resolveEntry() error {
	if !g.entry.IsZero() {
		if _, ok := g.tasks[g.entry]; !ok {
			return zerr.With(ErrTaskNotFound, "entry", g.entry.String())
		}
		if deps := g.tasks[g.entry].Dependencies; len(deps) > 0 {
			return zerr.With(ErrEntryHasDependencies, "entry", g.entry.String())
		}
		return nil
	}

	roots := g.Roots()
	if len(roots) != 1 {
		return zerr.With(ErrMultipleEntries, "entries", strings.Join(Strings(roots), ", "))
	}
	g.entry = roots[0]
	return nil
}

func (g *Graph) checkReachable() error {
	seen := map[InternedString]bool{g.entry: true}
	queue := []InternedString{g.entry}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range g.dependents[u] {
			if !seen[v] {
				seen[v] = true
				queue = append(queue, v)
			}
		}
	}

	var unreachable []string
	for _, name := range g.executionOrder {
		if !seen[name] {
			unreachable = append(unreachable, name.String())
		}
	}
	if len(unreachable) > 0 {
		err := zerr.With(ErrUnreachableTask, "tasks", strings.Join(unreachable, ", "))
		return zerr.With(err, "entry", g.entry.String())
	}
	return nil
}

// Dependents returns the tasks that directly depend on name.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Dependents(name InternedString) []InternedString {
	return g.dependents[name]
}

// Walk returns an iterator that yields tasks in execution order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.tasks[name]) {
				return
			}
		}
	}
}
