package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/zerr"
)

func task(name string, deps ...string) *domain.Task {
	return &domain.Task{
		Name:         domain.NewInternedString(name),
		Dependencies: domain.NewInternedStrings(deps),
	}
}

func TestGraph_AddTask_Duplicate(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddTask(task("clean")))

	err := g.AddTask(task("clean"))
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, "clean", zErr.Metadata()["task_name"])
}

func TestGraph_Validate(t *testing.T) {
	tests := []struct {
		name        string
		tasks       []*domain.Task
		entry       string
		errContains string
	}{
		{
			name:        "self cycle",
			tasks:       []*domain.Task{task("A", "A")},
			errContains: "cycle detected",
		},
		{
			name:        "two node cycle",
			tasks:       []*domain.Task{task("root"), task("A", "root", "B"), task("B", "A")},
			errContains: "cycle detected",
		},
		{
			name:        "missing dependency",
			tasks:       []*domain.Task{task("A", "ghost")},
			errContains: "missing dependency",
		},
		{
			name:        "two entries",
			tasks:       []*domain.Task{task("clean"), task("other"), task("html", "clean", "other")},
			errContains: "exactly one entry",
		},
		{
			name:        "unreachable from designated entry",
			tasks:       []*domain.Task{task("clean"), task("html", "clean"), task("orphan")},
			entry:       "clean",
			errContains: "unreachable",
		},
		{
			name:        "designated entry with dependencies",
			tasks:       []*domain.Task{task("clean"), task("html", "clean")},
			entry:       "html",
			errContains: "entry task must not have dependencies",
		},
		{
			name:        "designated entry missing",
			tasks:       []*domain.Task{task("clean")},
			entry:       "nope",
			errContains: "task not found",
		},
		{
			name: "diamond",
			tasks: []*domain.Task{
				task("clean"),
				task("styles", "clean"),
				task("scripts", "clean"),
				task("done", "styles", "scripts"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := domain.NewGraph()
			for _, tk := range tt.tasks {
				require.NoError(t, g.AddTask(tk))
			}
			if tt.entry != "" {
				g.SetEntry(tt.entry)
			}

			err := g.Validate()
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestGraph_Validate_CyclePathMetadata(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddTask(task("A", "B")))
	require.NoError(t, g.AddTask(task("B", "C")))
	require.NoError(t, g.AddTask(task("C", "A")))

	err := g.Validate()
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, "A -> B -> C -> A", zErr.Metadata()["cycle"])
}

func TestGraph_WalkIsDeterministic(t *testing.T) {
	build := func() []string {
		g := domain.NewGraph()
		require.NoError(t, g.AddTask(task("clean")))
		for _, name := range []string{"styles", "scripts", "images", "html"} {
			require.NoError(t, g.AddTask(task(name, "clean")))
		}
		require.NoError(t, g.Validate())

		var order []string
		for tk := range g.Walk() {
			order = append(order, tk.Name.String())
		}
		return order
	}

	first := build()
	assert.Equal(t, "clean", first[0])
	for range 10 {
		assert.Equal(t, first, build())
	}
}

func TestGraph_DependentsAndEntry(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddTask(task("clean")))
	require.NoError(t, g.AddTask(task("html", "clean")))
	require.NoError(t, g.AddTask(task("styles", "clean")))
	require.NoError(t, g.Validate())

	assert.Equal(t, "clean", g.Entry().String())
	assert.ElementsMatch(t, []string{"html", "styles"}, domain.Strings(g.Dependents(domain.NewInternedString("clean"))))
	assert.Empty(t, g.Dependents(domain.NewInternedString("html")))
	assert.Equal(t, 3, g.TaskCount())
}

func TestGraph_EmptyIsValid(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.Validate())
	assert.Empty(t, g.Roots())
}

func TestTask_InputPatternsOnStoredValue(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddTask(&domain.Task{
		Name:   domain.NewInternedString("scripts"),
		Inputs: domain.NewInternedStrings([]string{"src/assets/js/**/*.js"}),
	}))

	lookup := func(name string) domain.Task {
		tk, _ := g.GetTask(domain.NewInternedString(name))
		return tk
	}
	assert.Equal(t, []string{"src/assets/js/**/*.js"}, lookup("scripts").InputPatterns())
	assert.Empty(t, lookup("missing").InputPatterns())
}
