// Package steps implements the leaf operations behind every pipeline task.
package steps

import (
	"context"
	"io"

	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/sitepipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Runner)(nil)

// Deps are the adapters the leaf operations delegate to.
type Deps struct {
	Resolver       ports.InputResolver
	Compiler       ports.StyleCompiler
	Prefixer       ports.Prefixer
	Purger         ports.Purger
	StyleMinifier  ports.StyleMinifier
	ScriptMinifier ports.ScriptMinifier
	Images         ports.ImageOptimizer
	Commands       ports.CommandRunner
	Logger         ports.Logger
}

// Runner executes tasks by dispatching on their action.
type Runner struct {
	cfg  *domain.Config
	deps Deps
}

// NewRunner creates a Runner for the given project configuration.
func NewRunner(cfg *domain.Config, deps Deps) *Runner {
	return &Runner{cfg: cfg, deps: deps}
}

// Execute implements ports.Executor.
func (r *Runner) Execute(ctx context.Context, task *domain.Task, logs io.Writer) error {
	if logs == nil {
		logs = io.Discard
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	switch task.Action {
	case domain.ActionClean:
		return r.clean(task, logs)
	case domain.ActionHTML:
		return r.html(ctx, task, logs)
	case domain.ActionStyles:
		return r.styles(ctx, task, logs)
	case domain.ActionScripts:
		return r.scripts(task, logs)
	case domain.ActionImages:
		return r.images(ctx, task, logs)
	default:
		return zerr.With(domain.ErrUnknownAction, "action", string(task.Action))
	}
}

// resolve expands the task's root-relative globs into absolute file paths.
func (r *Runner) resolve(task *domain.Task) ([]string, error) {
	files, err := r.deps.Resolver.ResolveInputs(task.InputPatterns(), r.cfg.Root)
	if err != nil {
		return nil, zerr.With(err, "task", task.Name.String())
	}
	return files, nil
}
