// Package app implements the application layer for sitepipe.
package app

import (
	"context"
	"errors"
	"runtime"

	"github.com/google/uuid"
	"go.trai.ch/sitepipe/internal/adapters/preview"
	"go.trai.ch/sitepipe/internal/adapters/watcher"
	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/sitepipe/internal/core/ports"
	"go.trai.ch/sitepipe/internal/engine/pipeline"
	"go.trai.ch/sitepipe/internal/engine/scheduler"
	"go.trai.ch/sitepipe/internal/engine/steps"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	renderer     ports.Renderer
	schedulers   *scheduler.Factory
	previews     *preview.Factory
	watcher      ports.Watcher
	filter       *watcher.ContentFilter
	deps         steps.Deps
	workDir      string
	parallelism  int
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	renderer ports.Renderer,
	schedulers *scheduler.Factory,
	previews *preview.Factory,
	w ports.Watcher,
	filter *watcher.ContentFilter,
	deps steps.Deps,
) *App {
	deps.Logger = log
	return &App{
		configLoader: loader,
		logger:       log,
		renderer:     renderer,
		schedulers:   schedulers,
		previews:     previews,
		watcher:      w,
		filter:       filter,
		deps:         deps,
		workDir:      ".",
		parallelism:  runtime.NumCPU(),
	}
}

// WithWorkDir sets the project directory. It defaults to the current directory.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// WithParallelism bounds the number of concurrently running tasks.
func (a *App) WithParallelism(n int) *App {
	a.parallelism = n
	return a
}

// Prod builds the optimized site into the production output root.
func (a *App) Prod(ctx context.Context) error {
	cfg, err := a.load()
	if err != nil {
		return err
	}
	return a.withRenderer(ctx, func(ctx context.Context) error {
		return a.build(ctx, cfg, pipeline.Production(cfg))
	})
}

// Clean removes both output roots.
func (a *App) Clean(ctx context.Context) error {
	cfg, err := a.load()
	if err != nil {
		return err
	}
	return a.withRenderer(ctx, func(ctx context.Context) error {
		for _, target := range []domain.Target{domain.TargetDevelopment, domain.TargetProduction} {
			if err := a.build(ctx, cfg, pipeline.Clean(cfg, target)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Dev builds the site into the development output root, then serves it with
// live reload and rebuilds on source changes until ctx is cancelled.
func (a *App) Dev(ctx context.Context) error {
	cfg, err := a.load()
	if err != nil {
		return err
	}
	return a.withRenderer(ctx, func(ctx context.Context) error {
		if err := a.build(ctx, cfg, pipeline.Development(cfg)); err != nil {
			return err
		}
		return a.serve(ctx, cfg)
	})
}

func (a *App) load() (*domain.Config, error) {
	cfg, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

// build runs one pipeline to completion. Failures are logged here with the run
// ID and returned marked as build failures so the CLI does not log them twice.
func (a *App) build(ctx context.Context, cfg *domain.Config, p *domain.Pipeline) error {
	runID := uuid.NewString()

	graph, err := p.Graph()
	if err != nil {
		return zerr.With(err, "run_id", runID)
	}

	if err := a.schedulers.New(steps.NewRunner(cfg, a.deps)).Run(ctx, graph, a.parallelism); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.logger.Error(zerr.With(err, "run_id", runID))
		return errors.Join(domain.ErrBuildExecutionFailed, err)
	}
	return nil
}

// withRenderer runs fn while the progress renderer is alive.
func (a *App) withRenderer(ctx context.Context, fn func(context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.renderer.Start(ctx); err != nil {
			return err
		}
		return a.renderer.Wait()
	})

	g.Go(func() error {
		defer func() {
			_ = a.renderer.Stop()
		}()
		return fn(ctx)
	})

	return g.Wait()
}
