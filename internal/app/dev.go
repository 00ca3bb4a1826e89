package app

import (
	"context"
	"errors"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/sitepipe/internal/adapters/watcher"
	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/sitepipe/internal/core/ports"
	"go.trai.ch/sitepipe/internal/engine/pipeline"
	"go.trai.ch/sitepipe/internal/engine/steps"
	"go.trai.ch/sitepipe/internal/engine/trigger"
	"go.trai.ch/sitepipe/internal/ui/style"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds how long the preview server may take to drain.
const ShutdownTimeout = 5 * time.Second

// serve starts the preview server and the watcher and blocks until ctx is done.
func (a *App) serve(ctx context.Context, cfg *domain.Config) error {
	server := a.previews.New(cfg.Preview, cfg.OutputRoot(domain.TargetDevelopment))
	if err := server.Start(ctx); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		if err := server.Close(shutdownCtx); err != nil {
			a.logger.Error(err)
		}
	}()
	a.logger.Info(style.Banner(server.URL()))

	bindings := pipeline.DevBindings(cfg)
	executor := steps.NewRunner(cfg, a.deps)
	runner := trigger.RunnerFunc(func(ctx context.Context, g *domain.Graph, parallelism int) error {
		return a.schedulers.New(executor).Run(ctx, g, parallelism)
	})
	tr, err := trigger.New(cfg, bindings, runner, server, a.logger,
		trigger.WithObserver(a.previews.Metrics()),
		trigger.WithParallelism(a.parallelism),
	)
	if err != nil {
		return err
	}

	a.seed(cfg, bindings)

	skip := []string{cfg.OutputRoot(domain.TargetDevelopment), cfg.OutputRoot(domain.TargetProduction)}
	if err := a.watcher.Start(ctx, cfg.Root, skip...); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "root", cfg.Root)
	}

	debouncer := watcher.NewDebouncer(cfg.Watch.Debounce, func(paths []string) {
		if ctx.Err() == nil {
			tr.Dispatch(ctx, paths)
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for event := range a.watcher.Events() {
			if a.ignored(cfg, event) || !a.filter.Changed(event) {
				continue
			}
			debouncer.Add(event.Path)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return a.watcher.Stop()
	})

	err = g.Wait()
	tr.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// seed records the current content hash of every watched source file so the
// first save without changes does not trigger a rebuild.
func (a *App) seed(cfg *domain.Config, bindings []domain.Binding) {
	var patterns []string
	for _, b := range bindings {
		patterns = append(patterns, domain.Strings(b.Patterns)...)
	}
	files, err := a.deps.Resolver.ResolveInputs(patterns, cfg.Root)
	if err != nil {
		a.logger.Warn(err.Error())
		return
	}
	for _, f := range files {
		a.filter.Seed(f)
	}
}

func (a *App) ignored(cfg *domain.Config, event ports.WatchEvent) bool {
	rel := cfg.Rel(event.Path)
	for _, pattern := range cfg.Watch.Ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
