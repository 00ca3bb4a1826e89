// Package trigger re-runs watch-bound pipelines when source files change.
package trigger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/sitepipe/internal/core/ports"
	"go.trai.ch/zerr"
)

// GraphRunner executes a validated task graph.
type GraphRunner interface {
	Run(ctx context.Context, graph *domain.Graph, parallelism int) error
}

// RunnerFunc adapts a function to GraphRunner.
type RunnerFunc func(ctx context.Context, graph *domain.Graph, parallelism int) error

// Run implements GraphRunner.
func (f RunnerFunc) Run(ctx context.Context, graph *domain.Graph, parallelism int) error {
	return f(ctx, graph, parallelism)
}

// Observer records the outcome of every rebuild.
type Observer interface {
	ObserveRebuild(binding string, d time.Duration, err error)
}

// Option configures a Trigger.
type Option func(*Trigger)

// WithObserver reports every rebuild to o.
func WithObserver(o Observer) Option {
	return func(t *Trigger) { t.observer = o }
}

// WithParallelism bounds the number of concurrent tasks per rebuild.
func WithParallelism(n int) Option {
	return func(t *Trigger) { t.parallelism = n }
}

type binding struct {
	domain.Binding
	graph *domain.Graph

	running bool
	pending bool
}

// Trigger maps changed paths to bindings and runs them. Each binding has at
// most one run in flight and at most one queued rerun; changes arriving while
// a rerun is already queued fold into it.
type Trigger struct {
	cfg         *domain.Config
	runner      GraphRunner
	reloader    ports.Reloader
	logger      ports.Logger
	observer    Observer
	parallelism int

	mu       sync.Mutex
	bindings []*binding
	wg       sync.WaitGroup
}

// New validates every binding's pipeline and returns a Trigger.
func New(
	cfg *domain.Config,
	bindings []domain.Binding,
	runner GraphRunner,
	reloader ports.Reloader,
	logger ports.Logger,
	opts ...Option,
) (*Trigger, error) {
	t := &Trigger{
		cfg:      cfg,
		runner:   runner,
		reloader: reloader,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(t)
	}

	for _, b := range bindings {
		g, err := b.Pipeline.Graph()
		if err != nil {
			return nil, zerr.With(err, "binding", b.Name)
		}
		t.bindings = append(t.bindings, &binding{Binding: b, graph: g})
	}
	return t, nil
}

// Matching returns the names of the bindings affected by paths.
// Paths are absolute; paths outside the project root never match.
func (t *Trigger) Matching(paths []string) []string {
	var names []string
	for _, b := range t.match(paths) {
		names = append(names, b.Name)
	}
	return names
}

func (t *Trigger) match(paths []string) []*binding {
	rels := make([]string, 0, len(paths))
	for _, p := range paths {
		rel := t.cfg.Rel(p)
		if rel == ".." || strings.HasPrefix(rel, "../") {
			continue
		}
		rels = append(rels, rel)
	}

	var matched []*binding
	for _, b := range t.bindings {
		for _, rel := range rels {
			if b.Matches(rel) {
				matched = append(matched, b)
				break
			}
		}
	}
	return matched
}

// Dispatch schedules every binding matched by paths. It never blocks on a
// running rebuild.
func (t *Trigger) Dispatch(ctx context.Context, paths []string) {
	for _, b := range t.match(paths) {
		t.schedule(ctx, b)
	}
}

func (t *Trigger) schedule(ctx context.Context, b *binding) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if b.running {
		b.pending = true
		return
	}
	b.running = true
	t.wg.Add(1)
	go t.loop(ctx, b)
}

func (t *Trigger) loop(ctx context.Context, b *binding) {
	defer t.wg.Done()
	for {
		t.rebuild(ctx, b)

		t.mu.Lock()
		if b.pending && ctx.Err() == nil {
			b.pending = false
			t.mu.Unlock()
			continue
		}
		b.running = false
		b.pending = false
		t.mu.Unlock()
		return
	}
}

func (t *Trigger) rebuild(ctx context.Context, b *binding) {
	start := time.Now()
	err := t.runner.Run(ctx, b.graph, t.parallelism)
	elapsed := time.Since(start)

	if ctx.Err() != nil {
		return
	}
	if t.observer != nil {
		t.observer.ObserveRebuild(b.Name, elapsed, err)
	}
	if err != nil {
		t.logger.Error(zerr.With(zerr.Wrap(err, domain.ErrRebuildFailed.Error()), "binding", b.Name))
		return
	}

	t.logger.Info(fmt.Sprintf("Rebuilt %s in %s", b.Name, elapsed.Round(time.Millisecond)))
	if err := t.reloader.Reload(ctx); err != nil {
		t.logger.Error(err)
	}
}

// Wait blocks until every in-flight and queued rebuild has finished.
func (t *Trigger) Wait() {
	t.wg.Wait()
}
