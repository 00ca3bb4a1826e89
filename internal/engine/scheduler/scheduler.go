// Package scheduler executes validated task graphs.
package scheduler

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/sitepipe/internal/core/ports"
	"go.trai.ch/zerr"
)

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting to be executed.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusCompleted indicates the task has finished successfully.
	StatusCompleted TaskStatus = "Completed"
	// StatusFailed indicates the task execution failed.
	StatusFailed TaskStatus = "Failed"
	// StatusSkipped indicates the task never started because the run failed first.
	StatusSkipped TaskStatus = "Skipped"
)

// Scheduler manages the execution of tasks in the dependency graph.
// A Scheduler runs one graph at a time; Run calls are serialized.
type Scheduler struct {
	executor ports.Executor
	tracer   ports.Tracer

	runMu      sync.Mutex
	mu         sync.RWMutex
	taskStatus map[domain.InternedString]TaskStatus
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(executor ports.Executor, tracer ports.Tracer) *Scheduler {
	return &Scheduler{
		executor:   executor,
		tracer:     tracer,
		taskStatus: make(map[domain.InternedString]TaskStatus),
	}
}

// Status returns the status of the named task in the most recent run.
// Unknown tasks report an empty status.
func (s *Scheduler) Status(name string) TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taskStatus[domain.NewInternedString(name)]
}

// Statuses returns a copy of every task status from the most recent run.
func (s *Scheduler) Statuses() map[string]TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]TaskStatus, len(s.taskStatus))
	for k, v := range s.taskStatus {
		out[k.String()] = v
	}
	return out
}

func (s *Scheduler) resetStatuses(graph *domain.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.taskStatus = make(map[domain.InternedString]TaskStatus, graph.TaskCount())
	for task := range graph.Walk() {
		s.taskStatus[task.Name] = StatusPending
	}
}

func (s *Scheduler) updateStatus(name domain.InternedString, status TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[name] = status
}

// skipPending marks every task that never started as skipped.
func (s *Scheduler) skipPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, status := range s.taskStatus {
		if status == StatusPending {
			s.taskStatus[name] = StatusSkipped
		}
	}
}

// Run executes every task in the graph with at most parallelism tasks in flight.
// A task starts only after all of its dependencies completed successfully.
// The first failure cancels the run: nothing new is started, running tasks are
// awaited, and their errors are returned joined. A parallelism below one uses
// the number of CPUs.
func (s *Scheduler) Run(ctx context.Context, graph *domain.Graph, parallelism int) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if err := graph.Validate(); err != nil {
		return err
	}

	if parallelism < 1 {
		parallelism = runtime.NumCPU()
	}

	planned := make([]string, 0, graph.TaskCount())
	for task := range graph.Walk() {
		planned = append(planned, task.Name.String())
	}

	ctx, span := s.tracer.Start(ctx, graph.Name(), ports.WithAttribute(ports.AttrTasks, planned))
	defer span.End()

	s.tracer.EmitPlan(ctx, planned)
	s.resetStatuses(graph)

	state := s.newRunState(ctx, graph, parallelism)
	defer state.cancel()

	err := state.runExecutionLoop()
	if err != nil {
		s.skipPending()
		span.RecordError(err)
	}
	return err
}

type result struct {
	task domain.InternedString
	err  error
}

type schedulerRunState struct {
	graph       *domain.Graph
	inDegree    map[domain.InternedString]int
	ready       []domain.InternedString
	active      int
	resultsCh   chan result
	errs        error
	parent      context.Context
	ctx         context.Context
	cancel      context.CancelFunc
	parallelism int
	s           *Scheduler
}

func (s *Scheduler) newRunState(ctx context.Context, graph *domain.Graph, parallelism int) *schedulerRunState {
	inDegree := make(map[domain.InternedString]int, graph.TaskCount())
	var ready []domain.InternedString

	// Walk yields execution order, so the ready queue starts deterministic.
	for task := range graph.Walk() {
		inDegree[task.Name] = len(task.Dependencies)
		if len(task.Dependencies) == 0 {
			ready = append(ready, task.Name)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	return &schedulerRunState{
		graph:       graph,
		inDegree:    inDegree,
		ready:       ready,
		resultsCh:   make(chan result, graph.TaskCount()),
		parent:      ctx,
		ctx:         runCtx,
		cancel:      cancel,
		parallelism: parallelism,
		s:           s,
	}
}

func (state *schedulerRunState) isDone() bool {
	return state.active == 0 && (len(state.ready) == 0 || state.ctx.Err() != nil)
}

func (state *schedulerRunState) runExecutionLoop() error {
	for {
		state.schedule()
		if state.isDone() {
			break
		}
		// Every dispatched task reports exactly once, so blocking here cannot leak.
		state.handleResult(<-state.resultsCh)
	}

	if err := state.parent.Err(); err != nil {
		state.errs = errors.Join(state.errs, err)
	}
	return state.errs
}

func (state *schedulerRunState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		name := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.s.updateStatus(name, StatusRunning)

		t, _ := state.graph.GetTask(name)
		go state.executeTask(&t)
	}
}

func (state *schedulerRunState) executeTask(t *domain.Task) {
	// The span ends before the result is reported so renderers see task
	// completion ahead of pipeline completion.
	res := func() result {
		ctx, span := state.s.tracer.Start(state.ctx, t.Name.String(),
			ports.WithAttribute(ports.AttrAction, string(t.Action)),
			ports.WithAttribute(ports.AttrKind, t.Kind.String()),
		)
		defer span.End()

		err := state.s.executor.Execute(ctx, t, span)
		if err != nil {
			span.RecordError(err)
		}
		return result{task: t.Name, err: err}
	}()

	state.resultsCh <- res
}

func (state *schedulerRunState) handleResult(res result) {
	state.active--

	if res.err != nil {
		enhancedErr := zerr.With(zerr.Wrap(res.err, domain.ErrTaskExecutionFailed.Error()), "task", res.task.String())
		state.errs = errors.Join(state.errs, enhancedErr)
		state.s.updateStatus(res.task, StatusFailed)
		state.cancel()
		return
	}

	state.s.updateStatus(res.task, StatusCompleted)
	for _, dep := range state.graph.Dependents(res.task) {
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			state.ready = append(state.ready, dep)
		}
	}
}
