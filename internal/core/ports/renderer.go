package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for task progress output.
// It is fed from finished and started spans, so presentation stays out of the scheduler.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// Stop flushes any buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnPlanEmit is called when a pipeline has been planned.
	// tasks: task names in execution order
	// deps: task -> dependencies
	// targets: the pipeline being run
	OnPlanEmit(tasks []string, deps map[string][]string, targets []string)

	// OnTaskStart is called when a task begins execution.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskLog is called when a task emits output (for example a style plugin command).
	OnTaskLog(spanID string, data []byte)

	// OnTaskComplete is called when a task finishes execution.
	// err is nil if successful.
	OnTaskComplete(spanID string, endTime time.Time, err error)
}
