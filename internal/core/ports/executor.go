// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/sitepipe/internal/core/domain"
)

// Executor defines the interface for executing tasks.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the leaf operation named by the task's action.
	//
	// Output produced by external programs is written to logs, which is
	// usually the task's span.
	//
	// It returns an error if the task execution fails.
	Execute(ctx context.Context, task *domain.Task, logs io.Writer) error
}
