package ports

import (
	"context"
	"io"
)

// CommandRunner runs external programs such as the utility CSS framework CLI.
//
//go:generate mockgen -source=command.go -destination=mocks/mock_command.go -package=mocks
type CommandRunner interface {
	// Run executes argv in dir, streaming stdout and stderr to logs.
	Run(ctx context.Context, argv []string, dir string, logs io.Writer) error
}
