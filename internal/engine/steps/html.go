package steps

import (
	"context"
	"fmt"
	"io"

	"go.trai.ch/sitepipe/internal/core/domain"
)

// html copies page markup from the source tree to the same relative paths
// below the output root.
func (r *Runner) html(ctx context.Context, task *domain.Task, logs io.Writer) error {
	files, err := r.resolve(task)
	if err != nil {
		return err
	}

	src := r.cfg.SourceRoot()
	dest := r.cfg.Abs(task.Output.String())
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := mirror(file, src, dest)
		if err != nil {
			return err
		}
		if err := copyFile(file, out); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintf(logs, "copied %d page(s)\n", len(files))
	return nil
}
