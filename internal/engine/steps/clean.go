package steps

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/zerr"
)

// clean removes the task output directory. A missing directory is not an error.
func (r *Runner) clean(task *domain.Task, logs io.Writer) error {
	target := r.cfg.Abs(task.Output.String())

	if err := r.guardRemoval(target); err != nil {
		return err
	}

	if err := os.RemoveAll(target); err != nil {
		return ioError(err, target)
	}
	_, _ = fmt.Fprintf(logs, "removed %s\n", r.cfg.Rel(target))
	return nil
}

// guardRemoval refuses to delete the project root, anything containing the
// root or the source tree, and anything inside the source tree.
func (r *Runner) guardRemoval(target string) error {
	src := r.cfg.SourceRoot()
	if within(r.cfg.Root, target) || within(src, target) || within(target, src) {
		err := zerr.With(domain.ErrConfig, "field", "output")
		return zerr.With(err, "path", target)
	}
	return nil
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
