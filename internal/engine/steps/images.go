package steps

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"

	"go.trai.ch/sitepipe/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

// images copies every image below the image base to the output directory.
// Production recompresses each file and keeps whichever version is smaller.
// A codec failure is logged and the original is copied instead.
func (r *Runner) images(ctx context.Context, task *domain.Task, logs io.Writer) error {
	files, err := r.resolve(task)
	if err != nil {
		return err
	}

	base := r.cfg.Abs(r.cfg.Images.Base)
	dest := r.cfg.Abs(task.Output.String())
	optimize := task.Target.Optimize()

	limit := r.cfg.Images.Concurrency
	if limit < 1 {
		limit = runtime.NumCPU()
	}

	var saved atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := mirror(file, base, dest)
			if err != nil {
				return err
			}
			if !optimize {
				return copyFile(file, out)
			}

			data, err := readFile(file)
			if err != nil {
				return err
			}
			optimized, err := r.deps.Images.Optimize(file, data, r.cfg.Images.JPEGQuality)
			if err != nil {
				r.deps.Logger.Warn(fmt.Sprintf("%s: %s, copying original", domain.ErrCodec.Error(), r.cfg.Rel(file)))
				optimized = nil
			}
			if len(optimized) > 0 && len(optimized) < len(data) {
				saved.Add(int64(len(data) - len(optimized)))
				data = optimized
			}
			return writeFile(out, data)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if optimize {
		_, _ = fmt.Fprintf(logs, "processed %d image(s), saved %s\n", len(files), humanSize(int(saved.Load())))
	} else {
		_, _ = fmt.Fprintf(logs, "copied %d image(s)\n", len(files))
	}
	return nil
}
