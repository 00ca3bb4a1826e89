package steps

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/zerr"
)

func ioError(err error, path string) error {
	return zerr.With(zerr.Wrap(err, domain.ErrIO.Error()), "file", path)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // paths come from resolved globs
	if err != nil {
		return nil, ioError(err, path)
	}
	return data, nil
}

// writeFile replaces path atomically, creating parent directories.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return ioError(err, dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return ioError(err, path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // already renamed on success

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return ioError(err, path)
	}
	if err := tmp.Chmod(domain.FilePerm); err != nil {
		_ = tmp.Close()
		return ioError(err, path)
	}
	if err := tmp.Close(); err != nil {
		return ioError(err, path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return ioError(err, path)
	}
	return nil
}

// copyFile copies src to dst byte for byte.
func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // paths come from resolved globs
	if err != nil {
		return ioError(err, src)
	}
	defer in.Close() //nolint:errcheck // read-only

	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return ioError(err, filepath.Dir(dst))
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.FilePerm) //nolint:gosec // output path under the output root
	if err != nil {
		return ioError(err, dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return ioError(err, dst)
	}
	if err := out.Close(); err != nil {
		return ioError(err, dst)
	}
	return nil
}

// mirror maps a file below base to the same relative path below dest.
func mirror(file, base, dest string) (string, error) {
	rel, err := filepath.Rel(base, file)
	if err != nil {
		return "", ioError(err, file)
	}
	return filepath.Join(dest, rel), nil
}

func logWrite(logs io.Writer, cfg *domain.Config, path string, size int) {
	_, _ = fmt.Fprintf(logs, "wrote %s (%s)\n", cfg.Rel(path), humanSize(size))
}

func humanSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
