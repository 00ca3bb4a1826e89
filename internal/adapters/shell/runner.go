// Package shell runs external programs used as style plugins.
package shell

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/creack/pty"
	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/sitepipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CommandRunner = (*Runner)(nil)

// Runner implements ports.CommandRunner by running commands in a PTY, so
// tools that color their output when attached to a terminal keep doing so.
type Runner struct {
	env []string
}

// NewRunner creates a Runner. extraEnv entries (KEY=VALUE) override the
// process environment.
func NewRunner(extraEnv ...string) *Runner {
	return &Runner{env: resolveEnvironment(os.Environ(), extraEnv)}
}

type ptyProcess struct {
	cmd    *exec.Cmd
	ioDone <-chan struct{}
}

// Wait waits for the command to exit and for its output to be drained.
func (p *ptyProcess) Wait() error {
	err := p.cmd.Wait()
	<-p.ioDone
	return err
}

// Run executes argv in dir. The merged terminal output is forwarded to logs
// line by line, and its last lines are attached to the error when the command fails.
func (r *Runner) Run(ctx context.Context, argv []string, dir string, logs io.Writer) error {
	if len(argv) == 0 {
		return zerr.With(domain.ErrConfig, "field", "command")
	}
	if logs == nil {
		logs = io.Discard
	}

	out := newLineWriter(logs)
	tail := &tailBuffer{}

	proc, err := r.start(ctx, argv, dir, io.MultiWriter(out, tail))
	if err != nil {
		return err
	}

	err = proc.Wait()
	out.Flush()
	if err == nil {
		return nil
	}

	exitCode := -1 // killed
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	}

	wrapped := zerr.With(zerr.Wrap(err, "command failed"), "command", strings.Join(argv, " "))
	wrapped = zerr.With(wrapped, "exit_code", exitCode)
	if output := tail.String(); output != "" {
		wrapped = zerr.With(wrapped, "output", output)
	}
	return wrapped
}

func (r *Runner) start(ctx context.Context, argv []string, dir string, output io.Writer) (*ptyProcess, error) {
	name := argv[0]
	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		lp, err := lookPath(name, r.env)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "command not found"), "command", name)
		}
		executable = lp
	}

	cmd := exec.CommandContext(ctx, executable, argv[1:]...) //nolint:gosec // plugin commands come from project config
	cmd.Args[0] = name
	cmd.Dir = dir
	cmd.Env = r.env

	ptmx, err := pty.Start(cmd)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to start pty"), "command", name)
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		// Reading the master fails with EIO once the command exits and the
		// replica side is closed; that ends the copy.
		_, _ = io.Copy(output, ptmx)
	}()

	return &ptyProcess{cmd: cmd, ioDone: ioDone}, nil
}

// lineWriter forwards complete lines to the underlying writer.
type lineWriter struct {
	mu  sync.Mutex
	w   io.Writer
	buf bytes.Buffer
}

func newLineWriter(w io.Writer) *lineWriter {
	return &lineWriter{w: w}
}

func (l *lineWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf.Write(p)
	for {
		line, err := l.buf.ReadBytes('\n')
		if err != nil {
			// incomplete line, keep it for the next write
			l.buf.Reset()
			l.buf.Write(line)
			return len(p), nil
		}
		line = append(bytes.TrimRight(line, "\r\n"), '\n')
		if _, err := l.w.Write(line); err != nil {
			return len(p), err
		}
	}
}

// Flush writes a trailing partial line, terminated with a newline.
func (l *lineWriter) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.buf.Len() == 0 {
		return
	}
	l.buf.WriteByte('\n')
	_, _ = l.w.Write(l.buf.Bytes())
	l.buf.Reset()
}

const tailLines = 10

// tailBuffer keeps the last lines written to it.
type tailBuffer struct {
	mu    sync.Mutex
	lines []string
	part  string
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sc := bufio.NewScanner(strings.NewReader(t.part + string(p)))
	t.part = ""
	for sc.Scan() {
		t.lines = append(t.lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if len(p) > 0 && p[len(p)-1] != '\n' && len(t.lines) > 0 {
		t.part = t.lines[len(t.lines)-1]
		t.lines = t.lines[:len(t.lines)-1]
	}
	if len(t.lines) > tailLines {
		t.lines = t.lines[len(t.lines)-tailLines:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	lines := t.lines
	if t.part != "" {
		lines = append(lines[:len(lines):len(lines)], t.part)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// resolveEnvironment overlays extra KEY=VALUE entries on the system environment.
func resolveEnvironment(sysEnv, extra []string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(extra))
	order := make([]string, 0, len(sysEnv)+len(extra))
	for _, entries := range [][]string{sysEnv, extra} {
		for _, entry := range entries {
			k, v, ok := strings.Cut(entry, "=")
			if !ok {
				continue
			}
			if _, seen := envMap[k]; !seen {
				order = append(order, k)
			}
			envMap[k] = v
		}
	}

	result := make([]string, 0, len(order))
	for _, k := range order {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the directories named by PATH in env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			path = v
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
