package steps

import (
	"bytes"
	"errors"
	"io"

	"go.trai.ch/sitepipe/internal/core/domain"
)

// segment records where a source file starts within the bundle.
type segment struct {
	file      string
	startLine int
	lines     int
}

// scripts concatenates every script in lexical path order, one newline
// between files. Production minifies the bundle.
func (r *Runner) scripts(task *domain.Task, logs io.Writer) error {
	files, err := r.resolve(task)
	if err != nil {
		return err
	}

	var bundle bytes.Buffer
	segments := make([]segment, 0, len(files))
	line := 1
	for i, file := range files {
		data, err := readFile(file)
		if err != nil {
			return err
		}
		if i > 0 {
			bundle.WriteByte('\n')
		}
		bundle.Write(data)

		n := bytes.Count(data, []byte{'\n'}) + 1
		segments = append(segments, segment{file: r.cfg.Rel(file), startLine: line, lines: n})
		line += n
	}

	out := bundle.Bytes()
	if task.Target.Optimize() && len(out) > 0 {
		minified, err := r.deps.ScriptMinifier.MinifyJS(out, domain.ScriptsArtifact)
		if err != nil {
			return locate(err, segments)
		}
		out = minified
	}

	dest := r.cfg.Abs(task.Output.String())
	if err := writeFile(dest, out); err != nil {
		return err
	}
	logWrite(logs, r.cfg, dest, len(out))
	return nil
}

// locate rewrites a bundle position into the source file and line it came from.
func locate(err error, segments []segment) error {
	var se *domain.SourceError
	if !errors.As(err, &se) || se.Line <= 0 {
		return err
	}
	for _, s := range segments {
		if se.Line >= s.startLine && se.Line < s.startLine+s.lines {
			return &domain.SourceError{
				File:   s.file,
				Line:   se.Line - s.startLine + 1,
				Column: se.Column,
				Text:   se.Text,
			}
		}
	}
	return err
}
