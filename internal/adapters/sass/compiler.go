// Package sass compiles SCSS with libsass.
package sass

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/bep/golibsass/libsass"
	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/sitepipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.StyleCompiler = (*Compiler)(nil)

// defaultPrecision matches the number precision of dart-sass output.
const defaultPrecision = 10

// Compiler implements ports.StyleCompiler using libsass.
type Compiler struct {
	precision int
}

// NewCompiler creates a new Compiler.
func NewCompiler() *Compiler {
	return &Compiler{precision: defaultPrecision}
}

// Compile reads the SCSS file at path and returns expanded CSS. The file's own
// directory is searched for imports before includePaths.
func (c *Compiler) Compile(ctx context.Context, path string, includePaths []string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := os.ReadFile(path) //nolint:gosec // path comes from the resolved inputs
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrIO.Error()), "file", path)
	}

	paths := append([]string{filepath.Dir(path)}, includePaths...)
	transpiler, err := libsass.New(libsass.Options{
		IncludePaths: paths,
		OutputStyle:  libsass.ExpandedStyle,
		Precision:    c.precision,
		SassSyntax:   strings.EqualFold(filepath.Ext(path), ".sass"),
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfig.Error()), "file", path)
	}

	result, err := transpiler.Execute(string(src))
	if err != nil {
		return nil, sourceError(path, err)
	}
	return []byte(result.CSS), nil
}

// libsass positions come as `file "stdin", line 3, col 7: msg` or
// "on line 3:7 of stdin".
var (
	positionPattern = regexp.MustCompile(`line (\d+)(?:, col (\d+)|:(\d+))?`)
	prefixPattern   = regexp.MustCompile(`^(?:Error: )?file "[^"]*", line \d+, col \d+: `)
)

// sourceError converts a libsass failure into a positioned domain error.
func sourceError(path string, err error) error {
	msg := strings.TrimSpace(err.Error())
	text, _, _ := strings.Cut(msg, "\n")
	text = strings.TrimPrefix(prefixPattern.ReplaceAllString(text, ""), "Error: ")

	se := &domain.SourceError{File: path, Text: strings.TrimSpace(text)}
	if m := positionPattern.FindStringSubmatch(msg); m != nil {
		se.Line, _ = strconv.Atoi(m[1])
		switch {
		case m[2] != "":
			se.Column, _ = strconv.Atoi(m[2])
		case m[3] != "":
			se.Column, _ = strconv.Atoi(m[3])
		}
	}
	return se
}
