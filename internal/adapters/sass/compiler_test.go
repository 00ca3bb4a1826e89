package sass_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sitepipe/internal/adapters/sass"
	"go.trai.ch/sitepipe/internal/core/domain"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestCompiler_Compile(t *testing.T) {
	src := t.TempDir()
	write(t, filepath.Join(src, "_vars.scss"), "$brand: #ff0000;\n")
	main := filepath.Join(src, "assets", "css", "main.scss")
	write(t, main, "@import 'vars';\n.card { .title { color: $brand; } }\n")

	css, err := sass.NewCompiler().Compile(context.Background(), main, []string{src})
	require.NoError(t, err)
	assert.Contains(t, string(css), ".card .title")
	assert.Contains(t, string(css), "#ff0000")
}

func TestCompiler_Compile_SyntaxError(t *testing.T) {
	main := filepath.Join(t.TempDir(), "broken.scss")
	write(t, main, ".card {\n  color: red;\n  .title { color: $missing; }\n}\n")

	_, err := sass.NewCompiler().Compile(context.Background(), main, nil)
	require.Error(t, err)

	var se *domain.SourceError
	require.True(t, errors.As(err, &se), "expected *domain.SourceError, got %T", err)
	assert.Equal(t, main, se.File)
	assert.Equal(t, 3, se.Line)
	assert.ErrorIs(t, err, domain.ErrSourceSyntax)
}

func TestCompiler_Compile_MissingFile(t *testing.T) {
	_, err := sass.NewCompiler().Compile(context.Background(), filepath.Join(t.TempDir(), "nope.scss"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrIO.Error())
}

func TestCompiler_Compile_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sass.NewCompiler().Compile(ctx, "unused.scss", nil)
	require.ErrorIs(t, err, context.Canceled)
}
