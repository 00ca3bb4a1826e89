package shell_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sitepipe/internal/adapters/shell"
	"go.trai.ch/zerr"
)

func TestRunner_Run_StreamsLines(t *testing.T) {
	var logs bytes.Buffer
	r := shell.NewRunner()

	err := r.Run(context.Background(), []string{"sh", "-c", "printf 'one\\ntw'; sleep 0.05; printf 'o\\nthree'"}, t.TempDir(), &logs)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\n", logs.String())
}

func TestRunner_Run_AttachesTerminal(t *testing.T) {
	var logs bytes.Buffer

	err := shell.NewRunner().Run(context.Background(), []string{"sh", "-c", "test -t 1 && test -t 2 && echo tty"}, t.TempDir(), &logs)
	require.NoError(t, err)
	assert.Equal(t, "tty\n", logs.String())
}

func TestRunner_Run_MergesStderr(t *testing.T) {
	var logs bytes.Buffer

	err := shell.NewRunner().Run(context.Background(), []string{"sh", "-c", "echo out; echo err >&2"}, t.TempDir(), &logs)
	require.NoError(t, err)
	assert.Equal(t, "out\nerr\n", logs.String())
}

func TestRunner_Run_WorkingDirAndEnv(t *testing.T) {
	dir := t.TempDir()
	var logs bytes.Buffer
	r := shell.NewRunner("SITEPIPE_TEST_VALUE=plugin")

	err := r.Run(context.Background(), []string{"sh", "-c", "echo $SITEPIPE_TEST_VALUE > out.txt"}, dir, &logs)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "plugin\n", string(data))
}

func TestRunner_Run_Failure(t *testing.T) {
	r := shell.NewRunner()

	err := r.Run(context.Background(), []string{"sh", "-c", "echo 'config missing' >&2; exit 3"}, t.TempDir(), nil)
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	meta := zErr.Metadata()
	assert.Equal(t, 3, meta["exit_code"])
	assert.Equal(t, "config missing", meta["output"])
}

func TestRunner_Run_NotFound(t *testing.T) {
	err := shell.NewRunner().Run(context.Background(), []string{"sitepipe-no-such-binary"}, t.TempDir(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command not found")
}

func TestRunner_Run_EmptyCommand(t *testing.T) {
	err := shell.NewRunner().Run(context.Background(), nil, t.TempDir(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRunner_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := shell.NewRunner().Run(ctx, []string{"sh", "-c", "sleep 5"}, t.TempDir(), nil)
	require.Error(t, err)
}
