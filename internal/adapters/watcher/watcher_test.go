package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/sitepipe/internal/adapters/watcher"
	"go.trai.ch/sitepipe/internal/core/ports"
)

func TestWatcher_ReportsChanges(t *testing.T) {
	root := t.TempDir()
	dist := filepath.Join(root, "dist")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o750))
	require.NoError(t, os.MkdirAll(dist, 0o750))

	w, err := watcher.NewWatcher(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, w.Start(ctx, root, dist))

	events := make(chan ports.WatchEvent, 64)
	go func() {
		for ev := range w.Events() {
			events <- ev
		}
		close(events)
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dist, "ignored.html"), []byte("x"), 0o600))
	nested := filepath.Join(root, "src", "pages")
	require.NoError(t, os.Mkdir(nested, 0o750))
	waitFor(t, events, nested)

	// new directories are watched automatically
	page := filepath.Join(nested, "index.html")
	require.NoError(t, os.WriteFile(page, []byte("<p>"), 0o600))
	waitFor(t, events, page)
}

func waitFor(t *testing.T, events <-chan ports.WatchEvent, path string) ports.WatchEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "events closed before %s was seen", path)
			require.NotContains(t, ev.Path, string(filepath.Separator)+"dist"+string(filepath.Separator))
			if ev.Path == path {
				return ev
			}
		case <-timeout:
			t.Fatalf("no event for %s", path)
		}
	}
}
