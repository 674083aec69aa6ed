package watcher_test

import (
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/idmap/internal/adapters/watcher"
	"go.trai.ch/idmap/internal/core/ports"
)

// collectEvents drains the watcher's event iterator in the background and
// returns a snapshot function.
func collectEvents(w ports.Watcher) func() []ports.WatchEvent {
	var mu sync.Mutex
	var events []ports.WatchEvent

	go func() {
		for event := range w.Events() {
			mu.Lock()
			events = append(events, event)
			mu.Unlock()
		}
	}()

	return func() []ports.WatchEvent {
		mu.Lock()
		defer mu.Unlock()
		return slices.Clone(events)
	}
}

func hasEventForPath(events []ports.WatchEvent, path string) bool {
	for _, event := range events {
		if event.Path == path {
			return true
		}
	}
	return false
}

func TestWatcher_DirectoryCreateEvent(t *testing.T) {
	dir := t.TempDir()

	w, err := watcher.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, w.Start(t.Context(), dir))
	snapshot := collectEvents(w)

	target := filepath.Join(dir, "idmap.yaml")
	require.NoError(t, os.WriteFile(target, []byte("version: 1\n"), 0o644))

	assert.Eventually(t, func() bool {
		return hasEventForPath(snapshot(), target)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_FileTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "idmap.yaml")
	require.NoError(t, os.WriteFile(target, []byte("version: 1\n"), 0o644))

	w, err := watcher.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, w.Start(t.Context(), target))
	snapshot := collectEvents(w)

	require.NoError(t, os.WriteFile(target, []byte("version: 2\n"), 0o644))

	assert.Eventually(t, func() bool {
		for _, event := range snapshot() {
			if event.Path == target && event.Operation == ports.OpWrite {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_MissingPathWatchesParent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "idmap.yaml")

	w, err := watcher.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	// The config file does not exist yet, creating it must still fire.
	require.NoError(t, w.Start(t.Context(), target))
	snapshot := collectEvents(w)

	require.NoError(t, os.WriteFile(target, []byte("version: 1\n"), 0o644))

	assert.Eventually(t, func() bool {
		return hasEventForPath(snapshot(), target)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_NewDirectoryIsWatched(t *testing.T) {
	dir := t.TempDir()

	w, err := watcher.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, w.Start(t.Context(), dir))
	snapshot := collectEvents(w)

	subDir := filepath.Join(dir, "templates")
	require.NoError(t, os.Mkdir(subDir, 0o750))

	// Wait until the create event was processed, which also registers
	// the new directory with the watcher.
	require.Eventually(t, func() bool {
		return hasEventForPath(snapshot(), subDir)
	}, 2*time.Second, 10*time.Millisecond)

	inner := filepath.Join(subDir, "detail.html")
	require.NoError(t, os.WriteFile(inner, []byte("<html/>"), 0o644))

	assert.Eventually(t, func() bool {
		return hasEventForPath(snapshot(), inner)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_SkipsVCSDirectories(t *testing.T) {
	dir := t.TempDir()
	gitDir := filepath.Join(dir, ".git")
	require.NoError(t, os.Mkdir(gitDir, 0o750))

	w, err := watcher.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, w.Start(t.Context(), dir))
	snapshot := collectEvents(w)

	gitFile := filepath.Join(gitDir, "index")
	require.NoError(t, os.WriteFile(gitFile, []byte("ref"), 0o644))

	visible := filepath.Join(dir, "idmap.yaml")
	require.NoError(t, os.WriteFile(visible, []byte("version: 1\n"), 0o644))

	require.Eventually(t, func() bool {
		return hasEventForPath(snapshot(), visible)
	}, 2*time.Second, 10*time.Millisecond)

	assert.False(t, hasEventForPath(snapshot(), gitFile))
}

func TestWatcher_StopClosesEvents(t *testing.T) {
	dir := t.TempDir()

	w, err := watcher.NewWatcher()
	require.NoError(t, err)

	require.NoError(t, w.Start(t.Context(), dir))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range w.Events() {
		}
	}()

	require.NoError(t, w.Stop())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event iterator did not terminate after Stop")
	}
}
