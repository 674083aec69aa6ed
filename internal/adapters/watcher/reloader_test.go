package watcher_test

import (
	"context"
	"io"
	"iter"
	"slices"
	"strings"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/idmap/internal/adapters/watcher"
	"go.trai.ch/idmap/internal/core/ports"
	"go.trai.ch/idmap/internal/engine/identity"
)

// fakeWatcher feeds hand-crafted events into the reloader.
type fakeWatcher struct {
	mu         sync.Mutex
	events     chan ports.WatchEvent
	started    bool
	startPaths []string
	startErr   error
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{events: make(chan ports.WatchEvent, 16)}
}

func (f *fakeWatcher) Start(_ context.Context, paths ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.started = true
	f.startPaths = paths
	return nil
}

func (f *fakeWatcher) Stop() error {
	close(f.events)
	return nil
}

func (f *fakeWatcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range f.events {
			if !yield(event) {
				return
			}
		}
	}
}

func (f *fakeWatcher) emit(path string) {
	f.events <- ports.WatchEvent{Path: path, Operation: ports.OpWrite}
}

func (f *fakeWatcher) wasStarted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

func (f *fakeWatcher) startedPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.startPaths)
}

// recLogger records log lines for assertions.
type recLogger struct {
	mu    sync.Mutex
	infos []string
}

func (l *recLogger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recLogger) Warn(string)         {}
func (l *recLogger) Error(error)         {}
func (l *recLogger) SetOutput(io.Writer) {}
func (l *recLogger) SetJSON(bool)        {}

func (l *recLogger) reloadLines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var lines []string
	for _, msg := range l.infos {
		if strings.HasPrefix(msg, "reload:") {
			lines = append(lines, msg)
		}
	}
	return lines
}

func TestReloader_ClearsLiveScopesOnChange(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		registry := identity.NewRegistry()
		first := registry.Begin()
		first.Put(identity.NewKey("users", "1"), "alice")
		second := registry.Begin()
		second.Put(identity.NewKey("orders", "7"), "order-7")

		fw := newFakeWatcher()
		log := &recLogger{}
		r := watcher.NewReloader(fw, registry, log, []string{"/srv/app/idmap.yaml"})

		done := make(chan error, 1)
		go func() { done <- r.Run(t.Context()) }()
		synctest.Wait()

		require.True(t, fw.wasStarted())
		assert.Equal(t, []string{"/srv/app/idmap.yaml"}, fw.startedPaths())

		fw.emit("/srv/app/idmap.yaml")
		time.Sleep(watcher.DefaultDebounceWindow * 2)
		synctest.Wait()

		assert.Equal(t, 0, first.Len())
		assert.Equal(t, 0, second.Len())
		require.Len(t, log.reloadLines(), 1)
		assert.Contains(t, log.reloadLines()[0], "cleared 2 live scope(s)")

		require.NoError(t, fw.Stop())
		require.NoError(t, <-done)
	})
}

func TestReloader_BurstClearsOnce(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		registry := identity.NewRegistry()
		scope := registry.Begin()
		scope.Put(identity.NewKey("users", "1"), "alice")

		fw := newFakeWatcher()
		log := &recLogger{}
		r := watcher.NewReloader(fw, registry, log, []string{"/srv/app"})

		done := make(chan error, 1)
		go func() { done <- r.Run(t.Context()) }()
		synctest.Wait()

		fw.emit("/srv/app/idmap.yaml")
		fw.emit("/srv/app/templates/list.html")
		fw.emit("/srv/app/templates/detail.html")

		time.Sleep(watcher.DefaultDebounceWindow * 2)
		synctest.Wait()

		require.Len(t, log.reloadLines(), 1)
		assert.Contains(t, log.reloadLines()[0], "3 file(s) changed")

		require.NoError(t, fw.Stop())
		require.NoError(t, <-done)
	})
}

func TestReloader_NoPathsDisablesWatching(t *testing.T) {
	fw := newFakeWatcher()
	log := &recLogger{}
	r := watcher.NewReloader(fw, identity.NewRegistry(), log, nil)

	require.NoError(t, r.Run(t.Context()))
	assert.False(t, fw.wasStarted())
}

func TestReloader_StartErrorPropagates(t *testing.T) {
	fw := newFakeWatcher()
	fw.startErr = assert.AnError

	r := watcher.NewReloader(fw, identity.NewRegistry(), &recLogger{}, []string{"/srv/app"})
	assert.ErrorIs(t, r.Run(t.Context()), assert.AnError)
}

func TestReloader_StopFlushesPendingClear(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		registry := identity.NewRegistry()
		scope := registry.Begin()
		scope.Put(identity.NewKey("users", "1"), "alice")

		fw := newFakeWatcher()
		log := &recLogger{}
		r := watcher.NewReloader(fw, registry, log, []string{"/srv/app"})

		done := make(chan error, 1)
		go func() { done <- r.Run(t.Context()) }()
		synctest.Wait()

		fw.emit("/srv/app/idmap.yaml")
		synctest.Wait()

		// Stop before the debounce window elapses, the pending clear
		// must still run.
		require.NoError(t, r.Stop())
		require.NoError(t, <-done)

		assert.Equal(t, 0, scope.Len())
		require.Len(t, log.reloadLines(), 1)
	})
}
