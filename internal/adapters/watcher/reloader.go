package watcher

import (
	"context"
	"fmt"

	"go.trai.ch/idmap/internal/core/ports"
	"go.trai.ch/idmap/internal/engine/identity"
)

// Reloader wipes every live identity scope when a watched file changes.
// Bursts of events, like an editor writing a swap file and then the real
// one, are coalesced through a debounce window so a save clears exactly
// once.
type Reloader struct {
	watcher  ports.Watcher
	registry *identity.Registry
	log      ports.Logger
	debounce *Debouncer
	paths    []string
}

// NewReloader creates a reloader that watches paths and clears the registry.
func NewReloader(w ports.Watcher, registry *identity.Registry, log ports.Logger, paths []string) *Reloader {
	r := &Reloader{
		watcher:  w,
		registry: registry,
		log:      log,
		paths:    paths,
	}
	r.debounce = NewDebouncer(DefaultDebounceWindow, r.clearScopes)
	return r
}

// WithPaths appends additional watch roots, typically from CLI flags.
func (r *Reloader) WithPaths(paths ...string) *Reloader {
	r.paths = append(r.paths, paths...)
	return r
}

// Run starts the watcher and consumes its events until the context is
// cancelled or the watcher is stopped. With no configured paths it returns
// immediately; reload clearing is optional, scoping is not.
func (r *Reloader) Run(ctx context.Context) error {
	if len(r.paths) == 0 {
		r.log.Info("no watch paths configured, reload clearing disabled")
		return nil
	}

	if err := r.watcher.Start(ctx, r.paths...); err != nil {
		return err
	}
	r.log.Info(fmt.Sprintf("watching %d path(s) for reload", len(r.paths)))

	for event := range r.watcher.Events() {
		r.debounce.Add(event.Path)
	}
	return nil
}

// Stop closes the watcher and flushes any pending debounced clear.
func (r *Reloader) Stop() error {
	err := r.watcher.Stop()
	r.debounce.Flush()
	return err
}

// clearScopes is the debounce callback. Clearing a scope that a request is
// still using is safe, the next lookup simply reloads.
func (r *Reloader) clearScopes(paths []string) {
	cleared := r.registry.ClearAll()
	r.log.Info(fmt.Sprintf("reload: %d file(s) changed, cleared %d live scope(s)", len(paths), cleared))
}
