// Package app implements the application layer for idmap.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/idmap/internal/adapters/detector"
	"go.trai.ch/idmap/internal/adapters/httpserver"
	"go.trai.ch/idmap/internal/adapters/watcher"
	"go.trai.ch/idmap/internal/core/domain"
	"go.trai.ch/idmap/internal/core/ports"
	"go.trai.ch/idmap/internal/engine/identity"
	"go.trai.ch/idmap/internal/engine/mapper"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	store        ports.DocumentStore
	tracer       ports.Tracer
	registry     *identity.Registry
	mapper       *mapper.Mapper
	reloader     *watcher.Reloader
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	store ports.DocumentStore,
	tracer ports.Tracer,
	registry *identity.Registry,
	m *mapper.Mapper,
	reloader *watcher.Reloader,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		store:        store,
		tracer:       tracer,
		registry:     registry,
		mapper:       m,
		reloader:     reloader,
	}
}

// ServeOptions configuration for the Serve method.
type ServeOptions struct {
	Addr       string
	OutputMode string
	WatchPaths []string
}

// Serve runs the HTTP document service and the reload watcher until ctx is
// cancelled.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	mode := detector.ResolveMode(detector.DetectEnvironment(), opts.OutputMode)
	a.logger.SetJSON(mode == detector.ModeJSON)

	if len(opts.WatchPaths) > 0 {
		a.reloader.WithPaths(opts.WatchPaths...)
	}

	server := httpserver.NewServer(opts.Addr, a.mapper, a.store, a.registry, a.logger, a.tracer)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Serve(gctx)
	})
	g.Go(func() error {
		return a.reloader.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		return a.reloader.Stop()
	})

	err := g.Wait()

	if shutdownErr := a.tracer.Shutdown(context.Background()); shutdownErr != nil {
		a.logger.Warn("failed to flush telemetry on shutdown")
	}

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return zerr.With(domain.ErrServeFailed, "cause", err.Error())
	}
	return nil
}

// Validate checks the session configuration and reports what was found.
func (a *App) Validate(cwd string) error {
	path, err := a.configLoader.DiscoverConfigPath(cwd)
	if err != nil {
		return err
	}

	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return err
	}

	a.logger.Info(fmt.Sprintf("%s OK, %d session(s)", path, len(cfg.Sessions)))
	return nil
}

// Close releases long-lived resources, mainly the store handle.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
