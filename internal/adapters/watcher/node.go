package watcher

import (
	"context"
	"os"
	"time"

	"github.com/grindlemire/graft"

	"go.trai.ch/idmap/internal/adapters/config"
	"go.trai.ch/idmap/internal/adapters/logger"
	"go.trai.ch/idmap/internal/core/ports"
	"go.trai.ch/idmap/internal/engine/identity"
)

const (
	// WatcherNodeID is the unique identifier for the file watcher Graft node.
	WatcherNodeID graft.ID = "adapter.watcher"
	// ReloaderNodeID is the unique identifier for the reloader Graft node.
	ReloaderNodeID graft.ID = "adapter.reloader"
)

// DefaultDebounceWindow is the default time window for debouncing file events.
const DefaultDebounceWindow = 50 * time.Millisecond

func init() {
	graft.Register(graft.Node[ports.Watcher]{
		ID:        WatcherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Watcher, error) {
			return NewWatcher()
		},
	})

	graft.Register(graft.Node[*Reloader]{
		ID:        ReloaderNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WatcherNodeID, logger.NodeID, config.NodeID, identity.RegistryNodeID},
		Run: func(ctx context.Context) (*Reloader, error) {
			w, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			registry, err := graft.Dep[*identity.Registry](ctx)
			if err != nil {
				return nil, err
			}

			return NewReloader(w, registry, log, watchPaths(loader)), nil
		},
	})
}

// watchPaths collects the configured reload roots plus the config file
// itself, so editing session definitions also clears live scopes.
func watchPaths(loader ports.ConfigLoader) []string {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}

	paths := loader.WatchPaths(cwd)
	if configPath, err := loader.DiscoverConfigPath(cwd); err == nil {
		paths = append(paths, configPath)
	}
	return paths
}
