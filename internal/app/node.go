package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/idmap/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/idmap/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/idmap/internal/adapters/store"     //nolint:depguard // Wired in app layer
	"go.trai.ch/idmap/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/idmap/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/idmap/internal/core/ports"
	"go.trai.ch/idmap/internal/engine/identity"
	"go.trai.ch/idmap/internal/engine/mapper"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			store.NodeID,
			telemetry.TracerNodeID,
			identity.RegistryNodeID,
			mapper.NodeID,
			watcher.ReloaderNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			application, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{
				App:    application,
				Logger: log,
			}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	documents, err := graft.Dep[ports.DocumentStore](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	registry, err := graft.Dep[*identity.Registry](ctx)
	if err != nil {
		return nil, err
	}

	m, err := graft.Dep[*mapper.Mapper](ctx)
	if err != nil {
		return nil, err
	}

	reloader, err := graft.Dep[*watcher.Reloader](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, documents, tracer, registry, m, reloader), nil
}
