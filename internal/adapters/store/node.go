package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/idmap/internal/adapters/config"
	"go.trai.ch/idmap/internal/adapters/logger"
	"go.trai.ch/idmap/internal/core/domain"
	"go.trai.ch/idmap/internal/core/ports"
)

// NodeID is the unique identifier for the document store Graft node.
const NodeID graft.ID = "adapter.document_store"

func init() {
	graft.Register(graft.Node[ports.DocumentStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.DocumentStore, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return openFromConfig(loader, log), nil
		},
	})
}

// openFromConfig resolves the default session and opens its store.
// Configuration failures are diagnostics, not fatal errors: the process
// continues with a disabled store so scope clearing keeps working.
func openFromConfig(loader ports.ConfigLoader, log ports.Logger) ports.DocumentStore {
	cwd, err := os.Getwd()
	if err != nil {
		log.Warn("could not determine working directory, store disabled")
		return Disabled{}
	}

	cfg, err := loader.Load(cwd)
	if err != nil {
		log.Error(err)
		log.Warn("session configuration unavailable, store disabled")
		return Disabled{}
	}

	session, err := cfg.Session(domain.DefaultSessionName)
	if err != nil {
		log.Error(err)
		log.Warn("default session missing, store disabled")
		return Disabled{}
	}

	// First host wins for the SQLite backend.
	path := session.Hosts[0]
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			log.Warn(fmt.Sprintf("could not create store directory %s, store disabled", dir))
			return Disabled{}
		}
	}

	s, err := Open(path)
	if err != nil {
		log.Error(err)
		log.Warn("store could not be opened, store disabled")
		return Disabled{}
	}

	log.Info(fmt.Sprintf("document store ready at %s (session %s)", path, session.Name))
	return s
}
