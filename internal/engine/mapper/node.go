package mapper

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/idmap/internal/adapters/store"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/idmap/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/idmap/internal/core/ports"
)

// NodeID is the unique identifier for the mapper Graft node.
const NodeID graft.ID = "engine.mapper"

func init() {
	graft.Register(graft.Node[*Mapper]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			store.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Mapper, error) {
			documents, err := graft.Dep[ports.DocumentStore](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return NewMapper(documents, tracer), nil
		},
	})
}
