package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"go.trai.ch/idmap/internal/adapters/logger"
	"go.trai.ch/idmap/internal/core/ports"
)

// TracerNodeID is the unique identifier for the telemetry adapter Graft node.
const TracerNodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			// Span logging is opt-in, tracing stays silent otherwise.
			var processors []sdktrace.SpanProcessor
			if os.Getenv("IDMAP_TRACE") != "" {
				processors = append(processors, NewLogBridge(log))
			}

			return NewOTelTracer("idmap", processors...), nil
		},
	})
}
