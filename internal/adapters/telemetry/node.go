package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/hashicorp/go-metrics"
)

const (
	// SinkNodeID is the unique identifier for the metrics sink Graft node.
	SinkNodeID graft.ID = "adapter.telemetry.sink"
	// TracerNodeID is the unique identifier for the tracer Graft node.
	TracerNodeID graft.ID = "adapter.telemetry"
)

func init() {
	graft.Register(graft.Node[*metrics.InmemSink]{
		ID:        SinkNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*metrics.InmemSink, error) {
			return NewSink(), nil
		},
	})

	graft.Register(graft.Node[*OTelTracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{SinkNodeID},
		Run: func(ctx context.Context) (*OTelTracer, error) {
			sink, err := graft.Dep[*metrics.InmemSink](ctx)
			if err != nil {
				return nil, err
			}
			return NewOTelTracer(NewMetricsBridge(sink)), nil
		},
	})
}
