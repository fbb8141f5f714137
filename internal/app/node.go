package app

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/hashicorp/go-metrics"

	"go.trai.ch/gourmet/internal/adapters/compiler"  //nolint:depguard // Wired in app layer
	"go.trai.ch/gourmet/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/gourmet/internal/adapters/hot"       //nolint:depguard // Wired in app layer
	"go.trai.ch/gourmet/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/gourmet/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/gourmet/internal/core/ports"
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
			compiler.NodeID,
			hot.NodeID,
			telemetry.TracerNodeID,
			telemetry.SinkNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runComponentsNode,
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

	compilers, err := graft.Dep[*compiler.Factory](ctx)
	if err != nil {
		return nil, err
	}

	hotServer, err := graft.Dep[*hot.Server](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[*telemetry.OTelTracer](ctx)
	if err != nil {
		return nil, err
	}

	sink, err := graft.Dep[*metrics.InmemSink](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, compilers, hotServer, tracer, sink), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[*telemetry.OTelTracer](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    a,
		Logger: log,
		Tracer: tracer,
	}, nil
}
