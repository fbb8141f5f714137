package compiler

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/gourmet/internal/adapters/logger"
	"go.trai.ch/gourmet/internal/adapters/watcher"
	"go.trai.ch/gourmet/internal/core/ports"
)

// NodeID is the unique identifier for the compiler factory Graft node.
const NodeID graft.ID = "adapter.compiler"

func init() {
	graft.Register(graft.Node[*Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, watcher.NodeID},
		Run: func(ctx context.Context) (*Factory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			sources, err := graft.Dep[*watcher.Sources](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(log, sources), nil
		},
	})
}
