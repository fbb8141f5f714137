package watcher

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/gourmet/internal/adapters/logger"
	"go.trai.ch/gourmet/internal/core/ports"
)

// NodeID is the unique identifier for the source watcher Graft node.
const NodeID graft.ID = "adapter.watcher"

func init() {
	graft.Register(graft.Node[*Sources]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Sources, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewSources(log), nil
		},
	})
}
