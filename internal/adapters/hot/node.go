package hot

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/gourmet/internal/adapters/logger"
	"go.trai.ch/gourmet/internal/core/ports"
)

// NodeID is the unique identifier for the hot update server Graft node.
const NodeID graft.ID = "adapter.hot"

func init() {
	graft.Register(graft.Node[*Server]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Server, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewServer(log), nil
		},
	})
}
