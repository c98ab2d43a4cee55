package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tandem/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the executor Graft node.
	NodeID graft.ID = "adapter.executor"
	// ProberNodeID is the unique identifier for the tool prober Graft node.
	ProberNodeID graft.ID = "adapter.tool_prober"
)

func init() {
	graft.Register(graft.Node[ports.Executor]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Executor, error) {
			return NewExecutor(), nil
		},
	})

	graft.Register(graft.Node[ports.ToolProber]{
		ID:        ProberNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ToolProber, error) {
			return NewProber(), nil
		},
	})
}
