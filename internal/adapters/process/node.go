package process

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/maastrich/cockpit/internal/core/ports"
)

// NodeID is the unique identifier for the process supervisor Graft node.
const NodeID graft.ID = "adapter.process_supervisor"

func init() {
	graft.Register(graft.Node[ports.ProcessSupervisor]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ProcessSupervisor, error) {
			return New(), nil
		},
	})
}
