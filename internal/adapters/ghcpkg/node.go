package ghcpkg

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hoard/internal/core/ports"
)

const NodeID graft.ID = "adapter.registry_reader"

func init() {
	graft.Register(graft.Node[ports.RegistryReader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.RegistryReader, error) {
			return NewReader(), nil
		},
	})
}
