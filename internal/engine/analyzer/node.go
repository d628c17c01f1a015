package analyzer

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hoard/internal/adapters/ghcpkg"
	"go.trai.ch/hoard/internal/core/ports"
	"go.trai.ch/hoard/internal/engine/sandbox"
)

const NodeID graft.ID = "engine.analyzer"

func init() {
	graft.Register(graft.Node[*Analyzer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{ghcpkg.NodeID, sandbox.NodeID},
		Run: func(ctx context.Context) (*Analyzer, error) {
			registry, err := graft.Dep[ports.RegistryReader](ctx)
			if err != nil {
				return nil, err
			}
			manager, err := graft.Dep[*sandbox.Manager](ctx)
			if err != nil {
				return nil, err
			}
			return New(registry, manager), nil
		},
	})
}
