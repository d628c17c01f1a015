package sandbox

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hoard/internal/adapters/cabal"
	"go.trai.ch/hoard/internal/adapters/ghcpkg"
	"go.trai.ch/hoard/internal/adapters/logger"
	"go.trai.ch/hoard/internal/core/ports"
)

const NodeID graft.ID = "engine.sandbox_manager"

func init() {
	graft.Register(graft.Node[*Manager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{cabal.NodeID, ghcpkg.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Manager, error) {
			tool, err := graft.Dep[ports.Toolchain](ctx)
			if err != nil {
				return nil, err
			}
			registry, err := graft.Dep[ports.RegistryReader](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewManager(tool, registry, log), nil
		},
	})
}
