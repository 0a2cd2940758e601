package app

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/maastrich/cockpit/internal/adapters/config" //nolint:depguard // wired here
	"github.com/maastrich/cockpit/internal/adapters/fs"      //nolint:depguard // wired here
	"github.com/maastrich/cockpit/internal/adapters/logger"  //nolint:depguard // wired here
	"github.com/maastrich/cockpit/internal/adapters/process" //nolint:depguard // wired here
	"github.com/maastrich/cockpit/internal/adapters/telemetry" //nolint:depguard // wired here
	"github.com/maastrich/cockpit/internal/core/ports"
)

// NodeID is the unique identifier for the main App Graft node. App itself
// only holds Graft-registered singletons; the runtime-path-dependent cache
// store, runner and scheduler are constructed per request inside App.Run
// and App.Clean once the monorepo root is known.
const NodeID graft.ID = "app.main"

func init() {
	graft.Register(graft.Node[*App]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			fs.ResolverNodeID,
			fs.HasherNodeID,
			process.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			resolver, err := graft.Dep[ports.InputResolver](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			supervisor, err := graft.Dep[ports.ProcessSupervisor](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			return New(loader, log, resolver, hasher, supervisor, tracer), nil
		},
	})
}
