// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes. cas.Store is not Graft-registered: it needs a
	// monorepo root discovered at request time, so internal/app constructs
	// it manually once ConfigLoader.Load resolves that root.
	_ "github.com/maastrich/cockpit/internal/adapters/config"
	_ "github.com/maastrich/cockpit/internal/adapters/fs"
	_ "github.com/maastrich/cockpit/internal/adapters/logger"
	_ "github.com/maastrich/cockpit/internal/adapters/process"
	_ "github.com/maastrich/cockpit/internal/adapters/telemetry"
	// Register app nodes.
	_ "github.com/maastrich/cockpit/internal/app"
)
