package ports

import "github.com/maastrich/cockpit/internal/core/domain"

// ConfigLoader is the external collaborator that turns on-disk config into
// the WorkspaceModel the core consumes (spec §1, §6). Out of scope for this
// core: kept interface-only here, implemented by adapters/config grounded
// on the teacher's two-mode yaml loader.
type ConfigLoader interface {
	// Load reads the configuration reachable from cwd (walking up to find a
	// root marker) and returns the fully resolved workspace model.
	Load(cwd string) (*domain.WorkspaceModel, error)
}
