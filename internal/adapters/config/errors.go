package config

import "go.trai.ch/zerr"

// Sentinels specific to the config adapter's validation rules (spec.md
// names the config loader as an external collaborator, so these live here
// rather than in core/domain/errors.go).
var (
	ErrMissingWorkspaceName   = zerr.New("workspace cockpit.yaml missing 'name'")
	ErrInvalidWorkspaceName   = zerr.New("workspace name contains invalid characters")
	ErrDuplicateWorkspaceName = zerr.New("duplicate workspace name")
	ErrReservedTaskName       = zerr.New("task name 'all' is reserved")
	ErrInvalidTaskName        = zerr.New("task name cannot contain ':'")
	ErrInvalidCommandShape    = zerr.New("invalid command shape")
	ErrInvalidCleanupShape    = zerr.New("invalid cleanup shape")
	ErrInvalidDependsOnShape  = zerr.New("invalid dependsOn entry shape")
)
