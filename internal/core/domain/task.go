package domain

import "runtime"

// Platform enumerates the OS values a task can be restricted to.
type Platform string

const (
	PlatformAll    Platform = "all"
	PlatformLinux  Platform = "linux"
	PlatformDarwin Platform = "darwin"
	PlatformWin32  Platform = "win32"
)

// platformGOOS maps a declared Platform to the runtime.GOOS value it matches.
var platformGOOS = map[Platform]string{
	PlatformLinux:  "linux",
	PlatformDarwin: "darwin",
	PlatformWin32:  "windows",
}

// Matches reports whether p permits execution on the current runtime.GOOS.
// The zero value and PlatformAll always match.
func (p Platform) Matches() bool {
	if p == "" || p == PlatformAll {
		return true
	}
	goos, ok := platformGOOS[p]
	return ok && goos == runtime.GOOS
}

// CommandKind discriminates the three shapes a TaskDefinition.Command can
// take (spec §3): a single shell string, an ordered AND-chain of shell
// strings, or an explicit program/args record.
type CommandKind int

const (
	// CommandShell is a single shell string, e.g. "go build ./...".
	CommandShell CommandKind = iota
	// CommandShellChain is an ordered list of shell strings joined by
	// logical AND, e.g. {"go vet ./...", "go build ./..."}.
	CommandShellChain
	// CommandStruct is an explicit {program, args, cwd?, shell?} record.
	CommandStruct
)

// Command is the discriminated union for TaskDefinition.command (spec §9's
// "polymorphic command spec" re-architecture target): a tagged union
// normalized at the config boundary instead of carried as string|list|struct.
type Command struct {
	Kind CommandKind

	// Shell holds the single shell string for CommandShell.
	Shell string

	// Chain holds the ordered shell strings for CommandShellChain.
	Chain []string

	// Program, Args, Cwd and UseShell hold the fields of CommandStruct.
	Program  string
	Args     []string
	Cwd      string
	UseShell bool
}

// NewShellCommand builds a CommandShell.
func NewShellCommand(s string) Command {
	return Command{Kind: CommandShell, Shell: s}
}

// NewShellChainCommand builds a CommandShellChain.
func NewShellChainCommand(chain []string) Command {
	return Command{Kind: CommandShellChain, Chain: chain}
}

// NewStructCommand builds a CommandStruct.
func NewStructCommand(program string, args []string, cwd string, useShell bool) Command {
	return Command{Kind: CommandStruct, Program: program, Args: args, Cwd: cwd, UseShell: useShell}
}

// Canonical returns a deterministic string encoding of the command, used by
// the input fingerprinter (spec §4.4 step 1) so equal commands under any of
// the three shapes hash identically to themselves run-over-run.
func (c Command) Canonical() string {
	switch c.Kind {
	case CommandShell:
		return "shell\x00" + c.Shell
	case CommandShellChain:
		s := "chain"
		for _, part := range c.Chain {
			s += "\x00" + part
		}
		return s
	case CommandStruct:
		s := "struct\x00" + c.Program + "\x00" + c.Cwd
		for _, a := range c.Args {
			s += "\x00" + a
		}
		if c.UseShell {
			s += "\x00shell"
		}
		return s
	default:
		return ""
	}
}

// TaskRef is the discriminated union for a dependency reference (spec §9's
// "dynamic task reference union" re-architecture target): either a bare
// string or a {task, optional} struct, normalized to (workspaceId, taskName,
// optional) by Resolve.
type TaskRef struct {
	// Raw is the reference string, e.g. "build", "core:build", ":lint".
	Raw string
	// Optional marks a dependency that may be silently dropped when missing.
	// Always false for the bare-string form.
	Optional bool
}

// NewRawRef builds a non-optional TaskRef from a bare reference string.
func NewRawRef(ref string) TaskRef {
	return TaskRef{Raw: ref}
}

// NewStructRef builds a TaskRef carrying an explicit optional flag.
func NewStructRef(ref string, optional bool) TaskRef {
	return TaskRef{Raw: ref, Optional: optional}
}

// Resolve normalizes the reference against the workspace it was declared in.
func (r TaskRef) Resolve(currentWorkspace string) (workspaceID, taskName string, optional bool) {
	ws, name := ParseRef(r.Raw, currentWorkspace)
	return ws, name, r.Optional
}

// CleanupSpec discriminates TaskDefinition.Cleanup between "reuse outputs"
// and an explicit pattern list (spec §4.9).
type CleanupSpec struct {
	UseOutputs bool
	Patterns   []string
}

// TaskDefinition is the declarative shape produced by the config adapter and
// consumed by the graph builder and runner (spec §3).
type TaskDefinition struct {
	Command      Command
	Description  string
	Env          map[string]string
	Inputs       []string
	Outputs      []string
	Cleanup      CleanupSpec
	Cache        *bool // nil means default-true
	Cwd          string
	AllowFailure bool
	TimeoutMS    int
	Platform     Platform
	DependsOn    []TaskRef
}

// CacheEnabled reports whether caching is enabled for this definition
// (default true unless explicitly disabled).
func (d TaskDefinition) CacheEnabled() bool {
	return d.Cache == nil || *d.Cache
}

// EffectiveTimeout returns the task's timeout, defaulting to 300000ms (spec §5).
func (d TaskDefinition) EffectiveTimeout() int {
	if d.TimeoutMS > 0 {
		return d.TimeoutMS
	}
	return DefaultTimeoutMS
}

// DefaultTimeoutMS is the scheduler-wide default per-task timeout (spec §5).
const DefaultTimeoutMS = 300_000

// ResolvedTask is a graph node: a task id bound to its definition and the
// canonical ids of its dependencies (spec §3). Immutable once constructed.
type ResolvedTask struct {
	ID           string
	WorkspaceID  string
	Name         string
	Definition   TaskDefinition
	Dependencies []string
	// WorkingDir is the task's resolved working directory, computed once at
	// graph-build time so no downstream component consults the process cwd
	// (spec §9's "process-wide cwd sensitivity" re-architecture target).
	WorkingDir string
	// WorkspaceEnv is the owning workspace's task-config env overlay,
	// copied in once at graph-build time for the same reason as WorkingDir:
	// the runner composes it into step 2's environment without needing its
	// own lookup into the WorkspaceModel.
	WorkspaceEnv map[string]string
}
