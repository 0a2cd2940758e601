package domain

import "sort"

// Workspace describes one monorepo workspace as produced by the config
// adapter (spec §6). The root workspace is never present in a
// WorkspaceModel's Workspaces map; its id is the empty string.
type Workspace struct {
	ID        WorkspaceId
	Name      string
	AbsPath   string
	RelPath   string
	Tags      []string
	DependsOn []WorkspaceId
}

// TaskConfig is one workspace's task table plus any workspace-scoped
// environment overlay (spec §6).
type TaskConfig struct {
	Tasks map[TaskName]TaskDefinition
	Env   map[string]string
}

// WorkspaceModel is the external config adapter's entire output — the shape
// the core consumes and never mutates (spec §6).
type WorkspaceModel struct {
	RootPath         string
	CockpitDir       string
	Workspaces       map[WorkspaceId]Workspace
	TaskConfigs      map[WorkspaceId]TaskConfig
	DefaultWorkspace *WorkspaceId
}

// WorkspacePath returns the absolute path of a workspace id, treating the
// empty id as the monorepo root.
func (m *WorkspaceModel) WorkspacePath(id WorkspaceId) string {
	if id == "" {
		return m.RootPath
	}
	if ws, ok := m.Workspaces[id]; ok {
		return ws.AbsPath
	}
	return ""
}

// LookupTask finds the TaskDefinition for a task id, split via ParseID.
func (m *WorkspaceModel) LookupTask(id TaskId) (TaskDefinition, bool) {
	ws, name := ParseID(id)
	cfg, ok := m.TaskConfigs[ws]
	if !ok {
		return TaskDefinition{}, false
	}
	def, ok := cfg.Tasks[name]
	return def, ok
}

// TaskIDsForName returns the canonical ids of every workspace (including
// root) that declares a task with the given name, used by the graph
// builder's "same task name across every workspace" constructor (spec §4.2).
func (m *WorkspaceModel) TaskIDsForName(name TaskName) []TaskId {
	var out []TaskId
	for ws, cfg := range m.TaskConfigs {
		if _, ok := cfg.Tasks[name]; ok {
			out = append(out, CreateID(ws, name))
		}
	}
	sort.Strings(out)
	return out
}

// AllTaskIDs returns the canonical ids of every task across every
// workspace, sorted for a deterministic full-graph build (used by the
// graph builder's "full graph" constructor).
func (m *WorkspaceModel) AllTaskIDs() []TaskId {
	var out []TaskId
	for ws, cfg := range m.TaskConfigs {
		for name := range cfg.Tasks {
			out = append(out, CreateID(ws, name))
		}
	}
	sort.Strings(out)
	return out
}
