// Package domain contains the core domain types for the task dependency graph:
// workspace/task identifiers, task definitions, the resolved graph, the cache
// schema, and the typed errors the rest of the engine raises.
package domain

// WorkspaceId identifies a workspace within the monorepo. The empty string
// denotes the monorepo root.
type WorkspaceId = string

// TaskName identifies a task within a workspace. May itself contain ':'.
type TaskName = string

// TaskId is the canonical "workspaceId:taskName" rendering of a task
// reference, as produced by CreateID. Plain strings (rather than the
// teacher's unique.Handle-backed InternedString) are used here deliberately:
// TaskId is a JSON map key throughout the cache schema (manifest, registry),
// and the interned form buys nothing once every id round-trips through
// encoding/json anyway.
type TaskId = string

// CreateID renders the canonical task id for a (workspace, task name) pair.
func CreateID(workspaceID, taskName string) string {
	return workspaceID + ":" + taskName
}

// ParseID inverts CreateID using the first-colon rule: everything before the
// first ':' is the workspace id (possibly empty, meaning root); everything
// after is the task name, including any further colons it contains. A string
// with no colon is treated as a root-workspace task name.
func ParseID(id string) (workspaceID, taskName string) {
	for i := 0; i < len(id); i++ {
		if id[i] == ':' {
			return id[:i], id[i+1:]
		}
	}
	return "", id
}

// ParseRef parses a TaskRef string of the form "name", "ws:name", or ":name"
// against the workspace the reference was written in (currentWs). It returns
// no optional flag; TaskRef.Resolve pairs its result with the reference's
// own Optional field.
func ParseRef(ref, currentWs string) (workspaceID, taskName string) {
	for i := 0; i < len(ref); i++ {
		if ref[i] == ':' {
			return ref[:i], ref[i+1:]
		}
	}
	return currentWs, ref
}

// SafeDirName renders a TaskId for use as a filesystem directory component,
// replacing ':' with "__" (spec §4.5).
func SafeDirName(taskID string) string {
	out := make([]byte, 0, len(taskID)+2)
	for i := 0; i < len(taskID); i++ {
		if taskID[i] == ':' {
			out = append(out, '_', '_')
		} else {
			out = append(out, taskID[i])
		}
	}
	return string(out)
}
