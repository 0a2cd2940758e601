// Package config implements ports.ConfigLoader: a two-mode YAML loader that
// discovers either a standalone root cockpit.yaml or a cockpit.work.yaml plus
// a set of per-workspace cockpit.yaml files, grounded on the teacher's
// same.yaml/same.work.yaml loader.
package config

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/maastrich/cockpit/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Mode discriminates which configuration shape a monorepo root was found in.
type Mode string

const (
	// ModeWorkspace indicates the root carries a cockpit.work.yaml.
	ModeWorkspace Mode = "workspace"
	// ModeStandalone indicates the root carries only a cockpit.yaml.
	ModeStandalone Mode = "standalone"
)

var validWorkspaceNameRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the configuration reachable from cwd and returns the fully
// resolved workspace model.
func (l *Loader) Load(cwd string) (*domain.WorkspaceModel, error) {
	configPath, mode, err := findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	switch mode {
	case ModeStandalone:
		return l.loadStandalone(configPath)
	case ModeWorkspace:
		return l.loadWorkspace(configPath)
	default:
		return nil, zerr.With(domain.ErrConfigNotFound, "mode", mode)
	}
}

func findConfiguration(cwd string) (string, Mode, error) {
	currentDir := cwd
	var standaloneCandidate string

	for {
		workFilePath := filepath.Join(currentDir, domain.WorkFileName)
		if _, err := os.Stat(workFilePath); err == nil {
			return workFilePath, ModeWorkspace, nil
		}

		if standaloneCandidate == "" {
			cockpitPath := filepath.Join(currentDir, domain.ConfigFileName)
			if _, err := os.Stat(cockpitPath); err == nil {
				standaloneCandidate = cockpitPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	if standaloneCandidate != "" {
		return standaloneCandidate, ModeStandalone, nil
	}

	return "", "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func (l *Loader) loadStandalone(configPath string) (*domain.WorkspaceModel, error) {
	var file CockpitFileDTO
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, err
	}

	root := filepath.Clean(filepath.Dir(configPath))
	tasks, err := buildTasks(file.Tasks)
	if err != nil {
		return nil, err
	}

	return &domain.WorkspaceModel{
		RootPath:    root,
		CockpitDir:  filepath.Join(root, domain.CockpitDirName),
		Workspaces:  map[domain.WorkspaceId]domain.Workspace{},
		TaskConfigs: map[domain.WorkspaceId]domain.TaskConfig{"": {Tasks: tasks, Env: file.Env}},
	}, nil
}

func (l *Loader) loadWorkspace(configPath string) (*domain.WorkspaceModel, error) {
	var work WorkfileDTO
	if err := readAndUnmarshalYAML(configPath, &work); err != nil {
		return nil, err
	}

	root := filepath.Clean(filepath.Dir(configPath))
	rootTasks, err := buildTasks(work.Tasks)
	if err != nil {
		return nil, err
	}

	model := &domain.WorkspaceModel{
		RootPath:    root,
		CockpitDir:  filepath.Join(root, domain.CockpitDirName),
		Workspaces:  map[domain.WorkspaceId]domain.Workspace{},
		TaskConfigs: map[domain.WorkspaceId]domain.TaskConfig{"": {Tasks: rootTasks, Env: work.Env}},
	}

	workspacePaths, err := resolveWorkspacePaths(root, work.Workspaces)
	if err != nil {
		return nil, err
	}

	seenNames := make(map[string]string, len(workspacePaths))
	for _, path := range workspacePaths {
		if err := processWorkspace(model, root, path, seenNames); err != nil {
			return nil, err
		}
	}

	return model, nil
}

// resolveWorkspacePaths expands the workfile's glob patterns against the
// monorepo root, deduplicating and sorting for deterministic processing.
func resolveWorkspacePaths(root string, patterns []string) ([]string, error) {
	paths := make(map[string]struct{})
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(root, pattern))
		if err != nil {
			return nil, zerr.Wrap(err, "glob pattern failed: "+pattern)
		}
		for _, m := range matches {
			paths[m] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)
	return sorted, nil
}

// processWorkspace loads one matched directory's cockpit.yaml, validates its
// declared name, and registers it into model. Directories without a
// cockpit.yaml are skipped silently.
func processWorkspace(model *domain.WorkspaceModel, root, wsPath string, seenNames map[string]string) error {
	relPath, err := filepath.Rel(root, wsPath)
	if err != nil {
		return zerr.Wrap(err, "failed to compute workspace relative path")
	}

	info, err := os.Stat(wsPath)
	if err != nil {
		return zerr.Wrap(err, "failed to stat workspace candidate")
	}
	if !info.IsDir() {
		return nil
	}

	cockpitPath := filepath.Join(wsPath, domain.ConfigFileName)
	if _, statErr := os.Stat(cockpitPath); os.IsNotExist(statErr) {
		return nil
	}

	var file CockpitFileDTO
	if err := readAndUnmarshalYAML(cockpitPath, &file); err != nil {
		return zerr.With(err, "directory", relPath)
	}

	if file.Name == "" {
		return zerr.With(ErrMissingWorkspaceName, "directory", relPath)
	}
	if !validWorkspaceNameRegex.MatchString(file.Name) {
		return zerr.With(zerr.With(ErrInvalidWorkspaceName, "name", file.Name), "directory", relPath)
	}
	if existing, exists := seenNames[file.Name]; exists {
		err := zerr.With(ErrDuplicateWorkspaceName, "name", file.Name)
		err = zerr.With(err, "first_occurrence", existing)
		return zerr.With(err, "duplicate_at", relPath)
	}
	seenNames[file.Name] = relPath

	tasks, err := buildTasks(file.Tasks)
	if err != nil {
		return zerr.With(err, "workspace", file.Name)
	}

	model.Workspaces[file.Name] = domain.Workspace{
		ID:        file.Name,
		Name:      file.Name,
		AbsPath:   wsPath,
		RelPath:   relPath,
		Tags:      file.Tags,
		DependsOn: file.DependsOn,
	}
	model.TaskConfigs[file.Name] = domain.TaskConfig{Tasks: tasks, Env: file.Env}
	return nil
}

func buildTasks(dtos map[string]*TaskDTO) (map[domain.TaskName]domain.TaskDefinition, error) {
	tasks := make(map[domain.TaskName]domain.TaskDefinition, len(dtos))
	for name, dto := range dtos {
		if err := validateTaskName(name); err != nil {
			return nil, err
		}
		tasks[name] = buildTaskDefinition(dto)
	}
	return tasks, nil
}

func validateTaskName(name string) error {
	if name == "all" {
		return zerr.With(ErrReservedTaskName, "task_name", name)
	}
	if strings.Contains(name, ":") {
		return zerr.With(ErrInvalidTaskName, "task_name", name)
	}
	return nil
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into target.
func readAndUnmarshalYAML[T any](path string, target *T) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is resolved from validated candidates
	if err != nil {
		return zerr.Wrap(err, "failed to read config file")
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.Wrap(err, "failed to parse config file")
	}
	return nil
}
