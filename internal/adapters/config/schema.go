package config

import (
	"github.com/maastrich/cockpit/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// WorkfileDTO is the root cockpit.work.yaml shape: the workspace glob
// patterns to discover, plus an optional set of root-scoped tasks.
type WorkfileDTO struct {
	Version    string              `yaml:"version"`
	Workspaces []string            `yaml:"workspaces"`
	Env        map[string]string   `yaml:"env"`
	Tasks      map[string]*TaskDTO `yaml:"tasks"`
}

// CockpitFileDTO is a cockpit.yaml file's shape, used both as the
// standalone-mode root config and as a per-workspace config in workspace
// mode (where Name, Tags and DependsOn become meaningful).
type CockpitFileDTO struct {
	Version   string              `yaml:"version"`
	Name      string              `yaml:"name"`
	Tags      []string            `yaml:"tags"`
	DependsOn []string            `yaml:"dependsOn"`
	Env       map[string]string   `yaml:"env"`
	Tasks     map[string]*TaskDTO `yaml:"tasks"`
}

// TaskDTO is the YAML shape of one TaskDefinition (spec.md §3).
type TaskDTO struct {
	Command      CommandDTO        `yaml:"command"`
	Description  string            `yaml:"description"`
	Env          map[string]string `yaml:"env"`
	Inputs       []string          `yaml:"inputs"`
	Outputs      []string          `yaml:"outputs"`
	Cleanup      CleanupDTO        `yaml:"cleanup"`
	Cache        *bool             `yaml:"cache"`
	Cwd          string            `yaml:"cwd"`
	AllowFailure bool              `yaml:"allowFailure"`
	Timeout      int               `yaml:"timeout"`
	Platform     string            `yaml:"platform"`
	DependsOn    []TaskRefDTO      `yaml:"dependsOn"`
}

// CommandDTO decodes the command|list|struct union of spec.md §3 and §9's
// "polymorphic command spec" re-architecture target directly into a
// domain.Command.
type CommandDTO struct {
	domain.Command
}

func (c *CommandDTO) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		c.Command = domain.NewShellCommand(s)
		return nil
	case yaml.SequenceNode:
		var chain []string
		if err := value.Decode(&chain); err != nil {
			return err
		}
		c.Command = domain.NewShellChainCommand(chain)
		return nil
	case yaml.MappingNode:
		var s struct {
			Program string   `yaml:"program"`
			Args    []string `yaml:"args"`
			Cwd     string   `yaml:"cwd"`
			Shell   bool     `yaml:"shell"`
		}
		if err := value.Decode(&s); err != nil {
			return err
		}
		c.Command = domain.NewStructCommand(s.Program, s.Args, s.Cwd, s.Shell)
		return nil
	default:
		return ErrInvalidCommandShape
	}
}

// CleanupDTO decodes the "outputs" | list<glob> union of spec.md §3 into a
// domain.CleanupSpec.
type CleanupDTO struct {
	domain.CleanupSpec
}

func (c *CleanupDTO) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		if s != "outputs" {
			return zerr.With(ErrInvalidCleanupShape, "value", s)
		}
		c.CleanupSpec = domain.CleanupSpec{UseOutputs: true}
	case yaml.SequenceNode:
		var patterns []string
		if err := value.Decode(&patterns); err != nil {
			return err
		}
		c.CleanupSpec = domain.CleanupSpec{Patterns: patterns}
	default:
		return ErrInvalidCleanupShape
	}
	return nil
}

// TaskRefDTO decodes the string|{task,optional} union of spec.md §3 into a
// domain.TaskRef.
type TaskRefDTO struct {
	domain.TaskRef
}

func (r *TaskRefDTO) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		r.TaskRef = domain.NewRawRef(s)
		return nil
	case yaml.MappingNode:
		var s struct {
			Task     string `yaml:"task"`
			Optional bool   `yaml:"optional"`
		}
		if err := value.Decode(&s); err != nil {
			return err
		}
		r.TaskRef = domain.NewStructRef(s.Task, s.Optional)
		return nil
	default:
		return ErrInvalidDependsOnShape
	}
}

// buildTaskDefinition turns a TaskDTO into the domain.TaskDefinition the
// core consumes.
func buildTaskDefinition(dto *TaskDTO) domain.TaskDefinition {
	deps := make([]domain.TaskRef, len(dto.DependsOn))
	for i, d := range dto.DependsOn {
		deps[i] = d.TaskRef
	}
	return domain.TaskDefinition{
		Command:      dto.Command.Command,
		Description:  dto.Description,
		Env:          dto.Env,
		Inputs:       dto.Inputs,
		Outputs:      dto.Outputs,
		Cleanup:      dto.Cleanup.CleanupSpec,
		Cache:        dto.Cache,
		Cwd:          dto.Cwd,
		AllowFailure: dto.AllowFailure,
		TimeoutMS:    dto.Timeout,
		Platform:     domain.Platform(dto.Platform),
		DependsOn:    deps,
	}
}
