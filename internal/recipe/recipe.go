package recipe

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// An ordered sequence of build stages producing a container image.
type Recipe struct {
	Stages []Stage `yaml:"stages"`
}

// A single build stage backed by a container created from a base image.
//
// Named stages can be referenced by later stages for cross-stage copies.
// Transient stages are intermediate: their filesystem is available to other
// stages but they are not exported as part of the final image.
type Stage struct {
	Name      string `yaml:"name,omitempty"`
	From      string `yaml:"from"`
	Transient bool   `yaml:"transient,omitempty"`
	Steps     []Step `yaml:"steps,omitempty"`
}

// A single instruction within a stage.
//
// A step is either an operation (run or copy), a standalone modifier (shell,
// workdir, env), or a group of nested steps with group-level modifiers.
// Modifiers on an operation step apply to that operation only; standalone
// modifiers persist for the rest of the stage.
type Step struct {
	Run     string            `yaml:"run,omitempty"`
	Copy    string            `yaml:"copy,omitempty"`
	Shell   string            `yaml:"shell,omitempty"`
	Workdir string            `yaml:"workdir,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
	Steps   []Step            `yaml:"steps,omitempty"`
}

// Reads and parses a recipe from a YAML file.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecipe, err)
	}
	return Parse(data)
}

// Parses a recipe from YAML and validates it.
func Parse(data []byte) (*Recipe, error) {
	var r Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecipe, err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Checks the recipe for structural errors.
//
// Every stage needs a base image source, stage names must be unique, at
// least one stage must be exportable (non-transient), and no step may
// combine a run and a copy operation.
func (r *Recipe) Validate() error {
	if len(r.Stages) == 0 {
		return fmt.Errorf("%w: no stages", ErrRecipe)
	}

	names := make(map[string]bool, len(r.Stages))
	exportable := false

	for i, stage := range r.Stages {
		if stage.From == "" {
			return fmt.Errorf("%w: stage %d has no base image", ErrRecipe, i+1)
		}
		if stage.Name != "" {
			if names[stage.Name] {
				return fmt.Errorf("%w: duplicate stage name %q", ErrRecipe, stage.Name)
			}
			names[stage.Name] = true
		}
		if !stage.Transient {
			exportable = true
		}
		if err := validateSteps(stage.Steps); err != nil {
			return fmt.Errorf("%w: stage %d: %w", ErrRecipe, i+1, err)
		}
	}

	if !exportable {
		return fmt.Errorf("%w: all stages are transient, nothing to export", ErrRecipe)
	}

	return nil
}

// Checks a step list, recursing into groups.
func validateSteps(steps []Step) error {
	for i, step := range steps {
		if step.Run != "" && step.Copy != "" {
			return fmt.Errorf("step %d combines run and copy", i+1)
		}
		if len(step.Steps) > 0 && (step.Run != "" || step.Copy != "") {
			return fmt.Errorf("step %d combines an operation with nested steps", i+1)
		}
		if err := validateSteps(step.Steps); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}
