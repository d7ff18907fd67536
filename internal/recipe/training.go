package recipe

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

const (

	// Directory inside the image holding the framework source tree.
	SourceRoot = "/elasticdl"

	// Directory inside the image holding user model definitions.
	ModelRoot = "/model"

	// Base image used when the caller does not provide one.
	DefaultBaseImage = "tensorflow/tensorflow:2.0.0b0-py3"

	// Module search path inside the image. Training processes resolve both
	// the framework source and the user's model definition through it.
	ModulePath = SourceRoot + ":" + ModelRoot
)

// Language packages installed into every training image: gRPC code
// generation, the cluster-orchestration and container-runtime clients, the
// test runner, and the record serialization library the data loader reads.
var trainingPackages = []string{
	"grpcio-tools",
	"kubernetes",
	"docker",
	"pytest",
	"recordio",
}

// Parameters for synthesizing a training image recipe.
type TrainingOptions struct {
	BaseImage    string // Base image reference. Empty selects [DefaultBaseImage].
	PrebuiltBase bool   // The base already contains the built framework; only the model is layered on.
	PackageIndex string // Alternate package index URL consulted during installs.
	Source       string // Host path of the framework source tree, copied to [SourceRoot].
	BuildFile    string // Host path of the build file, invoked with make after the source copy.
	ModelDef     string // Host path of the model definition directory, copied under [ModelRoot].
}

// Synthesizes the recipe for a training image.
//
// The full build copies the framework source and build file into the image,
// installs the language packages (honoring the alternate package index),
// runs the build file, layers the model definition under [ModelRoot], and
// sets the module search path. When the base is a prebuilt training image,
// only the model copy and the module path env are applied.
func Training(opts TrainingOptions) (*Recipe, error) {
	if opts.ModelDef == "" {
		return nil, fmt.Errorf("%w: model definition is required", ErrRecipe)
	}

	base := opts.BaseImage
	if base == "" {
		base = DefaultBaseImage
	}

	var steps []Step

	if opts.PrebuiltBase {
		steps = modelSteps(opts.ModelDef)
	} else {
		if opts.Source == "" {
			return nil, fmt.Errorf("%w: framework source is required", ErrRecipe)
		}
		if opts.BuildFile == "" {
			return nil, fmt.Errorf("%w: build file is required", ErrRecipe)
		}

		buildFile := path.Join(SourceRoot, filepath.Base(opts.BuildFile))

		steps = []Step{
			{Copy: opts.Source + " " + SourceRoot},
			{Copy: opts.BuildFile + " " + buildFile},
			{Run: installCommand(opts.PackageIndex)},
			{Run: "make -f " + buildFile},
		}
		steps = append(steps, modelSteps(opts.ModelDef)...)
	}

	steps = append(steps, Step{Env: map[string]string{"PYTHONPATH": ModulePath}})

	r := &Recipe{
		Stages: []Stage{{
			Name:  "training",
			From:  base,
			Steps: steps,
		}},
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Steps that layer the model definition into the image.
//
// The model directory is copied under [ModelRoot], and its own package
// requirements are installed when a requirements file is present.
func modelSteps(modelDef string) []Step {
	target := ModelTarget(modelDef)
	req := path.Join(target, "requirements.txt")

	return []Step{
		{Copy: modelDef + " " + target},
		{Run: fmt.Sprintf("if [ -f %s ]; then python -m pip install -r %s; fi", req, req)},
	}
}

// Returns the in-image path of a model definition copied from the given
// host path.
func ModelTarget(modelDef string) string {
	return path.Join(ModelRoot, filepath.Base(modelDef))
}

// Builds the pip install command for the training packages.
//
// An alternate package index is passed as an extra index so packages
// missing from the primary index can still resolve.
func installCommand(packageIndex string) string {
	cmd := "python -m pip install " + strings.Join(trainingPackages, " ")
	if packageIndex != "" {
		cmd += " --extra-index-url " + packageIndex
	}
	return cmd
}
