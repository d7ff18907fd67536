package cli

import (
	"context"
	"fmt"

	"github.com/elasticdl/edl/internal/build"
	"github.com/elasticdl/edl/internal/recipe"
	"github.com/elasticdl/edl/internal/runtime"
)

// Represents the 'edl build' command.
type BuildCmd struct {
	runtimeFlags `embed:""`
	imageFlags   `embed:""`

	Job      string `help:"Job name, used to name build containers and the output directory." required:""`
	Recipe   string `help:"Build from a recipe file instead of synthesizing the training recipe." type:"path" placeholder:"FILE"`
	Root     string `help:"Build context root for resolving recipe copy sources." type:"path" placeholder:"DIR"`
	ModelDef string `arg:"" optional:"" help:"Model definition directory. Required unless --recipe is given." type:"path"`
}

// Executes the build command.
//
// Builds the training image and leaves the exported archive in the output
// directory without submitting a job.
func (c *BuildCmd) Run(ctx context.Context) error {
	r, err := c.recipe()
	if err != nil {
		return err
	}

	rt, err := runtime.New(c.Containerd, c.ContainerdNamespace)
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := build.Run(ctx, rt, build.Options{
		Recipe: r,
		Job:    c.Job,
		Output: c.Output,
		Root:   c.Root,
	})
	if err != nil {
		return err
	}

	fmt.Println(result.Output)
	return nil
}

// Loads the recipe file when given, otherwise synthesizes the training
// recipe from the model definition.
func (c *BuildCmd) recipe() (*recipe.Recipe, error) {
	if c.Recipe != "" {
		return recipe.Load(c.Recipe)
	}

	return recipe.Training(recipe.TrainingOptions{
		BaseImage:    c.BaseImage,
		PrebuiltBase: c.PrebuiltBase,
		PackageIndex: c.PackageIndex,
		Source:       c.Source,
		BuildFile:    c.BuildFile,
		ModelDef:     c.ModelDef,
	})
}
