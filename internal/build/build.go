package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/elasticdl/edl/internal/paths"
	"github.com/elasticdl/edl/internal/recipe"
	"github.com/elasticdl/edl/internal/runtime"
)

// Controls recipe execution.
type Options struct {
	Recipe    *recipe.Recipe // Recipe to execute.
	Job       string         // Job name, used as a prefix for container IDs.
	Output    string         // Directory for the exported image.
	Root      string         // Build context root, for resolving copy sources.
	Platforms []string       // Target platforms (e.g., ["linux/amd64"]). Defaults to host.
}

// Returned after successful recipe execution.
type Result struct {
	Output string // Directory containing the exported image.
}

// Executes a recipe against the container runtime.
//
// Stages are built in declaration order. Each stage starts a container from
// its base image, executes the stage's steps, and the non-transient stage is
// exported as the final image to the output directory.
func Run(ctx context.Context, rt *runtime.Runtime, opts Options) (*Result, error) {
	if len(opts.Platforms) == 0 {
		opts.Platforms = []string{runtime.DefaultPlatform()}
	}

	if opts.Output == "" {
		opts.Output = filepath.Join(paths.Builds(), opts.Job)
	}

	slog.Info("executing recipe",
		"job", opts.Job,
		"output", opts.Output,
		"stages", len(opts.Recipe.Stages),
		"platforms", opts.Platforms,
	)

	if err := os.MkdirAll(opts.Output, paths.DefaultDirMode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	return newBuilder(rt, opts).build(ctx, opts.Recipe.Stages)
}
