package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/elasticdl/edl/internal/paths"
	"github.com/elasticdl/edl/internal/recipe"
	"github.com/elasticdl/edl/internal/runtime"
)

// Holds shared state for building all stages of a recipe.
type builder struct {
	rt         *runtime.Runtime     // Container runtime for image and container operations.
	job        string               // Job name, used as a prefix for container IDs.
	output     string               // Output directory for the final build artifact.
	context    string               // Build context root for resolving copy sources.
	platforms  []string             // Target platforms to build for.
	containers []*runtime.Container // All stage containers across all platforms, destroyed after the build completes.
}

// Creates a new [builder] from the given options.
func newBuilder(rt *runtime.Runtime, opts Options) *builder {
	return &builder{
		rt:        rt,
		job:       opts.Job,
		output:    opts.Output,
		context:   opts.Root,
		platforms: opts.Platforms,
	}
}

// Builds the recipe end-to-end against the container runtime.
//
// Each target platform is built independently. Stages are built in declaration
// order for each platform. The non-transient stage is exported as the final
// image to the platform's output directory. All stage containers are destroyed
// when the build completes.
func (b *builder) build(ctx context.Context, recipeStages []recipe.Stage) (*Result, error) {
	defer b.destroyContainers(ctx)

	for _, platform := range b.platforms {
		if err := b.buildPlatform(ctx, recipeStages, platform); err != nil {
			return nil, err
		}
	}

	return &Result{Output: b.output}, nil
}

// Builds all stages of the recipe for a single platform.
//
// Each platform maintains its own set of named stage containers for
// cross-stage copy lookups. The output is written to a platform-specific
// subdirectory when building for multiple platforms.
func (b *builder) buildPlatform(ctx context.Context, recipeStages []recipe.Stage, platform string) error {
	slog.Info("building platform", "platform", platform)

	output := b.platformOutput(platform)
	if err := os.MkdirAll(output, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	stages := make(map[string]*runtime.Container)

	for i, stage := range recipeStages {
		if err := b.buildStage(ctx, stage, i, platform, output, stages); err != nil {
			return fmt.Errorf("%w: platform %s, stage %s: %w", ErrBuild, platform, stageLabel(stage.Name, i), err)
		}
	}

	return nil
}

// Builds a single stage of a recipe for a specific platform.
//
// Resolves the stage's base image, starts a build container, executes the
// stage's steps, then commits the result. Non-transient stages are exported
// to the output directory.
func (b *builder) buildStage(ctx context.Context, stage recipe.Stage, index int, platform, output string, stages map[string]*runtime.Container) error {
	label := stageLabel(stage.Name, index)
	slog.Info(fmt.Sprintf("building stage %s", label), "platform", platform)

	src, err := stage.ParseFrom()
	if err != nil {
		return err
	}

	id := b.containerID(stage.Name, index, platform)
	ctr, err := b.startContainer(ctx, src, id, platform)
	if err != nil {
		return fmt.Errorf("%w: %w", runtime.ErrRuntime, err)
	}

	b.containers = append(b.containers, ctr)
	if stage.Name != "" {
		stages[stage.Name] = ctr
	}

	state := newStepState()
	if err := executeSteps(ctx, ctr, stage.Steps, state, b.context, stages); err != nil {
		return err
	}

	if !stage.Transient {
		if err := ctr.Stop(ctx); err != nil {
			return fmt.Errorf("%w: %w", runtime.ErrRuntime, err)
		}

		// The env accumulated by the stage's modifier steps becomes part
		// of the exported image config.
		if err := ctr.Export(ctx, output, state.environ()); err != nil {
			return fmt.Errorf("%w: %w", runtime.ErrRuntime, err)
		}
	}

	return nil
}

// Starts a stage container from its resolved base image source.
func (b *builder) startContainer(ctx context.Context, src recipe.Source, id, platform string) (*runtime.Container, error) {
	switch src.Kind {
	case recipe.SourceArchive:
		return b.rt.StartFromArchive(ctx, src.Value, id, platform)
	case recipe.SourceRegistry:
		return b.rt.StartFromRef(ctx, src.Value, id, platform)
	default:
		return nil, fmt.Errorf("unknown base image source %q", src.Kind)
	}
}

// Destroys all stage containers.
func (b *builder) destroyContainers(ctx context.Context) {
	for _, ctr := range b.containers {
		ctr.Destroy(ctx)
	}
}

// Returns a unique container ID for a stage, scoped to this job and platform.
func (b *builder) containerID(name string, index int, platform string) string {
	slug := platformSlug(platform)
	if name != "" {
		return fmt.Sprintf("%s-%s-stage-%s", b.job, slug, name)
	}
	return fmt.Sprintf("%s-%s-stage-%d", b.job, slug, index+1)
}

// Returns the output directory for a specific platform.
//
// When building for a single platform, the output directory is left as-is
// to preserve the existing {output}/image.tar convention. For multi-platform
// builds, each platform gets a subdirectory (e.g., {output}/linux-amd64).
func (b *builder) platformOutput(platform string) string {
	if len(b.platforms) == 1 {
		return b.output
	}
	return filepath.Join(b.output, platformSlug(platform))
}

// Converts a platform string to a filesystem-safe slug.
//
// Replaces slashes with dashes (e.g., "linux/amd64" becomes "linux-amd64").
func platformSlug(platform string) string {
	return strings.ReplaceAll(platform, "/", "-")
}

// Returns a label for a stage, preferring the name when available and falling
// back to the 1-based index.
func stageLabel(name string, index int) string {
	if name != "" {
		return fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf("%d", index+1)
}
