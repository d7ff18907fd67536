package runtime

import (
	"context"
	"fmt"
	"log/slog"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/containerd/containerd/v2/core/remotes/docker"
)

// Pushes a tagged image from the content store to its registry.
//
// The reference determines the target registry. Registry resolution uses
// the standard docker resolver, so credentials and mirrors configured for
// the host apply.
func (rt *Runtime) PushImage(ctx context.Context, ref string) error {
	img, err := rt.client.ImageService().Get(ctx, ref)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	resolver := docker.NewResolver(docker.ResolverOptions{})

	if err := rt.client.Push(ctx, ref, img.Target, containerd.WithResolver(resolver)); err != nil {
		return fmt.Errorf("%w: push %s: %w", ErrRuntime, ref, err)
	}

	slog.Debug("image pushed", "ref", ref)
	return nil
}
