package cli

import (
	"context"
	"fmt"

	"github.com/elasticdl/edl/internal/registry"
	"github.com/elasticdl/edl/internal/runtime"
)

// Represents the 'edl push' command.
type PushCmd struct {
	runtimeFlags `embed:""`

	Keep    bool   `help:"Keep the imported image in the content store after the push."`
	Archive string `arg:"" help:"Exported image archive to push." type:"path"`
	Ref     string `arg:"" help:"Target image reference."`
}

// Executes the push command.
func (c *PushCmd) Run(ctx context.Context) error {
	rt, err := runtime.New(c.Containerd, c.ContainerdNamespace)
	if err != nil {
		return err
	}
	defer rt.Close()

	ref, err := registry.Push(ctx, rt, registry.Options{
		Archive: c.Archive,
		Ref:     c.Ref,
		Keep:    c.Keep,
	})
	if err != nil {
		return err
	}

	fmt.Println(ref)
	return nil
}
