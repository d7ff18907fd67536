package cli

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/elasticdl/edl/internal/k8s"
	"github.com/elasticdl/edl/internal/rendezvous"
)

// Represents the 'edl rendezvous' command.
type RendezvousCmd struct {
	Namespace   string `help:"Cluster namespace of the job." default:"default"`
	Kubeconfig  string `help:"Path to the kubeconfig file." type:"path" placeholder:"PATH"`
	KubeContext string `help:"Kubeconfig context override."`
	Port        int    `help:"Port the rendezvous endpoint listens on." default:"2222"`
	Job         string `arg:"" help:"Job whose workers are tracked."`
}

// Executes the rendezvous command.
//
// Watches the job's worker pods and serves rank queries over HTTP. Runs
// until interrupted.
func (c *RendezvousCmd) Run(ctx context.Context) error {
	client, err := k8s.New(k8s.Config{
		Kubeconfig: c.Kubeconfig,
		Context:    c.KubeContext,
		Namespace:  c.Namespace,
	})
	if err != nil {
		return err
	}

	tracker := rendezvous.NewTracker()
	srv := rendezvous.NewServer(tracker, fmt.Sprintf(":%d", c.Port))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	g.Go(func() error {
		return client.WatchWorkers(ctx, c.Job, tracker.SetHosts)
	})

	return ignoreCanceled(g.Wait())
}

// Treats context cancellation, however deeply wrapped, as a clean exit:
// the watch and the endpoint both stop through the signal context.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
