package cli

import (
	"context"
	"log/slog"

	"github.com/elasticdl/edl/internal/server"
)

// Represents the 'edl daemon' command.
type DaemonCmd struct {
	runtimeFlags `embed:""`

	Kubeconfig  string `help:"Path to the kubeconfig file used for job submission." type:"path" placeholder:"PATH"`
	KubeContext string `help:"Kubeconfig context override."`
}

// Executes the daemon command.
//
// Starts the daemon on a Unix domain socket and blocks until the context
// is cancelled (e.g. via SIGINT or SIGTERM) or a shutdown command arrives.
func (c *DaemonCmd) Run(ctx context.Context) error {
	srv, err := server.New(server.Config{
		SocketPath:          RootCmd.Socket,
		ContainerdAddress:   c.Containerd,
		ContainerdNamespace: c.ContainerdNamespace,
		Kubeconfig:          c.Kubeconfig,
		KubeContext:         c.KubeContext,
	})
	if err != nil {
		return err
	}

	if err := srv.Start(); err != nil {
		return err
	}

	slog.Info("edl daemon is running")

	done := make(chan struct{})
	go func() {
		srv.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
		return srv.Stop()
	case <-done:
		return nil
	}
}
