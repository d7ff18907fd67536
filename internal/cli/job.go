package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/elasticdl/edl/internal/k8s"
)

// Flags shared by the job subcommands.
type jobClusterFlags struct {
	Namespace   string `help:"Cluster namespace of the job." default:"default"`
	Kubeconfig  string `help:"Path to the kubeconfig file." type:"path" placeholder:"PATH"`
	KubeContext string `help:"Kubeconfig context override."`
}

func (f jobClusterFlags) client() (*k8s.Client, error) {
	return k8s.New(k8s.Config{
		Kubeconfig: f.Kubeconfig,
		Context:    f.KubeContext,
		Namespace:  f.Namespace,
	})
}

// Represents the 'edl job' command group.
type JobCmd struct {
	Status JobStatusCmd `cmd:"" help:"Show the state of a job's pods."`
	Stop   JobStopCmd   `cmd:"" help:"Stop a job by deleting its master pod."`
}

// Represents the 'edl job status' command.
type JobStatusCmd struct {
	jobClusterFlags `embed:""`

	Job string `arg:"" help:"Job name."`
}

// Executes the job status command.
func (c *JobStatusCmd) Run(ctx context.Context) error {
	client, err := c.client()
	if err != nil {
		return err
	}

	status, err := client.JobStatus(ctx, c.Job)
	if err != nil {
		return err
	}

	fmt.Printf("job:     %s\n", status.JobName)
	fmt.Printf("master:  %s\n", status.Master)
	fmt.Printf("phase:   %s\n", status.Phase)
	fmt.Printf("workers: %d\n", status.Workers)
	return nil
}

// Represents the 'edl job stop' command.
type JobStopCmd struct {
	jobClusterFlags `embed:""`

	Job string `arg:"" help:"Job name."`
}

// Executes the job stop command.
//
// Deleting the master pod ends the job: the master tears down its worker
// pods as it terminates.
func (c *JobStopCmd) Run(ctx context.Context) error {
	client, err := c.client()
	if err != nil {
		return err
	}

	if err := client.DeleteMaster(ctx, c.Job); err != nil {
		return err
	}

	slog.Info("job stopped", "job", c.Job)
	return nil
}
