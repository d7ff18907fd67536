package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
)

func TestMasterArgs(t *testing.T) {
	cmd := &jobCmd{
		Job:      "mnist",
		ModelDef: "/src/models/mnist",
		Args:     []string{"--num_epochs=2"},
	}
	cmd.Namespace = "training"
	cmd.MasterResourceRequest = "cpu=0.1,memory=1024Mi"
	cmd.WorkerResourceRequest = "cpu=1,memory=4096Mi"
	cmd.ImagePullPolicy = "Always"
	cmd.RestartPolicy = "Never"

	args := cmd.masterArgs("training", "registry.example.com/team/mnist:v1")

	want := []string{
		"-m", "elasticdl.python.master.main",
		"--job_name=mnist",
		"--job_type=training",
		"--worker_image=registry.example.com/team/mnist:v1",
		"--model_def=/model/mnist",
		"--worker_resource_request=cpu=1,memory=4096Mi",
		"--worker_resource_limit=cpu=1,memory=4096Mi",
		"--namespace=training",
		"--image_pull_policy=Always",
		"--restart_policy=Never",
		"--num_epochs=2",
	}

	if !slices.Equal(args, want) {
		t.Fatalf("masterArgs =\n%v\nwant\n%v", args, want)
	}
}

func TestMasterArgsWorkerLimit(t *testing.T) {
	cmd := &jobCmd{Job: "mnist", ModelDef: "/src/models/mnist"}
	cmd.WorkerResourceRequest = "cpu=1,memory=4096Mi"
	cmd.WorkerResourceLimit = "cpu=2,memory=8192Mi"

	args := cmd.masterArgs("training", "mnist:v1")

	if !slices.Contains(args, "--worker_resource_limit=cpu=2,memory=8192Mi") {
		t.Fatalf("args %v missing explicit worker resource limit", args)
	}
}

func TestMasterArgsVolume(t *testing.T) {
	cmd := &jobCmd{Job: "mnist", ModelDef: "/src/models/mnist"}
	cmd.VolumeName = "training-data"
	cmd.MountPath = "/data"

	args := cmd.masterArgs("training", "mnist:v1")

	if !slices.Contains(args, "--volume_name=training-data") {
		t.Fatalf("args %v missing volume name", args)
	}
	if !slices.Contains(args, "--mount_path=/data") {
		t.Fatalf("args %v missing mount path", args)
	}

	// Without a volume, neither flag appears.
	bare := &jobCmd{Job: "mnist", ModelDef: "/src/models/mnist"}
	for _, arg := range bare.masterArgs("training", "mnist:v1") {
		if arg == "--volume_name=" || arg == "--mount_path=" {
			t.Fatalf("empty volume flag %q forwarded", arg)
		}
	}
}

func TestIgnoreCanceled(t *testing.T) {
	if err := ignoreCanceled(context.Canceled); err != nil {
		t.Fatalf("ignoreCanceled(context.Canceled) = %v, want nil", err)
	}

	wrapped := fmt.Errorf("worker watch: %w", context.Canceled)
	if err := ignoreCanceled(wrapped); err != nil {
		t.Fatalf("ignoreCanceled(wrapped cancel) = %v, want nil", err)
	}

	boom := errors.New("boom")
	if err := ignoreCanceled(boom); !errors.Is(err, boom) {
		t.Fatalf("ignoreCanceled(%v) = %v, want the error back", boom, err)
	}

	if err := ignoreCanceled(nil); err != nil {
		t.Fatalf("ignoreCanceled(nil) = %v, want nil", err)
	}
}
