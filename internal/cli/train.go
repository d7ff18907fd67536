package cli

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/elasticdl/edl/internal/build"
	"github.com/elasticdl/edl/internal/k8s"
	"github.com/elasticdl/edl/internal/recipe"
	"github.com/elasticdl/edl/internal/registry"
	"github.com/elasticdl/edl/internal/runtime"
)

// Flags selecting the containerd endpoint for local builds.
type runtimeFlags struct {
	Containerd          string `help:"Containerd socket address." default:"/run/containerd/containerd.sock" placeholder:"PATH"`
	ContainerdNamespace string `help:"Containerd namespace for images and containers." default:"edl"`
}

// Flags controlling training image synthesis.
type imageFlags struct {
	BaseImage    string `help:"Base image for the training image." placeholder:"REF"`
	PrebuiltBase bool   `help:"The base image already contains the built framework."`
	PackageIndex string `help:"Extra package index URL consulted during installs." placeholder:"URL"`
	Source       string `help:"Framework source tree copied into the image." type:"path" placeholder:"DIR"`
	BuildFile    string `help:"Build file executed inside the image after the source copy." type:"path" placeholder:"FILE"`
	Output       string `help:"Output directory for the exported image archive." type:"path" placeholder:"DIR"`
}

// Flags controlling job submission to the cluster.
type clusterFlags struct {
	Namespace             string `help:"Cluster namespace for job resources." default:"default"`
	Kubeconfig            string `help:"Path to the kubeconfig file." type:"path" placeholder:"PATH"`
	KubeContext           string `help:"Kubeconfig context override."`
	MasterResourceRequest string `help:"Master pod resource requests." default:"cpu=0.1,memory=1024Mi"`
	MasterResourceLimit   string `help:"Master pod resource limits. Defaults to the requests." placeholder:"RESOURCES"`
	WorkerResourceRequest string `help:"Worker pod resource requests, forwarded to the master." default:"cpu=1,memory=4096Mi"`
	WorkerResourceLimit   string `help:"Worker pod resource limits. Defaults to the requests." placeholder:"RESOURCES"`
	PriorityClass         string `help:"Priority class for the master pod."`
	ImagePullPolicy       string `help:"Image pull policy for the master pod." default:"Always"`
	RestartPolicy         string `help:"Restart policy for the master pod." default:"Never"`
	VolumeName            string `help:"Persistent volume claim mounted into the master pod."`
	MountPath             string `help:"Mount path for the persistent volume claim."`
	Wait                  bool   `help:"Wait until the master pod is running before returning."`
}

// Shared implementation of the train and evaluate commands.
//
// Builds the training image from the model definition, optionally pushes it
// to a registry, and creates the job's master pod on the cluster.
type jobCmd struct {
	runtimeFlags `embed:""`
	imageFlags   `embed:""`
	clusterFlags `embed:""`

	Job      string   `help:"Job name, unique within the namespace." required:""`
	Image    string   `help:"Image reference the cluster pulls the training image from." required:"" placeholder:"REF"`
	Push     bool     `help:"Push the built image to its registry before submitting."`
	ModelDef string   `arg:"" help:"Model definition directory." type:"path"`
	Args     []string `arg:"" optional:"" passthrough:"" help:"Extra arguments passed to the master process."`
}

func (c *jobCmd) run(ctx context.Context, jobType string) error {
	r, err := recipe.Training(recipe.TrainingOptions{
		BaseImage:    c.BaseImage,
		PrebuiltBase: c.PrebuiltBase,
		PackageIndex: c.PackageIndex,
		Source:       c.Source,
		BuildFile:    c.BuildFile,
		ModelDef:     c.ModelDef,
	})
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
	})
	if err != nil {
		return err
	}

	image := c.Image
	if c.Push {
		archive := filepath.Join(result.Output, "image.tar")
		image, err = registry.Push(ctx, rt, registry.Options{
			Archive: archive,
			Ref:     c.Image,
		})
		if err != nil {
			return err
		}
	}

	client, err := k8s.New(k8s.Config{
		Kubeconfig: c.Kubeconfig,
		Context:    c.KubeContext,
		Namespace:  c.Namespace,
	})
	if err != nil {
		return err
	}

	pod, err := client.CreateMaster(ctx, k8s.MasterSpec{
		JobName:          c.Job,
		Image:            image,
		Args:             c.masterArgs(jobType, image),
		ResourceRequests: c.MasterResourceRequest,
		ResourceLimits:   c.MasterResourceLimit,
		PriorityClass:    c.PriorityClass,
		ImagePullPolicy:  c.ImagePullPolicy,
		RestartPolicy:    c.RestartPolicy,
		VolumeName:       c.VolumeName,
		MountPath:        c.MountPath,
	})
	if err != nil {
		return err
	}

	slog.Info("job submitted", "job", c.Job, "type", jobType, "master", pod.Name)

	if c.Wait {
		if err := client.WaitMaster(ctx, c.Job); err != nil {
			return err
		}
		slog.Info("master running", "job", c.Job, "master", pod.Name)
	}

	return nil
}

// Builds the argument list for the master process inside the training image.
//
// The master creates and supervises the worker pods itself, so everything
// the workers need — their image, resources, and the volume mount — is
// forwarded here rather than applied to the master pod alone.
func (c *jobCmd) masterArgs(jobType, image string) []string {
	workerLimit := c.WorkerResourceLimit
	if workerLimit == "" {
		workerLimit = c.WorkerResourceRequest
	}

	args := []string{
		"-m", "elasticdl.python.master.main",
		"--job_name=" + c.Job,
		"--job_type=" + jobType,
		"--worker_image=" + image,
		"--model_def=" + recipe.ModelTarget(c.ModelDef),
		"--worker_resource_request=" + c.WorkerResourceRequest,
		"--worker_resource_limit=" + workerLimit,
		"--namespace=" + c.Namespace,
		"--image_pull_policy=" + c.ImagePullPolicy,
		"--restart_policy=" + c.RestartPolicy,
	}

	if c.VolumeName != "" && c.MountPath != "" {
		args = append(args,
			"--volume_name="+c.VolumeName,
			"--mount_path="+c.MountPath,
		)
	}

	return append(args, c.Args...)
}

// Represents the 'edl train' command.
type TrainCmd struct {
	jobCmd `embed:""`
}

// Executes the train command.
func (c *TrainCmd) Run(ctx context.Context) error {
	return c.run(ctx, "training")
}

// Represents the 'edl evaluate' command.
type EvaluateCmd struct {
	jobCmd `embed:""`
}

// Executes the evaluate command.
func (c *EvaluateCmd) Run(ctx context.Context) error {
	return c.run(ctx, "evaluation")
}
