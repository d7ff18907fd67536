package k8s

import (
	"context"
	"fmt"
	"log/slog"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (

	// Label identifying all resources managed by this client.
	appLabel = "app"

	// Value of the app label.
	appName = "elasticdl"

	// Label carrying the job name, used to find a job's pods.
	jobNameLabel = "elasticdl-job-name"

	// Label distinguishing master from worker pods.
	roleLabel = "elasticdl-replica-type"

	// Role label values.
	roleMaster = "master"
	roleWorker = "worker"

	// Name of the master container.
	masterContainer = "elasticdl-master"

	// Interpreter running the master module inside the training image.
	masterCommand = "python"
)

// Describes the training master pod to create.
type MasterSpec struct {
	JobName          string   // Job name, unique within the namespace.
	Image            string   // Training image reference.
	Args             []string // Arguments passed to the master process.
	ResourceRequests string   // Resource request string (e.g. "cpu=0.1,memory=1024Mi").
	ResourceLimits   string   // Resource limit string. Empty falls back to the requests.
	PriorityClass    string   // Pod priority class name, if any.
	ImagePullPolicy  string   // Image pull policy (Always, IfNotPresent, Never).
	RestartPolicy    string   // Pod restart policy (Never, OnFailure, Always).
	VolumeName       string   // Persistent volume claim to mount, if any.
	MountPath        string   // Mount path for the volume inside the container.
}

// Returns the master pod name for a job.
func MasterPodName(jobName string) string {
	return "elasticdl-master-" + jobName
}

// Builds the master pod object without creating it.
//
// Volume name and mount path must be provided together: a volume without a
// mount point (or the reverse) is a configuration error.
func BuildMasterPod(namespace string, spec MasterSpec) (*corev1.Pod, error) {
	if spec.JobName == "" {
		return nil, fmt.Errorf("%w: job name is required", ErrSubmit)
	}
	if spec.Image == "" {
		return nil, fmt.Errorf("%w: image is required", ErrSubmit)
	}
	if (spec.VolumeName == "") != (spec.MountPath == "") {
		return nil, fmt.Errorf("%w: volume name and mount path must be provided together", ErrSubmit)
	}

	requirements, err := ParseRequirements(spec.ResourceRequests, spec.ResourceLimits)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubmit, err)
	}

	container := corev1.Container{
		Name:            masterContainer,
		Image:           spec.Image,
		Command:         []string{masterCommand},
		Args:            spec.Args,
		Resources:       requirements,
		ImagePullPolicy: corev1.PullPolicy(spec.ImagePullPolicy),
	}

	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      MasterPodName(spec.JobName),
			Namespace: namespace,
			Labels: map[string]string{
				appLabel:     appName,
				jobNameLabel: spec.JobName,
				roleLabel:    roleMaster,
			},
		},
		Spec: corev1.PodSpec{
			Containers:        []corev1.Container{container},
			RestartPolicy:     corev1.RestartPolicy(spec.RestartPolicy),
			PriorityClassName: spec.PriorityClass,
		},
	}

	if spec.VolumeName != "" {
		pod.Spec.Volumes = []corev1.Volume{{
			Name: spec.VolumeName,
			VolumeSource: corev1.VolumeSource{
				PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
					ClaimName: spec.VolumeName,
				},
			},
		}}
		pod.Spec.Containers[0].VolumeMounts = []corev1.VolumeMount{{
			Name:      spec.VolumeName,
			MountPath: spec.MountPath,
		}}
	}

	return pod, nil
}

// Creates the training master pod on the cluster.
//
// The master owns the rest of the job: once running, it creates and
// supervises the worker pods itself. The client's responsibility ends with
// the master.
func (c *Client) CreateMaster(ctx context.Context, spec MasterSpec) (*corev1.Pod, error) {
	pod, err := BuildMasterPod(c.namespace, spec)
	if err != nil {
		return nil, err
	}

	created, err := c.clientset.CoreV1().Pods(c.namespace).Create(ctx, pod, metav1.CreateOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubmit, err)
	}

	slog.Info("master pod created",
		"pod", created.Name,
		"namespace", c.namespace,
		"image", spec.Image,
	)

	return created, nil
}

// Deletes a job's master pod.
func (c *Client) DeleteMaster(ctx context.Context, jobName string) error {
	name := MasterPodName(jobName)
	if err := c.clientset.CoreV1().Pods(c.namespace).Delete(ctx, name, metav1.DeleteOptions{}); err != nil {
		return fmt.Errorf("%w: %w", ErrSubmit, err)
	}
	return nil
}
