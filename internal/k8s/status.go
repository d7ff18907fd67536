package k8s

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/fields"
)

// Summarizes the state of a training job.
type JobStatus struct {
	JobName string // Job name.
	Master  string // Master pod name.
	Phase   string // Master pod phase (Pending, Running, Succeeded, Failed).
	Workers int    // Number of running worker pods.
}

// Reports the current state of a job from its pods.
func (c *Client) JobStatus(ctx context.Context, jobName string) (JobStatus, error) {
	status := JobStatus{JobName: jobName, Master: MasterPodName(jobName)}

	master, err := c.clientset.CoreV1().Pods(c.namespace).Get(ctx, status.Master, metav1.GetOptions{})
	if err != nil {
		return JobStatus{}, fmt.Errorf("%w: %w", ErrCluster, err)
	}
	status.Phase = string(master.Status.Phase)

	selector := fmt.Sprintf("%s=%s,%s=%s,%s=%s",
		appLabel, appName,
		jobNameLabel, jobName,
		roleLabel, roleWorker,
	)
	workers, err := c.clientset.CoreV1().Pods(c.namespace).List(ctx, metav1.ListOptions{
		LabelSelector: selector,
	})
	if err != nil {
		return JobStatus{}, fmt.Errorf("%w: %w", ErrCluster, err)
	}
	for _, pod := range workers.Items {
		if pod.Status.Phase == corev1.PodRunning {
			status.Workers++
		}
	}

	return status, nil
}

// Blocks until a job's master pod starts running.
//
// Returns early when the pod is already past the pending phase. A failed
// or deleted master is reported as an error.
func (c *Client) WaitMaster(ctx context.Context, jobName string) error {
	name := MasterPodName(jobName)

	pod, err := c.clientset.CoreV1().Pods(c.namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCluster, err)
	}
	if done, err := masterStarted(pod); done {
		return err
	}

	watcher, err := c.clientset.CoreV1().Pods(c.namespace).Watch(ctx, metav1.ListOptions{
		FieldSelector:   fields.OneTermEqualSelector("metadata.name", name).String(),
		ResourceVersion: pod.ResourceVersion,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCluster, err)
	}
	defer watcher.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.ResultChan():
			if !ok {
				return fmt.Errorf("%w: watch on master pod %s closed", ErrCluster, name)
			}
			pod, isPod := event.Object.(*corev1.Pod)
			if !isPod {
				continue
			}
			if done, err := masterStarted(pod); done {
				return err
			}
		}
	}
}

// Reports whether the master pod reached a decisive phase, and whether
// that phase is a failure.
func masterStarted(pod *corev1.Pod) (bool, error) {
	switch pod.Status.Phase {
	case corev1.PodRunning, corev1.PodSucceeded:
		return true, nil
	case corev1.PodFailed:
		return true, fmt.Errorf("%w: master pod %s failed", ErrSubmit, pod.Name)
	}
	return false, nil
}
