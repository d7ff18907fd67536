package k8s

import (
	"context"
	"fmt"
	"log/slog"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/watch"
)

// Receives the current set of running worker hosts whenever it changes.
type WorkerHostsFunc func(hosts []string)

// Watches a job's worker pods and reports the running host set.
//
// Every time a worker pod starts running or goes away, fn is called with
// the full current set of pod IPs. The watch runs until the context is
// cancelled or the server closes the stream.
func (c *Client) WatchWorkers(ctx context.Context, jobName string, fn WorkerHostsFunc) error {
	selector := fmt.Sprintf("%s=%s,%s=%s,%s=%s",
		appLabel, appName,
		jobNameLabel, jobName,
		roleLabel, roleWorker,
	)

	watcher, err := c.clientset.CoreV1().Pods(c.namespace).Watch(ctx, metav1.ListOptions{
		LabelSelector: selector,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCluster, err)
	}
	defer watcher.Stop()

	hosts := map[string]string{}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.ResultChan():
			if !ok {
				return nil
			}
			pod, isPod := event.Object.(*corev1.Pod)
			if !isPod {
				continue
			}
			if updateWorkerHosts(hosts, event.Type, pod) {
				slog.Debug("worker hosts changed", "job", jobName, "count", len(hosts))
				fn(hostList(hosts))
			}
		}
	}
}

// Applies a watch event to the pod-name to host map. Reports whether the
// host set changed.
func updateWorkerHosts(hosts map[string]string, eventType watch.EventType, pod *corev1.Pod) bool {
	switch eventType {
	case watch.Added, watch.Modified:
		if pod.Status.Phase == corev1.PodRunning && pod.Status.PodIP != "" {
			if hosts[pod.Name] != pod.Status.PodIP {
				hosts[pod.Name] = pod.Status.PodIP
				return true
			}
			return false
		}
		// A pod that left the running phase no longer counts.
		if _, ok := hosts[pod.Name]; ok {
			delete(hosts, pod.Name)
			return true
		}
	case watch.Deleted:
		if _, ok := hosts[pod.Name]; ok {
			delete(hosts, pod.Name)
			return true
		}
	}
	return false
}

func hostList(hosts map[string]string) []string {
	list := make([]string, 0, len(hosts))
	for _, host := range hosts {
		list = append(list, host)
	}
	return list
}
