package k8s

import (
	"context"
	"sort"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

func workerPod(name, ip string, phase corev1.PodPhase) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status:     corev1.PodStatus{Phase: phase, PodIP: ip},
	}
}

func TestUpdateWorkerHosts(t *testing.T) {
	hosts := map[string]string{}

	if !updateWorkerHosts(hosts, watch.Added, workerPod("worker-0", "10.0.0.1", corev1.PodRunning)) {
		t.Fatal("running worker not reported as a change")
	}
	if hosts["worker-0"] != "10.0.0.1" {
		t.Fatalf("hosts[worker-0] = %q, want 10.0.0.1", hosts["worker-0"])
	}

	// Same pod, same address: no change.
	if updateWorkerHosts(hosts, watch.Modified, workerPod("worker-0", "10.0.0.1", corev1.PodRunning)) {
		t.Fatal("unchanged worker reported as a change")
	}

	// Pending pods do not count.
	if updateWorkerHosts(hosts, watch.Added, workerPod("worker-1", "", corev1.PodPending)) {
		t.Fatal("pending worker reported as a change")
	}

	// A worker leaving the running phase is removed.
	if !updateWorkerHosts(hosts, watch.Modified, workerPod("worker-0", "10.0.0.1", corev1.PodFailed)) {
		t.Fatal("failed worker not reported as a change")
	}
	if len(hosts) != 0 {
		t.Fatalf("len(hosts) = %d, want 0", len(hosts))
	}

	// Deleting an unknown pod is not a change.
	if updateWorkerHosts(hosts, watch.Deleted, workerPod("worker-2", "10.0.0.3", corev1.PodRunning)) {
		t.Fatal("unknown deleted worker reported as a change")
	}
}

func TestWatchWorkers(t *testing.T) {
	clientset := fake.NewClientset()
	watcher := watch.NewFake()
	clientset.PrependWatchReactor("pods", k8stesting.DefaultWatchReactor(watcher, nil))

	client := NewWithClientset(clientset, "default")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan []string, 8)
	done := make(chan error, 1)
	go func() {
		done <- client.WatchWorkers(ctx, "mnist", func(hosts []string) {
			changes <- hosts
		})
	}()

	// Add blocks until the watch loop consumes the event.
	watcher.Add(workerPod("elasticdl-worker-mnist-0", "10.0.0.1", corev1.PodRunning))

	hosts := <-changes
	if len(hosts) != 1 || hosts[0] != "10.0.0.1" {
		t.Fatalf("hosts = %v, want [10.0.0.1]", hosts)
	}

	watcher.Delete(workerPod("elasticdl-worker-mnist-0", "10.0.0.1", corev1.PodRunning))

	hosts = <-changes
	if len(hosts) != 0 {
		t.Fatalf("hosts after delete = %v, want none", hosts)
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("WatchWorkers returned %v, want context.Canceled", err)
	}
}

func TestJobStatus(t *testing.T) {
	clientset := fake.NewClientset()
	client := NewWithClientset(clientset, "default")
	ctx := context.Background()

	master := workerPod(MasterPodName("mnist"), "10.0.0.9", corev1.PodRunning)
	master.Labels = map[string]string{
		appLabel:     appName,
		jobNameLabel: "mnist",
		roleLabel:    roleMaster,
	}
	if _, err := clientset.CoreV1().Pods("default").Create(ctx, master, metav1.CreateOptions{}); err != nil {
		t.Fatalf("create master pod: %v", err)
	}

	for i, phase := range []corev1.PodPhase{corev1.PodRunning, corev1.PodRunning, corev1.PodPending} {
		worker := workerPod(
			"elasticdl-worker-mnist-"+string(rune('0'+i)),
			"10.0.1."+string(rune('0'+i)),
			phase,
		)
		worker.Labels = map[string]string{
			appLabel:     appName,
			jobNameLabel: "mnist",
			roleLabel:    roleWorker,
		}
		if _, err := clientset.CoreV1().Pods("default").Create(ctx, worker, metav1.CreateOptions{}); err != nil {
			t.Fatalf("create worker pod: %v", err)
		}
	}

	status, err := client.JobStatus(ctx, "mnist")
	if err != nil {
		t.Fatalf("JobStatus error: %v", err)
	}
	if status.Phase != string(corev1.PodRunning) {
		t.Fatalf("status.Phase = %q, want Running", status.Phase)
	}
	if status.Workers != 2 {
		t.Fatalf("status.Workers = %d, want 2", status.Workers)
	}
}

func TestWaitMaster(t *testing.T) {
	clientset := fake.NewClientset()
	client := NewWithClientset(clientset, "default")
	ctx := context.Background()

	master := workerPod(MasterPodName("mnist"), "10.0.0.9", corev1.PodRunning)
	if _, err := clientset.CoreV1().Pods("default").Create(ctx, master, metav1.CreateOptions{}); err != nil {
		t.Fatalf("create master pod: %v", err)
	}

	if err := client.WaitMaster(ctx, "mnist"); err != nil {
		t.Fatalf("WaitMaster error: %v", err)
	}
}

func TestWaitMasterFailed(t *testing.T) {
	clientset := fake.NewClientset()
	client := NewWithClientset(clientset, "default")
	ctx := context.Background()

	master := workerPod(MasterPodName("mnist"), "", corev1.PodFailed)
	if _, err := clientset.CoreV1().Pods("default").Create(ctx, master, metav1.CreateOptions{}); err != nil {
		t.Fatalf("create master pod: %v", err)
	}

	err := client.WaitMaster(ctx, "mnist")
	if err == nil {
		t.Fatal("WaitMaster succeeded for a failed master")
	}
}

func TestWaitMasterMissing(t *testing.T) {
	clientset := fake.NewClientset()
	client := NewWithClientset(clientset, "default")

	if err := client.WaitMaster(context.Background(), "mnist"); err == nil {
		t.Fatal("WaitMaster succeeded for a missing master")
	}
}

func TestHostList(t *testing.T) {
	hosts := hostList(map[string]string{
		"worker-0": "10.0.0.1",
		"worker-1": "10.0.0.2",
	})
	sort.Strings(hosts)
	if len(hosts) != 2 || hosts[0] != "10.0.0.1" || hosts[1] != "10.0.0.2" {
		t.Fatalf("hosts = %v, want [10.0.0.1 10.0.0.2]", hosts)
	}
}
