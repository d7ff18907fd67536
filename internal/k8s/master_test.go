package k8s

import (
	"context"
	"errors"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestBuildMasterPod(t *testing.T) {
	pod, err := BuildMasterPod("training", MasterSpec{
		JobName:          "mnist",
		Image:            "registry.example.com/team/mnist:v1",
		Args:             []string{"-m", "elasticdl.python.master.main", "--job_name=mnist"},
		ResourceRequests: "cpu=0.1,memory=1024Mi",
		PriorityClass:    "high",
		ImagePullPolicy:  "Always",
		RestartPolicy:    "Never",
	})
	if err != nil {
		t.Fatalf("BuildMasterPod error: %v", err)
	}

	if pod.Name != "elasticdl-master-mnist" {
		t.Fatalf("pod.Name = %q, want %q", pod.Name, "elasticdl-master-mnist")
	}
	if pod.Namespace != "training" {
		t.Fatalf("pod.Namespace = %q, want %q", pod.Namespace, "training")
	}
	if got := pod.Labels[jobNameLabel]; got != "mnist" {
		t.Fatalf("job label = %q, want %q", got, "mnist")
	}
	if got := pod.Labels[roleLabel]; got != roleMaster {
		t.Fatalf("role label = %q, want %q", got, roleMaster)
	}
	if pod.Spec.RestartPolicy != corev1.RestartPolicyNever {
		t.Fatalf("restart policy = %q, want Never", pod.Spec.RestartPolicy)
	}
	if pod.Spec.PriorityClassName != "high" {
		t.Fatalf("priority class = %q, want %q", pod.Spec.PriorityClassName, "high")
	}

	if len(pod.Spec.Containers) != 1 {
		t.Fatalf("len(containers) = %d, want 1", len(pod.Spec.Containers))
	}
	container := pod.Spec.Containers[0]
	if container.Image != "registry.example.com/team/mnist:v1" {
		t.Fatalf("image = %q, want the training image", container.Image)
	}
	if len(container.Command) != 1 || container.Command[0] != "python" {
		t.Fatalf("command = %v, want [python]", container.Command)
	}
	if container.ImagePullPolicy != corev1.PullAlways {
		t.Fatalf("pull policy = %q, want Always", container.ImagePullPolicy)
	}
	if _, ok := container.Resources.Requests[corev1.ResourceCPU]; !ok {
		t.Fatal("cpu request not set")
	}
	if _, ok := container.Resources.Limits[corev1.ResourceMemory]; !ok {
		t.Fatal("memory limit not defaulted from requests")
	}
}

func TestBuildMasterPodVolume(t *testing.T) {
	pod, err := BuildMasterPod("default", MasterSpec{
		JobName:    "mnist",
		Image:      "mnist:v1",
		VolumeName: "training-data",
		MountPath:  "/data",
	})
	if err != nil {
		t.Fatalf("BuildMasterPod error: %v", err)
	}

	if len(pod.Spec.Volumes) != 1 {
		t.Fatalf("len(volumes) = %d, want 1", len(pod.Spec.Volumes))
	}
	volume := pod.Spec.Volumes[0]
	if volume.PersistentVolumeClaim == nil || volume.PersistentVolumeClaim.ClaimName != "training-data" {
		t.Fatalf("volume %v does not reference claim training-data", volume)
	}

	mounts := pod.Spec.Containers[0].VolumeMounts
	if len(mounts) != 1 {
		t.Fatalf("len(mounts) = %d, want 1", len(mounts))
	}
	if mounts[0].Name != "training-data" || mounts[0].MountPath != "/data" {
		t.Fatalf("mount = %+v, want training-data at /data", mounts[0])
	}
}

func TestBuildMasterPodErrors(t *testing.T) {
	tests := []struct {
		name string
		spec MasterSpec
	}{
		{
			name: "missing job name",
			spec: MasterSpec{Image: "mnist:v1"},
		},
		{
			name: "missing image",
			spec: MasterSpec{JobName: "mnist"},
		},
		{
			name: "volume without mount path",
			spec: MasterSpec{JobName: "mnist", Image: "mnist:v1", VolumeName: "data"},
		},
		{
			name: "mount path without volume",
			spec: MasterSpec{JobName: "mnist", Image: "mnist:v1", MountPath: "/data"},
		},
		{
			name: "bad resources",
			spec: MasterSpec{JobName: "mnist", Image: "mnist:v1", ResourceRequests: "tpu=1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildMasterPod("default", tt.spec)
			if err == nil {
				t.Fatal("BuildMasterPod succeeded, want error")
			}
			if !errors.Is(err, ErrSubmit) {
				t.Fatalf("error %v does not wrap ErrSubmit", err)
			}
		})
	}
}

func TestCreateMaster(t *testing.T) {
	clientset := fake.NewClientset()
	client := NewWithClientset(clientset, "training")

	created, err := client.CreateMaster(context.Background(), MasterSpec{
		JobName: "mnist",
		Image:   "mnist:v1",
	})
	if err != nil {
		t.Fatalf("CreateMaster error: %v", err)
	}

	got, err := clientset.CoreV1().Pods("training").Get(context.Background(), created.Name, metav1.GetOptions{})
	if err != nil {
		t.Fatalf("created pod not found: %v", err)
	}
	if got.Labels[appLabel] != appName {
		t.Fatalf("app label = %q, want %q", got.Labels[appLabel], appName)
	}
}

func TestCreateMasterDuplicate(t *testing.T) {
	clientset := fake.NewClientset()
	client := NewWithClientset(clientset, "default")

	spec := MasterSpec{JobName: "mnist", Image: "mnist:v1"}
	if _, err := client.CreateMaster(context.Background(), spec); err != nil {
		t.Fatalf("first CreateMaster error: %v", err)
	}
	if _, err := client.CreateMaster(context.Background(), spec); err == nil {
		t.Fatal("second CreateMaster succeeded, want error")
	}
}

func TestDeleteMaster(t *testing.T) {
	clientset := fake.NewClientset()
	client := NewWithClientset(clientset, "default")

	if _, err := client.CreateMaster(context.Background(), MasterSpec{JobName: "mnist", Image: "mnist:v1"}); err != nil {
		t.Fatalf("CreateMaster error: %v", err)
	}
	if err := client.DeleteMaster(context.Background(), "mnist"); err != nil {
		t.Fatalf("DeleteMaster error: %v", err)
	}

	_, err := clientset.CoreV1().Pods("default").Get(context.Background(), MasterPodName("mnist"), metav1.GetOptions{})
	if err == nil {
		t.Fatal("master pod still present after delete")
	}
}
