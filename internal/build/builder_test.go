package build

import (
	"path/filepath"
	"testing"
)

func TestPlatformSlug(t *testing.T) {
	if got := platformSlug("linux/amd64"); got != "linux-amd64" {
		t.Fatalf("platformSlug = %q, want linux-amd64", got)
	}
	if got := platformSlug("linux/arm/v7"); got != "linux-arm-v7" {
		t.Fatalf("platformSlug = %q, want linux-arm-v7", got)
	}
}

func TestStageLabel(t *testing.T) {
	if got := stageLabel("training", 0); got != `"training"` {
		t.Fatalf("stageLabel = %q", got)
	}
	if got := stageLabel("", 2); got != "3" {
		t.Fatalf("stageLabel = %q, want 3", got)
	}
}

func TestContainerID(t *testing.T) {
	b := newBuilder(nil, Options{Job: "mnist-train"})

	if got := b.containerID("training", 0, "linux/amd64"); got != "mnist-train-linux-amd64-stage-training" {
		t.Fatalf("containerID = %q", got)
	}
	if got := b.containerID("", 1, "linux/arm64"); got != "mnist-train-linux-arm64-stage-2" {
		t.Fatalf("containerID = %q", got)
	}
}

func TestPlatformOutput(t *testing.T) {
	single := newBuilder(nil, Options{Output: "dist", Platforms: []string{"linux/amd64"}})
	if got := single.platformOutput("linux/amd64"); got != "dist" {
		t.Fatalf("single platform output = %q, want dist", got)
	}

	multi := newBuilder(nil, Options{Output: "dist", Platforms: []string{"linux/amd64", "linux/arm64"}})
	want := filepath.Join("dist", "linux-arm64")
	if got := multi.platformOutput("linux/arm64"); got != want {
		t.Fatalf("multi platform output = %q, want %q", got, want)
	}
}
