package runtime

import (
	"slices"
	"testing"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

func TestExportMutation(t *testing.T) {
	layer := ocispec.Descriptor{Digest: digest.FromString("new-layer")}
	diffID := digest.FromString("new-diff")

	manifest := ocispec.Manifest{
		Layers: []ocispec.Descriptor{{Digest: digest.FromString("base-layer")}},
	}
	config := ocispec.Image{}
	config.RootFS.DiffIDs = []digest.Digest{digest.FromString("base-diff")}
	config.Config.Env = []string{"PATH=/usr/bin", "LANG=C"}

	mutate := exportMutation(layer, diffID, []string{"PYTHONPATH=/elasticdl:/model", "LANG=C.UTF-8"})
	mutate(&manifest, &config)

	if len(manifest.Layers) != 2 || manifest.Layers[1].Digest != layer.Digest {
		t.Fatalf("manifest.Layers = %v, want base layer plus %s", manifest.Layers, layer.Digest)
	}
	if len(config.RootFS.DiffIDs) != 2 || config.RootFS.DiffIDs[1] != diffID {
		t.Fatalf("config.RootFS.DiffIDs = %v, want base diff plus %s", config.RootFS.DiffIDs, diffID)
	}

	env := slices.Clone(config.Config.Env)
	slices.Sort(env)
	want := []string{"LANG=C.UTF-8", "PATH=/usr/bin", "PYTHONPATH=/elasticdl:/model"}
	if !slices.Equal(env, want) {
		t.Fatalf("config env = %v, want %v", env, want)
	}
}

func TestExportMutationNoEnv(t *testing.T) {
	manifest := ocispec.Manifest{}
	config := ocispec.Image{}
	config.Config.Env = []string{"PATH=/usr/bin"}

	mutate := exportMutation(ocispec.Descriptor{}, digest.FromString("d"), nil)
	mutate(&manifest, &config)

	if !slices.Equal(config.Config.Env, []string{"PATH=/usr/bin"}) {
		t.Fatalf("config env = %v, want unchanged", config.Config.Env)
	}
}

func TestManifestGCLabels(t *testing.T) {
	m := ocispec.Manifest{
		Config: ocispec.Descriptor{
			Digest: digest.FromString("config"),
		},
		Layers: []ocispec.Descriptor{
			{Digest: digest.FromString("layer0")},
			{Digest: digest.FromString("layer1")},
		},
	}

	labels := manifestGCLabels(m)

	configLabel := labels["containerd.io/gc.ref.content.config"]
	if configLabel != m.Config.Digest.String() {
		t.Fatalf("config label = %q, want %q", configLabel, m.Config.Digest.String())
	}

	for i, layer := range m.Layers {
		key := "containerd.io/gc.ref.content.l." + string(rune('0'+i))
		got := labels[key]
		if got != layer.Digest.String() {
			t.Fatalf("labels[%q] = %q, want %q", key, got, layer.Digest.String())
		}
	}

	if len(labels) != 3 {
		t.Fatalf("len(labels) = %d, want 3", len(labels))
	}
}

func TestIndexGCLabels(t *testing.T) {
	idx := ocispec.Index{
		Manifests: []ocispec.Descriptor{
			{Digest: digest.FromString("m0")},
			{Digest: digest.FromString("m1")},
		},
	}

	labels := indexGCLabels(idx)
	if len(labels) != 2 {
		t.Fatalf("len(labels) = %d, want 2", len(labels))
	}
	if labels["containerd.io/gc.ref.content.m.0"] != idx.Manifests[0].Digest.String() {
		t.Fatal("manifest 0 label mismatch")
	}
	if labels["containerd.io/gc.ref.content.m.1"] != idx.Manifests[1].Digest.String() {
		t.Fatal("manifest 1 label mismatch")
	}
}
