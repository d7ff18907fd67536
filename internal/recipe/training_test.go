package recipe

import (
	"errors"
	"strings"
	"testing"
)

func TestTraining(t *testing.T) {
	r, err := Training(TrainingOptions{
		Source:    "/src/elasticdl",
		BuildFile: "/src/Makefile",
		ModelDef:  "/src/models/mnist",
	})
	if err != nil {
		t.Fatalf("Training error: %v", err)
	}

	if len(r.Stages) != 1 {
		t.Fatalf("len(stages) = %d, want 1", len(r.Stages))
	}

	stage := r.Stages[0]
	if stage.From != DefaultBaseImage {
		t.Fatalf("from = %q, want %q", stage.From, DefaultBaseImage)
	}
	if stage.Transient {
		t.Fatal("training stage must be exportable")
	}

	// Source copy, build file copy, package install, build invocation,
	// model copy, model requirements, module path env.
	if len(stage.Steps) != 7 {
		t.Fatalf("len(steps) = %d, want 7", len(stage.Steps))
	}

	if stage.Steps[0].Copy != "/src/elasticdl "+SourceRoot {
		t.Fatalf("source copy = %q", stage.Steps[0].Copy)
	}
	if stage.Steps[1].Copy != "/src/Makefile /elasticdl/Makefile" {
		t.Fatalf("build file copy = %q", stage.Steps[1].Copy)
	}

	install := stage.Steps[2].Run
	for _, pkg := range []string{"grpcio-tools", "kubernetes", "docker", "pytest", "recordio"} {
		if !strings.Contains(install, pkg) {
			t.Fatalf("install %q missing package %s", install, pkg)
		}
	}
	if strings.Contains(install, "--extra-index-url") {
		t.Fatalf("install %q has extra index without one configured", install)
	}

	if stage.Steps[3].Run != "make -f /elasticdl/Makefile" {
		t.Fatalf("build invocation = %q", stage.Steps[3].Run)
	}
	if stage.Steps[4].Copy != "/src/models/mnist /model/mnist" {
		t.Fatalf("model copy = %q", stage.Steps[4].Copy)
	}
	if !strings.Contains(stage.Steps[5].Run, "/model/mnist/requirements.txt") {
		t.Fatalf("model requirements step = %q", stage.Steps[5].Run)
	}

	env := stage.Steps[6].Env
	if env["PYTHONPATH"] != ModulePath {
		t.Fatalf("PYTHONPATH = %q, want %q", env["PYTHONPATH"], ModulePath)
	}
}

func TestTrainingPackageIndex(t *testing.T) {
	r, err := Training(TrainingOptions{
		Source:       "/src/elasticdl",
		BuildFile:    "/src/Makefile",
		ModelDef:     "/src/models/mnist",
		PackageIndex: "https://mirror.example.com/simple",
	})
	if err != nil {
		t.Fatalf("Training error: %v", err)
	}

	install := r.Stages[0].Steps[2].Run
	if !strings.Contains(install, "--extra-index-url https://mirror.example.com/simple") {
		t.Fatalf("install %q missing extra index", install)
	}
}

func TestTrainingPrebuiltBase(t *testing.T) {
	r, err := Training(TrainingOptions{
		BaseImage:    "registry.example.com/team/training:v4",
		PrebuiltBase: true,
		ModelDef:     "/src/models/mnist",
	})
	if err != nil {
		t.Fatalf("Training error: %v", err)
	}

	stage := r.Stages[0]
	if stage.From != "registry.example.com/team/training:v4" {
		t.Fatalf("from = %q", stage.From)
	}

	// Model copy, model requirements, module path env. No source copy,
	// install, or build invocation against a prebuilt base.
	if len(stage.Steps) != 3 {
		t.Fatalf("len(steps) = %d, want 3", len(stage.Steps))
	}
	if stage.Steps[0].Copy != "/src/models/mnist /model/mnist" {
		t.Fatalf("model copy = %q", stage.Steps[0].Copy)
	}
	if stage.Steps[2].Env["PYTHONPATH"] != ModulePath {
		t.Fatalf("PYTHONPATH = %q", stage.Steps[2].Env["PYTHONPATH"])
	}
}

func TestTrainingErrors(t *testing.T) {
	tests := []struct {
		name string
		opts TrainingOptions
	}{
		{
			name: "missing model definition",
			opts: TrainingOptions{Source: "/src/elasticdl", BuildFile: "/src/Makefile"},
		},
		{
			name: "missing source",
			opts: TrainingOptions{BuildFile: "/src/Makefile", ModelDef: "/src/models/mnist"},
		},
		{
			name: "missing build file",
			opts: TrainingOptions{Source: "/src/elasticdl", ModelDef: "/src/models/mnist"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Training(tt.opts)
			if err == nil {
				t.Fatal("Training succeeded, want error")
			}
			if !errors.Is(err, ErrRecipe) {
				t.Fatalf("error %v does not wrap ErrRecipe", err)
			}
		})
	}
}

func TestModelTarget(t *testing.T) {
	if got := ModelTarget("/src/models/mnist"); got != "/model/mnist" {
		t.Fatalf("ModelTarget = %q, want /model/mnist", got)
	}
	if got := ModelTarget("mnist"); got != "/model/mnist" {
		t.Fatalf("ModelTarget = %q, want /model/mnist", got)
	}
}
