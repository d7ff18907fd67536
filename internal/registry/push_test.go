package registry

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want string
	}{
		{
			name: "short name",
			ref:  "team/mnist",
			want: "docker.io/team/mnist:latest",
		},
		{
			name: "library name",
			ref:  "mnist",
			want: "docker.io/library/mnist:latest",
		},
		{
			name: "tagged",
			ref:  "team/mnist:v1",
			want: "docker.io/team/mnist:v1",
		},
		{
			name: "fully qualified",
			ref:  "registry.example.com/team/mnist:v1",
			want: "registry.example.com/team/mnist:v1",
		},
		{
			name: "registry with port",
			ref:  "localhost:5000/mnist",
			want: "localhost:5000/mnist:latest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.ref)
			if err != nil {
				t.Fatalf("Normalize(%q) error: %v", tt.ref, err)
			}
			if got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestNormalizeErrors(t *testing.T) {
	tests := []struct {
		name string
		ref  string
	}{
		{name: "empty", ref: ""},
		{name: "uppercase name", ref: "Team/Mnist"},
		{
			name: "digested",
			ref:  "team/mnist@sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.ref)
			if err == nil {
				t.Fatalf("Normalize(%q) succeeded, want error", tt.ref)
			}
			if !errors.Is(err, ErrPush) {
				t.Fatalf("error %v does not wrap ErrPush", err)
			}
		})
	}
}
