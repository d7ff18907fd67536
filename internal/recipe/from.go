package recipe

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"
)

// Prefix marking a stage base as a local OCI archive instead of a registry
// reference.
const archivePrefix = "oci-archive:"

// Identifies where a stage's base image comes from.
type SourceKind string

const (
	SourceArchive  SourceKind = "archive"  // Local OCI archive path.
	SourceRegistry SourceKind = "registry" // Remote registry reference.
)

// A resolved stage base image source.
type Source struct {
	Kind  SourceKind // How the base image is obtained.
	Value string     // Archive path or normalized registry reference.
}

// Resolves the stage's from field into a base image source.
//
// Sources prefixed with "oci-archive:" or ending in ".tar" are local OCI
// archives. Anything else is parsed as a registry reference and normalized
// to its fully qualified form (e.g. "python:3" becomes
// "docker.io/library/python:3").
func (s Stage) ParseFrom() (Source, error) {
	from := strings.TrimSpace(s.From)
	if from == "" {
		return Source{}, fmt.Errorf("%w: empty base image", ErrRecipe)
	}

	if rest, ok := strings.CutPrefix(from, archivePrefix); ok {
		if rest == "" {
			return Source{}, fmt.Errorf("%w: empty archive path", ErrRecipe)
		}
		return Source{Kind: SourceArchive, Value: rest}, nil
	}

	if strings.HasSuffix(from, ".tar") {
		return Source{Kind: SourceArchive, Value: from}, nil
	}

	named, err := reference.ParseDockerRef(from)
	if err != nil {
		return Source{}, fmt.Errorf("%w: invalid image reference %q: %w", ErrRecipe, from, err)
	}

	return Source{Kind: SourceRegistry, Value: named.String()}, nil
}
