package k8s

import "errors"

var (
	// Returned when a cluster connection cannot be established.
	ErrCluster = errors.New("cluster unavailable")

	// Returned when a resource string cannot be parsed.
	ErrResource = errors.New("invalid resource")

	// Returned when a job submission fails.
	ErrSubmit = errors.New("submit failed")
)
