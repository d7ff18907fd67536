package k8s

import (
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
)

// Resource names accepted in resource strings, mapped to their Kubernetes
// counterparts. "disk" and "gpu" are shorthands for the ephemeral-storage
// and vendor GPU resources.
var resourceNames = map[string]corev1.ResourceName{
	"cpu":    corev1.ResourceCPU,
	"memory": corev1.ResourceMemory,
	"disk":   corev1.ResourceEphemeralStorage,
	"gpu":    "nvidia.com/gpu",
}

// Parses a resource string into a Kubernetes resource list.
//
// The string is a comma-separated list of name=quantity pairs, e.g.
// "cpu=0.1,memory=1024Mi,disk=1024Mi,gpu=1". Quantities use the standard
// Kubernetes format. An empty string yields an empty list.
func ParseResources(s string) (corev1.ResourceList, error) {
	list := corev1.ResourceList{}

	s = strings.TrimSpace(s)
	if s == "" {
		return list, nil
	}

	for _, pair := range strings.Split(s, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("%w: malformed resource %q", ErrResource, pair)
		}

		resName, ok := resourceNames[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown resource %q", ErrResource, name)
		}

		qty, err := resource.ParseQuantity(value)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid quantity %q for %s: %w", ErrResource, value, name, err)
		}

		list[resName] = qty
	}

	return list, nil
}

// Builds the container resource requirements from request and limit strings.
//
// An empty limits string falls back to the requests, so a pod never runs
// unbounded when only the request side was specified.
func ParseRequirements(requests, limits string) (corev1.ResourceRequirements, error) {
	req, err := ParseResources(requests)
	if err != nil {
		return corev1.ResourceRequirements{}, err
	}

	if strings.TrimSpace(limits) == "" {
		limits = requests
	}

	lim, err := ParseResources(limits)
	if err != nil {
		return corev1.ResourceRequirements{}, err
	}

	return corev1.ResourceRequirements{
		Requests: req,
		Limits:   lim,
	}, nil
}
