// Package k8s submits and observes elastic training jobs on Kubernetes.
//
// The client creates a single master pod per job; the master then creates
// and supervises its own worker pods on the cluster. Resource strings in
// the form "cpu=0.1,memory=1024Mi,disk=1024Mi,gpu=1" are translated to
// Kubernetes resource lists, and a watch over the worker pods feeds host
// set changes to interested callers.
package k8s
