// Package registry publishes exported OCI archives to image registries.
//
// A push imports the archive into containerd's content store under the
// target reference, uploads it through the runtime's registry resolver
// with exponential backoff retries, and cleans the imported image out of
// the store when done. References are normalized to their fully
// qualified, tagged form before use.
package registry
