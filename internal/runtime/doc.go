// Package runtime manages containers backed by containerd.
//
// A [Runtime] connects to a containerd daemon and provides image import,
// registry pull and push, and container creation. Base images come either
// from local OCI archives (imported and tagged with a deterministic
// content hash) or from a registry, and are unpacked for the target
// platform before a container is created with an overlayfs snapshot.
//
// Each [Container] wraps a running containerd task. Commands can be
// executed inside the container, files can be copied in and out as tar
// streams, and the final filesystem state can be committed and exported
// as a new OCI archive. When the container is no longer needed it should
// be destroyed to release its snapshot and task resources.
//
// Example usage:
//
//	rt, err := runtime.New("/run/containerd/containerd.sock", "edl")
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	ctr, err := rt.StartFromRef(ctx, "docker.io/library/python:3", "build-1", "linux/amd64")
//	if err != nil {
//	    return err
//	}
//	defer ctr.Destroy(ctx)
//
//	result, err := ctr.Exec(ctx, "/bin/sh", "echo hello", nil, "")
//	if err != nil {
//	    return err
//	}
//
//	if err := ctr.Export(ctx, "output", []string{"PYTHONPATH=/elasticdl"}); err != nil {
//	    return err
//	}
package runtime
