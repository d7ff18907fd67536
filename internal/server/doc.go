// Package server implements the edl daemon.
//
// The daemon listens on a Unix domain socket for JSON-encoded commands
// from the edl CLI. Each connection carries a single request-response
// exchange: the client sends a newline-delimited JSON envelope, the
// server dispatches the command, and writes the result back before
// closing the connection.
//
// Supported commands cover building training images, pushing them to a
// registry, submitting jobs to a Kubernetes cluster, querying daemon
// status, and initiating shutdown. Builds are delegated to the build
// package, which uses the runtime package for container operations
// against containerd; submissions go through the k8s package.
//
// Example usage:
//
//	srv, err := server.New(server.Config{
//	    ContainerdAddress:   "/run/containerd/containerd.sock",
//	    ContainerdNamespace: "edl",
//	})
//	if err != nil {
//	    return err
//	}
//
//	if err := srv.Start(); err != nil {
//	    return err
//	}
//	defer srv.Stop()
//
//	srv.Wait()
package server
