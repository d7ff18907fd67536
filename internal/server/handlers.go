package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/elasticdl/edl/internal"
	"github.com/elasticdl/edl/internal/build"
	"github.com/elasticdl/edl/internal/k8s"
	"github.com/elasticdl/edl/internal/protocol"
	"github.com/elasticdl/edl/internal/registry"
)

// Handles a build command.
//
// Receives a training recipe from the CLI and executes it against the
// container runtime.
func (s *Server) handleBuild(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.BuildRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	result, err := build.Run(ctx, s.runtime, build.Options{
		Recipe:    req.Recipe,
		Job:       req.Job,
		Output:    req.Output,
		Root:      req.Root,
		Platforms: req.Platforms,
	})
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.mu.Lock()
	s.builds++
	s.mu.Unlock()

	s.respond(conn, protocol.CmdOK, &protocol.BuildResult{Output: result.Output})
}

// Handles a push command.
//
// Publishes a previously built image archive to a registry through the
// container runtime's content store.
func (s *Server) handlePush(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.PushRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	ref, err := registry.Push(ctx, s.runtime, registry.Options{
		Archive: req.Archive,
		Ref:     req.Ref,
		Keep:    req.Keep,
	})
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.respond(conn, protocol.CmdOK, &protocol.PushResult{Ref: ref})
}

// Handles a submit command.
//
// Creates the master pod for a training job. The master takes over from
// there and runs the workers itself.
func (s *Server) handleSubmit(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.SubmitRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	client, err := s.clusterClient(req.Namespace)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	pod, err := client.CreateMaster(ctx, k8s.MasterSpec{
		JobName:          req.JobName,
		Image:            req.Image,
		Args:             req.Args,
		ResourceRequests: req.ResourceRequests,
		ResourceLimits:   req.ResourceLimits,
		PriorityClass:    req.PriorityClass,
		ImagePullPolicy:  req.ImagePullPolicy,
		RestartPolicy:    req.RestartPolicy,
		VolumeName:       req.VolumeName,
		MountPath:        req.MountPath,
	})
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.mu.Lock()
	s.jobs++
	s.mu.Unlock()

	s.respond(conn, protocol.CmdOK, &protocol.SubmitResult{
		JobName: req.JobName,
		Master:  pod.Name,
	})
}

// Handles a status command.
func (s *Server) handleStatus(conn net.Conn) {
	s.mu.Lock()
	builds := s.builds
	jobs := s.jobs
	s.mu.Unlock()

	uptime := time.Since(s.startedAt).Truncate(time.Second)

	s.respond(conn, protocol.CmdOK, &protocol.StatusResult{
		Running: true,
		Version: internal.VersionString(),
		Pid:     os.Getpid(),
		Uptime:  uptime.String(),
		Builds:  builds,
		Jobs:    jobs,
	})
}

// Handles a shutdown command.
func (s *Server) handleShutdown(conn net.Conn) {
	s.respond(conn, protocol.CmdOK, nil)
	slog.Info("shutdown requested")

	go func() {
		s.Stop()
	}()
}
