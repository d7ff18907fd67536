package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/elasticdl/edl/internal/recipe"
)

// Command names exchanged between the CLI and the daemon.
type Command string

const (
	CmdBuild    Command = "build"
	CmdPush     Command = "push"
	CmdSubmit   Command = "submit"
	CmdStatus   Command = "status"
	CmdShutdown Command = "shutdown"

	// Response commands.
	CmdOK    Command = "ok"
	CmdError Command = "error"
)

// Wraps every message on the wire. The payload is command-specific and
// decoded in a second step once the command is known.
type Envelope struct {
	Command Command         `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Asks the daemon to build a training image from a recipe.
type BuildRequest struct {
	Recipe    *recipe.Recipe `json:"recipe"`
	Job       string         `json:"job"`
	Output    string         `json:"output,omitempty"`
	Root      string         `json:"root,omitempty"`
	Platforms []string       `json:"platforms,omitempty"`
}

// Reports a completed build.
type BuildResult struct {
	Output string `json:"output"`
}

// Asks the daemon to push a built image archive to a registry.
type PushRequest struct {
	Archive string `json:"archive"`
	Ref     string `json:"ref"`
	Keep    bool   `json:"keep,omitempty"`
}

// Reports a completed push.
type PushResult struct {
	Ref string `json:"ref"`
}

// Asks the daemon to submit a training job to the cluster.
type SubmitRequest struct {
	JobName          string   `json:"job_name"`
	Image            string   `json:"image"`
	Args             []string `json:"args,omitempty"`
	Namespace        string   `json:"namespace,omitempty"`
	ResourceRequests string   `json:"resource_requests,omitempty"`
	ResourceLimits   string   `json:"resource_limits,omitempty"`
	PriorityClass    string   `json:"priority_class,omitempty"`
	ImagePullPolicy  string   `json:"image_pull_policy,omitempty"`
	RestartPolicy    string   `json:"restart_policy,omitempty"`
	VolumeName       string   `json:"volume_name,omitempty"`
	MountPath        string   `json:"mount_path,omitempty"`
}

// Reports a submitted job.
type SubmitResult struct {
	JobName string `json:"job_name"`
	Master  string `json:"master"`
}

// Reports daemon state.
type StatusResult struct {
	Running bool   `json:"running"`
	Version string `json:"version"`
	Pid     int    `json:"pid"`
	Uptime  string `json:"uptime"`
	Builds  int    `json:"builds"`
	Jobs    int    `json:"jobs"`
}

// Carries an error message back to the client.
type ErrorResult struct {
	Message string `json:"message"`
}

// Encodes a command and payload into a JSON envelope.
func Encode(cmd Command, payload any) ([]byte, error) {
	env := Envelope{Command: cmd}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", cmd, err)
		}
		env.Payload = data
	}

	return json.Marshal(env)
}

// Decodes a JSON envelope, returning the command and the raw payload for
// command-specific decoding.
func Decode(data []byte) (Envelope, json.RawMessage, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Command == "" {
		return Envelope{}, nil, fmt.Errorf("decode envelope: missing command")
	}
	return env, env.Payload, nil
}

// Decodes a raw payload into a concrete message type.
func DecodePayload[T any](payload json.RawMessage) (*T, error) {
	var msg T
	if len(payload) == 0 {
		return nil, fmt.Errorf("decode payload: empty payload")
	}
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &msg, nil
}
