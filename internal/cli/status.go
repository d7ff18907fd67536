package cli

import (
	"context"
	"fmt"

	"github.com/elasticdl/edl/internal/protocol"
)

// Represents the 'edl status' command.
type StatusCmd struct{}

// Executes the status command.
func (c *StatusCmd) Run(ctx context.Context) error {
	payload, err := request(protocol.CmdStatus, nil)
	if err != nil {
		return err
	}

	status, err := protocol.DecodePayload[protocol.StatusResult](payload)
	if err != nil {
		return err
	}

	fmt.Printf("version: %s\n", status.Version)
	fmt.Printf("pid:     %d\n", status.Pid)
	fmt.Printf("uptime:  %s\n", status.Uptime)
	fmt.Printf("builds:  %d\n", status.Builds)
	fmt.Printf("jobs:    %d\n", status.Jobs)
	return nil
}

// Represents the 'edl shutdown' command.
type ShutdownCmd struct{}

// Executes the shutdown command.
func (c *ShutdownCmd) Run(ctx context.Context) error {
	if _, err := request(protocol.CmdShutdown, nil); err != nil {
		return err
	}
	fmt.Println("daemon stopped")
	return nil
}
