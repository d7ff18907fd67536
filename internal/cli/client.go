package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/elasticdl/edl/internal/paths"
	"github.com/elasticdl/edl/internal/protocol"
)

// How long to wait for the daemon socket to accept a connection.
const dialTimeout = 5 * time.Second

// Performs one request-response exchange with the daemon.
//
// Connects to the daemon socket, writes a newline-delimited JSON envelope,
// and reads the single response. An error response from the daemon is
// surfaced as a Go error.
func request(cmd protocol.Command, payload any) (json.RawMessage, error) {
	socket := RootCmd.Socket
	if socket == "" {
		socket = paths.Socket()
	}

	conn, err := net.DialTimeout("unix", socket, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("daemon not reachable at %s: %w", socket, err)
	}
	defer conn.Close()

	data, err := protocol.Encode(cmd, payload)
	if err != nil {
		return nil, err
	}
	data = append(data, byte(10))

	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("write to daemon: %w", err)
	}

	line, err := bufio.NewReader(conn).ReadBytes(byte(10))
	if err != nil {
		return nil, fmt.Errorf("read from daemon: %w", err)
	}

	env, respPayload, err := protocol.Decode(line)
	if err != nil {
		return nil, err
	}

	if env.Command == protocol.CmdError {
		result, err := protocol.DecodePayload[protocol.ErrorResult](respPayload)
		if err != nil {
			return nil, errors.New("daemon reported an error")
		}
		return nil, errors.New(result.Message)
	}

	return respPayload, nil
}
