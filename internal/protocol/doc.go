// Package protocol defines the wire format between the edl CLI and the
// edl daemon.
//
// Messages are JSON envelopes carrying a command name and a
// command-specific payload. Envelopes travel newline-delimited over the
// daemon's Unix socket, one request-response exchange per connection.
package protocol
