// Parses flags and dispatches commands for the edl CLI.
//
// The CLI carries the following global flags:
//
//	-q, --quiet     Suppress informational output.
//	-v, --verbose   Enable verbose output.
//	-d, --debug     Enable debug output.
//	-s, --socket    Unix socket path of the daemon.
//
// Flags override build-time defaults set via linker flags. After parsing, the
// global logger is reconfigured to reflect the final level and verbosity before
// the selected command runs.
//
// Image builds and pushes talk to containerd directly; job submission talks
// to the Kubernetes API; the status and shutdown commands talk to a running
// edl daemon over its Unix socket.
package cli
