package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	clientName = "edl"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the directory for runtime files (sockets, PIDs).
//
//	Linux:   $XDG_RUNTIME_DIR/edl or /run/user/<uid>/edl
//	macOS:   ~/Library/Caches/edl/run
func Runtime() string {
	if xdg.RuntimeDir != "" {
		return filepath.Join(xdg.RuntimeDir, clientName)
	}
	return filepath.Join(xdg.CacheHome, clientName, "run")
}

// Default path to the Unix domain socket for CLI-to-daemon communication.
//
//	Linux:   $XDG_RUNTIME_DIR/edl/edl.sock
//	macOS:   ~/Library/Caches/edl/run/edl.sock
func Socket() string {
	return filepath.Join(Runtime(), clientName+".sock")
}

// Default path to the PID file.
//
//	Linux:   $XDG_RUNTIME_DIR/edl/edl.pid
//	macOS:   ~/Library/Caches/edl/run/edl.pid
func PIDFile() string {
	return filepath.Join(Runtime(), clientName+".pid")
}

// Default directory for build outputs (exported OCI archives).
//
//	Linux:   ~/.cache/edl/builds
//	macOS:   ~/Library/Caches/edl/builds
func Builds() string {
	return filepath.Join(xdg.CacheHome, clientName, "builds")
}
