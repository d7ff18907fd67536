// Provides platform-appropriate paths for the client and daemon.
//
// All paths follow XDG conventions on Linux and platform-native conventions
// on macOS and Windows. The client name "edl" is used as the subdirectory
// under each base path.
package paths
