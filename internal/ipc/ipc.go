// Package ipc locates and opens the local unix socket that CLI
// sub-commands use to reach a running textassist daemon.
package ipc

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

const socketName = "textassist.sock"

// SocketPath returns the control socket path.
//
//   - $TEXTASSIST_SOCKET when set
//   - $XDG_RUNTIME_DIR/textassist.sock
//   - $TMPDIR/textassist.sock otherwise
func SocketPath() string {
	if s := os.Getenv("TEXTASSIST_SOCKET"); s != "" {
		return s
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, socketName)
	}
	return filepath.Join(os.TempDir(), socketName)
}

// Target is the gRPC dial target for path.
func Target(path string) string { return "unix://" + path }

// IsRunning reports whether a daemon appears to be listening on path. It
// does a dial-and-close; no data is exchanged.
func IsRunning(path string) bool {
	c, err := net.DialTimeout("unix", path, time.Second)
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Listen opens the socket at path, removing a stale socket left by a
// crashed run. It refuses to take over a socket another daemon is serving.
func Listen(path string) (net.Listener, error) {
	if IsRunning(path) {
		return nil, fmt.Errorf("another textassist daemon is listening on %s", path)
	}
	_ = os.Remove(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("socket dir: %w", err)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		_ = ln.Close()
		return nil, fmt.Errorf("socket permissions: %w", err)
	}
	return ln, nil
}
