package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.klb.dev/textassist/internal/control"
	"go.klb.dev/textassist/internal/ipc"
)

// requestTimeout bounds control calls that do not wait on the user.
const requestTimeout = 5 * time.Second

// dialDaemon connects to the daemon's control socket.
func dialDaemon(socket string) (*control.Client, error) {
	if !ipc.IsRunning(socket) {
		return nil, fmt.Errorf("textassist daemon is not running (no socket at %s)", socket)
	}
	return control.Dial(socket)
}

// readInput joins args into the text to act on. A single "-" or an empty
// argument list with piped stdin reads standard input.
func readInput(args []string, stdin io.Reader, stdinIsTTY bool) (string, error) {
	if len(args) == 1 && args[0] == "-" || len(args) == 0 && !stdinIsTTY {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	return strings.TrimSpace(strings.Join(args, " ")), nil
}

func withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}
