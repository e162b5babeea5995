// Package clip reads and writes the system clipboard for the monitor.
//
//	command.go       external read tools (wl-paste, xclip, xsel, pbpaste) with a timeout
//	native.go        golang.design/x/clipboard on linux, darwin and windows
//	native_other.go  headless stub elsewhere
//	writer.go        clipboard writes with an atotto/clipboard fallback
package clip

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// DefaultTimeout bounds a single clipboard read.
const DefaultTimeout = 750 * time.Millisecond

// ErrToolMissing is returned when the configured read tool is not installed.
var ErrToolMissing = errors.New("clipboard tool not found")

// Outcome tags the result of a clipboard read.
type Outcome int

const (
	OK Outcome = iota
	Empty
	ToolMissing
	Timeout
	Failed
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case Empty:
		return "empty"
	case ToolMissing:
		return "tool_missing"
	case Timeout:
		return "timeout"
	case Failed:
		return "error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Transient reports whether the outcome is a recoverable read failure.
func (o Outcome) Transient() bool { return o == Timeout || o == Failed }

// Result is a tagged clipboard read. Text is set only for OK.
type Result struct {
	Outcome Outcome
	Text    string
	Err     error
}

// Reader is implemented by every clipboard read backend. Read must not
// panic or block past its timeout; failures are reported in the Result.
type Reader interface {
	Name() string
	Read(ctx context.Context) Result
}

// NewReader returns the reader named by backend. "auto" picks a command
// tool for the current session; "native" uses the in-process backend.
func NewReader(backend string, timeout time.Duration) (Reader, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	switch backend {
	case "", "auto":
		return NewCommand(DetectTool(), timeout)
	case "native":
		return NewNative(timeout), nil
	default:
		return NewCommand(backend, timeout)
	}
}

// DetectTool picks the read tool for the running desktop session.
func DetectTool() string {
	if runtime.GOOS == "darwin" {
		return "pbpaste"
	}
	session := strings.ToLower(os.Getenv("XDG_SESSION_TYPE"))
	if os.Getenv("WAYLAND_DISPLAY") != "" || session == "wayland" {
		return "wl-paste"
	}
	if session == "x11" || os.Getenv("DISPLAY") != "" {
		if _, err := exec.LookPath("xclip"); err == nil {
			return "xclip"
		}
		return "xsel"
	}
	return "wl-paste"
}
