// Package capture takes screenshots with the desktop's screenshot tool and
// returns the path of a temporary PNG.
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds one capture, including the time the user spends
// selecting an area.
const DefaultTimeout = 60 * time.Second

var (
	// ErrNoTool is returned when no supported screenshot tool is installed.
	ErrNoTool = errors.New("no supported screenshot tool found")
	// ErrCancelled is returned when the user aborts an area selection.
	ErrCancelled = errors.New("capture cancelled")
)

// Options control a capture.
type Options struct {
	// Area asks the user to select a region instead of the full screen.
	Area bool
	// Dir holds the output file; empty means the system temp dir.
	Dir     string
	Timeout time.Duration
}

// plan is one way to take the screenshot.
type plan struct {
	tool string
	// args builds the command line for the output path and, for grim, the
	// geometry chosen with slurp.
	args  func(path, geometry string) []string
	slurp bool
}

var lookPath = exec.LookPath

func available(name string) bool {
	_, err := lookPath(name)
	return err == nil
}

// choose picks a tool for the session type, preferring the one the session
// ships with.
func choose(session string, area bool) (plan, error) {
	gnome := plan{tool: "gnome-screenshot", args: func(path, _ string) []string {
		if area {
			return []string{"-a", "-f", path}
		}
		return []string{"-f", path}
	}}
	grim := plan{tool: "grim", slurp: area, args: func(path, geometry string) []string {
		if geometry != "" {
			return []string{"-g", geometry, path}
		}
		return []string{path}
	}}
	scrot := plan{tool: "scrot", args: func(path, _ string) []string {
		if area {
			return []string{"-s", "-z", "-o", path}
		}
		return []string{"-z", "-o", path}
	}}

	var order []plan
	switch session {
	case "wayland":
		order = []plan{gnome, grim}
	default:
		order = []plan{scrot, gnome}
	}
	for _, p := range order {
		if !available(p.tool) {
			continue
		}
		if p.slurp && !available("slurp") {
			continue
		}
		return p, nil
	}
	return plan{}, ErrNoTool
}

// SessionType returns $XDG_SESSION_TYPE, defaulting to x11.
func SessionType() string {
	s := strings.ToLower(os.Getenv("XDG_SESSION_TYPE"))
	if s == "" {
		return "x11"
	}
	return s
}

// Screen takes a screenshot and returns the path of the PNG. The caller
// owns the file. Full-screen captures fall back to reading the display
// directly when no tool is installed.
func Screen(ctx context.Context, opts Options) (string, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	id := uuid.NewString()
	log := slog.With("capture_id", id)
	session := SessionType()
	log.Info("capturing screen", "area", opts.Area, "session", session)

	path, err := reservePath(opts.Dir, id)
	if err != nil {
		return "", err
	}

	p, err := choose(session, opts.Area)
	if errors.Is(err, ErrNoTool) && !opts.Area {
		log.Warn("no screenshot tool found, reading the display directly")
		if err := captureDisplay(path); err != nil {
			return "", fmt.Errorf("capture %s: %w", id, err)
		}
		return path, nil
	}
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	env := sanitizedEnv(os.Environ())
	geometry := ""
	if p.slurp {
		out, err := run(ctx, log, "slurp", nil, env)
		if err != nil {
			return "", fmt.Errorf("%w: area selection: %v", ErrCancelled, err)
		}
		geometry = strings.TrimSpace(out)
	}

	if _, err := run(ctx, log, p.tool, p.args(path, geometry), env); err != nil {
		_ = os.Remove(path)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%s timed out after %s", p.tool, opts.Timeout)
		}
		return "", err
	}

	fi, err := os.Stat(path)
	if err != nil || fi.Size() == 0 {
		_ = os.Remove(path)
		if opts.Area {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("%s exited cleanly but wrote no image", p.tool)
	}
	log.Info("screenshot saved", "tool", p.tool, "path", path, "bytes", fi.Size())
	return path, nil
}

// reservePath returns a fresh output path. The file itself is removed so
// tools that refuse to overwrite still work.
func reservePath(dir, id string) (string, error) {
	f, err := os.CreateTemp(dir, "textassist-"+id[:8]+"-*.png")
	if err != nil {
		return "", fmt.Errorf("temp file: %w", err)
	}
	path := f.Name()
	_ = f.Close()
	_ = os.Remove(path)
	return path, nil
}

func run(ctx context.Context, log *slog.Logger, tool string, args, env []string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Env = env
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	log.Debug("running screenshot tool", "tool", tool, "args", args)
	err := cmd.Run()
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		log.Debug("screenshot tool stderr", "tool", tool, "stderr", msg)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", tool, err)
	}
	return stdout.String(), nil
}

// essentialVars are passed through to the screenshot tool.
var essentialVars = []string{
	"HOME", "DISPLAY", "XAUTHORITY", "XDG_RUNTIME_DIR",
	"WAYLAND_DISPLAY", "DBUS_SESSION_BUS_ADDRESS", "XDG_SESSION_TYPE",
}

// sanitizedEnv builds a minimal environment from environ: snap paths are
// dropped from PATH and only the display variables are kept. Snap-packaged
// terminals otherwise leak libraries that break the tools.
func sanitizedEnv(environ []string) []string {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}

	var dirs []string
	for _, d := range filepath.SplitList(vars["PATH"]) {
		if d != "" && !strings.HasPrefix(d, "/snap/") {
			dirs = append(dirs, d)
		}
	}
	if len(dirs) == 0 {
		dirs = []string{"/usr/local/bin", "/usr/bin", "/bin"}
	}
	hasUsrBin := false
	for _, d := range dirs {
		if d == "/usr/bin" {
			hasUsrBin = true
		}
	}
	if !hasUsrBin {
		dirs = append([]string{"/usr/bin"}, dirs...)
	}

	env := []string{"PATH=" + strings.Join(dirs, string(filepath.ListSeparator))}
	for _, k := range essentialVars {
		if v, ok := vars[k]; ok {
			env = append(env, k+"="+v)
		}
	}
	return env
}
