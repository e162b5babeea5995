package clip

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// tools maps a read tool to the arguments that print the clipboard text.
var tools = map[string][]string{
	"wl-paste": {"--no-newline", "--type", "text"},
	"xclip":    {"-o", "-selection", "clipboard"},
	"xsel":     {"--clipboard", "--output"},
	"pbpaste":  nil,
}

// Command reads the clipboard by running an external tool.
// A non-zero exit means the clipboard holds no text.
type Command struct {
	tool    string
	args    []string
	timeout time.Duration
}

// NewCommand returns a Command for one of the known tools.
func NewCommand(tool string, timeout time.Duration) (*Command, error) {
	args, ok := tools[tool]
	if !ok {
		return nil, fmt.Errorf("unknown clipboard tool %q", tool)
	}
	return &Command{tool: tool, args: args, timeout: timeout}, nil
}

func (c *Command) Name() string { return c.tool }

// SetTimeout changes the bound on future reads.
func (c *Command) SetTimeout(d time.Duration) { c.timeout = d }

func (c *Command) Read(parent context.Context) Result {
	path, err := exec.LookPath(c.tool)
	if err != nil {
		return Result{Outcome: ToolMissing, Err: fmt.Errorf("%s: %w", c.tool, ErrToolMissing)}
	}

	ctx, cancel := context.WithTimeout(parent, c.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, c.args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = 100 * time.Millisecond

	err = cmd.Run()
	// A tool killed because the caller gave up says nothing about the
	// clipboard's contents.
	if parent.Err() != nil {
		return Result{Outcome: Failed, Err: fmt.Errorf("%s: %w", c.tool, parent.Err())}
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Result{Outcome: Timeout, Err: fmt.Errorf("%s timed out after %s", c.tool, c.timeout)}
	}
	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			return Result{Outcome: Empty}
		case errors.Is(err, exec.ErrNotFound):
			return Result{Outcome: ToolMissing, Err: fmt.Errorf("%s: %w", c.tool, ErrToolMissing)}
		default:
			return Result{Outcome: Failed, Err: fmt.Errorf("%s: %w", c.tool, err)}
		}
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return Result{Outcome: Empty}
	}
	return Result{Outcome: OK, Text: text}
}
