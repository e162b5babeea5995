package pointer

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const queryTimeout = 750 * time.Millisecond

// Command queries the pointer through an external tool.
type Command struct {
	tool  string
	args  []string
	parse func(string) (Point, error)
}

// Xdotool returns a Locator backed by `xdotool getmouselocation --shell`.
func Xdotool() *Command {
	return &Command{tool: "xdotool", args: []string{"getmouselocation", "--shell"}, parse: parseShell}
}

// Hyprctl returns a Locator backed by `hyprctl cursorpos`.
func Hyprctl() *Command {
	return &Command{tool: "hyprctl", args: []string{"cursorpos"}, parse: parsePair}
}

// Detect picks a locator for the running session.
func Detect() Locator {
	if os.Getenv("HYPRLAND_INSTANCE_SIGNATURE") != "" {
		return Hyprctl()
	}
	return Xdotool()
}

func (c *Command) Position(ctx context.Context) (Point, bool) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, c.tool, c.args...).Output()
	if err != nil {
		return Point{}, false
	}
	p, err := c.parse(string(out))
	if err != nil {
		return Point{}, false
	}
	return p, true
}

// parseShell reads the X=/Y= lines of xdotool's --shell output.
func parseShell(out string) (Point, error) {
	var p Point
	var gotX, gotY bool
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		key, val, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			continue
		}
		switch key {
		case "X":
			p.X, gotX = n, true
		case "Y":
			p.Y, gotY = n, true
		}
	}
	if !gotX || !gotY {
		return Point{}, fmt.Errorf("no coordinates in %q", out)
	}
	return p, nil
}

// parsePair reads "x, y".
func parsePair(out string) (Point, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(out), ",")
	if !ok {
		return Point{}, fmt.Errorf("no coordinates in %q", out)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Point{}, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Point{}, fmt.Errorf("y: %w", err)
	}
	return Point{X: x, Y: y}, nil
}
