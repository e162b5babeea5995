package monitor

import (
	"context"
	"log/slog"
	"time"

	"go.klb.dev/textassist/internal/action"
	"go.klb.dev/textassist/internal/logging"
)

// Polling states reported in Status.
const (
	StatePolling = "polling"
	StatePaused  = "paused"
	StateStopped = "stopped"
)

// Status is a point-in-time view of the controller.
type Status struct {
	State        string        `json:"state"`
	Reader       string        `json:"reader"`
	Snapshot     string        `json:"snapshot,omitempty"`
	SnapshotAt   time.Time     `json:"snapshot_at,omitzero"`
	PanelVisible bool          `json:"panel_visible"`
	ShownFor     string        `json:"shown_for,omitempty"`
	Interval     time.Duration `json:"interval"`
	Language     string        `json:"language"`
	Ticks        uint64        `json:"ticks"`
	Shows        uint64        `json:"shows"`
	Actions      uint64        `json:"actions"`
	LastError    string        `json:"last_error,omitempty"`
	StartedAt    time.Time     `json:"started_at"`
}

func (c *Controller) status() Status {
	state := StatePolling
	switch {
	case c.toolMissing:
		state = StateStopped
	case c.paused:
		state = StatePaused
	}
	return Status{
		State:        state,
		Reader:       c.reader.Name(),
		Snapshot:     logging.Preview(c.snap.text),
		SnapshotAt:   c.snap.capturedAt,
		PanelVisible: c.panel.Visible(),
		ShownFor:     logging.Preview(c.textShownFor),
		Interval:     c.interval,
		Language:     c.dispatcher.Preselected().Name,
		Ticks:        c.ticks,
		Shows:        c.shows,
		Actions:      c.actions,
		LastError:    c.lastErr,
		StartedAt:    c.startedAt,
	}
}

// post hands ev to the loop, giving up when ctx ends or the loop exits.
func (c *Controller) post(ctx context.Context, ev event) error {
	select {
	case c.events <- ev:
		return nil
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// notify posts a surface event without blocking the caller. Surface
// callbacks come from UI goroutines that must not stall.
func (c *Controller) notify(ev surfaceEvent) {
	select {
	case c.events <- ev:
	case <-c.done:
	default:
		slog.Warn("monitor event queue full, dropping surface event", "kind", ev.kind)
	}
}

// SurfaceMapped reports that the panel window is ready for input.
func (c *Controller) SurfaceMapped() { c.notify(surfaceEvent{kind: surfaceMapped}) }

// FocusLost reports that the panel window lost input focus.
func (c *Controller) FocusLost() { c.notify(surfaceEvent{kind: surfaceFocusOut}) }

// CancelPressed reports the panel's cancel key.
func (c *Controller) CancelPressed() { c.notify(surfaceEvent{kind: surfaceCancel}) }

// ActionClicked reports a click on one of the panel's action buttons.
func (c *Controller) ActionClicked(kind action.Kind) {
	c.notify(surfaceEvent{kind: surfaceChose, action: kind})
}

// Status returns the controller's current state.
func (c *Controller) Status(ctx context.Context) (Status, error) {
	reply := make(chan Status, 1)
	if err := c.post(ctx, statusRequest{reply: reply}); err != nil {
		return Status{}, err
	}
	return wait(ctx, c, reply)
}

// Pause stops polling until Resume.
func (c *Controller) Pause(ctx context.Context) (Status, error) {
	return c.setPausedRemote(ctx, true)
}

// Resume restarts polling unless the read tool is missing.
func (c *Controller) Resume(ctx context.Context) (Status, error) {
	return c.setPausedRemote(ctx, false)
}

func (c *Controller) setPausedRemote(ctx context.Context, paused bool) (Status, error) {
	reply := make(chan Status, 1)
	if err := c.post(ctx, pauseRequest{paused: paused, reply: reply}); err != nil {
		return Status{}, err
	}
	return wait(ctx, c, reply)
}

// Act runs an action on the loop and returns its outcome. The result is
// not shown on the desktop; the caller displays it.
func (c *Controller) Act(ctx context.Context, req ActRequest) (action.Outcome, error) {
	reply := make(chan action.Outcome, 1)
	if err := c.post(ctx, actRequest{req: req, reply: reply}); err != nil {
		return action.Outcome{}, err
	}
	return wait(ctx, c, reply)
}

// Reload applies new settings on the loop.
func (c *Controller) Reload(ctx context.Context, s Settings) error {
	return c.post(ctx, reloadRequest{settings: s})
}

func wait[T any](ctx context.Context, c *Controller, reply <-chan T) (T, error) {
	var zero T
	select {
	case v := <-reply:
		return v, nil
	case <-c.done:
		return zero, ErrStopped
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
