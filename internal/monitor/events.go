package monitor

import (
	"context"
	"time"

	"go.klb.dev/textassist/internal/action"
	"go.klb.dev/textassist/internal/pointer"
)

// event is anything the loop consumes. Ticks arrive on the ticker channel;
// everything else goes through Controller.events.
type event interface {
	handle(ctx context.Context, c *Controller)
}

type surfaceKind int

const (
	surfaceMapped surfaceKind = iota
	surfaceFocusOut
	surfaceCancel
	surfaceChose
)

type surfaceEvent struct {
	kind   surfaceKind
	action action.Kind
}

func (e surfaceEvent) handle(_ context.Context, c *Controller) {
	switch e.kind {
	case surfaceMapped:
		c.panel.Mapped()
	case surfaceFocusOut:
		c.panel.FocusOut()
	case surfaceCancel:
		c.panel.Cancel()
	case surfaceChose:
		// The panel's action callback runs the dispatch.
		c.panel.Choose(e.action)
	}
}

type statusRequest struct {
	reply chan Status
}

func (r statusRequest) handle(_ context.Context, c *Controller) {
	r.reply <- c.status()
}

type pauseRequest struct {
	paused bool
	reply  chan Status
}

func (r pauseRequest) handle(_ context.Context, c *Controller) {
	c.setPaused(r.paused)
	r.reply <- c.status()
}

// ActRequest asks the controller to run an action outside the panel.
// Empty Text means the current clipboard snapshot. A zero Language uses the
// preselected language instead of asking.
type ActRequest struct {
	Kind     action.Kind
	Text     string
	Language action.Language
}

type actRequest struct {
	req   ActRequest
	reply chan action.Outcome
}

func (r actRequest) handle(ctx context.Context, c *Controller) {
	r.reply <- c.remoteAct(ctx, r.req)
}

// Settings are the tunables that can change while running. Zero values
// leave the current setting alone.
type Settings struct {
	Interval    time.Duration
	ReadTimeout time.Duration
	Grace       time.Duration
	Offset      *pointer.Point
	Language    action.Language
}

type reloadRequest struct {
	settings Settings
}

func (r reloadRequest) handle(_ context.Context, c *Controller) {
	c.reload(r.settings)
}
