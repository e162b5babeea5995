// Package monitor owns the clipboard polling loop. It decides when the
// floating panel appears, dismisses it when the clipboard empties, and runs
// the chosen action once per selection.
//
// All state lives on one goroutine, the one running Controller.Run. Surface
// callbacks and control requests are posted to it as events.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.klb.dev/textassist/internal/action"
	"go.klb.dev/textassist/internal/clip"
	"go.klb.dev/textassist/internal/dialog"
	"go.klb.dev/textassist/internal/logging"
	"go.klb.dev/textassist/internal/panel"
	"go.klb.dev/textassist/internal/pointer"
	"go.klb.dev/textassist/internal/session"
)

// DefaultInterval is the clipboard poll period.
const DefaultInterval = 750 * time.Millisecond

// ErrStopped is returned by requests made after the loop has exited.
var ErrStopped = errors.New("monitor: not running")

// DefaultOffset is added to the pointer position when placing the panel.
var DefaultOffset = pointer.Point{X: 15, Y: 15}

// Config holds the controller's initial tunables.
type Config struct {
	Interval time.Duration
	Grace    time.Duration
	Offset   pointer.Point
}

// Deps are the capabilities the controller drives.
type Deps struct {
	Reader     clip.Reader
	Locator    pointer.Locator
	Screen     pointer.Screen
	Surface    panel.Surface
	Dispatcher *action.Dispatcher
	Notifier   dialog.Notifier
	History    *session.History
}

// snapshot is the last successfully read clipboard text.
type snapshot struct {
	text       string
	capturedAt time.Time
}

// Controller is the clipboard monitor.
type Controller struct {
	reader     clip.Reader
	locator    pointer.Locator
	screen     pointer.Screen
	dispatcher *action.Dispatcher
	notifier   dialog.Notifier
	history    *session.History
	panel      *panel.Panel

	events chan event
	done   chan struct{}

	// Loop-owned state below.
	interval     time.Duration
	offset       pointer.Point
	ticker       *time.Ticker
	snap         snapshot
	textShownFor string
	paused       bool
	toolMissing  bool
	fatalShown   bool
	lastErr      string

	ticks     uint64
	shows     uint64
	actions   uint64
	startedAt time.Time
}

// New builds a controller. Nothing runs until Run is called.
func New(cfg Config, deps Deps) *Controller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Grace <= 0 {
		cfg.Grace = panel.DefaultGrace
	}
	if deps.Surface == nil {
		deps.Surface = panel.LogSurface{}
	}
	if deps.Notifier == nil {
		deps.Notifier = dialog.Log{}
	}
	if deps.History == nil {
		deps.History = session.NewHistory(session.DefaultSize)
	}
	c := &Controller{
		reader:     deps.Reader,
		locator:    deps.Locator,
		screen:     deps.Screen,
		dispatcher: deps.Dispatcher,
		notifier:   deps.Notifier,
		history:    deps.History,
		panel:      panel.New(deps.Surface, cfg.Grace),
		events:     make(chan event, 32),
		done:       make(chan struct{}),
		interval:   cfg.Interval,
		offset:     cfg.Offset,
	}
	c.panel.OnHidden(func() { slog.Debug("panel hidden", "shown_for", logging.Preview(c.textShownFor)) })
	return c
}

// History returns the session's action history.
func (c *Controller) History() *session.History { return c.history }

// Run polls the clipboard until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)
	c.startedAt = time.Now()
	c.startTicker()
	defer c.stopTicker()

	slog.Info("clipboard monitor started", "reader", c.reader.Name(), "interval", c.interval)
	for {
		select {
		case <-ctx.Done():
			c.panel.Hide()
			slog.Info("clipboard monitor stopped")
			return nil
		case <-c.tickC():
			c.pollTick(ctx)
		case ev := <-c.events:
			ev.handle(ctx, c)
		}
	}
}

func (c *Controller) tickC() <-chan time.Time {
	if c.ticker == nil {
		return nil
	}
	return c.ticker.C
}

func (c *Controller) startTicker() {
	if c.ticker != nil || c.paused || c.toolMissing {
		return
	}
	c.ticker = time.NewTicker(c.interval)
}

func (c *Controller) stopTicker() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	c.ticker = nil
}

// pollTick reads the clipboard once and updates the panel.
func (c *Controller) pollTick(ctx context.Context) {
	c.ticks++
	res := c.reader.Read(ctx)

	switch {
	case res.Outcome == clip.ToolMissing:
		c.toolMissing = true
		c.stopTicker()
		c.lastErr = errString(res.Err)
		slog.Error("clipboard tool missing, polling stopped", "reader", c.reader.Name(), "err", res.Err)
		if !c.fatalShown {
			c.fatalShown = true
			msg := "The clipboard tool " + c.reader.Name() + " is not available. Clipboard monitoring has stopped."
			if err := c.notifier.Fatal(ctx, "Clipboard Monitor Error", msg); err != nil {
				slog.Warn("fatal notice failed", "err", err)
			}
		}
		return
	case res.Outcome.Transient():
		// The snapshot and the panel stay as they are until a read succeeds.
		c.lastErr = errString(res.Err)
		slog.Warn("clipboard read failed", "outcome", res.Outcome, "err", res.Err)
		return
	}

	c.lastErr = ""
	c.snap = snapshot{text: res.Text, capturedAt: time.Now()}
	if res.Text == "" {
		c.clipboardCleared()
		return
	}
	if c.panel.Visible() || res.Text == c.textShownFor {
		return
	}
	c.show(ctx, res.Text)
}

func (c *Controller) clipboardCleared() {
	if c.panel.Visible() {
		c.panel.Hide()
	}
	c.textShownFor = ""
	c.snap = snapshot{}
}

func (c *Controller) show(ctx context.Context, text string) {
	at := pointer.Place(ctx, c.locator, c.screen, c.offset)
	onAction := func(kind action.Kind, text string) {
		c.runAction(ctx, "panel", kind, text, nil)
	}
	if err := c.panel.Show(at.X, at.Y, text, onAction); err != nil {
		slog.Error("panel show failed", "err", err)
		return
	}
	c.textShownFor = text
	c.shows++
	slog.Info("new clipboard text", "text", logging.Preview(text), "x", at.X, "y", at.Y)
}

// runAction dispatches, reports, records, and resets the dedup state so the
// same text can bring the panel back.
func (c *Controller) runAction(ctx context.Context, source string, kind action.Kind, text string, lang *action.Language) action.Outcome {
	started := time.Now()
	var out action.Outcome
	if lang != nil {
		out = c.dispatcher.DispatchTo(ctx, kind, text, *lang)
	} else {
		out = c.dispatcher.Dispatch(ctx, kind, text)
	}
	c.actions++
	c.history.Add(session.NewEntry(source, text, out, started))

	c.textShownFor = ""
	c.snap = snapshot{}

	if source == "panel" {
		c.report(ctx, out)
	}
	return out
}

func (c *Controller) report(ctx context.Context, out action.Outcome) {
	var err error
	switch {
	case out.Cancelled:
		return
	case out.Err != nil:
		err = c.notifier.Error(ctx, out.Title, out.Err)
	default:
		err = c.notifier.Result(ctx, out.Title, out.Text)
	}
	if err != nil {
		slog.Warn("result display failed", "err", err)
	}
}

func (c *Controller) remoteAct(ctx context.Context, req ActRequest) action.Outcome {
	text := req.Text
	if text == "" {
		text = c.snap.text
	}
	if c.panel.Visible() {
		c.panel.Cancel()
	}
	lang := req.Language
	if lang.Code == "" {
		lang = c.dispatcher.Preselected()
	}
	return c.runAction(ctx, "control", req.Kind, text, &lang)
}

func (c *Controller) setPaused(paused bool) {
	if c.paused == paused {
		return
	}
	c.paused = paused
	if paused {
		c.stopTicker()
		c.panel.Hide()
		slog.Info("clipboard monitor paused")
		return
	}
	c.startTicker()
	slog.Info("clipboard monitor resumed", "polling", c.ticker != nil)
}

type timeoutSetter interface {
	SetTimeout(time.Duration)
}

func (c *Controller) reload(s Settings) {
	if s.Interval > 0 && s.Interval != c.interval {
		c.interval = s.Interval
		if c.ticker != nil {
			c.ticker.Reset(s.Interval)
		}
	}
	if s.ReadTimeout > 0 {
		if ts, ok := c.reader.(timeoutSetter); ok {
			ts.SetTimeout(s.ReadTimeout)
		}
	}
	if s.Grace > 0 {
		c.panel.SetGrace(s.Grace)
	}
	if s.Offset != nil {
		c.offset = *s.Offset
	}
	if s.Language.Code != "" {
		c.dispatcher.SetPreselected(s.Language)
	}
	slog.Info("settings reloaded", "interval", c.interval, "offset_x", c.offset.X, "offset_y", c.offset.Y)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
