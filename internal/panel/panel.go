// Package panel implements the floating action panel's show/hide state
// machine. Drawing is left to a Surface; the panel decides when the surface
// is mapped, when focus loss dismisses it, and who is told about it.
//
// A Panel is not safe for concurrent use. The monitor drives it from its
// event loop, forwarding surface events (mapped, focus lost, cancel key,
// button click) as they arrive.
package panel

import (
	"log/slog"
	"time"

	"go.klb.dev/textassist/internal/action"
	"go.klb.dev/textassist/internal/logging"
)

// DefaultGrace is how long focus loss is ignored after the panel appears.
const DefaultGrace = 300 * time.Millisecond

// Surface is the platform window behind the panel.
type Surface interface {
	// Map positions the window at (x, y) and makes it visible.
	Map(x, y int, text string) error
	// Unmap hides the window.
	Unmap()
	// Focus asks for input focus. Best effort.
	Focus()
}

// State is the panel's visibility.
type State int

const (
	Hidden State = iota
	Visible
)

// ActionFunc receives the chosen action and the text the panel was shown for.
type ActionFunc func(kind action.Kind, text string)

// Panel is the floating action panel.
type Panel struct {
	surface Surface
	grace   time.Duration
	now     func() time.Time

	state    State
	text     string
	onAction ActionFunc
	shownAt  time.Time // zero once the grace window no longer applies

	hidden []func()
}

// New returns a hidden panel drawing on surface.
func New(surface Surface, grace time.Duration) *Panel {
	return &Panel{
		surface: surface,
		grace:   grace,
		now:     time.Now,
	}
}

// SetClock replaces the time source used for the grace window.
func (p *Panel) SetClock(now func() time.Time) { p.now = now }

// SetGrace changes the grace duration for future focus-loss events.
func (p *Panel) SetGrace(d time.Duration) { p.grace = d }

// OnHidden registers fn to run on every Visible→Hidden transition.
func (p *Panel) OnHidden(fn func()) { p.hidden = append(p.hidden, fn) }

// Visible reports whether the panel is showing.
func (p *Panel) Visible() bool { return p.state == Visible }

// Show maps the panel at (x, y) for text. Focus is requested later, from
// Mapped, once the surface is ready for input. Showing an already visible
// panel moves it and replaces the payload.
func (p *Panel) Show(x, y int, text string, onAction ActionFunc) error {
	if err := p.surface.Map(x, y, text); err != nil {
		return err
	}
	p.text = text
	p.onAction = onAction
	p.shownAt = p.now()
	p.state = Visible
	slog.Debug("panel shown", "x", x, "y", y, "text", logging.Preview(text))
	return nil
}

// Hide dismisses the panel on request from its owner.
func (p *Panel) Hide() { p.hide("external") }

// Mapped is called when the surface becomes ready for input.
func (p *Panel) Mapped() {
	if p.state == Visible {
		p.surface.Focus()
	}
}

// FocusOut handles loss of input focus. Inside the grace window the event is
// swallowed and FocusOut reports true (handled); otherwise the panel hides.
func (p *Panel) FocusOut() (handled bool) {
	if p.state != Visible {
		return false
	}
	if p.inGrace() {
		slog.Debug("panel ignoring focus loss inside grace window", "grace", p.grace)
		return true
	}
	p.hide("focus lost")
	return false
}

// Cancel handles the cancel key.
func (p *Panel) Cancel() {
	if p.state != Visible {
		return
	}
	p.shownAt = time.Time{}
	p.hide("cancelled")
}

// Choose handles an action button. The panel hides before the callback
// runs, so the callback always sees a hidden panel.
func (p *Panel) Choose(kind action.Kind) {
	if p.state != Visible {
		return
	}
	p.shownAt = time.Time{}
	text, cb := p.text, p.onAction
	p.hide("action " + kind.String())
	if cb != nil {
		cb(kind, text)
	}
}

func (p *Panel) inGrace() bool {
	if p.shownAt.IsZero() {
		return false
	}
	return p.now().Before(p.shownAt.Add(p.grace))
}

func (p *Panel) hide(reason string) {
	if p.state != Visible {
		return
	}
	p.state = Hidden
	p.surface.Unmap()
	p.text = ""
	p.onAction = nil
	slog.Debug("panel hidden", "reason", reason)
	for _, fn := range p.hidden {
		fn()
	}
}
