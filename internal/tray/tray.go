// Package tray draws the floating panel as a system tray menu. While the
// panel is visible the action items are enabled and the menu shows a
// preview of the clipboard text.
//
// systray must own the main goroutine on macOS, so Run blocks and the
// daemon starts its own work from the onReady callback.
package tray

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/getlantern/systray"

	"go.klb.dev/textassist/internal/action"
	"go.klb.dev/textassist/internal/panel"
)

//go:embed icon.png
var iconData []byte

// previewRunes bounds the preview item's title.
const previewRunes = 40

var errNotReady = errors.New("tray not ready")

// Handler receives the user's clicks.
type Handler interface {
	SurfaceMapped()
	// FocusLost is called when the actions have been enabled for the
	// dismiss duration without a click. A tray menu cannot report focus,
	// so this stands in for the panel losing it.
	FocusLost()
	CancelPressed()
	ActionClicked(kind action.Kind)
	SetPaused(paused bool)
	Quit()
}

// Tray is a panel.Surface backed by the system tray.
type Tray struct {
	mu      sync.Mutex
	ready   bool
	handler Handler
	dismiss *panel.DismissTimer

	preview *systray.MenuItem
	actions map[action.Kind]*systray.MenuItem
	cancel  *systray.MenuItem
	pause   *systray.MenuItem
	quit    *systray.MenuItem
}

// New returns a Tray. Nothing is drawn until Run. Enabled actions left
// unclicked for dismiss are reported to the handler as focus loss; zero
// keeps them until the panel is hidden some other way.
func New(dismiss time.Duration) *Tray {
	t := &Tray{actions: make(map[action.Kind]*systray.MenuItem)}
	t.dismiss = panel.NewDismissTimer(dismiss, t.focusLost)
	return t
}

func (t *Tray) focusLost() {
	if t.handler != nil {
		t.handler.FocusLost()
	}
}

// SetHandler sets who is told about clicks. It must be called before Run.
func (t *Tray) SetHandler(h Handler) { t.handler = h }

// Run shows the tray icon and blocks until Quit. onReady runs once the menu
// exists; onExit runs after the tray is gone.
func (t *Tray) Run(onReady, onExit func()) {
	systray.Run(func() {
		t.build()
		if onReady != nil {
			onReady()
		}
		go t.handleClicks()
	}, onExit)
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() { systray.Quit() }

func (t *Tray) build() {
	systray.SetTemplateIcon(iconData, iconData)
	systray.SetTitle("")
	systray.SetTooltip("textassist")

	header := systray.AddMenuItem("textassist", "")
	header.Disable()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.preview = systray.AddMenuItem("No new text", "")
	t.preview.Disable()
	systray.AddSeparator()
	for _, k := range action.Kinds {
		item := systray.AddMenuItem(k.Label(), "")
		item.Disable()
		t.actions[k] = item
	}
	t.cancel = systray.AddMenuItem("Dismiss", "Hide the actions until the clipboard changes")
	t.cancel.Disable()
	systray.AddSeparator()
	t.pause = systray.AddMenuItemCheckbox("Pause monitoring", "", false)
	t.quit = systray.AddMenuItem("Quit", "Stop textassist")
	t.ready = true
}

// Map enables the actions for text. The coordinates are logged only; a
// tray menu cannot be positioned.
func (t *Tray) Map(x, y int, text string) error {
	t.mu.Lock()
	if !t.ready {
		t.mu.Unlock()
		return errNotReady
	}
	t.preview.SetTitle(previewTitle(text))
	for _, item := range t.actions {
		item.Enable()
	}
	t.cancel.Enable()
	t.mu.Unlock()

	systray.SetTitle("●")
	systray.SetTooltip("textassist: new clipboard text")
	slog.Debug("tray panel mapped", "x", x, "y", y)

	if t.handler != nil {
		t.handler.SurfaceMapped()
	}
	t.dismiss.Arm()
	return nil
}

// Unmap disables the actions.
func (t *Tray) Unmap() {
	t.dismiss.Stop()
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.ready {
		return
	}
	t.preview.SetTitle("No new text")
	for _, item := range t.actions {
		item.Disable()
	}
	t.cancel.Disable()
	systray.SetTitle("")
	systray.SetTooltip("textassist")
}

// Focus is a no-op: tray menus open on the user's click.
func (t *Tray) Focus() {}

func (t *Tray) handleClicks() {
	if t.handler == nil {
		return
	}
	translate := t.actions[action.Translate].ClickedCh
	summarize := t.actions[action.Summarize].ClickedCh
	format := t.actions[action.Format].ClickedCh
	for {
		select {
		case <-translate:
			t.handler.ActionClicked(action.Translate)
		case <-summarize:
			t.handler.ActionClicked(action.Summarize)
		case <-format:
			t.handler.ActionClicked(action.Format)
		case <-t.cancel.ClickedCh:
			t.handler.CancelPressed()
		case <-t.pause.ClickedCh:
			if t.pause.Checked() {
				t.pause.Uncheck()
				t.handler.SetPaused(false)
			} else {
				t.pause.Check()
				t.handler.SetPaused(true)
			}
		case <-t.quit.ClickedCh:
			t.handler.Quit()
			return
		}
	}
}

func previewTitle(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) > previewRunes {
		r := []rune(text)
		text = string(r[:previewRunes]) + "…"
	}
	return fmt.Sprintf("“%s”", text)
}
