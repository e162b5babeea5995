package panel

import (
	"errors"
	"testing"
	"time"

	"go.klb.dev/textassist/internal/action"
)

type fakeSurface struct {
	maps    int
	unmaps  int
	focuses int
	lastX   int
	lastY   int
	mapErr  error
}

func (f *fakeSurface) Map(x, y int, _ string) error {
	if f.mapErr != nil {
		return f.mapErr
	}
	f.maps++
	f.lastX, f.lastY = x, y
	return nil
}
func (f *fakeSurface) Unmap() { f.unmaps++ }
func (f *fakeSurface) Focus() { f.focuses++ }

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newPanel(t *testing.T) (*Panel, *fakeSurface, *clock, *int) {
	t.Helper()
	s := &fakeSurface{}
	c := &clock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	p := New(s, DefaultGrace)
	p.SetClock(c.now)
	hidden := 0
	p.OnHidden(func() { hidden++ })
	return p, s, c, &hidden
}

func TestShowMapsSurface(t *testing.T) {
	p, s, _, _ := newPanel(t)
	if err := p.Show(40, 50, "hello", nil); err != nil {
		t.Fatalf("Show: %v", err)
	}
	if !p.Visible() || p.text != "hello" {
		t.Fatalf("visible=%v text=%q", p.Visible(), p.text)
	}
	if s.maps != 1 || s.lastX != 40 || s.lastY != 50 {
		t.Fatalf("surface maps=%d at (%d,%d)", s.maps, s.lastX, s.lastY)
	}
	if s.focuses != 0 {
		t.Fatal("focus must wait for the mapped event")
	}
	p.Mapped()
	if s.focuses != 1 {
		t.Fatalf("focuses = %d after Mapped", s.focuses)
	}
}

func TestShowSurfaceError(t *testing.T) {
	p, s, _, _ := newPanel(t)
	s.mapErr = errors.New("no display")
	if err := p.Show(0, 0, "x", nil); err == nil {
		t.Fatal("expected error")
	}
	if p.Visible() {
		t.Fatal("panel must stay hidden when the surface fails")
	}
}

func TestFocusOutGraceWindow(t *testing.T) {
	tests := []struct {
		name        string
		after       time.Duration
		wantVisible bool
		wantHandled bool
	}{
		{"immediately", 0, true, true},
		{"inside grace", DefaultGrace - time.Millisecond, true, true},
		{"at grace boundary", DefaultGrace, false, false},
		{"after grace", time.Second, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, c, hidden := newPanel(t)
			if err := p.Show(0, 0, "text", nil); err != nil {
				t.Fatal(err)
			}
			c.advance(tt.after)
			handled := p.FocusOut()
			if handled != tt.wantHandled {
				t.Fatalf("handled = %v, want %v", handled, tt.wantHandled)
			}
			if p.Visible() != tt.wantVisible {
				t.Fatalf("visible = %v, want %v", p.Visible(), tt.wantVisible)
			}
			wantHidden := 0
			if !tt.wantVisible {
				wantHidden = 1
			}
			if *hidden != wantHidden {
				t.Fatalf("hidden notifications = %d, want %d", *hidden, wantHidden)
			}
		})
	}
}

func TestGraceRestartsOnEveryShow(t *testing.T) {
	p, _, c, _ := newPanel(t)
	_ = p.Show(0, 0, "a", nil)
	c.advance(time.Second)
	p.Hide()
	_ = p.Show(0, 0, "b", nil)
	c.advance(100 * time.Millisecond)
	if !p.FocusOut() || !p.Visible() {
		t.Fatal("focus loss right after a re-show should be swallowed")
	}
}

func TestCancelHidesOnce(t *testing.T) {
	p, s, _, hidden := newPanel(t)
	_ = p.Show(0, 0, "text", nil)
	p.Cancel()
	p.Cancel()
	p.Hide()
	if p.Visible() {
		t.Fatal("panel should be hidden")
	}
	if *hidden != 1 || s.unmaps != 1 {
		t.Fatalf("hidden=%d unmaps=%d, want exactly one transition", *hidden, s.unmaps)
	}
}

func TestChooseHidesThenCallsBack(t *testing.T) {
	p, _, _, hidden := newPanel(t)
	var gotKind action.Kind
	var gotText string
	var visibleDuringCallback bool
	err := p.Show(0, 0, "some text", func(k action.Kind, text string) {
		gotKind, gotText = k, text
		visibleDuringCallback = p.Visible()
	})
	if err != nil {
		t.Fatal(err)
	}

	p.Choose(action.Summarize)

	if gotKind != action.Summarize || gotText != "some text" {
		t.Fatalf("callback got (%v, %q)", gotKind, gotText)
	}
	if visibleDuringCallback {
		t.Fatal("panel should be hidden before the action callback runs")
	}
	if *hidden != 1 {
		t.Fatalf("hidden notifications = %d", *hidden)
	}
}

func TestEventsWhileHiddenAreIgnored(t *testing.T) {
	p, s, _, hidden := newPanel(t)
	called := false
	_ = p.Show(0, 0, "x", func(action.Kind, string) { called = true })
	p.Hide()

	p.Choose(action.Translate)
	p.Cancel()
	if p.FocusOut() {
		t.Fatal("hidden panel should not report focus loss as handled")
	}
	p.Mapped()

	if called {
		t.Fatal("action callback ran for a hidden panel")
	}
	if *hidden != 1 || s.focuses != 0 {
		t.Fatalf("hidden=%d focuses=%d", *hidden, s.focuses)
	}
}

func TestChooseClearsGrace(t *testing.T) {
	p, _, _, _ := newPanel(t)
	_ = p.Show(0, 0, "x", nil)
	p.Choose(action.Format)
	_ = p.Show(0, 0, "y", nil)
	// A fresh show restarts the window, so focus loss is swallowed again.
	if !p.FocusOut() {
		t.Fatal("expected focus loss to be swallowed after re-show")
	}
}
