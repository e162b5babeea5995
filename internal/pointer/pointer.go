// Package pointer finds where on screen the floating panel should appear.
package pointer

import (
	"context"
	"image"
	"log/slog"

	"github.com/kbinani/screenshot"
)

// Point is a screen coordinate in pixels.
type Point struct {
	X, Y int
}

// Locator reports the current pointer position. ok is false when the
// position is unknown.
type Locator interface {
	Position(ctx context.Context) (p Point, ok bool)
}

// Screen reports the geometry of the monitor used for fallback placement.
type Screen interface {
	Bounds() (image.Rectangle, bool)
}

// fallbackPoint is used when neither pointer nor monitor can be queried.
var fallbackPoint = Point{X: 200, Y: 200}

// Place returns the panel origin: the pointer position plus offset. When the
// pointer is unknown, or reports the origin with no real position, the panel
// goes near the centre of the primary monitor instead.
func Place(ctx context.Context, loc Locator, screen Screen, offset Point) Point {
	p, ok := loc.Position(ctx)
	if !ok || (p.X == 0 && p.Y == 0) {
		p = centre(screen)
		slog.Debug("pointer position unavailable, using monitor centre", "x", p.X, "y", p.Y)
	}
	return Point{X: p.X + offset.X, Y: p.Y + offset.Y}
}

func centre(screen Screen) Point {
	if screen == nil {
		return fallbackPoint
	}
	r, ok := screen.Bounds()
	if !ok || r.Empty() {
		return fallbackPoint
	}
	return Point{
		X: r.Min.X + r.Dx()/2 - 50,
		Y: r.Min.Y + r.Dy()/2 - 20,
	}
}

// Displays reads monitor geometry through kbinani/screenshot.
type Displays struct{}

// Bounds returns the bounds of the first active display.
func (Displays) Bounds() (r image.Rectangle, ok bool) {
	defer func() {
		// screenshot panics on some headless X servers.
		if rec := recover(); rec != nil {
			slog.Debug("display bounds unavailable", "err", rec)
			r, ok = image.Rectangle{}, false
		}
	}()
	if screenshot.NumActiveDisplays() == 0 {
		return image.Rectangle{}, false
	}
	return screenshot.GetDisplayBounds(0), true
}
