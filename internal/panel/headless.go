package panel

import (
	"log/slog"

	"go.klb.dev/textassist/internal/logging"
)

// LogSurface is a Surface with no window. It logs where the panel would be
// drawn, which is enough for headless runs and for driving actions through
// the control channel. With Dismiss set, the panel is reported as having
// lost focus once it has been up for the timer's duration.
type LogSurface struct {
	Dismiss *DismissTimer
}

func (s LogSurface) Map(x, y int, text string) error {
	slog.Info("panel", "x", x, "y", y, "text", logging.Preview(text))
	s.Dismiss.Arm()
	return nil
}

func (s LogSurface) Unmap() { s.Dismiss.Stop() }

func (LogSurface) Focus() {}
