package clip

import (
	"fmt"
	"log/slog"

	"github.com/atotto/clipboard"
)

// Writer puts text on the system clipboard.
type Writer interface {
	Write(text string) error
}

// SystemWriter writes through the native backend and falls back to the
// external tools atotto/clipboard knows about (xclip, xsel, wl-copy, pbcopy).
type SystemWriter struct{}

// NewWriter returns a SystemWriter.
func NewWriter() SystemWriter { return SystemWriter{} }

func (SystemWriter) Write(text string) error {
	err := nativeWrite(text)
	if err == nil {
		return nil
	}
	slog.Debug("native clipboard write unavailable, trying external tools", "err", err)
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard write: %w", ErrToolMissing)
	}
	if err = clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	return nil
}
