package dialog

import (
	"context"
	"log/slog"

	"github.com/gen2brain/beeep"

	"go.klb.dev/textassist/internal/logging"
)

// Desktop shows notices as desktop notifications. Results are truncated by
// the notification daemon, so the full text also goes to the log.
type Desktop struct{}

func (Desktop) Result(_ context.Context, title, text string) error {
	slog.Info("result", "title", title, "text", text)
	return beeep.Notify(title, logging.Preview(text), "")
}

func (Desktop) Error(_ context.Context, title string, err error) error {
	return beeep.Alert(title, err.Error(), "")
}

func (Desktop) Fatal(_ context.Context, title, msg string) error {
	return beeep.Alert(title, msg, "")
}

// Log writes notices to the structured log only.
type Log struct{}

func (Log) Result(_ context.Context, title, text string) error {
	slog.Info("result", "title", title, "text", text)
	return nil
}

func (Log) Error(_ context.Context, title string, err error) error {
	slog.Warn("action error", "title", title, "err", err)
	return nil
}

func (Log) Fatal(_ context.Context, title, msg string) error {
	slog.Error("fatal", "title", title, "msg", msg)
	return nil
}
