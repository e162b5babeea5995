package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/textassist/internal/action"
	"go.klb.dev/textassist/internal/clip"
	"go.klb.dev/textassist/internal/control"
	"go.klb.dev/textassist/internal/dialog"
	"go.klb.dev/textassist/internal/ipc"
	"go.klb.dev/textassist/internal/llm"
	"go.klb.dev/textassist/internal/monitor"
	"go.klb.dev/textassist/internal/panel"
	"go.klb.dev/textassist/internal/pointer"
	"go.klb.dev/textassist/internal/session"
	"go.klb.dev/textassist/internal/tray"
)

func newRunCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Watch the clipboard and offer actions on new text",
		Long: `Polls the clipboard and, when new text appears, offers translate,
summarize and formatting actions next to the pointer (or in the system tray).

Results are shown in a dialog. The daemon also listens on a local socket so
"textassist status", "act", "history", "pause" and "resume" can reach it.

Polling interval, read timeout, grace period, panel offset and language are
reloaded when the config file changes.

Precedence (lowest → highest): defaults → config file → TEXTASSIST_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runDaemon(v) },
	}

	f := cmd.Flags()
	addMonitorFlags(cmd)
	addLLMFlags(cmd)
	f.String("surface", "tray", "where the actions appear: tray|headless")
	f.Duration("dismiss-after", panel.DefaultDismiss, "hide offered actions left unused this long (0 keeps them)")
	f.String("dialogs", "zenity", "how results are shown: zenity|notify|log")
	f.Int("history-size", session.DefaultSize, "number of actions kept in the session history")
	addSocketFlag(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runDaemon(v *viper.Viper) error {
	setupLogging(v)

	reader, err := clip.NewReader(v.GetString("clipboard"), v.GetDuration("read-timeout"))
	if err != nil {
		return err
	}
	lang, err := preselectedLanguage(v)
	if err != nil {
		return err
	}

	cfg := llmConfig(v)
	assistant := llm.New(cfg)
	if c, ok := assistant.(*llm.Client); ok && !c.Configured() {
		slog.Warn("no API key configured; actions will fail until one is set",
			"hint", "set TEXTASSIST_API_KEY or GOOGLE_API_KEY, or pass --simulate")
	}

	notifier, picker := dialogs(v.GetString("dialogs"))
	dispatcher := action.NewDispatcher(assistant, picker, lang, action.ParseLength(v.GetString("summary-length")))

	// Neither surface can see focus, so unused actions are dismissed on a
	// timer, which lets the next clipboard change be offered.
	dismiss := panel.NewDismissTimer(v.GetDuration("dismiss-after"), nil)
	var (
		surface panel.Surface = panel.LogSurface{Dismiss: dismiss}
		tr      *tray.Tray
	)
	if v.GetString("surface") == "tray" {
		tr = tray.New(v.GetDuration("dismiss-after"))
		surface = tr
	}

	ctl := monitor.New(monitor.Config{
		Interval: v.GetDuration("interval"),
		Grace:    v.GetDuration("grace"),
		Offset:   pointer.Point{X: v.GetInt("offset-x"), Y: v.GetInt("offset-y")},
	}, monitor.Deps{
		Reader:     reader,
		Locator:    pointer.Detect(),
		Screen:     pointer.Displays{},
		Surface:    surface,
		Dispatcher: dispatcher,
		Notifier:   notifier,
		History:    session.NewHistory(v.GetInt("history-size")),
	})
	dismiss.SetFunc(ctl.FocusLost)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("textassist starting",
		"version", Version,
		"reader", reader.Name(),
		"surface", v.GetString("surface"),
		"model", cfg.Model,
		"simulate", cfg.Simulate,
	)

	socket := v.GetString("socket")
	ln, err := ipc.Listen(socket)
	if err != nil {
		slog.Warn("control socket unavailable", "err", err)
	} else {
		defer os.Remove(socket)
		go func() {
			if err := control.Serve(ctx, ln, ctl); err != nil {
				slog.Error("control server stopped", "err", err)
			}
		}()
	}

	watchConfig(ctx, v, ctl)

	if tr == nil {
		return ctl.Run(ctx)
	}
	return runWithTray(ctx, stop, tr, ctl)
}

// runWithTray runs the tray on the calling goroutine, which must be main on
// macOS, and the monitor loop beside it.
func runWithTray(ctx context.Context, stop context.CancelFunc, tr *tray.Tray, ctl *monitor.Controller) error {
	done := make(chan error, 1)
	tr.SetHandler(&trayHandler{ctx: ctx, ctl: ctl, quit: stop})
	tr.Run(func() {
		go func() { done <- ctl.Run(ctx) }()
		go func() {
			<-ctx.Done()
			tr.Quit()
		}()
	}, stop)

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("monitor did not stop")
	}
}

// trayHandler forwards tray clicks to the monitor.
type trayHandler struct {
	ctx  context.Context
	ctl  *monitor.Controller
	quit context.CancelFunc
}

func (h *trayHandler) SurfaceMapped()                 { h.ctl.SurfaceMapped() }
func (h *trayHandler) FocusLost()                     { h.ctl.FocusLost() }
func (h *trayHandler) CancelPressed()                 { h.ctl.CancelPressed() }
func (h *trayHandler) ActionClicked(kind action.Kind) { h.ctl.ActionClicked(kind) }
func (h *trayHandler) Quit()                          { h.quit() }

func (h *trayHandler) SetPaused(paused bool) {
	var err error
	if paused {
		_, err = h.ctl.Pause(h.ctx)
	} else {
		_, err = h.ctl.Resume(h.ctx)
	}
	if err != nil {
		slog.Warn("pause toggle failed", "err", err)
	}
}

// dialogs returns the notifier and language picker for mode.
func dialogs(mode string) (dialog.Notifier, action.LanguagePicker) {
	switch mode {
	case "log":
		return dialog.Log{}, nil
	case "notify":
		return dialog.Desktop{}, nil
	default:
		z := dialog.NewZenity()
		if !z.Available() {
			slog.Warn("zenity not found; results go to desktop notifications")
		}
		return z, z
	}
}

// watchConfig reloads the monitor's tunables when the config file changes.
func watchConfig(ctx context.Context, v *viper.Viper, ctl *monitor.Controller) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		slog.Info("config file changed", "file", e.Name)
		if err := ctl.Reload(ctx, monitorSettings(v)); err != nil {
			slog.Warn("config reload failed", "err", err)
		}
	})
	v.WatchConfig()
	slog.Info("watching config file", "file", v.ConfigFileUsed())
}
