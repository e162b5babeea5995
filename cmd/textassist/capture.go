package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/textassist/internal/action"
	"go.klb.dev/textassist/internal/capture"
	"go.klb.dev/textassist/internal/clip"
	"go.klb.dev/textassist/internal/dialog"
	"go.klb.dev/textassist/internal/ipc"
	"go.klb.dev/textassist/internal/logging"
	"go.klb.dev/textassist/internal/ocr"
)

func newCaptureCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "capture [image]",
		Short: "Capture the screen and extract its text with OCR",
		Long: `Takes a screenshot (or reads the given image), runs OCR on it and prints
the text.

Screenshots use gnome-screenshot or grim+slurp on Wayland and scrot or
gnome-screenshot on X11. With no tool installed a full-screen capture falls
back to reading the display directly.

--copy puts the text on the clipboard. --act runs an action on it, through
the daemon when one is running.`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, args []string) error { return runCapture(v, args) },
	}

	f := cmd.Flags()
	f.Bool("area", false, "select a screen area instead of the full screen")
	f.Duration("capture-timeout", capture.DefaultTimeout, "timeout for the screenshot, including area selection")
	f.String("ocr-lang", ocr.DefaultLanguage, "tesseract language, e.g. eng, por, eng+por")
	f.String("engine", "tesseract", "ocr engine: tesseract|gosseract")
	f.Bool("no-preprocess", false, "skip grayscale and upscaling before OCR")
	f.Bool("keep", false, "keep the screenshot file and print its path")
	f.Bool("copy", false, "copy the extracted text to the clipboard")
	f.String("act", "", "run an action on the text: translate|summarize|format")
	f.String("to", "", "translation language for --act translate (name or code)")
	addLLMFlags(cmd)
	addSocketFlag(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runCapture(v *viper.Viper, args []string) error {
	setupLogging(v)

	var kind action.Kind
	if name := v.GetString("act"); name != "" {
		k, err := action.ParseKind(name)
		if err != nil {
			return err
		}
		kind = k
	}
	engine, err := ocr.New(v.GetString("engine"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path, cleanup, err := screenshot(ctx, v, args)
	if errors.Is(err, capture.ErrCancelled) {
		fmt.Fprintln(os.Stderr, "capture cancelled")
		return nil
	}
	if err != nil {
		return err
	}
	defer cleanup()

	text, err := ocr.Extract(ctx, engine, path, ocr.Options{
		Language:   v.GetString("ocr-lang"),
		Preprocess: !v.GetBool("no-preprocess"),
	})
	if err != nil {
		return err
	}
	slog.Debug("ocr finished", "engine", engine.Name(), "text", logging.Preview(text))

	if v.GetBool("copy") {
		if err := clip.NewWriter().Write(text); err != nil {
			return err
		}
	}
	if kind == 0 {
		fmt.Println(text)
		return nil
	}
	return actOnCapture(ctx, v, kind, text)
}

// screenshot returns the image to read: the argument if one was given,
// otherwise a fresh capture, which cleanup removes unless --keep is set.
func screenshot(ctx context.Context, v *viper.Viper, args []string) (path string, cleanup func(), err error) {
	if len(args) == 1 {
		return args[0], func() {}, nil
	}
	path, err = capture.Screen(ctx, capture.Options{
		Area:    v.GetBool("area"),
		Timeout: v.GetDuration("capture-timeout"),
	})
	if err != nil {
		return "", nil, err
	}
	if v.GetBool("keep") {
		fmt.Fprintf(os.Stderr, "screenshot saved to %s\n", path)
		return path, func() {}, nil
	}
	return path, func() { _ = os.Remove(path) }, nil
}

func actOnCapture(ctx context.Context, v *viper.Viper, kind action.Kind, text string) error {
	var target *action.Language
	if to := v.GetString("to"); to != "" {
		l, ok := action.LookupLanguage(to)
		if !ok {
			return fmt.Errorf("unsupported language %q", to)
		}
		target = &l
	}
	preselected, err := preselectedLanguage(v)
	if err != nil {
		return err
	}
	if kind == action.Translate && target == nil {
		target = &preselected
	}

	var out action.Outcome
	if socket := v.GetString("socket"); ipc.IsRunning(socket) {
		out, err = actRemote(ctx, socket, kind, text, target)
	} else {
		out, err = actLocal(ctx, v, kind, text, target, nil, preselected)
	}
	if err != nil {
		return err
	}
	fmt.Println(dialog.RenderOutcome(out))
	return out.Err
}
