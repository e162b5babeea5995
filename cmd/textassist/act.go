package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/textassist/internal/action"
	"go.klb.dev/textassist/internal/clip"
	"go.klb.dev/textassist/internal/control"
	"go.klb.dev/textassist/internal/dialog"
	"go.klb.dev/textassist/internal/ipc"
	"go.klb.dev/textassist/internal/llm"
	"go.klb.dev/textassist/internal/logging"
)

func newActCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "act <translate|summarize|format> [text...|-]",
		Short: "Run an action on text and print the result",
		Long: `Runs one action and prints the result.

The text comes from the arguments, from stdin ("-" or a pipe), or, when
neither is given, from the clipboard. If the daemon is running the request
goes through it and shows up in its history; --local runs the action in this
process instead.

Translating without --to opens a language picker when stdin is a terminal.`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, args []string) error { return runAct(v, args) },
	}

	f := cmd.Flags()
	f.String("to", "", "translation language (name or code); skips the picker")
	f.Bool("local", false, "run the action here instead of in the daemon")
	f.Bool("copy", false, "copy the result to the clipboard")
	f.String("clipboard", "auto", "clipboard reader used when no text is given: auto|native|wl-paste|xclip|xsel|pbpaste")
	f.Duration("read-timeout", clip.DefaultTimeout, "timeout for one clipboard read")
	addLLMFlags(cmd)
	addSocketFlag(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runAct(v *viper.Viper, args []string) error {
	setupLogging(v)

	kind, err := action.ParseKind(args[0])
	if err != nil {
		return err
	}
	interactive := logging.IsTTY(os.Stdin)
	text, err := readInput(args[1:], os.Stdin, interactive)
	if err != nil {
		return err
	}

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var picker action.LanguagePicker
	if interactive {
		picker = dialog.Terminal{Out: os.Stderr}
	}

	socket := v.GetString("socket")
	var out action.Outcome
	if !v.GetBool("local") && ipc.IsRunning(socket) {
		if kind == action.Translate && target == nil && picker != nil {
			l, err := picker.Pick(ctx, action.Languages, preselected)
			if errors.Is(err, action.ErrCancelled) {
				fmt.Println(dialog.RenderOutcome(action.Outcome{Kind: kind, Cancelled: true}))
				return nil
			}
			if err != nil {
				return err
			}
			target = &l
		}
		out, err = actRemote(ctx, socket, kind, text, target)
	} else {
		out, err = actLocal(ctx, v, kind, text, target, picker, preselected)
	}
	if err != nil {
		return err
	}

	fmt.Println(dialog.RenderOutcome(out))
	if out.Failed() {
		return out.Err
	}
	if v.GetBool("copy") && !out.Cancelled {
		if err := clip.NewWriter().Write(out.Text); err != nil {
			return err
		}
		slog.Debug("result copied to clipboard", "len", len(out.Text))
	}
	return nil
}

// actRemote asks the daemon to run the action. Empty text means the
// daemon's clipboard snapshot.
func actRemote(ctx context.Context, socket string, kind action.Kind, text string, target *action.Language) (action.Outcome, error) {
	client, err := dialDaemon(socket)
	if err != nil {
		return action.Outcome{}, err
	}
	defer client.Close()

	req := &control.ActRequest{Action: kind.String(), Text: text}
	if target != nil {
		req.Language = target.Code
	}
	resp, err := client.Act(ctx, req)
	if err != nil {
		return action.Outcome{}, fmt.Errorf("act: %w", err)
	}
	return outcomeFrom(kind, resp), nil
}

func actLocal(ctx context.Context, v *viper.Viper, kind action.Kind, text string, target *action.Language, picker action.LanguagePicker, preselected action.Language) (action.Outcome, error) {
	if text == "" {
		reader, err := clip.NewReader(v.GetString("clipboard"), v.GetDuration("read-timeout"))
		if err != nil {
			return action.Outcome{}, err
		}
		res := reader.Read(ctx)
		if res.Outcome != clip.OK && res.Outcome != clip.Empty {
			return action.Outcome{}, fmt.Errorf("read clipboard (%s): %s: %w", reader.Name(), res.Outcome, res.Err)
		}
		text = res.Text
	}

	d := action.NewDispatcher(llm.New(llmConfig(v)), picker, preselected, action.ParseLength(v.GetString("summary-length")))
	if target != nil {
		return d.DispatchTo(ctx, kind, text, *target), nil
	}
	return d.Dispatch(ctx, kind, text), nil
}

func outcomeFrom(kind action.Kind, r *control.ActResponse) action.Outcome {
	o := action.Outcome{
		Kind:      kind,
		Title:     r.Title,
		Text:      r.Text,
		Cancelled: r.Cancelled,
		Elapsed:   r.Elapsed,
	}
	if l, ok := action.LookupLanguage(r.Language); ok {
		o.Language = l
	}
	if r.Error != "" {
		o.Err = errors.New(r.Error)
	}
	return o
}

// fmtElapsed rounds d for display.
func fmtElapsed(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
