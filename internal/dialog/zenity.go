package dialog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"go.klb.dev/textassist/internal/action"
)

// zenity exit codes.
const (
	exitCancel  = 1
	exitTimeout = 5
)

// Zenity shows GTK dialogs by running the zenity binary. When zenity is not
// installed, notices fall back to Fallback and the picker returns the
// preselected language.
type Zenity struct {
	Bin      string
	Fallback Notifier
}

// NewZenity returns a Zenity with a desktop notification fallback.
func NewZenity() *Zenity {
	return &Zenity{Bin: "zenity", Fallback: Desktop{}}
}

// Available reports whether the zenity binary can be found.
func (z *Zenity) Available() bool {
	_, err := exec.LookPath(z.bin())
	return err == nil
}

func (z *Zenity) bin() string {
	if z.Bin == "" {
		return "zenity"
	}
	return z.Bin
}

// Pick implements action.LanguagePicker with a radio list.
func (z *Zenity) Pick(ctx context.Context, languages []action.Language, preselected action.Language) (action.Language, error) {
	if !z.Available() {
		slog.Warn("zenity not found, using preselected language", "language", preselected.Name)
		return preselected, nil
	}
	out, err := z.run(ctx, pickerArgs(languages, preselected), "")
	if err != nil {
		return action.Language{}, err
	}
	return parsePicked(out, languages)
}

func (z *Zenity) Result(ctx context.Context, title, text string) error {
	if !z.Available() {
		return z.fallback().Result(ctx, title, text)
	}
	_, err := z.run(ctx, resultArgs(title), text)
	if errors.Is(err, action.ErrCancelled) {
		return nil
	}
	return err
}

func (z *Zenity) Error(ctx context.Context, title string, err error) error {
	if !z.Available() {
		return z.fallback().Error(ctx, title, err)
	}
	_, rerr := z.run(ctx, noticeArgs("--error", title, err.Error()), "")
	if errors.Is(rerr, action.ErrCancelled) {
		return nil
	}
	return rerr
}

func (z *Zenity) Fatal(ctx context.Context, title, msg string) error {
	if !z.Available() {
		return z.fallback().Fatal(ctx, title, msg)
	}
	_, err := z.run(ctx, noticeArgs("--error", title, msg), "")
	if errors.Is(err, action.ErrCancelled) {
		return nil
	}
	return err
}

func (z *Zenity) fallback() Notifier {
	if z.Fallback == nil {
		return Log{}
	}
	return z.Fallback
}

// run executes zenity. Closing or cancelling the dialog maps to
// action.ErrCancelled.
func (z *Zenity) run(ctx context.Context, args []string, stdin string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, z.bin(), args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	err := cmd.Run()
	if err == nil {
		return strings.TrimSpace(stdout.String()), nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		switch exitErr.ExitCode() {
		case exitCancel, exitTimeout:
			return "", action.ErrCancelled
		}
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return "", fmt.Errorf("zenity: %w: %s", err, msg)
	}
	return "", fmt.Errorf("zenity: %w", err)
}

func pickerArgs(languages []action.Language, preselected action.Language) []string {
	args := []string{
		"--list", "--radiolist",
		"--title=Select Target Language",
		"--text=Translate to:",
		"--column=", "--column=Language",
		"--width=300", "--height=380",
	}
	for _, l := range languages {
		mark := "FALSE"
		if l.Code == preselected.Code {
			mark = "TRUE"
		}
		args = append(args, mark, l.Name)
	}
	return args
}

func resultArgs(title string) []string {
	return []string{"--text-info", "--title=" + title, "--width=600", "--height=400"}
}

func noticeArgs(kind, title, msg string) []string {
	return []string{kind, "--no-markup", "--title=" + title, "--text=" + msg}
}

// parsePicked maps zenity's output back to a language. An empty answer means
// the user pressed OK with nothing selected.
func parsePicked(out string, languages []action.Language) (action.Language, error) {
	if out == "" {
		return action.Language{}, action.ErrCancelled
	}
	for _, l := range languages {
		if l.Name == out {
			return l, nil
		}
	}
	return action.Language{}, fmt.Errorf("zenity returned unknown language %q", out)
}
