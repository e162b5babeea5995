// Package action dispatches panel actions to the text assistant.
//
// Dispatch never returns a bare error: every call ends in an Outcome that
// is either a result, an error to show the user, or a cancellation.
package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.klb.dev/textassist/internal/logging"
)

var (
	// ErrCancelled is returned by a LanguagePicker when the user backs out.
	ErrCancelled = errors.New("cancelled")
	// ErrNoText is reported when an action is chosen with nothing to act on.
	ErrNoText = errors.New("no text was provided for the action")
)

// Length hints how long a summary should be.
type Length string

const (
	Short  Length = "short"
	Medium Length = "medium"
	Long   Length = "long"
)

// ParseLength converts a config value to a Length, defaulting to Medium.
func ParseLength(s string) Length {
	switch Length(strings.ToLower(s)) {
	case Short:
		return Short
	case Long:
		return Long
	default:
		return Medium
	}
}

// Assistant is the remote capability behind the actions.
type Assistant interface {
	Translate(ctx context.Context, text, languageCode string) (string, error)
	Summarize(ctx context.Context, text string, length Length) (string, error)
	Reformat(ctx context.Context, text string) (string, error)
}

// LanguagePicker asks the user for a translation target. It blocks until
// the user answers and returns ErrCancelled if they decline.
type LanguagePicker interface {
	Pick(ctx context.Context, languages []Language, preselected Language) (Language, error)
}

// Outcome is the end of one dispatch.
type Outcome struct {
	Kind      Kind
	Title     string
	Language  Language
	Text      string
	Err       error
	Cancelled bool
	Elapsed   time.Duration
}

// Failed reports whether the outcome should be shown as an error.
func (o Outcome) Failed() bool { return o.Err != nil }

// Dispatcher routes a Kind to the matching Assistant call.
type Dispatcher struct {
	assistant Assistant
	picker    LanguagePicker
	length    Length
	lastLang  Language
}

// NewDispatcher returns a Dispatcher. preselected is the language offered
// first by the picker; it follows the user's last choice afterwards.
func NewDispatcher(assistant Assistant, picker LanguagePicker, preselected Language, length Length) *Dispatcher {
	if preselected.Code == "" {
		preselected = DefaultLanguage
	}
	return &Dispatcher{
		assistant: assistant,
		picker:    picker,
		length:    length,
		lastLang:  preselected,
	}
}

// SetPreselected changes the language the picker offers first.
func (d *Dispatcher) SetPreselected(l Language) { d.lastLang = l }

// Preselected returns the language the picker will offer first.
func (d *Dispatcher) Preselected() Language { return d.lastLang }

// Dispatch runs kind against text, asking for a language for translations.
func (d *Dispatcher) Dispatch(ctx context.Context, kind Kind, text string) Outcome {
	return d.dispatch(ctx, kind, text, nil)
}

// DispatchTo is Dispatch with the translation language already chosen.
func (d *Dispatcher) DispatchTo(ctx context.Context, kind Kind, text string, lang Language) Outcome {
	return d.dispatch(ctx, kind, text, &lang)
}

func (d *Dispatcher) dispatch(ctx context.Context, kind Kind, text string, lang *Language) Outcome {
	start := time.Now()
	out := d.run(ctx, kind, text, lang)
	out.Kind = kind
	out.Elapsed = time.Since(start)

	log := slog.With("action", kind.String(), "elapsed", out.Elapsed.Round(time.Millisecond))
	switch {
	case out.Cancelled:
		log.Info("action cancelled")
	case out.Err != nil:
		log.Warn("action failed", "err", out.Err)
	default:
		log.Info("action finished", "result", logging.Preview(out.Text))
	}
	return out
}

func (d *Dispatcher) run(ctx context.Context, kind Kind, text string, lang *Language) Outcome {
	if strings.TrimSpace(text) == "" {
		return Outcome{Title: "Error", Err: ErrNoText}
	}

	switch kind {
	case Translate:
		target, err := d.language(ctx, lang)
		if errors.Is(err, ErrCancelled) {
			return Outcome{Title: "Translation", Cancelled: true}
		}
		if err != nil {
			return Outcome{Title: "Translation", Err: fmt.Errorf("language selection: %w", err)}
		}
		res, err := d.assistant.Translate(ctx, text, target.Code)
		return Outcome{Title: "Translation to " + target.Name, Language: target, Text: res, Err: err}

	case Summarize:
		res, err := d.assistant.Summarize(ctx, text, d.length)
		return Outcome{Title: "Summary", Text: res, Err: err}

	case Format:
		res, err := d.assistant.Reformat(ctx, text)
		return Outcome{Title: "Formatted Text", Text: res, Err: err}

	default:
		return Outcome{Title: "Error", Err: fmt.Errorf("unsupported action %v", kind)}
	}
}

func (d *Dispatcher) language(ctx context.Context, lang *Language) (Language, error) {
	if lang != nil {
		return *lang, nil
	}
	if d.picker == nil {
		return d.lastLang, nil
	}
	picked, err := d.picker.Pick(ctx, Languages, d.lastLang)
	if err != nil {
		return Language{}, err
	}
	d.lastLang = picked
	return picked, nil
}
