package main

import (
	"strings"
	"testing"
	"time"

	"go.klb.dev/textassist/internal/action"
	"go.klb.dev/textassist/internal/control"
	"go.klb.dev/textassist/internal/session"
)

func TestReadInput(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
		tty   bool
		want  string
	}{
		{"args joined", []string{"hello", "world"}, "", true, "hello world"},
		{"dash reads stdin", []string{"-"}, "  piped\n", true, "piped"},
		{"pipe without args", nil, "from pipe\n", false, "from pipe"},
		{"tty without args", nil, "ignored", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readInput(tt.args, strings.NewReader(tt.stdin), tt.tty)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("readInput = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutcomeFrom(t *testing.T) {
	o := outcomeFrom(action.Translate, &control.ActResponse{
		Action:   "translate",
		Title:    "Translation to French",
		Language: "French",
		Text:     "bonjour",
		Elapsed:  time.Second,
	})
	if o.Failed() || o.Text != "bonjour" || o.Language.Code != "fr" {
		t.Errorf("outcome = %+v", o)
	}

	o = outcomeFrom(action.Summarize, &control.ActResponse{Title: "Summary", Error: "boom"})
	if !o.Failed() || o.Err.Error() != "boom" {
		t.Errorf("outcome = %+v, want failure", o)
	}
}

func TestFmtAge(t *testing.T) {
	if got := fmtAge(time.Time{}); got != "-" {
		t.Errorf("zero time = %q", got)
	}
	if got := fmtAge(time.Now().Add(-5 * time.Second)); got != "5s ago" {
		t.Errorf("5s = %q", got)
	}
	if got := fmtAge(time.Now().Add(-3 * time.Minute)); got != "3m ago" {
		t.Errorf("3m = %q", got)
	}
}

func TestEntryResult(t *testing.T) {
	if got := entryResult(session.Entry{Cancelled: true}); got != "(cancelled)" {
		t.Errorf("cancelled = %q", got)
	}
	if got := entryResult(session.Entry{Error: "quota"}); got != "error: quota" {
		t.Errorf("error = %q", got)
	}
	if got := entryResult(session.Entry{Output: "line one\nline two"}); got != "line one line two" {
		t.Errorf("output = %q", got)
	}
}
