package llm

import (
	"context"
	"fmt"
	"strings"

	"go.klb.dev/textassist/internal/action"
)

// Simulated answers without a network call. Output is deterministic.
type Simulated struct{}

func (Simulated) Translate(_ context.Context, text, code string) (string, error) {
	return fmt.Sprintf("(Simulated) Translated to %s: '%s'", code, text), nil
}

func (Simulated) Summarize(_ context.Context, text string, length action.Length) (string, error) {
	l := string(length)
	if l == "" {
		l = string(action.Medium)
	}
	return fmt.Sprintf("(Simulated) %s summary of: '%s'", strings.ToUpper(l[:1])+l[1:], text), nil
}

func (Simulated) Reformat(_ context.Context, text string) (string, error) {
	return fmt.Sprintf("(Simulated) Improved formatting for: '%s'\n- Example bullet point 1\n- Example bullet point 2", text), nil
}
