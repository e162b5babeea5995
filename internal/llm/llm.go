// Package llm implements the text assistant over an OpenAI-compatible chat
// completions endpoint. The defaults point at Gemini's compatibility layer.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"go.klb.dev/textassist/internal/action"
	"go.klb.dev/textassist/internal/logging"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel   = "gemini-2.0-flash"
	DefaultTimeout = 60 * time.Second
)

// ErrNotConfigured is returned by every call when no API key is set.
var ErrNotConfigured = errors.New("llm: API key not configured")

// Config selects the endpoint and model.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
	Simulate bool

	// Options are appended to the client options; tests use them to
	// disable retries.
	Options []option.RequestOption
}

// New returns the Assistant described by cfg: the simulated one when
// Simulate is set, otherwise a Client.
func New(cfg Config) action.Assistant {
	if cfg.Simulate {
		return Simulated{}
	}
	return NewClient(cfg)
}

// Client talks to the chat completions API.
type Client struct {
	api     openai.Client
	model   string
	timeout time.Duration
	ready   bool
}

// NewClient builds a Client. A missing API key is not an error here; the
// first call reports ErrNotConfigured so the daemon can still start.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
	}
	opts = append(opts, cfg.Options...)
	return &Client{
		api:     openai.NewClient(opts...),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		ready:   cfg.APIKey != "",
	}
}

// Configured reports whether an API key was supplied.
func (c *Client) Configured() bool { return c.ready }

func (c *Client) Translate(ctx context.Context, text, languageCode string) (string, error) {
	return c.complete(ctx, "translate", translatePrompt(text, languageCode))
}

func (c *Client) Summarize(ctx context.Context, text string, length action.Length) (string, error) {
	return c.complete(ctx, "summarize", summarizePrompt(text, length))
}

func (c *Client) Reformat(ctx context.Context, text string) (string, error) {
	return c.complete(ctx, "format", formatPrompt(text))
}

func (c *Client) complete(ctx context.Context, op, prompt string) (string, error) {
	if !c.ready {
		return "", ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	slog.Debug("llm request", "op", op, "model", c.model, "prompt", logging.Preview(prompt))
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm %s: %w", op, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm %s: empty response", op)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func translatePrompt(text, code string) string {
	return fmt.Sprintf("Translate the following text into %s (be precise, if %s is 'pt-BR', use Brazilian Portuguese variant):\n\n%s", code, code, quoted(text))
}

func summarizePrompt(text string, length action.Length) string {
	switch length {
	case action.Short:
		return fmt.Sprintf("Summarize the following text in one or two concise sentences:\n\n%s", quoted(text))
	case action.Long:
		return fmt.Sprintf("Provide a detailed summary (multiple paragraphs if necessary) of the following text, capturing key points and nuances:\n\n%s", quoted(text))
	default:
		return fmt.Sprintf("Summarize the following text in a few sentences (e.g., a short paragraph):\n\n%s", quoted(text))
	}
}

func formatPrompt(text string) string {
	return "Please improve the formatting of the following text for better readability. " +
		"This might include adjusting paragraph breaks, ensuring consistent spacing, " +
		"using markdown for lists or emphasis if appropriate (like *italic* or **bold**), " +
		"and correcting any obvious formatting errors. " +
		"Return only the improved text, without any introductory phrases like 'Here is the improved text:'.\n\n" +
		"Original text:\n" + quoted(text)
}

// quoted wraps text in double quotes, leaving its line breaks and spacing
// as they are.
func quoted(text string) string {
	return `"` + text + `"`
}
