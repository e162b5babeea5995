package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/openai/openai-go/v2/option"

	"go.klb.dev/textassist/internal/action"
)

type request struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// fakeServer answers chat completions with reply and records the last
// request body.
func fakeServer(t *testing.T, status int, reply string, got *request) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		body, _ := io.ReadAll(r.Body)
		if got != nil {
			if err := json.Unmarshal(body, got); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			io.WriteString(w, `{"error":{"message":"quota exceeded","type":"rate_limit"}}`)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gemini-2.0-flash",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClient(url string) *Client {
	return NewClient(Config{
		APIKey:  "test-key",
		BaseURL: url + "/",
		Timeout: 5 * time.Second,
		Options: []option.RequestOption{option.WithMaxRetries(0)},
	})
}

func TestTranslate(t *testing.T) {
	var got request
	srv := fakeServer(t, http.StatusOK, "  Olá, mundo  \n", &got)
	c := testClient(srv.URL)

	out, err := c.Translate(context.Background(), "Hello, world", "pt-BR")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "Olá, mundo" {
		t.Errorf("out = %q, want trimmed reply", out)
	}
	if got.Model != DefaultModel {
		t.Errorf("model = %q", got.Model)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Fatalf("messages = %+v", got.Messages)
	}
	if p := got.Messages[0].Content; !strings.Contains(p, "into pt-BR") || !strings.Contains(p, "Hello, world") {
		t.Errorf("prompt = %q", p)
	}
}

func TestSummarizePrompts(t *testing.T) {
	tests := []struct {
		length action.Length
		want   string
	}{
		{action.Short, "one or two concise sentences"},
		{action.Medium, "a few sentences"},
		{action.Long, "detailed summary"},
	}
	for _, tt := range tests {
		t.Run(string(tt.length), func(t *testing.T) {
			var got request
			srv := fakeServer(t, http.StatusOK, "sum", &got)
			if _, err := testClient(srv.URL).Summarize(context.Background(), "text", tt.length); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(got.Messages[0].Content, tt.want) {
				t.Errorf("prompt = %q, want it to contain %q", got.Messages[0].Content, tt.want)
			}
		})
	}
}

func TestReformatPrompt(t *testing.T) {
	var got request
	srv := fakeServer(t, http.StatusOK, "- a\n- b", &got)
	out, err := testClient(srv.URL).Reformat(context.Background(), "a.b")
	if err != nil {
		t.Fatal(err)
	}
	if out != "- a\n- b" {
		t.Errorf("out = %q", out)
	}
	if !strings.Contains(got.Messages[0].Content, "Return only the improved text") {
		t.Errorf("prompt = %q", got.Messages[0].Content)
	}
}

func TestPromptsKeepTextVerbatim(t *testing.T) {
	text := "Item one\nItem two\n\tsaid \"hi\" café"
	calls := map[string]func(*Client) error{
		"translate": func(c *Client) error {
			_, err := c.Translate(context.Background(), text, "fr")
			return err
		},
		"summarize": func(c *Client) error {
			_, err := c.Summarize(context.Background(), text, action.Medium)
			return err
		},
		"format": func(c *Client) error {
			_, err := c.Reformat(context.Background(), text)
			return err
		},
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			var got request
			srv := fakeServer(t, http.StatusOK, "ok", &got)
			if err := call(testClient(srv.URL)); err != nil {
				t.Fatal(err)
			}
			if p := got.Messages[0].Content; !strings.Contains(p, `"`+text+`"`) {
				t.Errorf("prompt does not carry the text verbatim: %q", p)
			}
		})
	}
}

func TestServerError(t *testing.T) {
	srv := fakeServer(t, http.StatusTooManyRequests, "", nil)
	_, err := testClient(srv.URL).Reformat(context.Background(), "x")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "llm format") {
		t.Errorf("err = %v, want op prefix", err)
	}
}

func TestNotConfigured(t *testing.T) {
	c := NewClient(Config{})
	if c.Configured() {
		t.Fatal("Configured() = true without a key")
	}
	if _, err := c.Translate(context.Background(), "x", "en"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestSimulated(t *testing.T) {
	a := New(Config{Simulate: true})
	out, err := a.Summarize(context.Background(), "hi", action.Short)
	if err != nil || out != "(Simulated) Short summary of: 'hi'" {
		t.Errorf("Summarize = %q, %v", out, err)
	}
	out, _ = a.Translate(context.Background(), "hi", "fr")
	if out != "(Simulated) Translated to fr: 'hi'" {
		t.Errorf("Translate = %q", out)
	}
}
