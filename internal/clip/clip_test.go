package clip

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// fakeTool installs a shell script named tool on an otherwise empty PATH.
func fakeTool(t *testing.T, tool, body string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script tools are not supported on windows")
	}
	dir := t.TempDir()
	if body != "" {
		script := "#!/bin/sh\n" + body + "\n"
		if err := os.WriteFile(filepath.Join(dir, tool), []byte(script), 0o755); err != nil {
			t.Fatalf("write fake tool: %v", err)
		}
	}
	t.Setenv("PATH", dir)
}

// sleepCmd returns a shell line that sleeps for secs. It resolves sleep
// before fakeTool narrows PATH.
func sleepCmd(t *testing.T, secs string) string {
	t.Helper()
	bin, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep not available")
	}
	return "exec " + bin + " " + secs
}

func TestCommandRead(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		timeout time.Duration
		want    Outcome
		text    string
	}{
		{name: "text is trimmed", body: `printf '  hello world \n'`, want: OK, text: "hello world"},
		{name: "blank output is empty", body: `printf '   \n'`, want: Empty},
		{name: "non-zero exit is empty", body: `echo "No selection" >&2; exit 1`, want: Empty},
		{name: "slow tool times out", body: sleepCmd(t, "5"), timeout: 100 * time.Millisecond, want: Timeout},
		{name: "missing tool", body: "", want: ToolMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeTool(t, "wl-paste", tt.body)
			timeout := tt.timeout
			if timeout == 0 {
				timeout = 2 * time.Second
			}
			r, err := NewCommand("wl-paste", timeout)
			if err != nil {
				t.Fatalf("NewCommand: %v", err)
			}

			start := time.Now()
			res := r.Read(context.Background())
			if res.Outcome != tt.want {
				t.Fatalf("outcome = %v (err %v), want %v", res.Outcome, res.Err, tt.want)
			}
			if res.Text != tt.text {
				t.Fatalf("text = %q, want %q", res.Text, tt.text)
			}
			if tt.want == ToolMissing && !errors.Is(res.Err, ErrToolMissing) {
				t.Fatalf("err = %v, want ErrToolMissing", res.Err)
			}
			if tt.want == Timeout && time.Since(start) > 2*time.Second {
				t.Fatalf("timed-out read took %s", time.Since(start))
			}
		})
	}
}

func TestCommandReadCancelled(t *testing.T) {
	slow := sleepCmd(t, "5")
	fakeTool(t, "wl-paste", slow)
	r, err := NewCommand("wl-paste", 2*time.Second)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res := r.Read(ctx)
	if res.Outcome != Failed {
		t.Fatalf("outcome = %v, want Failed when the caller gives up", res.Outcome)
	}
	if !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want the caller's context error", res.Err)
	}

	ctx, cancel = context.WithCancel(context.Background())
	cancel()
	if res := r.Read(ctx); res.Outcome != Failed {
		t.Errorf("outcome after cancel = %v, want Failed", res.Outcome)
	}
}

func TestNewCommandUnknownTool(t *testing.T) {
	if _, err := NewCommand("clipcat", time.Second); err == nil {
		t.Fatal("expected error for unknown tool")
	}
}

func TestNewReaderKnownBackends(t *testing.T) {
	for _, backend := range []string{"wl-paste", "xclip", "xsel", "pbpaste"} {
		r, err := NewReader(backend, 0)
		if err != nil {
			t.Fatalf("NewReader(%q): %v", backend, err)
		}
		if r.Name() != backend {
			t.Fatalf("Name() = %q, want %q", r.Name(), backend)
		}
	}
}

func TestOutcomeTransient(t *testing.T) {
	tests := map[Outcome]bool{
		OK:          false,
		Empty:       false,
		ToolMissing: false,
		Timeout:     true,
		Failed:      true,
	}
	for o, want := range tests {
		if got := o.Transient(); got != want {
			t.Errorf("%v.Transient() = %v, want %v", o, got, want)
		}
	}
}
