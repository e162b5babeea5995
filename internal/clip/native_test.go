//go:build linux || darwin || windows

package clip

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestNativeSkipsWhileReadInFlight(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	n := &Native{
		timeout: 20 * time.Millisecond,
		setup:   func() error { return nil },
		read: func() []byte {
			calls.Add(1)
			<-release
			return []byte(" hello ")
		},
	}

	if res := n.Read(context.Background()); res.Outcome != Timeout {
		t.Fatalf("first read = %v, want Timeout", res.Outcome)
	}
	start := time.Now()
	if res := n.Read(context.Background()); res.Outcome != Timeout {
		t.Fatalf("second read = %v, want Timeout", res.Outcome)
	}
	if d := time.Since(start); d > 10*time.Millisecond {
		t.Errorf("read behind a hung one waited %s", d)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("clipboard read %d times, want 1 while the first is hung", got)
	}

	close(release)
	deadline := time.Now().Add(time.Second)
	for n.busy.Load() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	res := n.Read(context.Background())
	if res.Outcome != OK || res.Text != "hello" {
		t.Errorf("read after release = %v %q, want OK \"hello\"", res.Outcome, res.Text)
	}
}
