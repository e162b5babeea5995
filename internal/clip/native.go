//go:build linux || darwin || windows

package clip

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

// nativeInit calls clipboard.Init once per process. It is deferred until a
// native reader or writer is used so that CLI sub-commands on headless
// systems don't trip over a missing display.
func nativeInit() error {
	initOnce.Do(func() {
		initErr = clipboard.Init()
	})
	return initErr
}

// Native reads the clipboard in-process through golang.design/x/clipboard.
//
// clipboard.Read cannot be interrupted. A read that outlives its timeout
// keeps running in the background, and later reads report Timeout straight
// away until it returns, so a hung clipboard owner costs one goroutine.
type Native struct {
	timeout time.Duration
	setup   func() error
	read    func() []byte
	busy    atomic.Bool
}

// NewNative returns the in-process reader.
func NewNative(timeout time.Duration) *Native {
	return &Native{
		timeout: timeout,
		setup:   nativeInit,
		read:    func() []byte { return clipboard.Read(clipboard.FmtText) },
	}
}

func (n *Native) Name() string { return "native" }

// SetTimeout changes the bound on future reads.
func (n *Native) SetTimeout(d time.Duration) { n.timeout = d }

func (n *Native) Read(ctx context.Context) Result {
	if err := n.setup(); err != nil {
		return Result{Outcome: ToolMissing, Err: fmt.Errorf("native clipboard: %w: %v", ErrToolMissing, err)}
	}

	if !n.busy.CompareAndSwap(false, true) {
		return Result{Outcome: Timeout, Err: errors.New("native clipboard: previous read still in progress")}
	}
	done := make(chan []byte, 1)
	go func() {
		defer n.busy.Store(false)
		done <- n.read()
	}()

	timer := time.NewTimer(n.timeout)
	defer timer.Stop()
	select {
	case b := <-done:
		text := strings.TrimSpace(string(b))
		if text == "" {
			return Result{Outcome: Empty}
		}
		return Result{Outcome: OK, Text: text}
	case <-timer.C:
		return Result{Outcome: Timeout, Err: fmt.Errorf("native clipboard read timed out after %s", n.timeout)}
	case <-ctx.Done():
		return Result{Outcome: Failed, Err: ctx.Err()}
	}
}

func nativeWrite(text string) error {
	if err := nativeInit(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
