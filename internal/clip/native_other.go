//go:build !linux && !darwin && !windows

package clip

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var errHeadless = errors.New("no native clipboard on this platform")

// Native is a headless stub; every read reports a missing tool.
type Native struct{}

// NewNative returns the headless stub.
func NewNative(_ time.Duration) *Native { return &Native{} }

func (n *Native) Name() string { return "headless (no-op)" }

func (n *Native) SetTimeout(time.Duration) {}

func (n *Native) Read(_ context.Context) Result {
	return Result{Outcome: ToolMissing, Err: fmt.Errorf("%w: %v", ErrToolMissing, errHeadless)}
}

func nativeWrite(_ string) error { return errHeadless }
