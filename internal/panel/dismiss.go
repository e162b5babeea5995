package panel

import (
	"sync"
	"time"
)

// DefaultDismiss is how long a surface that cannot see focus changes waits
// for a choice before it reports focus loss.
const DefaultDismiss = 10 * time.Second

// DismissTimer stands in for focus tracking on surfaces that have none, such
// as a tray menu or the log. The surface arms it when mapped and stops it
// when unmapped. If it runs out first, fire is called as if focus had left
// the panel. A nil DismissTimer does nothing.
type DismissTimer struct {
	mu    sync.Mutex
	after time.Duration
	fire  func()
	timer *time.Timer
}

// NewDismissTimer returns a timer that calls fire after the panel has been
// mapped for after. A non-positive after disables it.
func NewDismissTimer(after time.Duration, fire func()) *DismissTimer {
	return &DismissTimer{after: after, fire: fire}
}

// SetFunc replaces the function called on expiry.
func (d *DismissTimer) SetFunc(fire func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fire = fire
}

// Arm starts the countdown, restarting it if it is already running.
func (d *DismissTimer) Arm() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.after <= 0 {
		return
	}
	var t *time.Timer
	t = time.AfterFunc(d.after, func() {
		d.mu.Lock()
		current := d.timer == t
		if current {
			d.timer = nil
		}
		fire := d.fire
		d.mu.Unlock()
		// A timer replaced by a later Arm or Stop must stay quiet.
		if current && fire != nil {
			fire()
		}
	})
	d.timer = t
}

// Stop cancels a running countdown.
func (d *DismissTimer) Stop() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
