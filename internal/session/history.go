// Package session keeps the in-memory record of actions run during one
// daemon session.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"go.klb.dev/textassist/internal/action"
)

// DefaultSize is the number of entries kept when no size is configured.
const DefaultSize = 50

// Entry records one finished action.
type Entry struct {
	ID        string        `json:"id"`
	Kind      string        `json:"kind"`
	Title     string        `json:"title"`
	Input     string        `json:"input"`
	Output    string        `json:"output,omitempty"`
	Error     string        `json:"error,omitempty"`
	Cancelled bool          `json:"cancelled,omitempty"`
	Source    string        `json:"source"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// NewEntry builds an Entry from a dispatch outcome.
func NewEntry(source, input string, o action.Outcome, started time.Time) Entry {
	e := Entry{
		ID:        uuid.NewString(),
		Kind:      o.Kind.String(),
		Title:     o.Title,
		Input:     input,
		Output:    o.Text,
		Cancelled: o.Cancelled,
		Source:    source,
		StartedAt: started,
		Duration:  o.Elapsed,
	}
	if o.Err != nil {
		e.Error = o.Err.Error()
	}
	return e
}

// History is a fixed-size ring of entries. Safe for concurrent use.
type History struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

// NewHistory returns a History holding at most size entries.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultSize
	}
	return &History{entries: make([]Entry, size)}
}

// Add records e, evicting the oldest entry when full.
func (h *History) Add(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.next] = e
	h.next = (h.next + 1) % len(h.entries)
	if h.next == 0 {
		h.full = true
	}
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.full {
		return len(h.entries)
	}
	return h.next
}

// List returns up to limit entries, newest first. limit <= 0 means all.
func (h *History) List(limit int) []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := h.next
	if h.full {
		n = len(h.entries)
	}
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, 0, n)
	for i := 1; i <= n; i++ {
		idx := (h.next - i + len(h.entries)) % len(h.entries)
		out = append(out, h.entries[idx])
	}
	return out
}
