package session

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"go.klb.dev/textassist/internal/action"
)

func entry(n int) Entry {
	return Entry{ID: fmt.Sprint(n), Input: fmt.Sprint("text ", n)}
}

func TestHistoryNewestFirst(t *testing.T) {
	h := NewHistory(5)
	for i := 1; i <= 3; i++ {
		h.Add(entry(i))
	}
	got := h.List(0)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"3", "2", "1"} {
		if got[i].ID != want {
			t.Errorf("got[%d] = %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestHistoryEvictsOldest(t *testing.T) {
	h := NewHistory(3)
	for i := 1; i <= 7; i++ {
		h.Add(entry(i))
	}
	if h.Len() != 3 {
		t.Fatalf("Len = %d, want 3", h.Len())
	}
	got := h.List(0)
	for i, want := range []string{"7", "6", "5"} {
		if got[i].ID != want {
			t.Errorf("got[%d] = %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestHistoryLimit(t *testing.T) {
	h := NewHistory(0)
	for i := 1; i <= DefaultSize+10; i++ {
		h.Add(entry(i))
	}
	if h.Len() != DefaultSize {
		t.Errorf("Len = %d, want %d", h.Len(), DefaultSize)
	}
	got := h.List(2)
	if len(got) != 2 || got[0].ID != fmt.Sprint(DefaultSize+10) {
		t.Errorf("List(2) = %+v", got)
	}
}

func TestNewEntry(t *testing.T) {
	start := time.Now()
	e := NewEntry("panel", "in", action.Outcome{
		Kind:    action.Summarize,
		Title:   "Summary",
		Err:     errors.New("quota"),
		Elapsed: time.Second,
	}, start)
	if e.ID == "" || e.Kind != "summarize" || e.Error != "quota" || e.Duration != time.Second {
		t.Errorf("entry = %+v", e)
	}
	if e.Source != "panel" || !e.StartedAt.Equal(start) {
		t.Errorf("entry = %+v", e)
	}
}
