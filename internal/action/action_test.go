package action

import (
	"context"
	"errors"
	"testing"
)

type fakeAssistant struct {
	calls []string
	lang  string
	length Length
	err   error
}

func (f *fakeAssistant) Translate(_ context.Context, text, code string) (string, error) {
	f.calls = append(f.calls, "translate")
	f.lang = code
	return "T:" + text, f.err
}

func (f *fakeAssistant) Summarize(_ context.Context, text string, l Length) (string, error) {
	f.calls = append(f.calls, "summarize")
	f.length = l
	return "S:" + text, f.err
}

func (f *fakeAssistant) Reformat(_ context.Context, text string) (string, error) {
	f.calls = append(f.calls, "format")
	return "F:" + text, f.err
}

type fakePicker struct {
	answer      Language
	err         error
	calls       int
	preselected Language
}

func (p *fakePicker) Pick(_ context.Context, _ []Language, pre Language) (Language, error) {
	p.calls++
	p.preselected = pre
	return p.answer, p.err
}

func TestDispatchTitles(t *testing.T) {
	french, _ := LookupLanguage("fr")
	tests := []struct {
		kind  Kind
		title string
		text  string
		call  string
	}{
		{Translate, "Translation to French", "T:hello", "translate"},
		{Summarize, "Summary", "S:hello", "summarize"},
		{Format, "Formatted Text", "F:hello", "format"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			a := &fakeAssistant{}
			d := NewDispatcher(a, &fakePicker{answer: french}, Language{}, Medium)
			out := d.Dispatch(context.Background(), tt.kind, "hello")
			if out.Err != nil || out.Cancelled {
				t.Fatalf("outcome = %+v", out)
			}
			if out.Title != tt.title {
				t.Errorf("title = %q, want %q", out.Title, tt.title)
			}
			if out.Text != tt.text {
				t.Errorf("text = %q, want %q", out.Text, tt.text)
			}
			if out.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", out.Kind, tt.kind)
			}
			if len(a.calls) != 1 || a.calls[0] != tt.call {
				t.Errorf("calls = %v", a.calls)
			}
		})
	}
}

func TestDispatchEmptyText(t *testing.T) {
	a := &fakeAssistant{}
	p := &fakePicker{}
	d := NewDispatcher(a, p, Language{}, Medium)
	for _, k := range Kinds {
		out := d.Dispatch(context.Background(), k, "  \n")
		if !errors.Is(out.Err, ErrNoText) {
			t.Errorf("%v: err = %v, want ErrNoText", k, out.Err)
		}
	}
	if len(a.calls) != 0 || p.calls != 0 {
		t.Errorf("capabilities called for empty text: assistant=%v picker=%d", a.calls, p.calls)
	}
}

func TestTranslateCancelled(t *testing.T) {
	a := &fakeAssistant{}
	d := NewDispatcher(a, &fakePicker{err: ErrCancelled}, Language{}, Medium)
	out := d.Dispatch(context.Background(), Translate, "hello")
	if !out.Cancelled {
		t.Fatalf("Cancelled = false, outcome %+v", out)
	}
	if out.Err != nil || out.Failed() {
		t.Errorf("cancel should not be an error: %v", out.Err)
	}
	if len(a.calls) != 0 {
		t.Errorf("assistant called after cancel: %v", a.calls)
	}
}

func TestTranslatePickerError(t *testing.T) {
	boom := errors.New("zenity crashed")
	d := NewDispatcher(&fakeAssistant{}, &fakePicker{err: boom}, Language{}, Medium)
	out := d.Dispatch(context.Background(), Translate, "hello")
	if !errors.Is(out.Err, boom) {
		t.Errorf("err = %v, want wrapped %v", out.Err, boom)
	}
}

func TestTranslateRemembersLanguage(t *testing.T) {
	german, _ := LookupLanguage("German")
	p := &fakePicker{answer: german}
	a := &fakeAssistant{}
	d := NewDispatcher(a, p, Language{}, Medium)

	d.Dispatch(context.Background(), Translate, "one")
	if p.preselected != DefaultLanguage {
		t.Errorf("first preselected = %v, want %v", p.preselected, DefaultLanguage)
	}
	if a.lang != "de" {
		t.Errorf("translated to %q, want de", a.lang)
	}

	d.Dispatch(context.Background(), Translate, "two")
	if p.preselected != german {
		t.Errorf("second preselected = %v, want %v", p.preselected, german)
	}
}

func TestDispatchToSkipsPicker(t *testing.T) {
	ja, _ := LookupLanguage("ja")
	p := &fakePicker{err: ErrCancelled}
	a := &fakeAssistant{}
	d := NewDispatcher(a, p, Language{}, Medium)

	out := d.DispatchTo(context.Background(), Translate, "hello", ja)
	if p.calls != 0 {
		t.Errorf("picker called %d times", p.calls)
	}
	if out.Title != "Translation to Japanese" || a.lang != "ja" {
		t.Errorf("title %q lang %q", out.Title, a.lang)
	}
	if d.Preselected() != DefaultLanguage {
		t.Errorf("explicit language should not change the preselection")
	}
}

func TestAssistantErrorKeepsTitle(t *testing.T) {
	boom := errors.New("quota")
	d := NewDispatcher(&fakeAssistant{err: boom}, nil, Language{}, Long)
	out := d.Dispatch(context.Background(), Summarize, "hello")
	if !errors.Is(out.Err, boom) || out.Title != "Summary" {
		t.Errorf("outcome = %+v", out)
	}
}

func TestSummarizeLength(t *testing.T) {
	a := &fakeAssistant{}
	d := NewDispatcher(a, nil, Language{}, ParseLength("bogus"))
	d.Dispatch(context.Background(), Summarize, "hello")
	if a.length != Medium {
		t.Errorf("length = %q, want medium", a.length)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("explode"); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestLookupLanguage(t *testing.T) {
	tests := []struct {
		in   string
		code string
		ok   bool
	}{
		{"pt-BR", "pt-BR", true},
		{"brazilian portuguese", "pt-BR", true},
		{" ZH-cn ", "zh-CN", true},
		{"Klingon", "", false},
	}
	for _, tt := range tests {
		l, ok := LookupLanguage(tt.in)
		if ok != tt.ok || l.Code != tt.code {
			t.Errorf("LookupLanguage(%q) = %v, %v", tt.in, l, ok)
		}
	}
}
