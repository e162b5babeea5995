package control

import (
	"time"

	"go.klb.dev/textassist/internal/action"
	"go.klb.dev/textassist/internal/monitor"
	"go.klb.dev/textassist/internal/session"
)

type StatusRequest struct{}

type StatusResponse struct {
	Status monitor.Status `json:"status"`
}

type HistoryRequest struct {
	Limit int `json:"limit,omitempty"`
}

type HistoryResponse struct {
	Entries []session.Entry `json:"entries"`
}

// ActRequest names the action by its command-line name ("translate",
// "summarize", "format") and the language by code or display name.
type ActRequest struct {
	Action   string `json:"action"`
	Text     string `json:"text,omitempty"`
	Language string `json:"language,omitempty"`
}

type ActResponse struct {
	Action    string        `json:"action"`
	Title     string        `json:"title"`
	Language  string        `json:"language,omitempty"`
	Text      string        `json:"text,omitempty"`
	Error     string        `json:"error,omitempty"`
	Cancelled bool          `json:"cancelled,omitempty"`
	Elapsed   time.Duration `json:"elapsed"`
}

func actResponse(o action.Outcome) *ActResponse {
	r := &ActResponse{
		Action:    o.Kind.String(),
		Title:     o.Title,
		Language:  o.Language.Name,
		Text:      o.Text,
		Cancelled: o.Cancelled,
		Elapsed:   o.Elapsed,
	}
	if o.Err != nil {
		r.Error = o.Err.Error()
	}
	return r
}

type PauseRequest struct{}

type ResumeRequest struct{}
