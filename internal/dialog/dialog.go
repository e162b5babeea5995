// Package dialog shows the user-facing dialogs: the translation language
// picker, action results, and error notices.
//
//	zenity.go  desktop dialogs through the zenity binary
//	notify.go  desktop notifications and the log-only notifier
//	term.go    terminal language picker and result rendering
package dialog

import "context"

// Notifier displays results and errors to the user.
type Notifier interface {
	// Result shows the text produced by an action.
	Result(ctx context.Context, title, text string) error
	// Error shows a recoverable failure.
	Error(ctx context.Context, title string, err error) error
	// Fatal shows a failure the program cannot recover from.
	Fatal(ctx context.Context, title, msg string) error
}
