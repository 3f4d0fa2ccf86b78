// Package tui provides the Bubble Tea terminal front end.
package tui

// ReplyReceived is sent when a submission finishes.
type ReplyReceived struct {
	Text  string
	Reply string
	Err   error
	// Resumed marks a resend on a fresh session after the old one expired.
	Resumed bool
}
