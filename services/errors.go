package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// Error kinds. Each one is caught where it occurs and turned into a distinct
// user-facing message by UserMessage.
var (
	ErrModelUnavailable    = errors.New("generation backend unavailable")
	ErrGenerationFailed    = errors.New("generation failed")
	ErrTopicMissing        = errors.New("no topic in message")
	ErrTopicRejected       = errors.New("topic is not educational")
	ErrSearchUnavailable   = errors.New("video search unavailable")
	ErrNoSearchResults     = errors.New("video search returned no items")
	ErrNoQualifyingResults = errors.New("no video passed the educational filter")
)

// TransportError reports a failed round trip to the dialogue endpoint.
// StatusCode is zero when the request never got a response.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e == nil {
		return "dialogue transport error"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("dialogue endpoint returned status %d", e.StatusCode)
	}
	if e.Err != nil {
		return "dialogue endpoint unreachable: " + e.Err.Error()
	}
	return "dialogue transport error"
}

func (e *TransportError) Unwrap() error { return e.Err }

// UserMessage maps an error to the text shown to the learner. Raw error text
// never leaks through; unknown errors get a generic apology.
func UserMessage(err error, topic string) string {
	var terr *TransportError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &terr):
		if terr.StatusCode != 0 {
			return fmt.Sprintf("Oops! Something went wrong. Status code: %d", terr.StatusCode)
		}
		return "Network error: " + describeNetErr(terr.Err)
	case errors.Is(err, ErrTopicRejected):
		return "Sorry, I couldn't find this topic. Can you please ask some other topic that you'd like to learn about?"
	case errors.Is(err, ErrModelUnavailable):
		return "Sorry, I'm having technical difficulties. Please try again later."
	case errors.Is(err, ErrGenerationFailed):
		return "I apologize, but I couldn't generate the content at this moment."
	case errors.Is(err, ErrSearchUnavailable):
		return "Sorry, I couldn't fetch any videos at the moment."
	case errors.Is(err, ErrNoSearchResults):
		return fmt.Sprintf("Sorry, I couldn't find any tutorial videos about %s", topic)
	case errors.Is(err, ErrNoQualifyingResults):
		return fmt.Sprintf("Sorry, I couldn't find any quality tutorial videos about %s", topic)
	case errors.Is(err, ErrSessionNotFound):
		return "Your learning session has expired. Send your message again to start a new one."
	case errors.Is(err, ErrTopicMissing):
		return "I couldn't find a topic. Can you please specify what you'd like to learn about?"
	default:
		return "An unexpected error occurred. Please try again."
	}
}

// describeNetErr names the failure class without echoing internal addresses.
func describeNetErr(err error) string {
	if err == nil {
		return "the learning assistant could not be reached"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "the learning assistant took too long to answer"
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return "the learning assistant took too long to answer"
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		var operr *net.OpError
		if errors.As(uerr.Err, &operr) && operr.Op == "dial" {
			return "the learning assistant is not running"
		}
	}
	return "the learning assistant could not be reached"
}
