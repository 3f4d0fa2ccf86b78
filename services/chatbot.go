package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"learnbot/models"
	"learnbot/utils"
)

// ErrEmptyMessage is returned when a front end submits blank text.
var ErrEmptyMessage = errors.New("message is empty")

// MessageSender delivers one learner message to the dialogue side and
// returns the joined reply text.
type MessageSender interface {
	Send(ctx context.Context, sender, message string, prefs models.Preferences) (string, error)
}

// Send lets the dispatcher stand in for a remote dialogue endpoint.
func (d *Dispatcher) Send(ctx context.Context, sender, message string, prefs models.Preferences) (string, error) {
	return JoinReplies(d.Handle(ctx, models.WebhookRequest{
		Sender:  sender,
		Message: message,
		Context: models.ContextFromPreferences(prefs),
	})), nil
}

// Chatbot runs the submit cycle shared by every front end: record the
// learner's turn, ask the dialogue side, record the reply.
type Chatbot struct {
	sessions  *SessionStore
	sender    MessageSender
	startTime time.Time
	logger    *utils.Logger
}

// NewChatbot creates a chatbot over sessions and sender.
func NewChatbot(sessions *SessionStore, sender MessageSender, logger *utils.Logger) *Chatbot {
	if logger == nil {
		logger = utils.NopLogger()
	}
	return &Chatbot{
		sessions:  sessions,
		sender:    sender,
		startTime: time.Now(),
		logger:    logger,
	}
}

// Sessions exposes the store the chatbot writes to.
func (c *Chatbot) Sessions() *SessionStore { return c.sessions }

// Submit processes one message for sessionID and returns the bot reply.
// Delivery failures become the reply text; only validation errors and
// unknown sessions are returned as errors, and those leave history as is.
func (c *Chatbot) Submit(ctx context.Context, sessionID, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}
	session, err := c.sessions.Get(sessionID)
	if err != nil {
		return "", err
	}

	if err := session.Append(models.RoleUser, text); err != nil {
		return "", err
	}

	start := time.Now()
	reply, err := c.sender.Send(ctx, sessionID, text, session.Preferences())
	if err != nil {
		c.logger.Warn("dialogue request failed", "session_id", sessionID, "error", err, "elapsed", time.Since(start))
		reply = UserMessage(err, "")
	} else {
		c.logger.Info("dialogue reply received", "session_id", sessionID, "elapsed", time.Since(start))
	}

	if err := session.Append(models.RoleBot, reply); err != nil {
		return "", err
	}
	return reply, nil
}

// GetStatus returns the status of the chatbot
func (c *Chatbot) GetStatus() map[string]interface{} {
	return map[string]interface{}{
		"status":          "running",
		"uptime":          time.Since(c.startTime).Round(time.Second).String(),
		"active_sessions": c.sessions.Count(),
	}
}
