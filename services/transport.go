package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"learnbot/models"
	"learnbot/utils"
)

const (
	noReplyMessage    = "I'm not sure how to respond. Can you try asking differently?"
	blankReplyMessage = "I'm thinking... Could you rephrase that?"
)

// DialogueClient posts learner messages to the dialogue endpoint.
type DialogueClient struct {
	url        string
	httpClient *http.Client
	logger     *utils.Logger
}

// NewDialogueClient creates a client for the endpoint at url.
func NewDialogueClient(url string, timeout time.Duration, logger *utils.Logger) *DialogueClient {
	if url == "" {
		url = "http://localhost:5005/webhooks/rest/webhook"
	}
	if timeout <= 0 {
		timeout = 140 * time.Second
	}
	if logger == nil {
		logger = utils.NopLogger()
	}
	return &DialogueClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Send posts one message with the sender's preference context and returns
// the reply texts joined with newlines. Failures are *TransportError.
func (c *DialogueClient) Send(ctx context.Context, sender, message string, prefs models.Preferences) (string, error) {
	body, err := json.Marshal(models.WebhookRequest{
		Sender:  sender,
		Message: message,
		Context: models.ContextFromPreferences(prefs),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("dialogue endpoint unreachable", "sender", sender, "error", err, "elapsed", time.Since(start))
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.logger.Warn("dialogue endpoint returned error", "sender", sender, "status", resp.StatusCode)
		return "", &TransportError{StatusCode: resp.StatusCode}
	}

	var replies []models.WebhookMessage
	if err := json.NewDecoder(resp.Body).Decode(&replies); err != nil {
		return "", &TransportError{Err: fmt.Errorf("malformed reply: %w", err)}
	}
	c.logger.Debug("dialogue reply", "sender", sender, "messages", len(replies), "elapsed", time.Since(start))
	return JoinReplies(replies), nil
}

// JoinReplies concatenates the non-blank reply texts. An empty list and a
// list of blank texts get their own fallback messages.
func JoinReplies(replies []models.WebhookMessage) string {
	if len(replies) == 0 {
		return noReplyMessage
	}
	texts := make([]string, 0, len(replies))
	for _, r := range replies {
		if strings.TrimSpace(r.Text) != "" {
			texts = append(texts, r.Text)
		}
	}
	if len(texts) == 0 {
		return blankReplyMessage
	}
	return strings.Join(texts, "\n")
}
