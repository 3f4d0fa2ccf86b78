package controllers

import (
	"encoding/json"
	"net/http"

	"learnbot/models"
)

// WebhookHandler is the dialogue endpoint: it takes {sender, message,
// context} and answers with a list of {text} bubbles.
func (c *Controller) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	var req models.WebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if req.Sender == "" {
		req.Sender = "default"
	}

	replies := c.dispatcher.Handle(r.Context(), req)
	if replies == nil {
		replies = []models.WebhookMessage{}
	}
	writeJSON(w, http.StatusOK, replies)
}
