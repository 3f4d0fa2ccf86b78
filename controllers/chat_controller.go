package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"learnbot/models"
	"learnbot/services"
)

// ChatHandler runs one submit cycle. A request without session_id starts
// a new session.
func (c *Controller) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}
	if req.SessionID == "" {
		req.SessionID = c.sessions.NewSession()
	}

	reply, err := c.chatbot.Submit(r.Context(), req.SessionID, req.Message)
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "Session not found")
		return
	case errors.Is(err, services.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "Message cannot be empty")
		return
	case err != nil:
		c.logger.Error("chat submit failed", "session_id", req.SessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	history, _ := c.sessions.History(req.SessionID)
	writeJSON(w, http.StatusOK, models.ChatResponse{
		BaseResponse: models.OK(),
		Message:      reply,
		SessionID:    req.SessionID,
		History:      history,
	})
}
