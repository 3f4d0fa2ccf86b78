package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"learnbot/models"
	"learnbot/services"
)

// CreateSessionHandler starts a session and returns its id and defaults.
func (c *Controller) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	id := c.sessions.NewSession()
	session, err := c.sessions.Get(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not start a session")
		return
	}
	writeJSON(w, http.StatusCreated, models.SessionInfo{
		BaseResponse: models.OK(),
		SessionID:    id,
		Preferences:  session.Preferences(),
		Suggestions:  session.Suggestions(),
		CreatedAt:    session.CreatedAt(),
	})
}

// EndSessionHandler discards a session and its history.
func (c *Controller) EndSessionHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !c.sessions.End(id) {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	if c.dispatcher != nil {
		c.dispatcher.Forget(id)
	}
	writeJSON(w, http.StatusOK, models.OK())
}

// HistoryHandler returns a session's turns in order.
func (c *Controller) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	session, err := c.sessions.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, http.StatusOK, models.SessionInfo{
		BaseResponse: models.OK(),
		SessionID:    id,
		Preferences:  session.Preferences(),
		Suggestions:  session.Suggestions(),
		History:      session.History(),
		CreatedAt:    session.CreatedAt(),
	})
}

// PreferencesHandler overwrites the fields present in the body.
func (c *Controller) PreferencesHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var update models.PreferencesUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if msg := validatePreferences(update); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if _, err := c.sessions.SetPreferences(id, update); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Could not update preferences")
		return
	}
	session, err := c.sessions.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, http.StatusOK, models.SessionInfo{
		BaseResponse: models.OK(),
		SessionID:    id,
		Preferences:  session.Preferences(),
		Suggestions:  session.Suggestions(),
		CreatedAt:    session.CreatedAt(),
	})
}

// SuggestionsHandler returns example prompts for the query's preferences.
// interests may repeat or be comma separated.
func (c *Controller) SuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var interests []string
	for _, raw := range q["interests"] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				interests = append(interests, part)
			}
		}
	}
	writeJSON(w, http.StatusOK, models.SuggestionsResponse{
		BaseResponse: models.OK(),
		Suggestions:  services.ExampleSuggestions(q.Get("learning_style"), interests, q.Get("education_level")),
	})
}

func validatePreferences(u models.PreferencesUpdate) string {
	if u.LearningStyle != nil && *u.LearningStyle != "" && !oneOf(*u.LearningStyle, models.LearningStyles) {
		return "Unknown learning style"
	}
	if u.Interests != nil {
		for _, interest := range *u.Interests {
			if !oneOf(interest, models.InterestAreas) {
				return "Unknown interest area"
			}
		}
	}
	if u.EducationLevel != nil && *u.EducationLevel != "" && !oneOf(*u.EducationLevel, models.EducationLevels) {
		return "Unknown education level"
	}
	return ""
}

func oneOf(value string, options []string) bool {
	for _, option := range options {
		if value == option {
			return true
		}
	}
	return false
}
