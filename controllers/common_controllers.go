package controllers

import (
	"net/http"
	"time"

	"learnbot/models"
)

type indexPage struct {
	LearningStyles  []string
	InterestAreas   []string
	EducationLevels []string
}

// IndexHandler serves the chat page
func (c *Controller) IndexHandler(w http.ResponseWriter, r *http.Request) {
	c.renderTemplate(w, "index.html", indexPage{
		LearningStyles:  models.LearningStyles,
		InterestAreas:   models.InterestAreas,
		EducationLevels: models.EducationLevels,
	})
}

// HealthHandler provides a health check endpoint
func (c *Controller) HealthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if c.chatbot != nil {
		health["chatbot"] = c.chatbot.GetStatus()
	}
	if c.generator != nil {
		health["generation"] = c.generator.GetStatus()
	}
	if c.searcher != nil {
		health["video_search"] = c.searcher.GetStatus()
	}
	if c.discordService != nil {
		health["discord"] = c.discordService.GetStatus()
	}
	writeJSON(w, http.StatusOK, health)
}
