package controllers

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"learnbot/models"
	"learnbot/services"
	"learnbot/utils"
	"learnbot/views"
)

// Deps are the services the HTTP layer talks to. Dispatcher, Generator,
// Searcher and Discord are optional.
type Deps struct {
	Chatbot    *services.Chatbot
	Dispatcher *services.Dispatcher
	Generator  *services.Generator
	Searcher   *services.YouTubeSearcher
	Discord    *services.DiscordService
	Logger     *utils.Logger
}

// Controller handles all the HTTP endpoints
type Controller struct {
	chatbot        *services.Chatbot
	sessions       *services.SessionStore
	dispatcher     *services.Dispatcher
	generator      *services.Generator
	searcher       *services.YouTubeSearcher
	discordService *services.DiscordService
	templates      *template.Template
	logger         *utils.Logger
}

// NewController creates a new controller instance
func NewController(deps Deps) (*Controller, error) {
	logger := deps.Logger
	if logger == nil {
		logger = utils.NopLogger()
	}
	tmpl, err := template.ParseFS(views.FS, "*.html")
	if err != nil {
		return nil, err
	}
	c := &Controller{
		chatbot:        deps.Chatbot,
		dispatcher:     deps.Dispatcher,
		generator:      deps.Generator,
		searcher:       deps.Searcher,
		discordService: deps.Discord,
		templates:      tmpl,
		logger:         logger,
	}
	if deps.Chatbot != nil {
		c.sessions = deps.Chatbot.Sessions()
	}
	return c, nil
}

// RegisterRoutes mounts every endpoint on router.
func (c *Controller) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", c.IndexHandler).Methods(http.MethodGet)
	router.HandleFunc("/health", c.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/chat", c.ChatHandler).Methods(http.MethodPost)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/sessions", c.CreateSessionHandler).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", c.EndSessionHandler).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/history", c.HistoryHandler).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/preferences", c.PreferencesHandler).Methods(http.MethodPut)
	api.HandleFunc("/suggestions", c.SuggestionsHandler).Methods(http.MethodGet)

	if c.dispatcher != nil {
		c.RegisterWebhook(router)
	}
}

// RegisterWebhook mounts the dialogue endpoint.
func (c *Controller) RegisterWebhook(router *mux.Router) {
	router.HandleFunc("/webhooks/rest/webhook", c.WebhookHandler).Methods(http.MethodPost)
}

// StartServices starts all background services (Discord bot, etc.)
func (c *Controller) StartServices(enableDiscord bool) error {
	if c.discordService == nil {
		return nil
	}
	switch {
	case enableDiscord && c.discordService.IsEnabled():
		if err := c.discordService.Start(); err != nil {
			c.logger.Error("failed to start discord service", "error", err)
			return err
		}
	case enableDiscord:
		c.logger.Warn("discord service requested but not configured", "missing", "DISCORD_BOT_TOKEN")
	default:
		c.logger.Info("discord service disabled via command line flag")
	}
	return nil
}

// StopServices stops all background services
func (c *Controller) StopServices() error {
	if c.discordService != nil {
		return c.discordService.Stop()
	}
	return nil
}

// renderTemplate renders an HTML template with data
func (c *Controller) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.templates.ExecuteTemplate(w, name, data); err != nil {
		c.logger.Error("error executing template", "template", name, "error", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.Failed(msg))
}
