package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"learnbot/models"
	"learnbot/services"
)

type echoSender struct{}

func (echoSender) Send(ctx context.Context, sender, message string, prefs models.Preferences) (string, error) {
	return "echo: " + message + " [" + prefs.LearningStyle + "]", nil
}

func newTestRouter(t *testing.T) (*mux.Router, *services.SessionStore) {
	t.Helper()
	store := services.NewSessionStore(time.Hour, nil)
	ctrl, err := NewController(Deps{Chatbot: services.NewChatbot(store, echoSender{}, nil)})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	router := mux.NewRouter()
	ctrl.RegisterRoutes(router)
	return router, store
}

func do(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestIndexRendersPreferenceOptions(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Learning Sarthi", "Reading/Writing", "Humanities", "Postgraduate"} {
		if !strings.Contains(body, want) {
			t.Fatalf("index page missing %q", want)
		}
	}
}

func TestSessionLifecycle(t *testing.T) {
	router, store := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/sessions", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: want=201 got=%d", rec.Code)
	}
	var info models.SessionInfo
	_ = json.NewDecoder(rec.Body).Decode(&info)
	if info.SessionID == "" {
		t.Fatalf("create: empty session id")
	}

	rec = do(t, router, http.MethodPut, "/api/sessions/"+info.SessionID+"/preferences", map[string]interface{}{
		"learning_style": "Visual",
		"interests":      []string{"Science"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("preferences: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
	_ = json.NewDecoder(rec.Body).Decode(&info)
	if len(info.Suggestions) != 5 || info.Suggestions[0] != "Visualize the process of photosynthesis" {
		t.Fatalf("suggestions after preferences: %v", info.Suggestions)
	}

	rec = do(t, router, http.MethodPost, "/chat", models.ChatRequest{
		BaseRequest: models.BaseRequest{SessionID: info.SessionID},
		Message:     "explain photosynthesis",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("chat: want=200 got=%d", rec.Code)
	}
	var chat models.ChatResponse
	_ = json.NewDecoder(rec.Body).Decode(&chat)
	if chat.Message != "echo: explain photosynthesis [Visual]" {
		t.Fatalf("chat reply: got=%q", chat.Message)
	}
	if len(chat.History) != 2 || chat.History[0].Role != models.RoleUser {
		t.Fatalf("chat history: %+v", chat.History)
	}

	rec = do(t, router, http.MethodGet, "/api/sessions/"+info.SessionID+"/history", nil)
	var hist models.SessionInfo
	_ = json.NewDecoder(rec.Body).Decode(&hist)
	if len(hist.History) != 2 {
		t.Fatalf("history endpoint: want=2 got=%d", len(hist.History))
	}

	rec = do(t, router, http.MethodDelete, "/api/sessions/"+info.SessionID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: want=200 got=%d", rec.Code)
	}
	if store.Count() != 0 {
		t.Fatalf("session should be gone, count=%d", store.Count())
	}
	rec = do(t, router, http.MethodGet, "/api/sessions/"+info.SessionID+"/history", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("history after delete: want=404 got=%d", rec.Code)
	}
}

func TestChatValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json: want=400 got=%d", rec.Code)
	}

	rec = do(t, router, http.MethodPost, "/chat", models.ChatRequest{Message: "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank: want=400 got=%d", rec.Code)
	}
	var resp models.BaseResponse
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Status != models.StatusError || resp.Error == "" {
		t.Fatalf("error envelope: %+v", resp)
	}

	rec = do(t, router, http.MethodPost, "/chat", models.ChatRequest{
		BaseRequest: models.BaseRequest{SessionID: "nope"},
		Message:     "hi",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown session: want=404 got=%d", rec.Code)
	}
}

func TestChatWithoutSessionStartsOne(t *testing.T) {
	router, store := newTestRouter(t)
	rec := do(t, router, http.MethodPost, "/chat", models.ChatRequest{Message: "hello"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
	var chat models.ChatResponse
	_ = json.NewDecoder(rec.Body).Decode(&chat)
	if chat.SessionID == "" || store.Count() != 1 {
		t.Fatalf("session not created: id=%q count=%d", chat.SessionID, store.Count())
	}
}

func TestChatRecoversFromExpiredSession(t *testing.T) {
	router, store := newTestRouter(t)
	old := store.NewSession()
	store.Sweep(time.Now().Add(2 * time.Hour))

	rec := do(t, router, http.MethodPost, "/chat", models.ChatRequest{
		BaseRequest: models.BaseRequest{SessionID: old},
		Message:     "explain gravity",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expired session: want=404 got=%d", rec.Code)
	}

	// The page reacts to the 404 by opening a session, saving the
	// preferences and resending.
	rec = do(t, router, http.MethodPost, "/api/sessions", nil)
	var info models.SessionInfo
	_ = json.NewDecoder(rec.Body).Decode(&info)
	rec = do(t, router, http.MethodPut, "/api/sessions/"+info.SessionID+"/preferences", map[string]interface{}{
		"learning_style": "Kinesthetic",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("preferences: want=200 got=%d", rec.Code)
	}
	rec = do(t, router, http.MethodPost, "/chat", models.ChatRequest{
		BaseRequest: models.BaseRequest{SessionID: info.SessionID},
		Message:     "explain gravity",
	})
	var chat models.ChatResponse
	_ = json.NewDecoder(rec.Body).Decode(&chat)
	if want := "echo: explain gravity [Kinesthetic]"; chat.Message != want {
		t.Fatalf("resend: want=%q got=%q", want, chat.Message)
	}
}

func TestPreferencesValidation(t *testing.T) {
	router, store := newTestRouter(t)
	id := store.NewSession()

	rec := do(t, router, http.MethodPut, "/api/sessions/"+id+"/preferences", map[string]interface{}{"learning_style": "Telepathic"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid style: want=400 got=%d", rec.Code)
	}
	rec = do(t, router, http.MethodPut, "/api/sessions/missing/preferences", map[string]interface{}{"learning_style": "Visual"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing session: want=404 got=%d", rec.Code)
	}
}

func TestSuggestionsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/api/suggestions?learning_style=Reading/Writing&interests=Science", nil)
	var resp models.SuggestionsResponse
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if len(resp.Suggestions) != 2 || resp.Suggestions[0] != "Ask about study strategies" {
		t.Fatalf("fallback suggestions: %v", resp.Suggestions)
	}

	rec = do(t, router, http.MethodGet, "/api/suggestions?learning_style=Auditory&interests=Mathematics,Arts", nil)
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Suggestions[0] != "Tell a story about the discovery of zero" {
		t.Fatalf("Auditory/Mathematics: %v", resp.Suggestions)
	}
}

func TestWebhookRoutesThroughDispatcher(t *testing.T) {
	domain, err := services.DefaultDomain()
	if err != nil {
		t.Fatalf("DefaultDomain: %v", err)
	}
	nlu, err := services.NewNLU(context.Background(), domain, nil)
	if err != nil {
		t.Fatalf("NewNLU: %v", err)
	}
	dispatcher := services.NewDispatcher(nlu, domain, nil)
	ctrl, err := NewController(Deps{Dispatcher: dispatcher})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	router := mux.NewRouter()
	ctrl.RegisterWebhook(router)
	router.HandleFunc("/health", ctrl.HealthHandler)

	rec := do(t, router, http.MethodPost, "/webhooks/rest/webhook", models.WebhookRequest{Sender: "s", Message: "hello"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
	var replies []models.WebhookMessage
	if err := json.NewDecoder(rec.Body).Decode(&replies); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(replies) != 1 || replies[0].Text == "" {
		t.Fatalf("replies: %+v", replies)
	}

	rec = do(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health without chatbot: want=200 got=%d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/health", nil)
	var health map[string]interface{}
	_ = json.NewDecoder(rec.Body).Decode(&health)
	if health["status"] != "healthy" {
		t.Fatalf("health: %+v", health)
	}
}
