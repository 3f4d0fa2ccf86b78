package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnbot/models"
)

type fakeSender struct {
	reply string
	err   error
	got   []models.Preferences
}

func (f *fakeSender) Send(ctx context.Context, sender, message string, prefs models.Preferences) (string, error) {
	f.got = append(f.got, prefs)
	return f.reply, f.err
}

func TestChatbotSubmitRecordsBothTurns(t *testing.T) {
	store := NewSessionStore(time.Hour, nil)
	id := store.NewSession()
	style := "Visual"
	_, _ = store.SetPreferences(id, models.PreferencesUpdate{LearningStyle: &style})

	sender := &fakeSender{reply: "Here's a detailed explanation about photosynthesis:"}
	bot := NewChatbot(store, sender, nil)

	reply, err := bot.Submit(context.Background(), id, "  explain photosynthesis ")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if reply != sender.reply {
		t.Fatalf("reply: want=%q got=%q", sender.reply, reply)
	}
	if len(sender.got) != 1 || sender.got[0].LearningStyle != "Visual" {
		t.Fatalf("preferences not forwarded: %+v", sender.got)
	}

	history, _ := store.History(id)
	if len(history) != 2 {
		t.Fatalf("history: want=2 got=%d", len(history))
	}
	if history[0].Role != models.RoleUser || history[0].Content != "explain photosynthesis" {
		t.Fatalf("user turn: %+v", history[0])
	}
	if history[1].Role != models.RoleBot || history[1].Content != reply {
		t.Fatalf("bot turn: %+v", history[1])
	}
}

func TestChatbotTransportFailureStillAppendsReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := NewSessionStore(time.Hour, nil)
	id := store.NewSession()
	bot := NewChatbot(store, NewDialogueClient(srv.URL, time.Second, nil), nil)

	reply, err := bot.Submit(context.Background(), id, "explain gravity")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if reply != "Oops! Something went wrong. Status code: 500" {
		t.Fatalf("reply: got=%q", reply)
	}
	history, _ := store.History(id)
	if len(history) != 2 || history[1].Content != reply {
		t.Fatalf("history: %+v", history)
	}
}

func TestChatbotRejectsEmptyAndUnknown(t *testing.T) {
	store := NewSessionStore(time.Hour, nil)
	id := store.NewSession()
	sender := &fakeSender{reply: "x"}
	bot := NewChatbot(store, sender, nil)

	if _, err := bot.Submit(context.Background(), id, "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("blank: want ErrEmptyMessage got=%v", err)
	}
	if _, err := bot.Submit(context.Background(), "missing", "hi"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("unknown: want ErrSessionNotFound got=%v", err)
	}
	history, _ := store.History(id)
	if len(history) != 0 || len(sender.got) != 0 {
		t.Fatalf("rejected submissions must not touch history or the sender")
	}
}

func TestDispatcherAsSender(t *testing.T) {
	d, _, _ := newTestDispatcher(t)
	store := NewSessionStore(time.Hour, nil)
	id := store.NewSession()
	bot := NewChatbot(store, d, nil)

	reply, err := bot.Submit(context.Background(), id, "explain photosynthesis")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if reply != ActionGenerateContent+":photosynthesis" {
		t.Fatalf("reply: got=%q", reply)
	}
}

func TestChatbotGenerationFailureMidCall(t *testing.T) {
	nlu, domain := newTestNLU(t)
	gw := &fakeGateway{genErr: errors.New("model crashed")}
	dispatcher := NewDispatcher(nlu, domain, nil,
		NewExplainAction(readyGenerator(t, gw), nil),
		NewVideoAction(&fakeSearcher{}, nil),
	)
	store := NewSessionStore(time.Hour, nil)
	id := store.NewSession()
	bot := NewChatbot(store, dispatcher, nil)

	reply, err := bot.Submit(context.Background(), id, "explain photosynthesis")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if want := UserMessage(ErrGenerationFailed, ""); reply != want {
		t.Fatalf("reply: want=%q got=%q", want, reply)
	}
	if gw.calls != 1 {
		t.Fatalf("gateway calls: want=1 got=%d", gw.calls)
	}

	history, _ := store.History(id)
	if len(history) != 2 || history[0].Role != models.RoleUser || history[0].Content != "explain photosynthesis" {
		t.Fatalf("history should keep the user turn: %+v", history)
	}
	if history[1].Content != reply {
		t.Fatalf("bot turn: want=%q got=%q", reply, history[1].Content)
	}
}
