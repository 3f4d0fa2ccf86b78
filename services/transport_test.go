package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"learnbot/models"
)

func TestDialogueClientSendsContextAndJoinsReplies(t *testing.T) {
	var got models.WebhookRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: want=POST got=%s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte(`[{"text":"first"},{"text":"  "},{"text":"second"}]`))
	}))
	defer srv.Close()

	c := NewDialogueClient(srv.URL, time.Second, nil)
	reply, err := c.Send(context.Background(), "s-1", "explain photosynthesis", models.Preferences{
		LearningStyle:  "Visual",
		Interests:      []string{"Science"},
		EducationLevel: "Undergraduate",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply != "first\nsecond" {
		t.Fatalf("reply: want=%q got=%q", "first\nsecond", reply)
	}
	if got.Sender != "s-1" || got.Message != "explain photosynthesis" {
		t.Fatalf("request: %+v", got)
	}
	if got.Context.LearningStyle != "Visual" || got.Context.EducationLevel != "Undergraduate" || len(got.Context.Interests) != 1 {
		t.Fatalf("context: %+v", got.Context)
	}
}

func TestDialogueClientEmptyInterestsSerializeAsArray(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, _ = NewDialogueClient(srv.URL, time.Second, nil).Send(context.Background(), "s", "hi", models.Preferences{})
	if !strings.Contains(string(raw["context"]), `"interests":[]`) {
		t.Fatalf("context: got=%s", raw["context"])
	}
}

func TestDialogueClientFallbackTexts(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`[]`, "I'm not sure how to respond. Can you try asking differently?"},
		{`[{"text":""},{"text":"   "}]`, "I'm thinking... Could you rephrase that?"},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(tc.body))
		}))
		reply, err := NewDialogueClient(srv.URL, time.Second, nil).Send(context.Background(), "s", "hi", models.Preferences{})
		srv.Close()
		if err != nil {
			t.Fatalf("Send(%s): %v", tc.body, err)
		}
		if reply != tc.want {
			t.Fatalf("Send(%s): want=%q got=%q", tc.body, tc.want, reply)
		}
	}
}

func TestDialogueClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewDialogueClient(srv.URL, time.Second, nil).Send(context.Background(), "s", "hi", models.Preferences{})
	var terr *TransportError
	if !errors.As(err, &terr) || terr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("want TransportError 500 got=%v", err)
	}
	if got := UserMessage(err, ""); got != "Oops! Something went wrong. Status code: 500" {
		t.Fatalf("UserMessage: got=%q", got)
	}
}

func TestDialogueClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewDialogueClient(srv.URL, 50*time.Millisecond, nil).Send(context.Background(), "s", "hi", models.Preferences{})
	var terr *TransportError
	if !errors.As(err, &terr) || terr.StatusCode != 0 {
		t.Fatalf("want network TransportError got=%v", err)
	}
	if got := UserMessage(err, ""); got != "Network error: the learning assistant took too long to answer" {
		t.Fatalf("UserMessage: got=%q", got)
	}
}

func TestDialogueClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewDialogueClient(url, time.Second, nil).Send(context.Background(), "s", "hi", models.Preferences{})
	got := UserMessage(err, "")
	if !strings.HasPrefix(got, "Network error: ") || strings.Contains(got, "127.0.0.1") {
		t.Fatalf("UserMessage should name the failure class only: got=%q", got)
	}
}
