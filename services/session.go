package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"learnbot/models"
	"learnbot/utils"
)

// ErrSessionNotFound is returned for unknown or ended sessions.
var ErrSessionNotFound = errors.New("session not found")

// SessionState is one learner's conversation. Each state is only touched by
// its own session's request cycle; the mutex guards readers such as the
// history endpoint that may overlap with a submission.
type SessionState struct {
	id        string
	createdAt time.Time

	mu          sync.RWMutex
	history     []models.ChatMessage
	preferences models.Preferences
	lastActive  time.Time
}

func (s *SessionState) ID() string { return s.id }

func (s *SessionState) CreatedAt() time.Time { return s.createdAt }

// Append adds one turn to the end of the history.
func (s *SessionState) Append(role models.Role, text string) error {
	if !role.Valid() {
		return fmt.Errorf("invalid role %q", role)
	}
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, models.ChatMessage{Role: role, Content: text, Timestamp: now})
	s.lastActive = now
	return nil
}

// History returns a copy; callers can never reorder or drop turns.
func (s *SessionState) History() []models.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}

// Preferences returns a copy of the current selections.
func (s *SessionState) Preferences() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.preferences
	p.Interests = append([]string(nil), s.preferences.Interests...)
	return p
}

// SetPreferences overwrites the named fields; nil fields are left unchanged.
func (s *SessionState) SetPreferences(update models.PreferencesUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if update.LearningStyle != nil {
		s.preferences.LearningStyle = strings.TrimSpace(*update.LearningStyle)
	}
	if update.Interests != nil {
		interests := make([]string, 0, len(*update.Interests))
		seen := make(map[string]bool)
		for _, interest := range *update.Interests {
			interest = strings.TrimSpace(interest)
			if interest == "" || seen[interest] {
				continue
			}
			seen[interest] = true
			interests = append(interests, interest)
		}
		s.preferences.Interests = interests
	}
	if update.EducationLevel != nil {
		s.preferences.EducationLevel = strings.TrimSpace(*update.EducationLevel)
	}
	s.lastActive = time.Now()
}

// Suggestions returns the example prompts for the current preferences.
func (s *SessionState) Suggestions() []string {
	p := s.Preferences()
	return ExampleSuggestions(p.LearningStyle, p.Interests, p.EducationLevel)
}

func (s *SessionState) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}

// SessionStore is the process-local registry of live sessions. Sessions
// share nothing with each other; the store lock only covers the map.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*SessionState
	ttl      time.Duration
	logger   *utils.Logger
}

// NewSessionStore creates a store. ttl <= 0 disables idle expiry.
func NewSessionStore(ttl time.Duration, logger *utils.Logger) *SessionStore {
	if logger == nil {
		logger = utils.NopLogger()
	}
	return &SessionStore{
		sessions: make(map[string]*SessionState),
		ttl:      ttl,
		logger:   logger,
	}
}

// NewSession issues a fresh session and returns its id.
func (st *SessionStore) NewSession() string {
	now := time.Now()
	s := &SessionState{
		id:         uuid.NewString(),
		createdAt:  now,
		lastActive: now,
		history:    make([]models.ChatMessage, 0),
		preferences: models.Preferences{
			Interests: []string{},
		},
	}
	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()
	st.logger.Debug("session started", "session_id", s.id)
	return s.id
}

// Get returns the session for id.
func (st *SessionStore) Get(id string) (*SessionState, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// End discards the session and everything it holds.
func (st *SessionStore) End(id string) bool {
	st.mu.Lock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if ok {
		st.logger.Debug("session ended", "session_id", id)
	}
	return ok
}

// AppendHistory appends one turn to session id.
func (st *SessionStore) AppendHistory(id string, role models.Role, text string) error {
	s, err := st.Get(id)
	if err != nil {
		return err
	}
	return s.Append(role, text)
}

// History returns a copy of session id's turns.
func (st *SessionStore) History(id string) ([]models.ChatMessage, error) {
	s, err := st.Get(id)
	if err != nil {
		return nil, err
	}
	return s.History(), nil
}

// SetPreferences overwrites the named preference fields of session id.
func (st *SessionStore) SetPreferences(id string, update models.PreferencesUpdate) (models.Preferences, error) {
	s, err := st.Get(id)
	if err != nil {
		return models.Preferences{}, err
	}
	s.SetPreferences(update)
	return s.Preferences(), nil
}

// Preferences returns session id's current selections.
func (st *SessionStore) Preferences(id string) (models.Preferences, error) {
	s, err := st.Get(id)
	if err != nil {
		return models.Preferences{}, err
	}
	return s.Preferences(), nil
}

// Count returns the number of live sessions.
func (st *SessionStore) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep ends every session idle since before now-ttl and returns how many.
func (st *SessionStore) Sweep(now time.Time) int {
	if st.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps idle sessions every interval until ctx is done. Each
// prune func is handed the same idle cutoff, so per-sender state kept
// elsewhere expires together with the sessions.
func (st *SessionStore) RunJanitor(ctx context.Context, every time.Duration, prune ...func(cutoff time.Time) int) {
	if st.ttl <= 0 || every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := st.Sweep(now); n > 0 {
				st.logger.Info("expired idle sessions", "count", n, "ttl", st.ttl)
			}
			for _, p := range prune {
				if n := p(now.Add(-st.ttl)); n > 0 {
					st.logger.Debug("pruned idle dialogue state", "count", n)
				}
			}
		}
	}
}
