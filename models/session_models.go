package models

import "time"

// Preferences are the learner's sidebar selections.
type Preferences struct {
	LearningStyle  string   `json:"learning_style"`
	Interests      []string `json:"interests"`
	EducationLevel string   `json:"education_level"`
}

// PreferencesUpdate names the fields to overwrite; nil fields are left as-is.
type PreferencesUpdate struct {
	LearningStyle  *string   `json:"learning_style,omitempty"`
	Interests      *[]string `json:"interests,omitempty"`
	EducationLevel *string   `json:"education_level,omitempty"`
}

// SessionInfo describes a session to API clients.
type SessionInfo struct {
	BaseResponse
	SessionID   string        `json:"session_id"`
	Preferences Preferences   `json:"preferences"`
	Suggestions []string      `json:"suggestions"`
	History     []ChatMessage `json:"history,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// SuggestionsResponse lists example prompts for a preference combination.
type SuggestionsResponse struct {
	BaseResponse
	Suggestions []string `json:"suggestions"`
}

// Selectable preference values shown by the front ends.
var (
	LearningStyles  = []string{"Visual", "Auditory", "Kinesthetic", "Reading/Writing"}
	InterestAreas   = []string{"Technology", "Science", "Arts", "Mathematics", "Business", "Humanities"}
	EducationLevels = []string{"High School", "Undergraduate", "Postgraduate", "Professional"}
)
