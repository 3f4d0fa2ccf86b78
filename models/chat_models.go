package models

import "time"

// Role identifies who authored a chat turn.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleBot
}

// ChatRequest represents an incoming chat submission from a front end
type ChatRequest struct {
	BaseRequest
	Message string `json:"message"`
}

// ChatMessage represents a single turn in a session's history
type ChatMessage struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatResponse represents the bot's reply to a chat submission
type ChatResponse struct {
	BaseResponse
	Message   string        `json:"message"`
	SessionID string        `json:"session_id"`
	History   []ChatMessage `json:"history,omitempty"`
}
