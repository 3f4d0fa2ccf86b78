package models

import "time"

// Response status constants
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// BaseRequest represents common request fields
type BaseRequest struct {
	SessionID string    `json:"session_id,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// BaseResponse represents common response fields
type BaseResponse struct {
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// OK returns a success envelope stamped with the current time.
func OK() BaseResponse {
	return BaseResponse{Status: StatusSuccess, Timestamp: time.Now()}
}

// Failed returns an error envelope carrying a user-facing message.
func Failed(msg string) BaseResponse {
	return BaseResponse{Status: StatusError, Error: msg, Timestamp: time.Now()}
}
