package kafka

import "time"

const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
)

const (
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeEmptyName      = "EMPTY_NAME"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

type RequestPayload struct {
	SchemaVersion int    `json:"schema_version"`
	CorrelationID string `json:"correlation_id"`
	ReplyTo       string `json:"reply_to"`
	Name          string `json:"name,omitempty"`
	UserID        string `json:"user_id,omitempty"`
}

type UserPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Points    int64     `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

type ClaimPayload struct {
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Points    int       `json:"points"`
	ClaimedAt time.Time `json:"claimed_at"`
}

type ResponsePayload struct {
	SchemaVersion int            `json:"schema_version"`
	CorrelationID string         `json:"correlation_id"`
	Status        string         `json:"status"`
	ErrorCode     string         `json:"error_code,omitempty"`
	ErrorMessage  string         `json:"error_message,omitempty"`
	User          *UserPayload   `json:"user,omitempty"`
	AwardedPoints int            `json:"awarded_points,omitempty"`
	Users         []UserPayload  `json:"users,omitempty"`
	Claims        []ClaimPayload `json:"claims,omitempty"`
}
