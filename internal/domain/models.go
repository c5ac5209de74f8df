package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmptyName     = errors.New("user name must not be empty")
	ErrMissingUserID = errors.New("user id is required")
)

// Award bounds for a single claim, inclusive.
const (
	MinAward = 1
	MaxAward = 10
)

type User struct {
	ID        string
	Name      string
	Points    int64
	CreatedAt time.Time
}

// ClaimEntry is one row of the claim history, joined with the
// current display name of the user that claimed.
type ClaimEntry struct {
	ID        int64
	UserID    string
	UserName  string
	Points    int
	ClaimedAt time.Time
}
