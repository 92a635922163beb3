package domain

import (
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")
var ErrTokenExpired = errors.New("remember-me token expired")
var ErrTokenInvalid = errors.New("remember-me token invalid")

// Session binds a request to an authenticated identity. At most one session
// is active per identity; a newer login evicts the older session.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessAt time.Time `json:"last_access_at"`
}
