package ports

import (
	"context"
	"time"

	"github.com/studentmonitor/student-monitor-api/internal/core/domain"
)

// SessionStore persists active sessions. Put must atomically replace any
// prior session held by the same identity and report the evicted session id,
// so the single-session policy never races between concurrent logins.
type SessionStore interface {
	Put(ctx context.Context, session *domain.Session) (evictedID string, err error)
	Get(ctx context.Context, id string) (*domain.Session, error)
	Touch(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// SessionManager owns the session and remember-me token lifecycle.
type SessionManager interface {
	Login(ctx context.Context, user *domain.User) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Resolve(ctx context.Context, sessionID string) (*domain.Session, error)
	Revoke(ctx context.Context, userID string) error
	IssueRememberMeToken(user *domain.User) (string, error)
	RedeemRememberMeToken(ctx context.Context, token string) (*domain.Session, error)
}
