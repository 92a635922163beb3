package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/studentmonitor/student-monitor-api/internal/core/domain"
	"github.com/studentmonitor/student-monitor-api/internal/core/ports"
)

// RememberMeTTL is the fixed validity window of a remember-me token,
// measured from issuance. A token presented at or after the boundary is
// rejected.
const RememberMeTTL = 24 * time.Hour

const sessionIDBytes = 32

// SessionManager enforces the single-active-session policy and owns the
// remember-me token lifecycle. Eviction of a prior session happens inside
// the store's atomic Put, never as a separate read-then-delete.
type SessionManager struct {
	store  ports.SessionStore
	users  ports.UserRepository
	secret []byte
	now    func() time.Time
	log    zerolog.Logger
}

func NewSessionManager(store ports.SessionStore, users ports.UserRepository, secret string, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		store:  store,
		users:  users,
		secret: []byte(secret),
		now:    time.Now,
		log:    log,
	}
}

// WithClock overrides the manager's time source. Tests use this to pin
// token-expiry decisions.
func (m *SessionManager) WithClock(now func() time.Time) *SessionManager {
	m.now = now
	return m
}

// Login establishes a session for the user. A prior session held by the
// same identity is silently invalidated; the new login always succeeds.
func (m *SessionManager) Login(ctx context.Context, user *domain.User) (*domain.Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}

	now := m.now().UTC()
	session := &domain.Session{
		ID:           id,
		UserID:       user.ID,
		Username:     user.Username,
		Role:         user.Role,
		CreatedAt:    now,
		LastAccessAt: now,
	}

	evicted, err := m.store.Put(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	if evicted != "" {
		m.log.Info().
			Str("user_id", user.ID).
			Str("evicted_session", evicted).
			Msg("prior session evicted by new login")
	}

	return session, nil
}

// Logout invalidates a single session. Unknown ids are not an error.
func (m *SessionManager) Logout(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, sessionID)
}

// Resolve returns the session for the given id and updates its last-access
// time.
func (m *SessionManager) Resolve(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := m.store.Touch(ctx, sessionID, m.now().UTC()); err != nil {
		m.log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to touch session")
	}
	return session, nil
}

// Revoke invalidates every session held by the identity. Called when an
// identity is deleted or disabled.
func (m *SessionManager) Revoke(ctx context.Context, userID string) error {
	return m.store.DeleteByUser(ctx, userID)
}

// IssueRememberMeToken signs a token bound to the user with a fixed 24-hour
// validity window. The token is independent of any session.
func (m *SessionManager) IssueRememberMeToken(user *domain.User) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(RememberMeTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign remember-me token: %w", err)
	}
	return token, nil
}

// RedeemRememberMeToken validates a token and re-establishes a session for
// its identity without a password. Expiry is checked against the manager's
// clock: a token is valid strictly before issuance+24h and invalid at or
// after that instant.
func (m *SessionManager) RedeemRememberMeToken(ctx context.Context, token string) (*domain.Session, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}
	// Boundary check is inclusive-invalid: exactly 24h after issuance fails.
	if !m.now().Before(claims.ExpiresAt.Time) {
		return nil, domain.ErrTokenExpired
	}

	user, err := m.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	if !user.Enabled {
		return nil, domain.ErrTokenInvalid
	}

	return m.Login(ctx, user)
}

func newSessionID() (string, error) {
	buf := make([]byte, sessionIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
