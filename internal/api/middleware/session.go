package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/studentmonitor/student-monitor-api/internal/api/metrics"
	"github.com/studentmonitor/student-monitor-api/internal/core/domain"
	"github.com/studentmonitor/student-monitor-api/internal/core/ports"
)

const (
	// SessionCookieName carries the server-side session id.
	SessionCookieName = "session_id"
	// RememberMeCookieName carries the long-lived remember-me token.
	RememberMeCookieName = "remember_me"

	// RememberMeMaxAge matches the token's fixed validity window.
	RememberMeMaxAge = 86400 // seconds
)

// Context keys set by the session middleware for downstream handlers.
const (
	CtxSession  = "session"
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
)

// NewSessionCookie builds the session cookie for a freshly established
// session.
func NewSessionCookie(sessionID string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewRememberMeCookie builds the remember-me cookie.
func NewRememberMeCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     RememberMeCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   RememberMeMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie clears the named cookie on the client.
func ExpiredCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ResolveSession resolves the caller's identity from the session cookie,
// falling back to the remember-me cookie, which re-establishes a session
// without a password. The request proceeds either way; the authorization
// guard decides whether an anonymous caller may continue.
func ResolveSession(sessions ports.SessionManager, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if session := sessionFromCookie(c, sessions, log); session != nil {
				bind(c, session)
			}
			return next(c)
		}
	}
}

func sessionFromCookie(c echo.Context, sessions ports.SessionManager, log zerolog.Logger) *domain.Session {
	ctx := c.Request().Context()

	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		session, err := sessions.Resolve(ctx, cookie.Value)
		if err == nil {
			return session
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			log.Warn().Err(err).Msg("session resolution failed")
		}
	}

	cookie, err := c.Cookie(RememberMeCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	session, err := sessions.RedeemRememberMeToken(ctx, cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			metrics.RememberMeRedemptionsTotal.WithLabelValues("expired").Inc()
		case errors.Is(err, domain.ErrTokenInvalid):
			metrics.RememberMeRedemptionsTotal.WithLabelValues("invalid").Inc()
		default:
			log.Warn().Err(err).Msg("remember-me redemption failed")
		}
		c.SetCookie(ExpiredCookie(RememberMeCookieName))
		return nil
	}

	metrics.RememberMeRedemptionsTotal.WithLabelValues("success").Inc()
	c.SetCookie(NewSessionCookie(session.ID))
	return session
}

func bind(c echo.Context, session *domain.Session) {
	c.Set(CtxSession, session)
	c.Set(CtxUserID, session.UserID)
	c.Set(CtxUsername, session.Username)
	c.Set(CtxRole, session.Role)
}
