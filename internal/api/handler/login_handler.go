package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/studentmonitor/student-monitor-api/internal/api/metrics"
	"github.com/studentmonitor/student-monitor-api/internal/api/middleware"
	"github.com/studentmonitor/student-monitor-api/internal/core/domain"
	"github.com/studentmonitor/student-monitor-api/internal/core/ports"
)

// LoginHandler drives the form-based login flow: render the login page,
// establish or tear down sessions, and issue remember-me cookies.
type LoginHandler struct {
	auth     ports.Authenticator
	sessions ports.SessionManager
	log      zerolog.Logger
}

func NewLoginHandler(auth ports.Authenticator, sessions ports.SessionManager, log zerolog.Logger) *LoginHandler {
	return &LoginHandler{auth: auth, sessions: sessions, log: log}
}

// LoginPage renders the login form. Authenticated callers are sent home.
func (h *LoginHandler) LoginPage(c echo.Context) error {
	if role, _ := c.Get(middleware.CtxRole).(string); role != "" {
		return c.Redirect(http.StatusFound, "/")
	}

	flash := ""
	if c.QueryParam("error") != "" {
		flash = `<p class="error">Invalid username or password. Please try again.</p>`
	}
	if c.QueryParam("logout") != "" {
		flash = `<p class="success">You have been logged out successfully.</p>`
	}

	return c.HTML(http.StatusOK, `<!DOCTYPE html>
<html><head><title>Login - Student Monitor</title></head><body>
<h1>Login</h1>`+flash+`
<form method="post" action="/login">
  <input type="text" name="username" placeholder="Username or email" required>
  <input type="password" name="password" placeholder="Password" required>
  <label><input type="checkbox" name="remember-me"> Remember me</label>
  <button type="submit">Log in</button>
</form>
<a href="/register">Register</a>
</body></html>`)
}

// Login authenticates the submitted form credentials. Success establishes a
// session (evicting any prior session for the identity) and redirects home;
// failure redirects back to the login page with an error flag and no hint
// about which part of the credentials was wrong.
func (h *LoginHandler) Login(c echo.Context) error {
	identifier := c.FormValue("username")
	password := c.FormValue("password")

	user, err := h.auth.Authenticate(c.Request().Context(), identifier, password)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			h.log.Error().Err(err).Msg("authentication failed unexpectedly")
		}
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return c.Redirect(http.StatusFound, "/login?error=true")
	}

	session, err := h.sessions.Login(c.Request().Context(), user)
	if err != nil {
		return err
	}
	c.SetCookie(middleware.NewSessionCookie(session.ID))

	if rememberRequested(c.FormValue("remember-me")) {
		token, err := h.sessions.IssueRememberMeToken(user)
		if err != nil {
			h.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to issue remember-me token")
		} else {
			c.SetCookie(middleware.NewRememberMeCookie(token))
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.Redirect(http.StatusFound, "/")
}

// Logout invalidates the current session, clears both cookies, and
// redirects to the login page.
func (h *LoginHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Logout(c.Request().Context(), cookie.Value); err != nil {
			h.log.Warn().Err(err).Msg("logout failed")
		}
	}

	c.SetCookie(middleware.ExpiredCookie(middleware.SessionCookieName))
	c.SetCookie(middleware.ExpiredCookie(middleware.RememberMeCookieName))
	return c.Redirect(http.StatusFound, "/login?logout=true")
}

func rememberRequested(v string) bool {
	return v == "on" || v == "true" || v == "1"
}
