package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/studentmonitor/student-monitor-api/internal/core/domain"
)

func serveError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
	e.GET("/fail", func(c echo.Context) error { return err })

	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"validation", &domain.ValidationError{Message: "Password must be at least 6 characters long"}, http.StatusBadRequest, "Password must be at least 6 characters long"},
		{"email taken", domain.ErrEmailTaken, http.StatusBadRequest, "Email is already taken"},
		{"username taken", domain.ErrUsernameTaken, http.StatusBadRequest, "Username is already taken"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"student not found", domain.ErrStudentNotFound, http.StatusNotFound, "student not found"},
		{"session missing", domain.ErrSessionNotFound, http.StatusUnauthorized, "authentication required"},
		{"token expired", domain.ErrTokenExpired, http.StatusUnauthorized, "authentication required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serveError(t, tc.err)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tc.message) {
				t.Fatalf("expected %q in body, got %q", tc.message, rec.Body.String())
			}
		})
	}
}

func TestErrorHandler_UnknownErrorIsOpaque(t *testing.T) {
	rec := serveError(t, errors.New("disk exploded"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "disk exploded") {
		t.Fatalf("internal detail leaked to client: %q", rec.Body.String())
	}
}
