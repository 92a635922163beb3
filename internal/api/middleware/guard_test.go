package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/studentmonitor/student-monitor-api/internal/core/domain"
)

func guardRequest(t *testing.T, path, role string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set(CtxRole, role)
	}

	handler := Guard()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := handler(c); err != nil {
		t.Fatalf("guard returned error: %v", err)
	}
	return rec
}

func TestGuard_AllowsPublicPath(t *testing.T) {
	rec := guardRequest(t, "/login", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGuard_AllowsAuthenticatedUser(t *testing.T) {
	rec := guardRequest(t, "/api/students", domain.RoleUser)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGuard_RedirectsAnonymousToLogin(t *testing.T) {
	rec := guardRequest(t, "/api/students", "")
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

func TestGuard_ForbidsNonAdminOnAdminPath(t *testing.T) {
	rec := guardRequest(t, "/admin/users", domain.RoleUser)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "forbidden") {
		t.Fatalf("expected forbidden body, got %q", rec.Body.String())
	}
}

func TestGuard_AllowsAdminOnAdminPath(t *testing.T) {
	rec := guardRequest(t, "/admin/users", domain.RoleAdmin)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
