package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studentmonitor/student-monitor-api/internal/api/metrics"
	"github.com/studentmonitor/student-monitor-api/internal/core/service"
)

// Guard applies the authorization rule table to every request. It inspects
// only the request path and the role resolved by the session middleware:
// anonymous callers on protected paths are redirected to the login page,
// under-privileged callers on admin paths receive 403.
func Guard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)

			switch service.Authorize(c.Request().URL.Path, role) {
			case service.Allow:
				return next(c)
			case service.DenyLogin:
				metrics.AuthorizationDenialsTotal.WithLabelValues("login_redirect").Inc()
				return c.Redirect(http.StatusFound, "/login")
			default:
				metrics.AuthorizationDenialsTotal.WithLabelValues("forbidden").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
		}
	}
}
