package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studentmonitor/student-monitor-api/internal/api/middleware"
	"github.com/studentmonitor/student-monitor-api/internal/core/ports"
)

// WebHandler serves the public landing and registration pages. Rendering is
// deliberately minimal; the record views proper live outside this service.
type WebHandler struct {
	students ports.StudentService
}

func NewWebHandler(students ports.StudentService) *WebHandler {
	return &WebHandler{students: students}
}

// Home renders the landing page with a student count summary.
func (h *WebHandler) Home(c echo.Context) error {
	count, err := h.students.Count(c.Request().Context())
	if err != nil {
		return err
	}

	greeting := `<a href="/login">Log in</a>`
	if username, _ := c.Get(middleware.CtxUsername).(string); username != "" {
		greeting = fmt.Sprintf(`Signed in as %s &middot; <form method="post" action="/logout" style="display:inline"><button type="submit">Log out</button></form>`, username)
	}

	return c.HTML(http.StatusOK, fmt.Sprintf(`<!DOCTYPE html>
<html><head><title>Student Monitor</title></head><body>
<h1>Student Monitor</h1>
<p>%s</p>
<p>Tracking %d students.</p>
</body></html>`, greeting, count))
}

// RegisterPage renders the registration form. Authenticated callers are
// sent home.
func (h *WebHandler) RegisterPage(c echo.Context) error {
	if role, _ := c.Get(middleware.CtxRole).(string); role != "" {
		return c.Redirect(http.StatusFound, "/")
	}

	return c.HTML(http.StatusOK, `<!DOCTYPE html>
<html><head><title>Register - Student Monitor</title></head><body>
<h1>Register</h1>
<form id="signup">
  <input type="email" name="email" placeholder="Email" required>
  <input type="password" name="password" placeholder="Password (min 6 characters)" required>
  <input type="text" name="firstName" placeholder="First name" required>
  <input type="text" name="lastName" placeholder="Last name" required>
  <input type="text" name="username" placeholder="Username (optional)">
  <button type="submit">Sign up</button>
</form>
<a href="/login">Back to login</a>
</body></html>`)
}
