package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/studentmonitor/student-monitor-api/internal/core/ports"
)

const dateLayout = "2006-01-02"

// StudentHandler exposes the record-keeping collaborator surface. Every
// route is behind the authorization guard; the handler itself never makes
// access decisions.
type StudentHandler struct {
	service ports.StudentService
}

func NewStudentHandler(service ports.StudentService) *StudentHandler {
	return &StudentHandler{service: service}
}

type studentRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	DateOfBirth string `json:"date_of_birth" validate:"required"`
}

// List handles GET /api/students.
//
// @Summary      List students
// @Tags         students
// @Produce      json
// @Success      200  {array}   domain.Student
// @Router       /api/students [get]
func (h *StudentHandler) List(c echo.Context) error {
	students, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, students)
}

// Create handles POST /api/students.
//
// @Summary      Create a student
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        body  body      studentRequest  true  "Student details"
// @Success      201   {object}  domain.Student
// @Failure      400   {object}  map[string]string
// @Router       /api/students [post]
func (h *StudentHandler) Create(c echo.Context) error {
	var req studentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
	}

	student, err := h.service.Create(c.Request().Context(), ports.StudentInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		DateOfBirth: dob,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, student)
}

// Get handles GET /api/students/:id.
func (h *StudentHandler) Get(c echo.Context) error {
	student, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, student)
}

// Delete handles DELETE /api/students/:id.
func (h *StudentHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type performanceRequest struct {
	Subject string  `json:"subject" validate:"required"`
	Score   float64 `json:"score" validate:"gte=0,lte=100"`
	Date    string  `json:"date" validate:"required"`
	Remarks string  `json:"remarks"`
}

// ListPerformance handles GET /api/students/:id/performance.
func (h *StudentHandler) ListPerformance(c echo.Context) error {
	records, err := h.service.Performance(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}

// AddPerformance handles POST /api/students/:id/performance.
func (h *StudentHandler) AddPerformance(c echo.Context) error {
	var req performanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	record, err := h.service.AddPerformance(c.Request().Context(), c.Param("id"), ports.PerformanceInput{
		Subject: req.Subject,
		Score:   req.Score,
		Date:    date,
		Remarks: req.Remarks,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, record)
}
