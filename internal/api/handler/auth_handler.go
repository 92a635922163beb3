package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studentmonitor/student-monitor-api/internal/api/metrics"
	"github.com/studentmonitor/student-monitor-api/internal/core/domain"
	"github.com/studentmonitor/student-monitor-api/internal/core/ports"
)

// passwordMask is returned in place of any credential material in signup
// responses. Neither the hash nor the plaintext ever leaves the service.
const passwordMask = "***ENCRYPTED***"

type AuthHandler struct {
	registration ports.RegistrationService
	users        ports.UserService
}

func NewAuthHandler(registration ports.RegistrationService, users ports.UserService) *AuthHandler {
	return &AuthHandler{registration: registration, users: users}
}

type signupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username,omitempty"`
}

type signupResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// Signup registers a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "User registration details"
// @Success      201   {object}  signupResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.registration.Register(c.Request().Context(), ports.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registrationResult(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, signupResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		Password:  passwordMask,
	})
}

// CheckUsername reports username availability. Advisory only: the atomic
// create at the store remains the sole uniqueness guard.
//
// @Summary      Check username availability
// @Tags         auth
// @Produce      json
// @Param        username  query     string  true  "Username to check"
// @Success      200       {boolean} bool
// @Router       /api/check-username [get]
func (h *AuthHandler) CheckUsername(c echo.Context) error {
	available, err := h.users.UsernameAvailable(c.Request().Context(), c.QueryParam("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, available)
}

// CheckEmail reports email availability, advisory only.
//
// @Summary      Check email availability
// @Tags         auth
// @Produce      json
// @Param        email  query     string  true  "Email to check"
// @Success      200    {boolean} bool
// @Router       /api/check-email [get]
func (h *AuthHandler) CheckEmail(c echo.Context) error {
	available, err := h.users.EmailAvailable(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, available)
}

func registrationResult(err error) string {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return "invalid"
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrUsernameTaken):
		return "duplicate"
	default:
		return "error"
	}
}
