package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bqhai199x/auth-service/internal/api/metrics"
	"github.com/bqhai199x/auth-service/internal/api/middleware"
	"github.com/bqhai199x/auth-service/internal/core/domain"
	"github.com/bqhai199x/auth-service/internal/core/ports"
)

// AuthHandler exposes registration, login, logout, and the current-user
// endpoint.
type AuthHandler struct {
	authService  ports.AuthService
	cookieMaxAge time.Duration
	cookieSecure bool
}

func NewAuthHandler(authService ports.AuthService, cookieMaxAge time.Duration, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieMaxAge: cookieMaxAge,
		cookieSecure: cookieSecure,
	}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=4,max=50"`
	Name     string `json:"name" validate:"omitempty,max=50"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,max=100"`
}

type authResponse struct {
	Token string               `json:"token,omitempty"`
	User  *domain.UserResponse `json:"user"`
}

// Register creates a new account and signs the caller in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registerOutcome(err)).Inc()
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()

	h.setAuthCookie(c, res.Token)
	return c.JSON(http.StatusCreated, authResponse{Token: res.Token, User: res.User})
}

// Login verifies credentials and issues a bearer token, delivered both in
// the response body and as an HTTP-only cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	res, err := h.authService.Login(c.Request().Context(), domain.Credentials{
		Username: req.Username,
		Password: req.Password,
	}, clientIP(c))
	metrics.LoginDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			metrics.RateLimitRejectionsTotal.Inc()
		}
		metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	h.setAuthCookie(c, res.Token)
	return c.JSON(http.StatusOK, authResponse{Token: res.Token, User: res.User})
}

// Logout clears the auth cookie. Tokens are stateless, so the token itself
// stays cryptographically valid until it expires.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
	return c.JSON(http.StatusOK, map[string]string{"message": "logout successful"})
}

// Me returns the authenticated caller's current record.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.UserResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return domain.ErrMissingToken
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) setAuthCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountDisabled):
		return "account_disabled"
	default:
		return "error"
	}
}

func registerOutcome(err error) string {
	if errors.Is(err, domain.ErrUserAlreadyExists) {
		return "duplicate"
	}
	return "error"
}
