package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bqhai199x/auth-service/internal/api/metrics"
	"github.com/bqhai199x/auth-service/internal/core/domain"
	"github.com/bqhai199x/auth-service/internal/core/ports"
)

// CookieName is the HTTP-only cookie carrying the bearer token.
const CookieName = "auth_token"

// userContextKey keys the authenticated user in the echo context and the
// request's context.Context.
const userContextKey = "auth_user"

type ctxKey struct{}

// Options controls token extraction and role enforcement for RequireAuth.
type Options struct {
	// RequiredRole, when set, must match the user's current role exactly.
	// Admin does not implicitly satisfy a user-role requirement.
	RequiredRole *domain.Role

	// AllowCookie and AllowHeader select the accepted token transports.
	// The cookie takes precedence when both are allowed.
	AllowCookie bool
	AllowHeader bool
}

// DefaultOptions accepts both transports and enforces no role.
func DefaultOptions() Options {
	return Options{AllowCookie: true, AllowHeader: true}
}

func roleOption(role domain.Role) Options {
	opts := DefaultOptions()
	opts.RequiredRole = &role
	return opts
}

// RequireAuth validates the request's bearer token against the auth service
// and attaches the resolved user to the request context. The role check uses
// the freshly loaded user, never the token's embedded role claim.
func RequireAuth(auth ports.AuthService, opts Options) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := authenticate(c, auth, opts)
			if err != nil {
				return err
			}

			SetCurrentUser(c, user)
			return next(c)
		}
	}
}

// RequireAdmin is RequireAuth fixed to the admin role.
func RequireAdmin(auth ports.AuthService) echo.MiddlewareFunc {
	return RequireAuth(auth, roleOption(domain.RoleAdmin))
}

// RequireUser is RequireAuth fixed to the user role. The match is exact:
// an admin token does not pass.
func RequireUser(auth ports.AuthService) echo.MiddlewareFunc {
	return RequireAuth(auth, roleOption(domain.RoleUser))
}

// OptionalAuth resolves an identity when a valid token is present and
// proceeds without one otherwise. Every authentication failure is swallowed.
func OptionalAuth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user, err := authenticate(c, auth, DefaultOptions()); err == nil {
				SetCurrentUser(c, user)
			}
			return next(c)
		}
	}
}

func authenticate(c echo.Context, auth ports.AuthService, opts Options) (*domain.UserResponse, error) {
	token := extractToken(c, opts)
	if token == "" {
		return nil, domain.ErrMissingToken
	}

	user, err := auth.ValidateToken(c.Request().Context(), token)
	if err != nil {
		metrics.TokenValidationsTotal.WithLabelValues(validationOutcome(err)).Inc()
		return nil, err
	}
	metrics.TokenValidationsTotal.WithLabelValues("success").Inc()

	if opts.RequiredRole != nil && user.Role != *opts.RequiredRole {
		return nil, domain.ErrInsufficientPermissions
	}

	return user, nil
}

func validationOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	default:
		return "error"
	}
}

// extractToken reads the cookie first (when allowed), then the
// Authorization header's Bearer scheme.
func extractToken(c echo.Context, opts Options) string {
	if opts.AllowCookie {
		if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
			return cookie.Value
		}
	}

	if opts.AllowHeader {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	return ""
}

// SetCurrentUser attaches the resolved identity to both the echo context and
// the request's context.Context.
func SetCurrentUser(c echo.Context, user *domain.UserResponse) {
	c.Set(userContextKey, user)
	req := c.Request()
	c.SetRequest(req.WithContext(context.WithValue(req.Context(), ctxKey{}, user)))
}

// CurrentUser returns the user attached by RequireAuth or OptionalAuth,
// or nil when the request is unauthenticated.
func CurrentUser(c echo.Context) *domain.UserResponse {
	user, _ := c.Get(userContextKey).(*domain.UserResponse)
	return user
}

// UserFromContext retrieves the authenticated user from a request context,
// for code without access to the echo context.
func UserFromContext(ctx context.Context) *domain.UserResponse {
	user, _ := ctx.Value(ctxKey{}).(*domain.UserResponse)
	return user
}
