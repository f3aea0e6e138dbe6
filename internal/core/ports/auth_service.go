package ports

import (
	"context"

	"github.com/bqhai199x/auth-service/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer for registration.
type RegisterInput struct {
	Username string
	Name     string
	Password string
}

// AuthResult pairs the user projection with a freshly issued token.
type AuthResult struct {
	User  *domain.UserResponse
	Token string
}

// AuthService orchestrates registration, login, and token validation.
// Every returned error matches one of the domain error kinds.
type AuthService interface {
	// Register creates an account with role user and an active flag, then
	// issues a token for it.
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)

	// Login verifies credentials for an active account. clientID identifies
	// the caller for rate limiting (typically the client IP) and is checked
	// before the username is even looked up.
	Login(ctx context.Context, creds domain.Credentials, clientID string) (*AuthResult, error)

	// ValidateToken verifies the token signature and expiry, then re-reads
	// the subject from the credential store. The returned projection always
	// reflects the current record, not the token's embedded claims.
	ValidateToken(ctx context.Context, token string) (*domain.UserResponse, error)
}
