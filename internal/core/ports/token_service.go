package ports

import "github.com/bqhai199x/auth-service/internal/core/domain"

// TokenClaims is the identity embedded in a bearer token. The role claim is
// carried for display convenience only; authorization always re-reads the
// user record.
type TokenClaims struct {
	UserID   int64
	Username string
	Role     domain.Role
}

// TokenService mints and verifies signed, time-limited bearer tokens.
type TokenService interface {
	// Issue signs the claims together with issued-at and expiry timestamps.
	Issue(claims TokenClaims) (string, error)

	// Verify checks signature and expiry. Any malformed, mis-signed, or
	// expired token yields domain.ErrInvalidToken; callers treat all
	// verification failures uniformly as unauthenticated.
	Verify(token string) (*TokenClaims, error)
}
