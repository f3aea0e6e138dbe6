package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bqhai199x/auth-service/internal/core/domain"
	"github.com/bqhai199x/auth-service/internal/core/ports"
)

const defaultTokenTTL = 7 * 24 * time.Hour

// jwtClaims is the wire shape of a token payload.
type jwtClaims struct {
	jwt.RegisteredClaims
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// JWTTokenService issues and verifies HS256-signed bearer tokens.
type JWTTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTTokenService builds a token service. A missing secret is a
// configuration error, not something to recover from at request time.
func NewJWTTokenService(secret string, ttl time.Duration) (*JWTTokenService, error) {
	if secret == "" {
		return nil, errors.New("token service: signing secret is not configured")
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTTokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns the configured token lifetime.
func (s *JWTTokenService) TTL() time.Duration {
	return s.ttl
}

func (s *JWTTokenService) Issue(claims ports.TokenClaims) (string, error) {
	now := s.now()
	payload := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(claims.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Username: claims.Username,
		Role:     claims.Role,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	return t.SignedString(s.secret)
}

// Verify checks signature and expiry. A token is valid strictly before
// expiresAt and rejected from the expiry instant on, with no leeway.
func (s *JWTTokenService) Verify(token string) (*ports.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	return &ports.TokenClaims{
		UserID:   userID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}
