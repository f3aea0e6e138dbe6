package service

import (
	"errors"
	"testing"
	"time"

	"github.com/bqhai199x/auth-service/internal/core/domain"
	"github.com/bqhai199x/auth-service/internal/core/ports"
)

func TestJWTTokenService_RequiresSecret(t *testing.T) {
	if _, err := NewJWTTokenService("", time.Hour); err == nil {
		t.Fatal("expected an error for an empty secret")
	}
}

func TestJWTTokenService_RoundTrip(t *testing.T) {
	svc, err := NewJWTTokenService("secret", time.Hour)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	token, err := svc.Issue(ports.TokenClaims{UserID: 42, Username: "alice", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" || claims.Role != domain.RoleAdmin {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestJWTTokenService_DefaultTTL(t *testing.T) {
	svc, err := NewJWTTokenService("secret", 0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if svc.TTL() != 7*24*time.Hour {
		t.Fatalf("expected 7 day default lifetime, got %v", svc.TTL())
	}
}

func TestJWTTokenService_Expiry(t *testing.T) {
	svc, err := NewJWTTokenService("secret", time.Hour)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue(ports.TokenClaims{UserID: 1, Username: "bob", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Valid strictly before the expiry instant.
	svc.now = func() time.Time { return issuedAt.Add(time.Hour - time.Second) }
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("token before expiry should verify: %v", err)
	}

	// At the expiry instant and beyond the token is rejected.
	svc.now = func() time.Time { return issuedAt.Add(time.Hour) }
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken at expiry instant, got %v", err)
	}

	svc.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken past expiry, got %v", err)
	}
}

func TestJWTTokenService_WrongSecret(t *testing.T) {
	issuer, _ := NewJWTTokenService("secret-a", time.Hour)
	verifier, _ := NewJWTTokenService("secret-b", time.Hour)

	token, err := issuer.Issue(ports.TokenClaims{UserID: 1, Username: "carol", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for mis-signed token, got %v", err)
	}
}

func TestJWTTokenService_Malformed(t *testing.T) {
	svc, _ := NewJWTTokenService("secret", time.Hour)

	for _, token := range []string{"", "abc", "a.b.c"} {
		if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestJWTTokenService_TamperedPayload(t *testing.T) {
	svc, _ := NewJWTTokenService("secret", time.Hour)

	token, err := svc.Issue(ports.TokenClaims{UserID: 7, Username: "dave", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tampered := token[:len(token)-4] + "zzzz"
	if _, err := svc.Verify(tampered); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}
