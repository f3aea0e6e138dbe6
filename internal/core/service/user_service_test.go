package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bqhai199x/auth-service/internal/core/domain"
	"github.com/bqhai199x/auth-service/internal/core/ports"
)

func newTestUserService(repo ports.UserRepository) ports.UserService {
	return NewUserService(repo, NewBcryptHasher(4), zerolog.Nop())
}

func seedUser(t *testing.T, repo *stubUserRepo, username, password string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := NewBcryptHasher(4).Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := repo.Create(context.Background(), ports.CreateUserInput{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", username, err)
	}
	return u
}

func TestUserService_ActivateDeactivate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)
	u := seedUser(t, repo, "alice", "pass-123", domain.RoleUser)

	deactivated, err := svc.Deactivate(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if deactivated.IsActive {
		t.Fatal("expected inactive user")
	}

	activated, err := svc.Activate(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !activated.IsActive {
		t.Fatal("expected active user")
	}
}

func TestUserService_ActivateUnknown(t *testing.T) {
	svc := newTestUserService(newStubUserRepo())

	_, err := svc.Activate(context.Background(), 404)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)
	u := seedUser(t, repo, "bob", "old-pass-1", domain.RoleUser)

	if err := svc.ChangePassword(context.Background(), u.ID, "old-pass-1", "new-pass-1"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	stored, err := repo.FindByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	hasher := NewBcryptHasher(4)
	if !hasher.Verify("new-pass-1", stored.PasswordHash) {
		t.Fatal("new password should verify against the stored hash")
	}
	if hasher.Verify("old-pass-1", stored.PasswordHash) {
		t.Fatal("old password should no longer verify")
	}
}

func TestUserService_ChangePassword_WrongCurrent(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)
	u := seedUser(t, repo, "carol", "right-pass", domain.RoleUser)

	err := svc.ChangePassword(context.Background(), u.ID, "wrong-pass", "new-pass-1")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_Stats(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)

	seedUser(t, repo, "a", "pass-123", domain.RoleUser)
	b := seedUser(t, repo, "b", "pass-123", domain.RoleUser)
	seedUser(t, repo, "c", "pass-123", domain.RoleAdmin)

	if _, err := svc.Deactivate(context.Background(), b.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 || stats.Active != 2 {
		t.Fatalf("expected 3 total / 2 active, got %d/%d", stats.Total, stats.Active)
	}
}

func TestUserService_ListProjectsWithoutHash(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)
	seedUser(t, repo, "dave", "pass-123", domain.RoleUser)

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if users[0].Username != "dave" {
		t.Fatalf("unexpected user: %+v", users[0])
	}
}
