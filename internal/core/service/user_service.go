package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bqhai199x/auth-service/internal/core/domain"
	"github.com/bqhai199x/auth-service/internal/core/ports"
)

type userService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

// NewUserService returns the account management service.
func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) ports.UserService {
	return &userService{repo: repo, hasher: hasher, log: log}
}

func (s *userService) Get(ctx context.Context, id int64) (*domain.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Classify(err)
	}
	return user.Response(), nil
}

func (s *userService) List(ctx context.Context) ([]*domain.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, domain.Classify(err)
	}

	out := make([]*domain.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, u.Response())
	}
	return out, nil
}

func (s *userService) Stats(ctx context.Context) (*ports.UserStats, error) {
	total, err := s.repo.Count(ctx, false)
	if err != nil {
		return nil, domain.Classify(err)
	}
	active, err := s.repo.Count(ctx, true)
	if err != nil {
		return nil, domain.Classify(err)
	}
	return &ports.UserStats{Total: total, Active: active}, nil
}

func (s *userService) Activate(ctx context.Context, id int64) (*domain.UserResponse, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate soft-deletes the account. Outstanding tokens for the account
// fail validation on their next use.
func (s *userService) Deactivate(ctx context.Context, id int64) (*domain.UserResponse, error) {
	return s.setActive(ctx, id, false)
}

func (s *userService) setActive(ctx context.Context, id int64, active bool) (*domain.UserResponse, error) {
	user, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, domain.Classify(err)
	}

	s.log.Info().Int64("user_id", id).Bool("active", active).Msg("user active flag changed")
	return user.Response(), nil
}

// ChangePassword verifies the current password before storing a new hash.
// The mismatch error is the same merged credential error used by login.
func (s *userService) ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Classify(err)
	}
	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return domain.Classify(err)
	}

	if _, err := s.repo.SetPassword(ctx, id, hash); err != nil {
		return domain.Classify(err)
	}

	s.log.Info().Int64("user_id", id).Msg("user password changed")
	return nil
}
