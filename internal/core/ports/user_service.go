package ports

import (
	"context"

	"github.com/bqhai199x/auth-service/internal/core/domain"
)

// UserStats aggregates account counts for the admin surface.
type UserStats struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

// UserService exposes account management operations. Accounts are never hard
// deleted; deactivation flips the active flag and outstanding tokens stop
// validating on their next use.
type UserService interface {
	Get(ctx context.Context, id int64) (*domain.UserResponse, error)
	List(ctx context.Context) ([]*domain.UserResponse, error)
	Stats(ctx context.Context) (*UserStats, error)
	Activate(ctx context.Context, id int64) (*domain.UserResponse, error)
	Deactivate(ctx context.Context, id int64) (*domain.UserResponse, error)
	ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error
}
