package ports

import (
	"context"

	"github.com/bqhai199x/auth-service/internal/core/domain"
)

// CreateUserInput carries the fields the credential store needs to persist a
// new account. The password arrives already hashed.
type CreateUserInput struct {
	Username     string
	Name         string
	PasswordHash string
	Role         domain.Role
	IsActive     bool
}

// UserRepository is the credential store contract. Lookups return
// domain.ErrUserNotFound when no record matches; Create returns
// domain.ErrUserAlreadyExists on a username uniqueness violation.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	SetActive(ctx context.Context, id int64, active bool) (*domain.User, error)
	SetPassword(ctx context.Context, id int64, passwordHash string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Count(ctx context.Context, activeOnly bool) (int64, error)
}
