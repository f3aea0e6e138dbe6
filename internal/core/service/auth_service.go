package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/bqhai199x/auth-service/internal/core/domain"
	"github.com/bqhai199x/auth-service/internal/core/ports"
)

type authService struct {
	repo    ports.UserRepository
	hasher  ports.PasswordHasher
	tokens  ports.TokenService
	limiter ports.RateLimiter
	log     zerolog.Logger
}

// NewAuthService wires the login, registration, and token validation flows.
func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	limiter ports.RateLimiter,
	log zerolog.Logger,
) ports.AuthService {
	return &authService{
		repo:    repo,
		hasher:  hasher,
		tokens:  tokens,
		limiter: limiter,
		log:     log,
	}
}

// Login runs the credential check pipeline, terminal on first failure:
// rate limit, then lookup and password verify, then the active flag, then
// token issuance.
//
// Unknown username and wrong password produce the identical error so the
// response cannot be used to enumerate accounts.
func (s *authService) Login(ctx context.Context, creds domain.Credentials, clientID string) (*ports.AuthResult, error) {
	res, err := s.login(ctx, creds, clientID)
	if err != nil {
		return nil, s.boundary(err, "login failed")
	}
	return res, nil
}

func (s *authService) login(ctx context.Context, creds domain.Credentials, clientID string) (*ports.AuthResult, error) {
	allowed, err := s.limiter.Allow(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		s.log.Warn().Str("client", clientID).Msg("login rate limit exceeded")
		return nil, domain.ErrRateLimited
	}

	user, err := s.repo.FindByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(creds.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrAccountDisabled
	}

	token, err := s.tokens.Issue(ports.TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user logged in")
	return &ports.AuthResult{User: user.Response(), Token: token}, nil
}

// Register creates an account with the default user role. The existence
// check is advisory; the store's unique constraint is authoritative, so a
// concurrent duplicate surfaces as the same ErrUserAlreadyExists.
func (s *authService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	res, err := s.register(ctx, in)
	if err != nil {
		return nil, s.boundary(err, "registration failed")
	}
	return res, nil
}

func (s *authService) register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	if _, err := s.repo.FindByUsername(ctx, in.Username); err == nil {
		return nil, domain.ErrUserAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, ports.CreateUserInput{
		Username:     in.Username,
		Name:         in.Name,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(ports.TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return &ports.AuthResult{User: user.Response(), Token: token}, nil
}

// ValidateToken verifies the token, then re-reads the subject from the
// credential store. The active flag is checked on every validation, so a
// deactivated account's outstanding tokens stop working without revocation.
// Role is taken from the fresh record, never from the token payload.
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.UserResponse, error) {
	user, err := s.validateToken(ctx, token)
	if err != nil {
		return nil, s.boundary(err, "token validation failed")
	}
	return user, nil
}

func (s *authService) validateToken(ctx context.Context, token string) (*domain.UserResponse, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserNotFound
	}

	return user.Response(), nil
}

// boundary converts internal faults once, at the service edge. Recognized
// kinds pass through; anything else is logged with its real cause and
// surfaced as ErrInternal.
func (s *authService) boundary(err error, msg string) error {
	classified := domain.Classify(err)
	if errors.Is(classified, domain.ErrInternal) {
		s.log.Error().Err(err).Msg(msg)
	}
	return classified
}
