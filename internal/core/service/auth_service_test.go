package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bqhai199x/auth-service/internal/core/domain"
	"github.com/bqhai199x/auth-service/internal/core/ports"
)

type stubUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User

	failWith error // when set, every call returns this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, in ports.CreateUserInput) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, u := range r.users {
		if u.Username == in.Username {
			return nil, domain.ErrUserAlreadyExists
		}
	}
	r.nextID++
	u := &domain.User{
		ID:           r.nextID,
		Username:     in.Username,
		Name:         in.Name,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		IsActive:     in.IsActive,
		CreatedAt:    time.Now().UTC(),
	}
	r.users[u.ID] = u
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id int64, active bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.IsActive = active
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetPassword(_ context.Context, id int64, hash string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Count(_ context.Context, activeOnly bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if !activeOnly || u.IsActive {
			n++
		}
	}
	return n, nil
}

// stubLimiter allows everything unless deny is set.
type stubLimiter struct {
	deny bool
	err  error
}

func (l *stubLimiter) Allow(context.Context, string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	return !l.deny, nil
}

func newTestAuthService(t *testing.T, repo ports.UserRepository, limiter ports.RateLimiter) ports.AuthService {
	t.Helper()
	tokens, err := NewJWTTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	hasher := NewBcryptHasher(4) // minimum cost keeps tests fast
	return NewAuthService(repo, hasher, tokens, limiter, zerolog.Nop())
}

func register(t *testing.T, svc ports.AuthService, username, password string) *ports.AuthResult {
	t.Helper()
	res, err := svc.Register(context.Background(), ports.RegisterInput{Username: username, Password: password})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return res
}

func TestLogin_RoundTrip(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo, &stubLimiter{})

	register(t, svc, "alice", "s3cret-pass")

	res, err := svc.Login(context.Background(), domain.Credentials{Username: "alice", Password: "s3cret-pass"}, "10.0.0.1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token == "" {
		t.Fatal("expected a token")
	}
	if res.User.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %v", res.User.Role)
	}

	// The token verifies back to the same identity.
	validated, err := svc.ValidateToken(context.Background(), res.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if validated.ID != res.User.ID || validated.Username != "alice" || validated.Role != res.User.Role {
		t.Fatalf("token identity mismatch: %+v vs %+v", validated, res.User)
	}
}

func TestLogin_EnumerationProof(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo, &stubLimiter{})

	register(t, svc, "bob", "correct-pass")

	_, wrongPass := svc.Login(context.Background(), domain.Credentials{Username: "bob", Password: "wrong"}, "ip")
	_, noUser := svc.Login(context.Background(), domain.Credentials{Username: "nobody", Password: "wrong"}, "ip")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(noUser, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", noUser)
	}
	if wrongPass.Error() != noUser.Error() {
		t.Fatalf("error messages differ: %q vs %q", wrongPass, noUser)
	}
}

func TestLogin_RateLimited(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo, &stubLimiter{deny: true})

	register(t, svc, "carol", "pass-123")

	// Registration does not go through the limiter; login does.
	_, err := svc.Login(context.Background(), domain.Credentials{Username: "carol", Password: "pass-123"}, "ip")
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestLogin_AccountDisabled(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo, &stubLimiter{})

	res := register(t, svc, "dave", "pass-123")
	if _, err := repo.SetActive(context.Background(), res.User.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, err := svc.Login(context.Background(), domain.Credentials{Username: "dave", Password: "pass-123"}, "ip")
	if !errors.Is(err, domain.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestLogin_InternalFaultClassified(t *testing.T) {
	repo := newStubUserRepo()
	repo.failWith = errors.New("connection reset by peer")
	svc := newTestAuthService(t, repo, &stubLimiter{})

	_, err := svc.Login(context.Background(), domain.Credentials{Username: "x", Password: "y"}, "ip")
	if !errors.Is(err, domain.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if err.Error() != domain.ErrInternal.Error() {
		t.Fatalf("internal detail leaked: %q", err)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo, &stubLimiter{})

	register(t, svc, "erin", "pass-123")
	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "erin", Password: "other"})
	if !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestRegister_ConcurrentDuplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo, &stubLimiter{})

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Register(context.Background(), ports.RegisterInput{Username: "frank", Password: "pass-123"})
		}(i)
	}
	wg.Wait()

	var successes, duplicates int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrUserAlreadyExists):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || duplicates != 1 {
		t.Fatalf("expected exactly one success and one duplicate, got %d/%d", successes, duplicates)
	}
}

func TestValidateToken_DeactivatedUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo, &stubLimiter{})

	res := register(t, svc, "grace", "pass-123")

	if _, err := svc.ValidateToken(context.Background(), res.Token); err != nil {
		t.Fatalf("token should validate while active: %v", err)
	}

	if _, err := repo.SetActive(context.Background(), res.User.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	// The token still verifies cryptographically, but validation re-reads
	// the account and fails.
	_, err := svc.ValidateToken(context.Background(), res.Token)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after deactivation, got %v", err)
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo, &stubLimiter{})

	for _, token := range []string{"", "not-a-jwt", "aaaa.bbbb.cccc"} {
		_, err := svc.ValidateToken(context.Background(), token)
		if !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestValidateToken_FreshRoleRead(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo, &stubLimiter{})

	res := register(t, svc, "heidi", "pass-123")

	// Promote after the token was minted; validation must report the
	// current role, not the one embedded in the token.
	repo.mu.Lock()
	repo.users[res.User.ID].Role = domain.RoleAdmin
	repo.mu.Unlock()

	validated, err := svc.ValidateToken(context.Background(), res.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if validated.Role != domain.RoleAdmin {
		t.Fatalf("expected fresh role admin, got %v", validated.Role)
	}
}

func TestRegister_ThenLogin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo, &stubLimiter{})

	register(t, svc, "ivan", "round-trip")
	if _, err := svc.Login(context.Background(), domain.Credentials{Username: "ivan", Password: "round-trip"}, "ip"); err != nil {
		t.Fatalf("login after register: %v", err)
	}
}
