package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"healthwallet.org/internal/ids"
)

// Service is the credential store: it registers accounts and verifies
// login credentials. Hashing is deliberately slow, so Register and Login
// are long-latency calls; never hold locks across them.
type Service struct {
	store Store
	cost  int
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithBcryptCost overrides the bcrypt cost factor.
func WithBcryptCost(cost int) ServiceOption {
	return func(s *Service) {
		if cost > 0 {
			s.cost = cost
		}
	}
}

// NewService constructs the credential service.
func NewService(store Store, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("auth: store is required")
	}
	s := &Service{store: store, cost: DefaultBcryptCost}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register creates a new account. A username or email collision fails with
// ErrDuplicateIdentity; the combined uniqueness check and the insert happen
// atomically inside the store. The raw password is hashed before the store
// ever sees it and is never logged.
func (s *Service) Register(ctx context.Context, username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	hash, err := HashPassword(password, s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           ids.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleOwner,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns the matching account. Unknown
// email and wrong password are distinct internally but both collapse to
// ErrInvalidCredentials here, before the result crosses any trust boundary.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FindByID resolves an account by id.
func (s *Service) FindByID(ctx context.Context, id string) (*User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.store.FindByID(ctx, id)
}
