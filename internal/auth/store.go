package auth

import (
	"context"
	"strings"
	"sync"
)

// Store describes the persistence operations required by the credential
// subsystem. Create must reject a username or email collision atomically
// with the insert so two concurrent registrations cannot both succeed.
type Store interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// InMemory implements Store with in-process concurrency safety. Used in
// tests and local development; production uses PGStore.
type InMemory struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string // email -> id
	byName  map[string]string // username -> id
}

// NewInMemory creates an empty in-memory user store.
func NewInMemory() *InMemory {
	return &InMemory{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
		byName:  make(map[string]string),
	}
}

func (s *InMemory) Create(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(u.Email)
	name := strings.ToLower(u.Username)
	if _, ok := s.byEmail[email]; ok {
		return ErrDuplicateIdentity
	}
	if _, ok := s.byName[name]; ok {
		return ErrDuplicateIdentity
	}
	cp := *u
	s.byID[u.ID] = &cp
	s.byEmail[email] = u.ID
	s.byName[name] = u.ID
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *InMemory) FindByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s.byID[id]
	return &cp, nil
}
