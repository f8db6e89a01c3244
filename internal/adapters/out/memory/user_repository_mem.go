// backend/internal/adapters/out/memory/user_repository_mem.go
package memory

import (
	"context"
	"strings"

	userdom "storefront/internal/domain/user"
)

func (s *Store) GetUserByID(ctx context.Context, id string) (*userdom.User, error) {
	if err := alive(ctx, "GetUserByID"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[strings.TrimSpace(id)]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*userdom.User, error) {
	if err := alive(ctx, "GetUserByUsername"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := strings.TrimSpace(username)
	for _, u := range s.users {
		if u.Username != nil && *u.Username == n {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*userdom.User, error) {
	if err := alive(ctx, "GetUserByEmail"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	e := userdom.NormalizeEmail(email)
	for _, u := range s.users {
		if u.Email == e {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

// CreateUser enforces unique email and username.
func (s *Store) CreateUser(ctx context.Context, in userdom.CreateUserInput) (*userdom.User, error) {
	if err := alive(ctx, "CreateUser"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := userdom.New(s.id(strings.TrimSpace(in.ID)), in, s.now())
	if err != nil {
		return nil, err
	}
	if _, dup := s.users[u.ID]; dup {
		return nil, userdom.ErrConflict
	}
	for _, other := range s.users {
		if other.Email == u.Email {
			return nil, userdom.ErrConflict
		}
		if u.Username != nil && other.Username != nil && *other.Username == *u.Username {
			return nil, userdom.ErrConflict
		}
	}

	s.users[u.ID] = u
	return cloneUser(u), nil
}

func cloneUser(u userdom.User) *userdom.User {
	u.Username = clonePtr(u.Username)
	return &u
}
