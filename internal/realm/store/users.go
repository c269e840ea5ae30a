package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"authgate/internal/realm/models"
	"authgate/pkg/platform/sentinel"
)

// InMemoryUsers keeps realm users in memory, keyed by realm and email.
// Email lookups are case-insensitive.
type InMemoryUsers struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewInMemoryUsers() *InMemoryUsers {
	return &InMemoryUsers{users: make(map[string]*models.User)}
}

func userKey(realmName, email string) string {
	return strings.ToLower(realmName) + "/" + strings.ToLower(email)
}

func (s *InMemoryUsers) CreateUser(_ context.Context, realmName string, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userKey(realmName, user.Email)
	if _, ok := s.users[key]; ok {
		return fmt.Errorf("user %q: %w", user.Email, sentinel.ErrAlreadyUsed)
	}
	s.users[key] = user
	return nil
}

func (s *InMemoryUsers) FindUserByEmail(_ context.Context, realmName, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[userKey(realmName, email)]; ok {
		return user, nil
	}
	return nil, fmt.Errorf("user %q: %w", email, sentinel.ErrNotFound)
}
