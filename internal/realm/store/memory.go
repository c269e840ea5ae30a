package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"authgate/internal/realm/models"
	"authgate/pkg/platform/sentinel"
)

// Error contract: store methods return sentinel.ErrNotFound (wrapped) when the
// realm does not exist and sentinel.ErrAlreadyUsed on name conflicts. Services
// translate these into domain errors.

// InMemory keeps realms in memory for tests and single-node deployments.
// Lookups are case-insensitive on realm name.
type InMemory struct {
	mu     sync.RWMutex
	realms map[string]*models.Realm
}

func NewInMemory() *InMemory {
	return &InMemory{realms: make(map[string]*models.Realm)}
}

func (s *InMemory) Create(_ context.Context, realm *models.Realm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(realm.Name)
	if _, ok := s.realms[key]; ok {
		return fmt.Errorf("realm %q: %w", realm.Name, sentinel.ErrAlreadyUsed)
	}
	s.realms[key] = realm
	return nil
}

func (s *InMemory) FindByName(_ context.Context, name string) (*models.Realm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if realm, ok := s.realms[strings.ToLower(name)]; ok {
		return realm, nil
	}
	return nil, fmt.Errorf("realm %q: %w", name, sentinel.ErrNotFound)
}
