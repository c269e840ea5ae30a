package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"authgate/internal/session/models"
	"authgate/pkg/platform/sentinel"
)

// InMemory stores sessions in memory for tests and single-node deployments.
type InMemory struct {
	mu             sync.RWMutex
	userSessions   map[string]*models.UserSession // keyed realm + "/" + id
	clientSessions map[uuid.UUID]*models.ClientSession
}

func NewInMemory() *InMemory {
	return &InMemory{
		userSessions:   make(map[string]*models.UserSession),
		clientSessions: make(map[uuid.UUID]*models.ClientSession),
	}
}

func userSessionKey(realmName string, id uuid.UUID) string {
	return realmName + "/" + id.String()
}

func (s *InMemory) GetUserSession(_ context.Context, realmName string, id uuid.UUID) (*models.UserSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if session, ok := s.userSessions[userSessionKey(realmName, id)]; ok {
		copied := *session
		return &copied, nil
	}
	return nil, fmt.Errorf("user session %s: %w", id, sentinel.ErrNotFound)
}

func (s *InMemory) CreateUserSession(_ context.Context, session *models.UserSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.userSessions[userSessionKey(session.RealmName, session.ID)] = &copied
	return nil
}

// RemoveUserSession deletes the session if present. Removing an absent
// session is not an error: reconciliation is best-effort.
func (s *InMemory) RemoveUserSession(_ context.Context, realmName string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.userSessions, userSessionKey(realmName, id))
	return nil
}

func (s *InMemory) CreateClientSession(_ context.Context, session *models.ClientSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.clientSessions[session.ID] = &copied
	return nil
}

func (s *InMemory) GetClientSession(_ context.Context, id uuid.UUID) (*models.ClientSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if session, ok := s.clientSessions[id]; ok {
		copied := *session
		return &copied, nil
	}
	return nil, fmt.Errorf("client session %s: %w", id, sentinel.ErrNotFound)
}

func (s *InMemory) UpdateClientSessionAction(_ context.Context, id uuid.UUID, action models.PendingAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.clientSessions[id]
	if !ok {
		return fmt.Errorf("client session %s: %w", id, sentinel.ErrNotFound)
	}
	session.PendingAction = action
	return nil
}
