package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"authgate/internal/session/models"
	"authgate/pkg/platform/sentinel"
)

type SessionStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *SessionStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestSessionStoreSuite(t *testing.T) {
	suite.Run(t, new(SessionStoreSuite))
}

func (s *SessionStoreSuite) newUserSession(realm string) *models.UserSession {
	now := time.Now()
	return &models.UserSession{
		ID:           uuid.New(),
		RealmName:    realm,
		UserID:       uuid.New(),
		CreatedAt:    now,
		LastAccessAt: now,
	}
}

func (s *SessionStoreSuite) TestUserSessions() {
	s.Run("creates and retrieves a session", func() {
		session := s.newUserSession("acme")
		s.Require().NoError(s.store.CreateUserSession(s.ctx, session))

		found, err := s.store.GetUserSession(s.ctx, "acme", session.ID)
		s.Require().NoError(err)
		s.Equal(session.UserID, found.UserID)
	})

	s.Run("sessions are scoped to their realm", func() {
		session := s.newUserSession("acme")
		s.Require().NoError(s.store.CreateUserSession(s.ctx, session))

		_, err := s.store.GetUserSession(s.ctx, "other", session.ID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned session is a copy", func() {
		session := s.newUserSession("acme")
		s.Require().NoError(s.store.CreateUserSession(s.ctx, session))

		found, err := s.store.GetUserSession(s.ctx, "acme", session.ID)
		s.Require().NoError(err)
		found.RememberMe = true

		again, err := s.store.GetUserSession(s.ctx, "acme", session.ID)
		s.Require().NoError(err)
		s.False(again.RememberMe)
	})

	s.Run("remove deletes the session", func() {
		session := s.newUserSession("acme")
		s.Require().NoError(s.store.CreateUserSession(s.ctx, session))
		s.Require().NoError(s.store.RemoveUserSession(s.ctx, "acme", session.ID))

		_, err := s.store.GetUserSession(s.ctx, "acme", session.ID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("removing an absent session is a no-op", func() {
		s.Require().NoError(s.store.RemoveUserSession(s.ctx, "acme", uuid.New()))
	})
}

func (s *SessionStoreSuite) TestClientSessions() {
	s.Run("creates and retrieves a client session", func() {
		session := &models.ClientSession{
			ID:            uuid.New(),
			UserSessionID: uuid.New(),
			RealmName:     "acme",
			ClientID:      "web",
			CreatedAt:     time.Now(),
		}
		s.Require().NoError(s.store.CreateClientSession(s.ctx, session))

		found, err := s.store.GetClientSession(s.ctx, session.ID)
		s.Require().NoError(err)
		s.Equal("web", found.ClientID)
		s.Equal(models.ActionNone, found.PendingAction)
	})

	s.Run("updates the pending action", func() {
		session := &models.ClientSession{ID: uuid.New(), RealmName: "acme", ClientID: "web"}
		s.Require().NoError(s.store.CreateClientSession(s.ctx, session))
		s.Require().NoError(s.store.UpdateClientSessionAction(s.ctx, session.ID, models.ActionCodeToToken))

		found, err := s.store.GetClientSession(s.ctx, session.ID)
		s.Require().NoError(err)
		s.Equal(models.ActionCodeToToken, found.PendingAction)
	})

	s.Run("updating an unknown client session fails", func() {
		err := s.store.UpdateClientSessionAction(s.ctx, uuid.New(), models.ActionOAuthGrant)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}
