package authcode

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	realmmodels "authgate/internal/realm/models"
	sessionmodels "authgate/internal/session/models"
	sessionstore "authgate/internal/session/store"
	"authgate/pkg/requestcontext"
)

type IssuerSuite struct {
	suite.Suite
	ctx      context.Context
	codes    *InMemoryStore
	sessions *sessionstore.InMemory
	issuer   *Issuer
	realm    *realmmodels.Realm
	client   *realmmodels.Client
	session  *sessionmodels.UserSession
}

func (s *IssuerSuite) SetupTest() {
	s.ctx = context.Background()
	s.codes = NewInMemoryStore()
	s.sessions = sessionstore.NewInMemory()
	s.issuer = NewIssuer(s.codes, s.sessions, 5*time.Minute)
	s.realm = &realmmodels.Realm{Name: "acme", Enabled: true}
	s.client = &realmmodels.Client{ClientID: "web", RealmName: "acme", Enabled: true}
	s.session = &sessionmodels.UserSession{ID: uuid.New(), RealmName: "acme"}
}

func TestIssuerSuite(t *testing.T) {
	suite.Run(t, new(IssuerSuite))
}

func (s *IssuerSuite) issue(user *realmmodels.User, scope string) *AccessCode {
	code, err := s.issuer.Issue(s.ctx, IssueParams{
		Scope:       scope,
		RedirectURI: "https://app.example.com/cb",
		Realm:       s.realm,
		Client:      s.client,
		User:        user,
		UserSession: s.session,
	})
	s.Require().NoError(err)
	return code
}

func (s *IssuerSuite) TestIssueBindsCodeToSessionAndClient() {
	user := &realmmodels.User{ID: uuid.New()}
	code := s.issue(user, "")

	s.NotEmpty(code.Code)
	s.NotEqual(uuid.Nil, code.CodeID)
	s.Equal("acme", code.RealmName)
	s.Equal("web", code.ClientID)
	s.Equal(user.ID, code.UserID)
	s.False(code.Used)

	clientSession, err := s.sessions.GetClientSession(s.ctx, code.ClientSessionID)
	s.Require().NoError(err)
	s.Equal(s.session.ID, clientSession.UserSessionID)
	s.Equal(sessionmodels.ActionNone, clientSession.PendingAction)
}

func (s *IssuerSuite) TestIssueReusesProvidedClientSession() {
	existing := &sessionmodels.ClientSession{
		ID:            uuid.New(),
		UserSessionID: s.session.ID,
		RealmName:     "acme",
		ClientID:      "web",
	}
	s.Require().NoError(s.sessions.CreateClientSession(s.ctx, existing))

	code, err := s.issuer.Issue(s.ctx, IssueParams{
		Realm:         s.realm,
		Client:        s.client,
		User:          &realmmodels.User{ID: uuid.New()},
		UserSession:   s.session,
		ClientSession: existing,
	})
	s.Require().NoError(err)
	s.Equal(existing.ID, code.ClientSessionID)
}

func (s *IssuerSuite) TestExpiryUsesRequestTime() {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(s.ctx, fixed)

	code, err := s.issuer.Issue(ctx, IssueParams{
		Realm:       s.realm,
		Client:      s.client,
		User:        &realmmodels.User{ID: uuid.New()},
		UserSession: s.session,
	})
	s.Require().NoError(err)
	s.Equal(fixed, code.CreatedAt)
	s.Equal(fixed.Add(5*time.Minute), code.ExpiresAt)
}

func (s *IssuerSuite) TestRoleResolution() {
	user := &realmmodels.User{
		ID: uuid.New(),
		Roles: []realmmodels.Role{
			{Name: "admin"},
			{Name: "viewer"},
			{Name: "manage-account", Application: "account"},
		},
	}

	s.Run("empty scope grants everything, partitioned", func() {
		code := s.issue(user, "")
		s.Len(code.RealmRoles, 2)
		s.Len(code.ApplicationRoles, 1)
		s.Len(code.ApplicationRoles["account"], 1)
	})

	s.Run("scope narrows by role name", func() {
		code := s.issue(user, "viewer manage-account")
		s.Len(code.RealmRoles, 1)
		s.Equal("viewer", code.RealmRoles[0].Name)
		s.Len(code.ApplicationRoles["account"], 1)
	})

	s.Run("unknown scope entries grant nothing", func() {
		code := s.issue(user, "nonexistent")
		s.Empty(code.RealmRoles)
		s.Empty(code.ApplicationRoles)
	})
}

func (s *IssuerSuite) TestCodesAreUnique() {
	user := &realmmodels.User{ID: uuid.New()}
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		code := s.issue(user, "")
		s.Require().False(seen[code.Code], "duplicate code issued")
		seen[code.Code] = true
	}
}
