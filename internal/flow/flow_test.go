package flow

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"authgate/internal/audit"
	"authgate/internal/authcode"
	"authgate/internal/realm/models"
	"authgate/internal/session/cookie"
	sessionmodels "authgate/internal/session/models"
	sessionstore "authgate/internal/session/store"
)

type capturePublisher struct {
	events []audit.Event
}

func (c *capturePublisher) Emit(_ context.Context, event audit.Event) error {
	c.events = append(c.events, event)
	return nil
}

func (c *capturePublisher) actions() []audit.Action {
	out := make([]audit.Action, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Action)
	}
	return out
}

type captureRefresher struct {
	loginRefreshed      bool
	rememberMeRefreshed bool
}

func (c *captureRefresher) RefreshLoginCookie(*models.Realm, *models.User, *sessionmodels.UserSession) {
	c.loginRefreshed = true
}

func (c *captureRefresher) RefreshRememberMe(*models.Realm) {
	c.rememberMeRefreshed = true
}

type FlowSuite struct {
	suite.Suite
	ctx      context.Context
	sessions *sessionstore.InMemory
	codes    *authcode.InMemoryStore
	service  *Service
	events   *capturePublisher
	cookies  *captureRefresher
}

func (s *FlowSuite) SetupTest() {
	s.ctx = context.Background()
	s.sessions = sessionstore.NewInMemory()
	s.codes = authcode.NewInMemoryStore()
	s.events = &capturePublisher{}
	s.cookies = &captureRefresher{}
	issuer := authcode.NewIssuer(s.codes, s.sessions, 5*time.Minute)
	s.service = New(issuer, s.sessions, WithAudit(s.events))
}

func TestFlowSuite(t *testing.T) {
	suite.Run(t, new(FlowSuite))
}

func (s *FlowSuite) newRequest(realm *models.Realm, client *models.Client, user *models.User) ProcessRequest {
	session := &sessionmodels.UserSession{
		ID:        uuid.New(),
		RealmName: realm.Name,
		UserID:    user.ID,
		CreatedAt: time.Now(),
	}
	s.Require().NoError(s.sessions.CreateUserSession(s.ctx, session))
	return ProcessRequest{
		Realm:       realm,
		Client:      client,
		User:        user,
		UserSession: session,
		Cookies:     s.cookies,
	}
}

func (s *FlowSuite) confidentialClient(realm *models.Realm) *models.Client {
	return &models.Client{
		ClientID:     "web",
		RealmName:    realm.Name,
		Enabled:      true,
		SecretHash:   "$2a$10$fakefakefakefakefakefake",
		RedirectURIs: []string{"https://app.example.com/cb"},
	}
}

func (s *FlowSuite) pendingActionFor(code string) sessionmodels.PendingAction {
	record, err := s.codes.FindByCode(s.ctx, code)
	s.Require().NoError(err)
	clientSession, err := s.sessions.GetClientSession(s.ctx, record.ClientSessionID)
	s.Require().NoError(err)
	return clientSession.PendingAction
}

func (s *FlowSuite) TestRequiredActionGatesBeforeRedirect() {
	realm := &models.Realm{Name: "acme", Enabled: true, VerifyEmail: true}
	client := s.confidentialClient(realm)
	user := &models.User{ID: uuid.New(), Email: "jo@example.com"}

	req := s.newRequest(realm, client, user)
	req.RedirectURI = "https://app.example.com/cb"
	req.State = "xyz"

	result, err := s.service.ProcessAccessCode(s.ctx, req)
	s.Require().NoError(err)

	s.Equal(ResultRequiredAction, result.Kind)
	s.Equal(models.ActionVerifyEmail, result.Action)
	s.NotEmpty(result.Code)

	s.Run("code is held behind the action", func() {
		record, err := s.codes.FindByCode(s.ctx, result.Code)
		s.Require().NoError(err)
		s.Require().NotNil(record.RequiredAction)
		s.Equal(models.ActionVerifyEmail, *record.RequiredAction)
	})

	s.Run("pending action never advances to exchange", func() {
		s.Equal(sessionmodels.ActionNone, s.pendingActionFor(result.Code))
	})

	s.Run("user's own action set is unchanged", func() {
		s.True(user.RequiredActions.Empty())
	})

	s.Run("verify-email event is emitted", func() {
		s.Equal([]audit.Action{audit.ActionCodeIssued, audit.ActionSendVerifyEmail}, s.events.actions())
		s.Equal("jo@example.com", s.events.events[1].Email)
	})

	s.Run("no cookies refreshed on the gated path", func() {
		s.False(s.cookies.loginRefreshed)
	})
}

func (s *FlowSuite) TestFirstPendingActionWins() {
	realm := &models.Realm{
		Name:                "acme",
		Enabled:             true,
		VerifyEmail:         true,
		RequiredCredentials: []models.CredentialType{models.CredentialTOTP},
	}
	client := s.confidentialClient(realm)
	user := &models.User{ID: uuid.New()}

	result, err := s.service.ProcessAccessCode(s.ctx, s.newRequest(realm, client, user))
	s.Require().NoError(err)
	s.Equal(ResultRequiredAction, result.Kind)
	s.Equal(models.ActionConfigureTOTP, result.Action)
	// Not a verify-email gate, so no verify-email event.
	s.Equal([]audit.Action{audit.ActionCodeIssued}, s.events.actions())
}

func (s *FlowSuite) TestPublicClientRoutesToConsent() {
	realm := &models.Realm{Name: "acme", Enabled: true}
	client := &models.Client{ClientID: "spa", RealmName: "acme", Enabled: true}
	user := &models.User{
		ID:            uuid.New(),
		EmailVerified: true,
		Roles: []models.Role{
			{Name: "admin"},
			{Name: "viewer"},
			{Name: "manage-account", Application: "account"},
		},
	}

	req := s.newRequest(realm, client, user)
	req.RedirectURI = "https://spa.example.com/cb"

	result, err := s.service.ProcessAccessCode(s.ctx, req)
	s.Require().NoError(err)

	s.Equal(ResultConsentRequired, result.Kind)
	s.NotEmpty(result.Code)
	s.Equal(sessionmodels.ActionOAuthGrant, s.pendingActionFor(result.Code))

	s.Run("roles are partitioned without overlap", func() {
		s.Len(result.RealmRoles, 2)
		s.Len(result.ApplicationRoles["account"], 1)
		for _, role := range result.RealmRoles {
			s.True(role.IsRealmRole())
		}
	})
}

func (s *FlowSuite) TestConfidentialClientRedirectsWithCode() {
	realm := &models.Realm{Name: "acme", Enabled: true}
	client := s.confidentialClient(realm)
	user := &models.User{ID: uuid.New(), EmailVerified: true}

	req := s.newRequest(realm, client, user)
	req.RedirectURI = "https://app.example.com/cb"
	req.State = "xyz"

	result, err := s.service.ProcessAccessCode(s.ctx, req)
	s.Require().NoError(err)

	s.Equal(ResultRedirect, result.Kind)
	s.Equal(http.StatusFound, result.Status)

	record, err := s.codes.FindByCode(s.ctx, recordCodeFromLocation(s, result.Location))
	s.Require().NoError(err)
	s.Equal("https://app.example.com/cb?code="+record.Code+"&state=xyz", result.Location)

	s.Equal(sessionmodels.ActionCodeToToken, s.pendingActionFor(record.Code))
	s.Equal([]audit.Action{audit.ActionCodeIssued, audit.ActionLogin}, s.events.actions())
	s.True(s.cookies.loginRefreshed)
	s.False(s.cookies.rememberMeRefreshed)
}

func (s *FlowSuite) TestStateOmittedWhenEmpty() {
	realm := &models.Realm{Name: "acme", Enabled: true}
	client := s.confidentialClient(realm)
	user := &models.User{ID: uuid.New(), EmailVerified: true}

	req := s.newRequest(realm, client, user)
	req.RedirectURI = "https://app.example.com/cb"

	result, err := s.service.ProcessAccessCode(s.ctx, req)
	s.Require().NoError(err)
	s.NotContains(result.Location, "state=")
	s.Contains(result.Location, "?code=")
}

func (s *FlowSuite) TestRememberMeRefreshesBothCookies() {
	realm := &models.Realm{Name: "acme", Enabled: true}
	client := s.confidentialClient(realm)
	user := &models.User{ID: uuid.New(), EmailVerified: true}

	req := s.newRequest(realm, client, user)
	req.RedirectURI = "https://app.example.com/cb"
	req.UserSession.RememberMe = true

	_, err := s.service.ProcessAccessCode(s.ctx, req)
	s.Require().NoError(err)
	s.True(s.cookies.loginRefreshed)
	s.True(s.cookies.rememberMeRefreshed)
}

func (s *FlowSuite) TestDirectGrantSentinel() {
	realm := &models.Realm{Name: "acme", Enabled: true}
	client := s.confidentialClient(realm)
	user := &models.User{ID: uuid.New(), EmailVerified: true}

	req := s.newRequest(realm, client, user)
	// No redirect target supplied.

	result, err := s.service.ProcessAccessCode(s.ctx, req)
	s.Require().NoError(err)
	s.Equal(ResultDirectGrant, result.Kind)
	s.NotEmpty(result.Code)
	s.Empty(result.Location)
	s.False(s.cookies.loginRefreshed)
}

func (s *FlowSuite) TestRedirectRetiresSupersededSession() {
	realm := &models.Realm{Name: "acme", Enabled: true}
	client := s.confidentialClient(realm)
	user := &models.User{ID: uuid.New(), EmailVerified: true}

	oldSession := &sessionmodels.UserSession{ID: uuid.New(), RealmName: "acme", UserID: user.ID}
	s.Require().NoError(s.sessions.CreateUserSession(s.ctx, oldSession))

	req := s.newRequest(realm, client, user)
	req.RedirectURI = "https://app.example.com/cb"
	req.PresentedCookie = cookie.New("acme", oldSession.ID.String()).Encode()

	_, err := s.service.ProcessAccessCode(s.ctx, req)
	s.Require().NoError(err)

	_, err = s.sessions.GetUserSession(s.ctx, "acme", oldSession.ID)
	s.Require().Error(err, "superseded session must be removed before the redirect returns")

	_, err = s.sessions.GetUserSession(s.ctx, "acme", req.UserSession.ID)
	s.Require().NoError(err, "the new session stays")
}

func (s *FlowSuite) TestRedirectError() {
	s.Run("error and state when state present", func() {
		result, err := s.service.RedirectError(nil, "access_denied", "xyz", "https://app.example.com/cb")
		s.Require().NoError(err)
		s.Equal(ResultRedirect, result.Kind)
		s.Equal(http.StatusFound, result.Status)
		s.Equal("https://app.example.com/cb?error=access_denied&state=xyz", result.Location)
	})

	s.Run("state omitted when empty", func() {
		result, err := s.service.RedirectError(nil, "access_denied", "", "https://app.example.com/cb")
		s.Require().NoError(err)
		s.Equal("https://app.example.com/cb?error=access_denied", result.Location)
	})
}

// recordCodeFromLocation extracts the issued code from the redirect location
// by matching against the store, keeping the assertion independent of query
// parsing.
func recordCodeFromLocation(s *FlowSuite, location string) string {
	s.T().Helper()
	start := len("https://app.example.com/cb?code=")
	s.Require().Greater(len(location), start)
	rest := location[start:]
	for i := 0; i < len(rest); i++ {
		if rest[i] == '&' {
			return rest[:i]
		}
	}
	return rest
}
