package authcode

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	realmmodels "authgate/internal/realm/models"
	sessionmodels "authgate/internal/session/models"
	sessionstore "authgate/internal/session/store"
	dErrors "authgate/pkg/domain-errors"
	"authgate/pkg/requestcontext"
	"authgate/pkg/secrets"
)

// Store is the persistence surface the issuer needs.
type Store interface {
	Create(ctx context.Context, code *AccessCode) error
}

// Issuer mints single-use access codes bound to a client session, user, and
// the role grants resolved from the scope parameter.
type Issuer struct {
	codes    Store
	sessions sessionstore.Gateway
	ttl      time.Duration
}

// NewIssuer constructs an Issuer. ttl bounds the exchange window of every
// issued code.
func NewIssuer(codes Store, sessions sessionstore.Gateway, ttl time.Duration) *Issuer {
	return &Issuer{codes: codes, sessions: sessions, ttl: ttl}
}

// IssueParams carries everything a code is bound to.
type IssueParams struct {
	Scope       string
	State       string
	RedirectURI string
	Realm       *realmmodels.Realm
	Client      *realmmodels.Client
	User        *realmmodels.User
	UserSession *sessionmodels.UserSession
	// ClientSession, when non-nil, is reused instead of creating a fresh
	// correlation record.
	ClientSession *sessionmodels.ClientSession
}

// Issue produces a new access code. The only persisted side effect beyond the
// code itself is the client session correlation record; the pending action on
// it stays none until the orchestrator decides the next transition.
//
// An unavailable secure random source fails the whole flow: the error is
// internal and non-recoverable for this request.
func (i *Issuer) Issue(ctx context.Context, p IssueParams) (*AccessCode, error) {
	now := requestcontext.Now(ctx)

	clientSession := p.ClientSession
	if clientSession == nil {
		clientSession = &sessionmodels.ClientSession{
			ID:            uuid.New(),
			UserSessionID: p.UserSession.ID,
			RealmName:     p.Realm.Name,
			ClientID:      p.Client.ClientID,
			PendingAction: sessionmodels.ActionNone,
			Scope:         p.Scope,
			RedirectURI:   p.RedirectURI,
			CreatedAt:     now,
		}
		if err := i.sessions.CreateClientSession(ctx, clientSession); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create client session")
		}
	}

	value, err := secrets.Generate()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate access code")
	}

	realmRoles, applicationRoles := partitionRoles(resolveRoles(p.User.Roles, p.Scope))

	code := &AccessCode{
		Code:             value,
		CodeID:           uuid.New(),
		ClientSessionID:  clientSession.ID,
		UserID:           p.User.ID,
		RealmName:        p.Realm.Name,
		ClientID:         p.Client.ClientID,
		RealmRoles:       realmRoles,
		ApplicationRoles: applicationRoles,
		State:            p.State,
		RedirectURI:      p.RedirectURI,
		CreatedAt:        now,
		ExpiresAt:        now.Add(i.ttl),
	}
	if err := i.codes.Create(ctx, code); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store access code")
	}
	return code, nil
}

// resolveRoles narrows the user's grants to the requested scope. An empty
// scope requests everything; otherwise scope is a space-separated list of
// role names.
func resolveRoles(granted []realmmodels.Role, scope string) []realmmodels.Role {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return granted
	}
	requested := make(map[string]bool)
	for _, name := range strings.Fields(scope) {
		requested[name] = true
	}
	var out []realmmodels.Role
	for _, role := range granted {
		if requested[role.Name] {
			out = append(out, role)
		}
	}
	return out
}

// partitionRoles splits grants by container: realm-level roles in one group,
// application roles grouped under their owning application's name.
func partitionRoles(roles []realmmodels.Role) ([]realmmodels.Role, map[string][]realmmodels.Role) {
	var realmRoles []realmmodels.Role
	applicationRoles := make(map[string][]realmmodels.Role)
	for _, role := range roles {
		if role.IsRealmRole() {
			realmRoles = append(realmRoles, role)
			continue
		}
		applicationRoles[role.Application] = append(applicationRoles[role.Application], role)
	}
	return realmRoles, applicationRoles
}
