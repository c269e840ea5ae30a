package token

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"authgate/internal/authcode"
	realmmodels "authgate/internal/realm/models"
	sessionmodels "authgate/internal/session/models"
	sessionstore "authgate/internal/session/store"
	dErrors "authgate/pkg/domain-errors"
	"authgate/pkg/platform/sentinel"
	"authgate/pkg/requestcontext"
	"authgate/pkg/secrets"
)

// DefaultAccessTokenTTL bounds minted access tokens.
const DefaultAccessTokenTTL = 15 * time.Minute

// CodeConsumer is the slice of the access-code store the exchange needs:
// atomic validate-then-mutate on a single code.
type CodeConsumer interface {
	Execute(ctx context.Context, code string, validate func(*authcode.AccessCode) error, mutate func(*authcode.AccessCode)) (*authcode.AccessCode, error)
}

// Exchanger turns a single-use access code into a signed access token.
type Exchanger struct {
	codes    CodeConsumer
	sessions sessionstore.Gateway
	minter   *Minter
	tokenTTL time.Duration
	logger   *slog.Logger
}

type Option func(*Exchanger)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Exchanger) { e.logger = logger }
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(e *Exchanger) { e.tokenTTL = ttl }
}

func NewExchanger(codes CodeConsumer, sessions sessionstore.Gateway, minter *Minter, opts ...Option) *Exchanger {
	e := &Exchanger{
		codes:    codes,
		sessions: sessions,
		minter:   minter,
		tokenTTL: DefaultAccessTokenTTL,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExchangeRequest is one code-to-token attempt.
type ExchangeRequest struct {
	Realm        *realmmodels.Realm
	ClientID     string
	ClientSecret string
	Code         string
	RedirectURI  string
}

// TokenResponse is the wire shape of a successful exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

// Exchange consumes the access code and mints an access token. The code is
// consumed exactly once: the used flag flips under the store lock, and any
// later presentation of the same code fails closed.
//
// A confidential client must authenticate with its secret. A code that is
// still gated behind a required action is not exchangeable.
func (e *Exchanger) Exchange(ctx context.Context, req ExchangeRequest) (*TokenResponse, error) {
	if req.Code == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "code is required")
	}

	client, ok := req.Realm.Client(req.ClientID)
	if !ok || !client.Enabled {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "unknown client")
	}
	if client.IsConfidential() {
		if err := secrets.Verify(req.ClientSecret, client.SecretHash); err != nil {
			return nil, err
		}
	}

	now := requestcontext.Now(ctx)
	record, err := e.codes.Execute(ctx, req.Code,
		func(c *authcode.AccessCode) error {
			if c.RealmName != req.Realm.Name || c.ClientID != client.ClientID {
				return errors.New("access code issued to a different client")
			}
			if c.RequiredAction != nil {
				return errors.New("access code gated behind a required action")
			}
			return c.ValidateForConsume(req.RedirectURI, now)
		},
		func(c *authcode.AccessCode) { c.MarkUsed() },
	)
	if err != nil {
		return nil, e.translateConsume(ctx, record, err)
	}

	clientSession, err := e.sessions.GetClientSession(ctx, record.ClientSessionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "client session no longer valid")
	}
	if err := e.sessions.UpdateClientSessionAction(ctx, clientSession.ID, sessionmodels.ActionNone); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to settle client session")
	}

	scope := clientSession.Scope
	accessToken, err := e.minter.MintAccessToken(record.UserID, clientSession.UserSessionID,
		record.RealmName, record.ClientID, scope, e.tokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign access token")
	}

	return &TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int64(e.tokenTTL.Seconds()),
		Scope:       scope,
	}, nil
}

// translateConsume maps store sentinels to caller-facing coded errors. A
// replay against an already-used code additionally retires the user session
// behind it: a leaked code must not leave a live session standing.
func (e *Exchanger) translateConsume(ctx context.Context, record *authcode.AccessCode, err error) error {
	switch {
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		if record != nil {
			e.revokeReplayedSession(ctx, record)
		}
		return dErrors.New(dErrors.CodeUnauthorized, "code already used")
	case errors.Is(err, sentinel.ErrExpired):
		return dErrors.New(dErrors.CodeUnauthorized, "code expired")
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeUnauthorized, "invalid code")
	default:
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid code")
	}
}

func (e *Exchanger) revokeReplayedSession(ctx context.Context, record *authcode.AccessCode) {
	clientSession, err := e.sessions.GetClientSession(ctx, record.ClientSessionID)
	if err != nil {
		return
	}
	e.logger.WarnContext(ctx, "access code replay detected, revoking session",
		"realm", record.RealmName, "client_id", record.ClientID, "code_id", record.CodeID)
	if err := e.sessions.RemoveUserSession(ctx, record.RealmName, clientSession.UserSessionID); err != nil {
		e.logger.WarnContext(ctx, "failed to revoke replayed session",
			"realm", record.RealmName, "error", err)
	}
}
