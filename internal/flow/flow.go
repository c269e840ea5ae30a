package flow

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"authgate/internal/audit"
	"authgate/internal/authcode"
	flowmetrics "authgate/internal/flow/metrics"
	realmmodels "authgate/internal/realm/models"
	sessionmodels "authgate/internal/session/models"
	sessionstore "authgate/internal/session/store"
	dErrors "authgate/pkg/domain-errors"
	"authgate/pkg/requestcontext"
)

// CodeIssuer mints access codes; see internal/authcode.
type CodeIssuer interface {
	Issue(ctx context.Context, p authcode.IssueParams) (*authcode.AccessCode, error)
}

// CookieRefresher is the external collaborator that refreshes browser cookies
// once a login completes. It owns transport-level cookie attributes; the
// orchestrator only decides when a refresh happens.
type CookieRefresher interface {
	RefreshLoginCookie(realm *realmmodels.Realm, user *realmmodels.User, session *sessionmodels.UserSession)
	RefreshRememberMe(realm *realmmodels.Realm)
}

// Service drives the authorization-code flow: required-action gating, code
// issuance, consent routing, and the final redirect with its session-cookie
// reconciliation. One request is handled by one call chain; the service holds
// no cross-request mutable state.
type Service struct {
	issuer     CodeIssuer
	sessions   sessionstore.Gateway
	reconciler *Reconciler
	audit      audit.Publisher
	logger     *slog.Logger
	metrics    *flowmetrics.Metrics
	tracer     trace.Tracer
}

type Option func(*Service)

func WithAudit(publisher audit.Publisher) Option {
	return func(s *Service) { s.audit = publisher }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *flowmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the orchestrator.
func New(issuer CodeIssuer, sessions sessionstore.Gateway, opts ...Option) *Service {
	s := &Service{
		issuer:   issuer,
		sessions: sessions,
		logger:   slog.Default(),
		tracer:   otel.Tracer("authgate/flow"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reconciler = NewReconciler(sessions, s.logger)
	return s
}

// ProcessRequest carries one authorization attempt through the orchestrator.
type ProcessRequest struct {
	Scope       string
	State       string
	RedirectURI string

	Realm       *realmmodels.Realm
	Client      *realmmodels.Client
	User        *realmmodels.User
	UserSession *sessionmodels.UserSession

	// PresentedCookie is the raw login cookie value found on the request,
	// empty when absent.
	PresentedCookie string
	// Cookies refreshes browser cookies on the success path. May be nil in
	// flows that never reach a redirect.
	Cookies CookieRefresher
}

// ProcessAccessCode runs the state machine:
//
//	START -> REQUIRED_ACTION (optional) -> [DIRECT_GRANT | CONSENT_PENDING] -> CODE_ISSUED
//
// The returned Result is one of: a required-action render instruction, a
// consent render instruction, a 302 carrying the code, or the direct-grant
// sentinel (confidential client, no redirect supplied — completed by a
// collaborator outside this core).
func (s *Service) ProcessAccessCode(ctx context.Context, req ProcessRequest) (*Result, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "flow.ProcessAccessCode", trace.WithAttributes(
		attribute.String("realm", req.Realm.Name),
		attribute.String("client_id", req.Client.ClientID),
	))
	defer span.End()
	defer s.observeProcess(start)

	actions := EvaluateRequiredActions(req.Realm, req.User)

	code, err := s.issuer.Issue(ctx, authcode.IssueParams{
		Scope:       req.Scope,
		State:       req.State,
		RedirectURI: req.RedirectURI,
		Realm:       req.Realm,
		Client:      req.Client,
		User:        req.User,
		UserSession: req.UserSession,
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, audit.Event{
		Action:   audit.ActionCodeIssued,
		Realm:    req.Realm.Name,
		ClientID: req.Client.ClientID,
		UserID:   req.User.ID.String(),
		CodeID:   code.CodeID.String(),
	})

	if action, ok := actions.First(); ok {
		code.RequiredAction = &action
		s.incrementRequiredActionGated()

		if action == realmmodels.ActionVerifyEmail {
			s.emit(ctx, audit.Event{
				Action: audit.ActionSendVerifyEmail,
				Realm:  req.Realm.Name,
				UserID: req.User.ID.String(),
				CodeID: code.CodeID.String(),
				Email:  req.User.Email,
			})
		}

		s.logger.DebugContext(ctx, "authorization gated behind required action",
			"realm", req.Realm.Name, "action", action)
		return &Result{
			Kind:   ResultRequiredAction,
			Action: action,
			User:   req.User,
			Code:   code.Code,
		}, nil
	}

	if !req.Client.IsConfidential() {
		if err := s.sessions.UpdateClientSessionAction(ctx, code.ClientSessionID, sessionmodels.ActionOAuthGrant); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record pending consent")
		}
		s.incrementConsentRequired()
		return &Result{
			Kind:             ResultConsentRequired,
			Client:           req.Client,
			Code:             code.Code,
			RealmRoles:       code.RealmRoles,
			ApplicationRoles: code.ApplicationRoles,
		}, nil
	}

	if req.RedirectURI != "" {
		if err := s.sessions.UpdateClientSessionAction(ctx, code.ClientSessionID, sessionmodels.ActionCodeToToken); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record pending exchange")
		}
		s.emit(ctx, audit.Event{
			Action:    audit.ActionLogin,
			Realm:     req.Realm.Name,
			ClientID:  req.Client.ClientID,
			UserID:    req.User.ID.String(),
			CodeID:    code.CodeID.String(),
			RequestID: requestcontext.RequestID(ctx),
		})
		return s.RedirectAccessCode(ctx, code, req)
	}

	// Confidential client, no redirect target: direct grant, completed by a
	// caller outside this core. Intentionally not a redirect.
	return &Result{Kind: ResultDirectGrant, Code: code.Code}, nil
}

// RedirectAccessCode builds the success redirect for an issued code. The
// superseded-session reconciliation happens before the cookies are refreshed
// and before the redirect is returned: the old session must not outlive the
// response that installs the new cookie.
func (s *Service) RedirectAccessCode(ctx context.Context, code *authcode.AccessCode, req ProcessRequest) (*Result, error) {
	location, err := buildRedirect(req.RedirectURI, map[string]string{
		"code":  code.Code,
		"state": req.State,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid redirect_uri")
	}

	if s.reconciler.Reconcile(ctx, req.PresentedCookie, req.Realm, req.UserSession) {
		s.incrementSessionsReconciled()
	}
	s.incrementCodesIssued()

	if req.Cookies != nil {
		req.Cookies.RefreshLoginCookie(req.Realm, req.User, req.UserSession)
		if req.UserSession.RememberMe {
			req.Cookies.RefreshRememberMe(req.Realm)
		}
	}

	return redirectResult(location), nil
}

// RedirectError produces the error redirect: the error code always, the
// original state only when supplied. No session or cookie state changes on
// this path.
func (s *Service) RedirectError(_ *realmmodels.Client, errorCode, state, redirect string) (*Result, error) {
	location, err := buildRedirect(redirect, map[string]string{
		"error": errorCode,
		"state": state,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid redirect_uri")
	}
	return redirectResult(location), nil
}

// buildRedirect appends the given query parameters to the redirect target,
// skipping empty values: an absent state never becomes an empty state key.
func buildRedirect(redirect string, params map[string]string) (string, error) {
	u, err := url.Parse(redirect)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for key, value := range params {
		if value == "" {
			continue
		}
		q.Set(key, value)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}

func (s *Service) observeProcess(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveProcess(start)
	}
}

func (s *Service) incrementCodesIssued() {
	if s.metrics != nil {
		s.metrics.CodesIssued.Inc()
	}
}

func (s *Service) incrementRequiredActionGated() {
	if s.metrics != nil {
		s.metrics.RequiredActionGated.Inc()
	}
}

func (s *Service) incrementConsentRequired() {
	if s.metrics != nil {
		s.metrics.ConsentRequired.Inc()
	}
}

func (s *Service) incrementSessionsReconciled() {
	if s.metrics != nil {
		s.metrics.SessionsReconciled.Inc()
	}
}
