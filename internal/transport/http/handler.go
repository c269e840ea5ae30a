package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"authgate/internal/flow"
	"authgate/internal/platform/device"
	realmmodels "authgate/internal/realm/models"
	realmservice "authgate/internal/realm/service"
	"authgate/internal/session/cookie"
	sessionmodels "authgate/internal/session/models"
	sessionstore "authgate/internal/session/store"
	"authgate/internal/token"
	dErrors "authgate/pkg/domain-errors"
	"authgate/pkg/platform/sentinel"
	"authgate/pkg/requestcontext"
)

// UserFinder locates realm users for login processing. Credential checking
// happens upstream of this surface; the finder only resolves the principal.
type UserFinder interface {
	FindUserByEmail(ctx context.Context, realmName, email string) (*realmmodels.User, error)
}

// Handler is the per-realm HTTP surface: login processing, code exchange,
// login-status iframe, account gate, and the public realm descriptor. It
// delegates to domain services and keeps transport concerns local.
type Handler struct {
	directory  *realmservice.Directory
	users      UserFinder
	flows      *flow.Service
	exchanger  *token.Exchanger
	sessions   sessionstore.Gateway
	cookieOpts cookie.Options
	logger     *slog.Logger
}

type Option func(*Handler)

func WithCookieOptions(opts cookie.Options) Option {
	return func(h *Handler) { h.cookieOpts = opts }
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

func New(directory *realmservice.Directory, users UserFinder, flows *flow.Service, exchanger *token.Exchanger, sessions sessionstore.Gateway, opts ...Option) *Handler {
	h := &Handler{
		directory: directory,
		users:     users,
		flows:     flows,
		exchanger: exchanger,
		sessions:  sessions,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register wires the routing table. Every sub-resource hangs off an explicit
// realm segment; nothing dispatches dynamically.
func (h *Handler) Register(r chi.Router) {
	r.Route("/realms/{realm}", func(r chi.Router) {
		r.Get("/", h.realmInfo)
		r.Get("/login-status-iframe.html", h.loginStatusIframe)
		r.Get("/account", h.account)
		r.Route("/tokens", func(r chi.Router) {
			r.Post("/auth/request/login", h.processLogin)
			r.Post("/access/codes", h.exchangeCode)
		})
	})
}

func (h *Handler) resolveRealm(w http.ResponseWriter, r *http.Request) (*realmmodels.Realm, bool) {
	realm, err := h.directory.ResolveRealm(r.Context(), chi.URLParam(r, "realm"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return realm, true
}

// processLogin completes an already-authenticated login attempt: it creates
// the user session and runs the authorization flow, rendering whichever
// terminal the orchestrator lands on.
func (h *Handler) processLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	realm, ok := h.resolveRealm(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "malformed form body"))
		return
	}

	client, err := h.directory.ResolveClient(ctx, realm, r.PostFormValue("client_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	redirectURI := r.PostFormValue("redirect_uri")
	if err := validateRedirectURI(client, redirectURI); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.FindUserByEmail(ctx, realm.Name, r.PostFormValue("username"))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			writeError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid login"))
			return
		}
		writeError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve user"))
		return
	}

	now := requestcontext.Now(ctx)
	session := &sessionmodels.UserSession{
		ID:           uuid.New(),
		RealmName:    realm.Name,
		UserID:       user.ID,
		RememberMe:   r.PostFormValue("remember_me") == "on" || r.PostFormValue("remember_me") == "true",
		Device:       device.Describe(requestcontext.UserAgent(ctx)),
		CreatedAt:    now,
		LastAccessAt: now,
	}
	if err := h.sessions.CreateUserSession(ctx, session); err != nil {
		writeError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create session"))
		return
	}

	result, err := h.flows.ProcessAccessCode(ctx, flow.ProcessRequest{
		Scope:           r.PostFormValue("scope"),
		State:           r.PostFormValue("state"),
		RedirectURI:     redirectURI,
		Realm:           realm,
		Client:          client,
		User:            user,
		UserSession:     session,
		PresentedCookie: presentedCookie(r),
		Cookies:         h.newCookieWriter(w, r),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	h.renderResult(w, r, result)
}

func (h *Handler) renderResult(w http.ResponseWriter, r *http.Request, result *flow.Result) {
	switch result.Kind {
	case flow.ResultRedirect:
		http.Redirect(w, r, result.Location, result.Status)
	case flow.ResultRequiredAction:
		writeJSON(w, http.StatusOK, map[string]any{
			"required_action": result.Action,
			"code":            result.Code,
		})
	case flow.ResultConsentRequired:
		writeJSON(w, http.StatusOK, map[string]any{
			"consent_required":  true,
			"client_id":         result.Client.ClientID,
			"code":              result.Code,
			"realm_roles":       roleNames(result.RealmRoles),
			"application_roles": applicationRoleNames(result.ApplicationRoles),
		})
	case flow.ResultDirectGrant:
		writeJSON(w, http.StatusOK, map[string]any{"code": result.Code})
	default:
		writeError(w, dErrors.New(dErrors.CodeInternal, "unhandled flow result"))
	}
}

// exchangeCode is the code-to-token endpoint.
func (h *Handler) exchangeCode(w http.ResponseWriter, r *http.Request) {
	realm, ok := h.resolveRealm(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "malformed form body"))
		return
	}

	clientID := r.PostFormValue("client_id")
	clientSecret := r.PostFormValue("client_secret")
	if basicID, basicSecret, ok := r.BasicAuth(); ok {
		clientID, clientSecret = basicID, basicSecret
	}

	resp, err := h.exchanger.Exchange(r.Context(), token.ExchangeRequest{
		Realm:        realm,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Code:         r.PostFormValue("code"),
		RedirectURI:  r.PostFormValue("redirect_uri"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// account is exposed only for realms with an enabled account management
// application; everything else is a plain not-found.
func (h *Handler) account(w http.ResponseWriter, r *http.Request) {
	realm, ok := h.resolveRealm(w, r)
	if !ok {
		return
	}
	app, err := h.directory.ResolveAccountApplication(r.Context(), realm)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"realm":       realm.Name,
		"application": app.Name,
		"client_id":   app.ClientID,
	})
}

// realmInfo is the public realm descriptor.
func (h *Handler) realmInfo(w http.ResponseWriter, r *http.Request) {
	realm, ok := h.resolveRealm(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"realm":           realm.Name,
		"enabled":         realm.Enabled,
		"tokens_service":  "/realms/" + realm.Name + "/tokens",
		"account_service": "/realms/" + realm.Name + "/account",
	})
}

// validateRedirectURI requires a supplied redirect target to be registered
// when the client has registrations. Clients with no registered redirect URIs
// accept any target; tightening that is an admin-side concern.
func validateRedirectURI(client *realmmodels.Client, redirectURI string) error {
	if redirectURI == "" || len(client.RedirectURIs) == 0 {
		return nil
	}
	for _, registered := range client.RedirectURIs {
		if registered == redirectURI {
			return nil
		}
	}
	return dErrors.New(dErrors.CodeBadRequest, "invalid redirect_uri")
}

func presentedCookie(r *http.Request) string {
	c, err := r.Cookie(cookie.LoginCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func roleNames(roles []realmmodels.Role) []string {
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		out = append(out, role.Name)
	}
	return out
}

func applicationRoleNames(roles map[string][]realmmodels.Role) map[string][]string {
	out := make(map[string][]string, len(roles))
	for app, appRoles := range roles {
		out[app] = roleNames(appRoles)
	}
	return out
}
