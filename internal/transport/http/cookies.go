package httpapi

import (
	"net/http"
	"time"

	realmmodels "authgate/internal/realm/models"
	"authgate/internal/session/cookie"
	sessionmodels "authgate/internal/session/models"
	"authgate/pkg/requestcontext"
)

const (
	// DefaultLoginCookieTTL bounds a plain login cookie; browsers drop it on
	// close anyway when expiry is zero, so this only matters for remember-me
	// logins where the login cookie must survive alongside the marker.
	DefaultLoginCookieTTL = 10 * time.Hour
	// DefaultRememberMeTTL keeps the remember-me marker for a month.
	DefaultRememberMeTTL = 30 * 24 * time.Hour
)

// cookieWriter implements the flow orchestrator's cookie refresh hook against
// one in-flight response.
type cookieWriter struct {
	w    http.ResponseWriter
	now  time.Time
	opts cookie.Options
}

func (h *Handler) newCookieWriter(w http.ResponseWriter, r *http.Request) *cookieWriter {
	return &cookieWriter{
		w:    w,
		now:  requestcontext.Now(r.Context()),
		opts: h.cookieOpts,
	}
}

func (c *cookieWriter) RefreshLoginCookie(realm *realmmodels.Realm, _ *realmmodels.User, session *sessionmodels.UserSession) {
	value := cookie.New(realm.Name, session.ID.String()).Encode()
	expires := time.Time{}
	if session.RememberMe {
		expires = c.now.Add(DefaultLoginCookieTTL)
	}
	cookie.Set(c.w, cookie.LoginCookieName, value, expires, c.opts)
}

func (c *cookieWriter) RefreshRememberMe(_ *realmmodels.Realm) {
	cookie.Set(c.w, cookie.RememberMeCookieName, "true", c.now.Add(DefaultRememberMeTTL), c.opts)
}
