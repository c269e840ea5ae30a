// Package cookie serializes browser session state into the login cookie.
//
// The wire format joins fields with "/": version, realm name, user session
// id. The cookie is only ever a hint for staleness detection; the session
// store is authoritative. Decoding is therefore best-effort and never fails
// loudly: malformed values simply decode to (zero, false).
package cookie

import (
	"net/http"
	"strings"
	"time"
)

const (
	// LoginCookieName carries the serialized session triple.
	LoginCookieName = "AUTHGATE_SESSION"
	// RememberMeCookieName marks a browser that asked to stay signed in.
	RememberMeCookieName = "AUTHGATE_REMEMBER_ME"

	// FormatVersion tags cookies written by this codec.
	FormatVersion = "v1"

	// sessionIDField is the zero-based index of the user session id within
	// the "/"-joined value. Older cookie formats used a realm marker in
	// field 0; the session id position is the stable part of the contract.
	sessionIDField = 2
)

// SessionCookie is the decoded login cookie value.
type SessionCookie struct {
	Version   string
	Realm     string
	SessionID string
}

// New builds a current-format session cookie value.
func New(realm, sessionID string) SessionCookie {
	return SessionCookie{Version: FormatVersion, Realm: realm, SessionID: sessionID}
}

// Encode renders the cookie wire value.
func (c SessionCookie) Encode() string {
	return strings.Join([]string{c.Version, c.Realm, c.SessionID}, "/")
}

// Decode parses a cookie value. Values with fewer than three fields are
// unrecognized and return ok=false; callers treat that as "no cookie".
func Decode(value string) (SessionCookie, bool) {
	parts := strings.Split(value, "/")
	if len(parts) <= sessionIDField {
		return SessionCookie{}, false
	}
	return SessionCookie{
		Version:   parts[0],
		Realm:     parts[1],
		SessionID: parts[sessionIDField],
	}, true
}

// Options defines how session cookies are issued.
type Options struct {
	Path     string
	Secure   bool
	SameSite http.SameSite
	Domain   string
}

func (o Options) normalize() Options {
	if o.Path == "" {
		o.Path = "/"
	}
	return o
}

// Set issues a cookie to the client. Login cookies are always HttpOnly.
func Set(w http.ResponseWriter, name, value string, expiresAt time.Time, opts Options) {
	opts = opts.normalize()
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     opts.Path,
		Domain:   opts.Domain,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// Clear removes a cookie from the client.
func Clear(w http.ResponseWriter, name string, opts Options) {
	opts = opts.normalize()
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}
