package service

import (
	"strings"

	"authgate/internal/realm/models"
)

// IsOriginAllowed checks a caller-supplied origin against a client's
// registered origins and redirect URIs. An origin is allowed when:
//
//   - the client registered the literal wildcard "*", or
//   - the origin exactly matches a registered web origin, or
//   - the origin equals the scheme+authority prefix of any registered
//     redirect URI.
//
// The redirect-URI rule exists because redirect URIs are registered with full
// paths while origin checks operate on scheme+authority only. It protects the
// login-status iframe and similar postMessage surfaces from embedding by
// unregistered origins.
func (d *Directory) IsOriginAllowed(client *models.Client, origin string) bool {
	if origin == "" {
		d.incrementOriginRejected()
		return false
	}

	for _, o := range client.WebOrigins {
		if o == "*" || o == origin {
			return true
		}
	}

	for _, r := range client.RedirectURIs {
		if authorityPrefix(r) == origin {
			return true
		}
	}

	d.incrementOriginRejected()
	return false
}

// authorityPrefix truncates a URI at the first path separator after the
// scheme delimiter: "https://app.example.com/cb" -> "https://app.example.com".
// URIs without a path are returned unchanged.
func authorityPrefix(uri string) string {
	i := strings.Index(uri, "://")
	if i == -1 {
		return uri
	}
	rest := uri[i+3:]
	if j := strings.IndexByte(rest, '/'); j != -1 {
		return uri[:i+3+j]
	}
	return uri
}

func (d *Directory) incrementOriginRejected() {
	if d.metrics != nil {
		d.metrics.OriginRejected.Inc()
	}
}

func (d *Directory) incrementNotFound() {
	if d.metrics != nil {
		d.metrics.RealmNotFound.Inc()
	}
}
