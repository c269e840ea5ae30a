package httpapi

import (
	"net/http"
	"strings"

	dErrors "authgate/pkg/domain-errors"
)

// originPlaceholder is the literal substituted into the iframe document with
// the validated caller origin, which the embedded script uses as the
// postMessage target.
const originPlaceholder = "ORIGIN"

const loginStatusIframeHTML = `<!DOCTYPE html>
<html>
<head><title>login status</title></head>
<body>
<script>
var origin = "ORIGIN";
window.addEventListener("message", function (event) {
    if (event.origin !== origin) {
        return;
    }
    event.source.postMessage(document.cookie.indexOf("AUTHGATE_SESSION") !== -1 ? "logged-in" : "logged-out", origin);
}, false);
</script>
</body>
</html>
`

// loginStatusIframe serves the session-status document embedded by client
// applications. The caller must name a registered client and pass origin
// validation; an unknown client is a plain not-found, a bad origin a plain
// bad-request, with no further detail either way.
func (h *Handler) loginStatusIframe(w http.ResponseWriter, r *http.Request) {
	realm, ok := h.resolveRealm(w, r)
	if !ok {
		return
	}

	origin := r.URL.Query().Get("origin")
	if origin == "" {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "origin is required"))
		return
	}

	client, err := h.directory.ResolveClient(r.Context(), realm, r.URL.Query().Get("client_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if !h.directory.IsOriginAllowed(client, origin) {
		h.logger.WarnContext(r.Context(), "iframe origin rejected",
			"realm", realm.Name, "client_id", client.ClientID, "origin", origin)
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid origin"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(strings.ReplaceAll(loginStatusIframeHTML, originPlaceholder, origin)))
}
