package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "authgate/pkg/domain-errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps coded domain errors to HTTP responses. Internal causes are
// never echoed to the client; only the code and its public message travel.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.GetCode(err)
	status := dErrors.ToHTTPStatus(code)

	message := "internal error"
	var de *dErrors.Error
	if errors.As(err, &de) && code != dErrors.CodeInternal {
		message = de.Message
	}
	writeJSON(w, status, map[string]string{
		"error":   string(code),
		"message": message,
	})
}
