package httpapi

import (
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"authgate/pkg/requestcontext"
)

// RequestContext stamps every request with a request id, the request time, and
// client metadata. Services read these through pkg/requestcontext, which keeps
// them testable without running the middleware chain.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := r.Context()
		ctx = requestcontext.WithRequestID(ctx, requestID)
		ctx = requestcontext.WithTime(ctx, time.Now().UTC())
		ctx = requestcontext.WithClientMetadata(ctx, clientIP(r), r.UserAgent())

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
