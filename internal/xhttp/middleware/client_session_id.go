package middleware

import (
	"net/http"

	"github.com/garrettladley/ksclock/internal/xcontext"
	"github.com/garrettladley/ksclock/internal/xhttp"
	"github.com/garrettladley/ksclock/internal/xslog"
)

// ClientSessionID tags the request, and its logs, with the session the clock
// generated at startup. Must run AFTER Logger.
func ClientSessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := xhttp.GetRequestHeaderSessionID(r)
		if sessionID == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := xcontext.SetSessionID(r.Context(), sessionID)
		ctx = xslog.WithAttrs(ctx, xslog.SessionID(sessionID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
