package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/garrettladley/ksclock/internal/xcontext"
	"github.com/garrettladley/ksclock/internal/xhttp"
)

const maxRequestIDLen = 64

type RequestIDMiddleware struct {
	IDFunc func(*http.Request) string
}

type RequestIDOption func(*RequestIDMiddleware)

// WithIDFunc overrides how request ids are generated.
func WithIDFunc(fn func(*http.Request) string) RequestIDOption {
	return func(m *RequestIDMiddleware) { m.IDFunc = fn }
}

// RequestID reuses an X-Request-ID sent by the caller when it is sane, so a
// retried clock request keeps its id, and generates one otherwise.
func RequestID(opts ...RequestIDOption) func(http.Handler) http.Handler {
	m := &RequestIDMiddleware{
		IDFunc: func(*http.Request) string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(m)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(xhttp.XRequestID)
			if id == "" || len(id) > maxRequestIDLen {
				id = m.IDFunc(r)
			}
			xhttp.SetHeaderRequestID(w, id)
			next.ServeHTTP(w, r.WithContext(xcontext.SetRequestID(r.Context(), id)))
		})
	}
}
