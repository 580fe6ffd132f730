package xhttp

import (
	"net"
	"net/http"
	"strings"
)

// GetRequestIP prefers the first hop in X-Forwarded-For, which is the
// original client when the companion runs behind a proxy.
func GetRequestIP(r *http.Request) string {
	if xff := r.Header.Get(XForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return stripPort(strings.TrimSpace(first))
	}
	return stripPort(r.RemoteAddr)
}

func stripPort(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
