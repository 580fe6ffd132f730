package xhttp

import (
	"net/http/httptest"
	"testing"
)

func TestGetRequestIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{"remote with port", "", "192.0.2.1:1234", "192.0.2.1"},
		{"remote without port", "", "192.0.2.1", "192.0.2.1"},
		{"remote ipv6", "", "[2001:db8::1]:1234", "2001:db8::1"},
		{"forwarded wins", "203.0.113.195", "192.0.2.1:1234", "203.0.113.195"},
		{"forwarded with port", "203.0.113.195:8080", "192.0.2.1:1234", "203.0.113.195"},
		{"forwarded ipv6 with port", "[2001:db8::1]:8080", "192.0.2.1:1234", "2001:db8::1"},
		{"forwarded chain", "203.0.113.195, 70.41.3.18, 150.172.238.178", "192.0.2.1:1234", "203.0.113.195"},
		{"forwarded chain with spaces", " 198.51.100.7 ,10.0.0.1", "192.0.2.1:1234", "198.51.100.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest("GET", "/health", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set(XForwardedFor, tt.forwarded)
			}
			if got := GetRequestIP(r); got != tt.want {
				t.Errorf("GetRequestIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
