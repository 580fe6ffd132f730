package xhttp

import (
	"fmt"
	"net/http"

	"github.com/garrettladley/ksclock/internal/version"
)

type ksclockTransport struct {
	base http.RoundTripper
}

var _ http.RoundTripper = (*ksclockTransport)(nil)

func (t *ksclockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", "ksclock/"+version.Get())
	req.Header.Set(version.Header, version.Get())
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform round trip: %w", err)
	}
	return resp, nil
}

// NewTransport returns an http.RoundTripper that stamps the client version.
func NewTransport() http.RoundTripper {
	return &ksclockTransport{base: http.DefaultTransport}
}
