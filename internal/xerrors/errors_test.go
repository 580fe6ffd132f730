package xerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/ksclock/internal/xcontext"
	"github.com/garrettladley/ksclock/internal/xhttp"
)

func TestFrom(t *testing.T) {
	t.Parallel()

	cause := errors.New("owm down")
	wrapped := fmt.Errorf("fetching: %w", BadGateway(WithCause(cause)))
	if got := From(wrapped); got.StatusCode != http.StatusBadGateway || !errors.Is(got, cause) {
		t.Errorf("From(wrapped) = %v, want a 502 wrapping %v", got, cause)
	}

	plain := errors.New("boom")
	got := From(plain)
	if got.StatusCode != http.StatusInternalServerError || got.Message != "internal server error" {
		t.Errorf("From(plain) = (%d, %q)", got.StatusCode, got.Message)
	}
	if !errors.Is(got, plain) {
		t.Error("plain error lost as cause")
	}
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   errorResponse
		wantHeader map[string]string
	}{
		{
			name:       "validation",
			err:        Validation(map[string]string{"temperature": "required with icon"}),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody: errorResponse{
				Message:   "unprocessable entity",
				Fields:    map[string]string{"temperature": "required with icon"},
				RequestID: "req-1",
			},
		},
		{
			name:       "rate limit",
			err:        TooManyRequests(WithRateLimit(90*time.Second, "device_rate_limit")),
			wantStatus: http.StatusTooManyRequests,
			wantBody:   errorResponse{Message: "too many requests", RequestID: "req-1"},
			wantHeader: map[string]string{
				xhttp.RetryAfter:       "90",
				xhttp.XRateLimitReason: "device_rate_limit",
			},
		},
		{
			name:       "hidden cause",
			err:        errors.New("database password wrong"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   errorResponse{Message: "internal server error", RequestID: "req-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := xcontext.SetRequestID(context.Background(), "req-1")
			rec := httptest.NewRecorder()
			WriteError(ctx, rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var got errorResponse
			if err := go_json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if diff := cmp.Diff(tt.wantBody, got); diff != "" {
				t.Errorf("body mismatch (-want +got):\n%s", diff)
			}
			for k, v := range tt.wantHeader {
				if got := rec.Header().Get(k); got != v {
					t.Errorf("header %s = %q, want %q", k, got, v)
				}
			}
		})
	}
}
