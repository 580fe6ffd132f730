package xerrors

import (
	"context"
	"log/slog"
	"net/http"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/ksclock/internal/xcontext"
	"github.com/garrettladley/ksclock/internal/xhttp"
	"github.com/garrettladley/ksclock/internal/xslog"
)

type errorResponse struct {
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteError logs err and writes it as a JSON body. The request id is echoed
// so a clock-side failure can be matched with the companion's log.
func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	e := From(err)
	logError(ctx, e)

	if rl := e.RateLimit; rl != nil {
		if rl.RetryAfter > 0 {
			xhttp.SetHeaderRetryAfter(w, rl.RetryAfter)
		}
		if rl.Reason != "" {
			w.Header().Set(xhttp.XRateLimitReason, rl.Reason)
		}
	}

	resp := errorResponse{Message: e.Message}
	if e.Validation != nil {
		resp.Fields = e.Validation.Fields
	}
	resp.RequestID, _ = xcontext.GetRequestID(ctx)

	xhttp.SetHeaderContentTypeApplicationJSON(w)
	w.WriteHeader(e.StatusCode)
	_ = go_json.NewEncoder(w).Encode(resp)
}

func logError(ctx context.Context, e *Error) {
	attrs := []any{
		xslog.HTTPStatus(e.StatusCode),
		slog.String("message", e.Message),
	}
	if e.Cause != nil {
		attrs = append(attrs, xslog.Error(e.Cause))
	}
	if e.RateLimit != nil {
		attrs = append(attrs, slog.Duration("retry_after", e.RateLimit.RetryAfter), slog.String("reason", e.RateLimit.Reason))
	}
	if e.Validation != nil {
		attrs = append(attrs, slog.Any("fields", e.Validation.Fields))
	}

	level := slog.LevelInfo
	switch {
	case e.StatusCode >= http.StatusInternalServerError:
		level = slog.LevelError
	case e.StatusCode >= http.StatusBadRequest:
		level = slog.LevelWarn
	}
	xslog.FromContext(ctx).Log(ctx, level, "request failed", attrs...)
}
