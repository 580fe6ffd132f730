package companion

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/ksclock/internal/xcontext"
	"github.com/garrettladley/ksclock/internal/xerrors"
	"github.com/garrettladley/ksclock/internal/xhttp"
	"github.com/garrettladley/ksclock/internal/xslog"
)

const (
	DefaultHeartbeatInterval = 30 * time.Second
	sseWriteTimeout          = 45 * time.Second
)

const (
	EventConnected = "connected"
	EventMessage   = "message"
	EventHeartbeat = "heartbeat"
	EventShutdown  = "shutdown"
)

type SSEHandler struct {
	hub       Hub
	heartbeat time.Duration
}

func NewSSEHandler(hub Hub, heartbeat time.Duration) *SSEHandler {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeatInterval
	}
	return &SSEHandler{hub: hub, heartbeat: heartbeat}
}

func (h *SSEHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := xslog.FromContext(ctx)
	deviceID, _ := xcontext.GetDeviceID(ctx)

	flusher, ok := w.(http.Flusher)
	if !ok {
		xerrors.WriteError(ctx, w, xerrors.Internal(xerrors.WithCause(errors.New("streaming unsupported"))))
		return
	}

	inbox, unsubscribe, err := h.hub.Subscribe(ctx, deviceID)
	if err != nil {
		xerrors.WriteError(ctx, w, xerrors.Internal(xerrors.WithCause(fmt.Errorf("subscribing to inbox: %w", err))))
		return
	}
	defer unsubscribe()

	w.Header().Set(xhttp.ContentType, xhttp.TextEventStream)
	w.Header().Set(xhttp.CacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	logger.InfoContext(ctx, "SSE connection established")

	rc := http.NewResponseController(w)

	if err := writeSSEEvent(rc, w, flusher, EventConnected, map[string]string{
		"device_id": deviceID,
		"time":      time.Now().Format(time.RFC3339),
	}); err != nil {
		logger.ErrorContext(ctx, "failed to send connected event", xslog.Error(err))
		return
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			if xcontext.IsShutdownInProgress(ctx) {
				_ = writeSSEEvent(rc, w, flusher, EventShutdown, map[string]string{
					"reason": "server-restart",
					"time":   time.Now().Format(time.RFC3339),
				})
				logger.InfoContext(ctx, "SSE closed for shutdown")
				return
			}
			logger.InfoContext(ctx, "SSE connection closed by client")
			return

		case in, ok := <-inbox:
			if !ok {
				logger.InfoContext(ctx, "inbox closed")
				return
			}
			if err := writeSSEEvent(rc, w, flusher, EventMessage, in); err != nil {
				logger.ErrorContext(ctx, "failed to send message event", xslog.Error(err))
				return
			}

		case t := <-heartbeat.C:
			if err := writeSSEEvent(rc, w, flusher, EventHeartbeat, map[string]string{
				"time": t.Format(time.RFC3339),
			}); err != nil {
				logger.ErrorContext(ctx, "failed to send heartbeat", xslog.Error(err))
				return
			}
		}
	}
}

func writeSSEEvent(rc *http.ResponseController, w http.ResponseWriter, flusher http.Flusher, event string, data any) error {
	// extend write deadline before each write (ignore if not supported)
	if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	jsonData, err := go_json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	flusher.Flush()
	return nil
}
