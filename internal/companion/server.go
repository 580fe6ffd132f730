// Package companion is the phone side of the clock: it answers weather
// requests, relays configuration and streams inbound messages to the clock.
package companion

import (
	"context"
	"crypto/subtle"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/garrettladley/ksclock/internal/message"
	"github.com/garrettladley/ksclock/internal/validator"
	"github.com/garrettladley/ksclock/internal/version"
	"github.com/garrettladley/ksclock/internal/weather"
	"github.com/garrettladley/ksclock/internal/xcontext"
	"github.com/garrettladley/ksclock/internal/xerrors"
	"github.com/garrettladley/ksclock/internal/xhttp"
	"github.com/garrettladley/ksclock/internal/xhttp/middleware"
	"github.com/garrettladley/ksclock/internal/xslog"
)

const (
	PathHealth         = "/health"
	PathWeatherRequest = "/api/weather/request"
	PathConfig         = "/api/config"
	PathStream         = "/api/stream"

	maxBodyBytes = 64 << 10
)

type ServerConfig struct {
	Hub     Hub
	Limiter Limiter
	// Provider may be nil, in which case weather requests fail with 503.
	Provider weather.Provider
	// Token is the shared bearer secret. Empty disables authentication.
	Token  string
	Logger *slog.Logger
	// Fahrenheit is the unit used for devices that have not relayed a
	// units setting yet.
	Fahrenheit bool

	HeartbeatInterval time.Duration
}

type Server struct {
	hub      Hub
	limiter  Limiter
	provider weather.Provider
	token    string
	logger   *slog.Logger
	sse      *SSEHandler
	units    *deviceUnits
}

// deviceUnits remembers the last units flag each device relayed.
type deviceUnits struct {
	mu         sync.Mutex
	fahrenheit map[string]bool
	fallback   bool
}

func (u *deviceUnits) get(deviceID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if f, ok := u.fahrenheit[deviceID]; ok {
		return f
	}
	return u.fallback
}

func (u *deviceUnits) set(deviceID string, fahrenheit bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.fahrenheit[deviceID] = fahrenheit
}

func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		hub:      cfg.Hub,
		limiter:  cfg.Limiter,
		provider: cfg.Provider,
		token:    cfg.Token,
		logger:   logger,
		sse:      NewSSEHandler(cfg.Hub, cfg.HeartbeatInterval),
		units:    &deviceUnits{fahrenheit: make(map[string]bool), fallback: cfg.Fahrenheit},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+PathHealth, s.handleHealth)

	api := http.NewServeMux()
	api.HandleFunc("POST "+PathWeatherRequest, s.handleWeatherRequest)
	api.HandleFunc("POST "+PathConfig, s.handleConfig)
	api.HandleFunc("GET "+PathStream, s.sse.HandleStream)
	mux.Handle("/api/", middleware.Chain(api,
		middleware.VersionCheck,
		BearerAuth(s.token),
		DeviceID,
	))

	return middleware.Chain(mux,
		middleware.RequestID(),
		middleware.Logger(s.logger),
		middleware.Recovery,
		middleware.Logging,
		middleware.ClientSessionID,
		middleware.SecurityHeaders,
		middleware.Gzip,
	)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	xhttp.WriteOK(w, map[string]string{
		"status":  "ok",
		"version": version.Get(),
	})
}

func (s *Server) handleWeatherRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := xslog.FromContext(ctx)
	deviceID, _ := xcontext.GetDeviceID(ctx)

	result, err := s.limiter.Allow(ctx, deviceID)
	if err != nil {
		xerrors.WriteError(ctx, w, xerrors.ServiceUnavailable(
			xerrors.WithMessage("rate limit check failed"),
			xerrors.WithCause(err),
		))
		return
	}
	if !result.Allowed {
		xerrors.WriteError(ctx, w, xerrors.TooManyRequests(
			xerrors.WithRateLimit(result.RetryAfter, "device_rate_limit"),
		))
		return
	}

	// the body is an empty marker; drain it so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(r.Body, maxBodyBytes))

	if s.provider == nil {
		xerrors.WriteError(ctx, w, xerrors.ServiceUnavailable(xerrors.WithMessage("no weather provider configured")))
		return
	}

	fahrenheit := s.units.get(deviceID)
	cond, err := s.provider.Current(ctx, fahrenheit)
	if err != nil {
		xerrors.WriteError(ctx, w, xerrors.BadGateway(
			xerrors.WithMessage("weather provider failed"),
			xerrors.WithCause(err),
		))
		return
	}

	// units names the scale the reading was fetched in
	in := message.Inbound{
		Units:       message.Bool(fahrenheit),
		Temperature: message.Int(cond.Temperature),
		Icon:        message.String(cond.Icon),
	}
	if err := s.hub.Publish(ctx, deviceID, in); err != nil {
		xerrors.WriteError(ctx, w, xerrors.Internal(xerrors.WithCause(err)))
		return
	}

	logger.InfoContext(ctx, "published weather", xslog.WeatherGroup(cond.Temperature, cond.Icon))
	xhttp.WriteAccepted(w, in)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID, _ := xcontext.GetDeviceID(ctx)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		xerrors.WriteError(ctx, w, xerrors.BadRequest(xerrors.WithCause(err)))
		return
	}
	in, err := message.DecodeInbound(body)
	if err != nil {
		xerrors.WriteError(ctx, w, xerrors.BadRequest(
			xerrors.WithMessage("invalid message"),
			xerrors.WithCause(err),
		))
		return
	}
	if verr := validator.Validate(in); verr != nil {
		xerrors.WriteError(ctx, w, verr)
		return
	}

	if err := s.hub.Publish(ctx, deviceID, in); err != nil {
		xerrors.WriteError(ctx, w, xerrors.Internal(xerrors.WithCause(err)))
		return
	}
	if in.Units != nil {
		s.units.set(deviceID, bool(*in.Units))
	}

	xslog.FromContext(ctx).InfoContext(ctx, "relayed config")
	xhttp.WriteAccepted(w, in)
}

// BearerAuth checks the shared companion token. An empty token disables it.
func BearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get(xhttp.Authorization), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				xerrors.WriteError(r.Context(), w, xerrors.Unauthorized(xerrors.WithMessage("invalid or missing token")))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// DeviceID stores the requesting device in the context. The request logger
// already carries an explicit X-Device-ID, so only the fallback id is added
// to it here. Must run AFTER middleware.Logger.
func DeviceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := xhttp.GetDeviceID(r)
		ctx := xcontext.SetDeviceID(r.Context(), id)
		if r.Header.Get(xhttp.XDeviceID) == "" {
			ctx = xslog.WithAttrs(ctx, xslog.DeviceID(id))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ListenAndServe runs srv until ctx is cancelled, then gives open streams a
// grace period before shutting down.
func ListenAndServe(ctx context.Context, srv *http.Server, shutdown *ShutdownCoordinator) error {
	logger := xslog.FromContext(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "starting companion", xslog.Version(), slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.InfoContext(context.WithoutCancel(ctx), "shutdown signal received, initiating graceful shutdown")
	shutdown.InitiateShutdown()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.InfoContext(shutdownCtx, "companion stopped")
	return nil
}
