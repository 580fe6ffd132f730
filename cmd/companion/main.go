package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/garrettladley/ksclock/internal/companion"
	"github.com/garrettladley/ksclock/internal/config"
	xredis "github.com/garrettladley/ksclock/internal/redis"
	"github.com/garrettladley/ksclock/internal/weather"
	"github.com/garrettladley/ksclock/internal/xslog"
)

const (
	keyPort        = "port"
	keyPerMinute   = "per_minute"
	keyBurst       = "burst"
	keyGracePeriod = "grace_period"

	sseShutdownGracePeriod = 2 * time.Second
)

func main() {
	_ = godotenv.Load()

	logger := xslog.NewLoggerFromEnv(os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = xslog.WithLogger(ctx, logger)
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", xslog.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.LoadCompanion("")
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if cfg.Environment.IsDevelopment() && os.Getenv(xslog.EnvKey) == "" {
		logger = xslog.NewLogger(os.Stdout, xslog.LevelDebug)
		slog.SetDefault(logger)
		ctx = xslog.WithLogger(ctx, logger)
	}

	var (
		hub     companion.Hub
		limiter companion.Limiter
	)
	if cfg.RedisURL != "" {
		redisClient, err := xredis.New(ctx, xredis.Config{URL: cfg.RedisURL, ClientName: "ksclock-companion"})
		if err != nil {
			return fmt.Errorf("failed to initialize redis client: %w", err)
		}
		defer func() { _ = redisClient.Close() }()

		hub, limiter = initRedis(ctx, cfg, redisClient, logger)
	} else {
		hub, limiter = initMemory(ctx, cfg, logger)
	}

	s := companion.NewServer(companion.ServerConfig{
		Hub:      hub,
		Limiter:  limiter,
		Provider: initProvider(ctx, cfg, logger),
		Token:    cfg.Token,
		Logger:   logger,
		// until a device relays its own units setting
		Fahrenheit: cfg.Weather.Fahrenheit,
	})

	shutdownCoordinator := companion.NewShutdownCoordinator(sseShutdownGracePeriod)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      0, // disabled for SSE
		IdleTimeout:       60 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return shutdownCoordinator.BaseContext()
		},
	}

	logger.InfoContext(ctx, "configured companion",
		slog.String(keyPort, cfg.Port),
		slog.Duration(keyGracePeriod, sseShutdownGracePeriod))

	return companion.ListenAndServe(ctx, httpServer, shutdownCoordinator)
}

func initRedis(ctx context.Context, cfg config.Companion, client *redis.Client, logger *slog.Logger) (companion.Hub, companion.Limiter) {
	// a fixed window cannot express a burst, so the window allows the
	// per-minute rate rounded up
	limit := max(int(cfg.RateLimit.PerMinute+0.5), 1)
	logger.InfoContext(ctx, "initializing Redis hub and limiter",
		slog.Int(keyPerMinute, limit))
	return companion.NewRedisHub(client), companion.NewRedisLimiter(client, limit, time.Minute)
}

func initMemory(ctx context.Context, cfg config.Companion, logger *slog.Logger) (companion.Hub, companion.Limiter) {
	logger.InfoContext(ctx, "initializing in-memory hub and limiter",
		slog.Float64(keyPerMinute, cfg.RateLimit.PerMinute),
		slog.Int(keyBurst, cfg.RateLimit.Burst))
	return companion.NewMemoryHub(), companion.NewMemoryLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
}

// initProvider returns nil when no API key is configured, which makes the
// companion answer weather requests with 503.
func initProvider(ctx context.Context, cfg config.Companion, logger *slog.Logger) weather.Provider {
	if cfg.Weather.APIKey == "" {
		logger.WarnContext(ctx, "no OpenWeatherMap API key, weather requests will be refused")
		return nil
	}
	return weather.NewOpenWeatherMap(weather.OpenWeatherMapConfig{
		BaseURL:   cfg.Weather.BaseURL,
		APIKey:    cfg.Weather.APIKey,
		Latitude:  cfg.Weather.Latitude,
		Longitude: cfg.Weather.Longitude,
	})
}
