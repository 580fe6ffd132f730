package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/garrettladley/ksclock/internal/config"
	"github.com/garrettladley/ksclock/internal/paths"
	xredis "github.com/garrettladley/ksclock/internal/redis"
	"github.com/garrettladley/ksclock/internal/settings"
	"github.com/garrettladley/ksclock/internal/xslog"
)

func openStore(ctx context.Context, cfg config.Clock) (settings.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		return settings.NewMemoryStore(), nil

	case config.StoreRedis:
		client, err := xredis.New(ctx, xredis.Config{
			URL:        cfg.Store.RedisURL,
			ClientName: "ksclock-" + cfg.DeviceID,
		})
		if err != nil {
			return nil, err
		}
		return settings.NewRedisStore(client, cfg.DeviceID), nil

	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(cfg.Store.Path), err)
		}
		return settings.OpenSQLite(ctx, cfg.Store.Path)
	}
}

// openLog sends logs to the ksclock log file, since the terminal belongs to
// the face while it runs.
func openLog() (*slog.Logger, io.Closer, error) {
	if _, err := paths.EnsureDir(); err != nil {
		return nil, nil, err
	}
	path, err := paths.Log()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return xslog.NewLogger(f, logLevel), f, nil
}
