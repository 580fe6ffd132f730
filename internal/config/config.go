// Package config loads settings for the clock and its companion. Values come
// from built-in defaults, then an optional YAML file, then the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	appenv "github.com/garrettladley/ksclock/internal/env"
	"github.com/garrettladley/ksclock/internal/paths"
)

// PathEnvKey names a config file that overrides the default location.
const PathEnvKey = "KSCLOCK_CONFIG"

const DefaultCompanionPort = "8787"

type StoreDriver string

const (
	StoreSQLite StoreDriver = "sqlite"
	StoreRedis  StoreDriver = "redis"
	StoreMemory StoreDriver = "memory"
)

type Clock struct {
	Environment appenv.Environment `yaml:"environment" env:"KSCLOCK_ENV"`
	DeviceID    string             `yaml:"device_id" env:"KSCLOCK_DEVICE_ID"`
	Companion   CompanionLink      `yaml:"companion" envPrefix:"KSCLOCK_COMPANION_"`
	Store       Store              `yaml:"store" envPrefix:"KSCLOCK_STORE_"`
	Face        Face               `yaml:"face" envPrefix:"KSCLOCK_FACE_"`
}

// CompanionLink is how the clock reaches its companion. An empty URL runs
// the clock offline.
type CompanionLink struct {
	URL   string `yaml:"url" env:"URL"`
	Token string `yaml:"token" env:"TOKEN"`
}

type Store struct {
	Driver   StoreDriver `yaml:"driver" env:"DRIVER"`
	Path     string      `yaml:"path" env:"PATH"`
	RedisURL string      `yaml:"redis_url" env:"REDIS_URL"`
}

type Face struct {
	Monochrome    bool          `yaml:"monochrome" env:"MONOCHROME"`
	FrameInterval time.Duration `yaml:"frame_interval" env:"FRAME_INTERVAL"`
}

type Companion struct {
	Environment appenv.Environment `yaml:"environment" env:"KSCLOCK_ENV"`
	Port        string             `yaml:"port" env:"PORT"`
	Token       string             `yaml:"token" env:"COMPANION_TOKEN"`
	RedisURL    string             `yaml:"redis_url" env:"REDIS_URL"`
	Weather     Weather            `yaml:"weather" envPrefix:"OWM_"`
	RateLimit   RateLimit          `yaml:"rate_limit" envPrefix:"RATE_LIMIT_"`
}

type Weather struct {
	APIKey     string  `yaml:"api_key" env:"API_KEY"`
	BaseURL    string  `yaml:"base_url" env:"BASE_URL"`
	Latitude   float64 `yaml:"latitude" env:"LATITUDE"`
	Longitude  float64 `yaml:"longitude" env:"LONGITUDE"`
	Fahrenheit bool    `yaml:"fahrenheit" env:"FAHRENHEIT"`
}

// RateLimit bounds weather requests per device.
type RateLimit struct {
	PerMinute float64 `yaml:"per_minute" env:"PER_MINUTE"`
	Burst     int     `yaml:"burst" env:"BURST"`
}

func DefaultClock() Clock {
	return Clock{
		Environment: appenv.Production,
		DeviceID:    "default",
		Store:       Store{Driver: StoreSQLite},
		Face:        Face{FrameInterval: time.Second / 30},
	}
}

func DefaultCompanion() Companion {
	return Companion{
		Environment: appenv.Production,
		Port:        DefaultCompanionPort,
		RateLimit:   RateLimit{PerMinute: 2, Burst: 2},
	}
}

// LoadClock reads the clock's configuration. path may be empty.
func LoadClock(path string) (Clock, error) {
	cfg := DefaultClock()
	if err := load(&cfg, path); err != nil {
		return Clock{}, err
	}
	if cfg.Store.Path == "" && cfg.Store.Driver == StoreSQLite {
		db, err := paths.DB()
		if err != nil {
			return Clock{}, err
		}
		cfg.Store.Path = db
	}
	if err := cfg.Validate(); err != nil {
		return Clock{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func LoadCompanion(path string) (Companion, error) {
	cfg := DefaultCompanion()
	if err := load(&cfg, path); err != nil {
		return Companion{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Companion{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c Clock) Validate() error {
	var errs []error
	if err := c.Environment.Validate(); err != nil {
		errs = append(errs, err)
	}
	switch c.Store.Driver {
	case StoreSQLite, StoreMemory:
	case StoreRedis:
		if c.Store.RedisURL == "" {
			errs = append(errs, errors.New("store.redis_url is required for the redis driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid store driver %q (valid: sqlite, redis, memory)", c.Store.Driver))
	}
	if c.DeviceID == "" {
		errs = append(errs, errors.New("device_id must not be empty"))
	}
	if c.Face.FrameInterval <= 0 {
		errs = append(errs, errors.New("face.frame_interval must be positive"))
	}
	return errors.Join(errs...)
}

func (c Companion) Validate() error {
	var errs []error
	if err := c.Environment.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Port == "" {
		errs = append(errs, errors.New("port must not be empty"))
	}
	if c.RateLimit.PerMinute <= 0 || c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("rate_limit values must be positive"))
	}
	if c.Environment.IsProduction() && c.Token == "" {
		errs = append(errs, errors.New("token is required in production"))
	}
	return errors.Join(errs...)
}

// load layers the YAML file and then the environment over cfg. Without an
// explicit path, KSCLOCK_CONFIG and then the default location are tried.
func load(cfg any, path string) error {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(PathEnvKey)
		explicit = path != ""
	}
	if !explicit {
		p, err := paths.Config()
		if err != nil {
			return err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}
