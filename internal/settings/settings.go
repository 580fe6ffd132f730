package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/garrettladley/ksclock/internal/face"
)

var ErrNotFound = errors.New("setting not found")

type Key string

const (
	KeyWeatherEnabled    Key = "weather_on"
	KeyWeatherSafemode   Key = "weather_safemode"
	KeyWeatherUnits      Key = "units"
	KeyBackgroundEnabled Key = "background_on"
	KeyBackgroundColor   Key = "background_color"
)

// Keys lists every persisted key in load order.
var Keys = []Key{
	KeyWeatherEnabled,
	KeyWeatherSafemode,
	KeyWeatherUnits,
	KeyBackgroundEnabled,
	KeyBackgroundColor,
}

func ParseKey(s string) (Key, error) {
	for _, k := range Keys {
		if string(k) == strings.ToLower(s) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown setting %q", s)
}

// IsBool reports whether the key holds a flag rather than an integer.
func (k Key) IsBool() bool { return k != KeyBackgroundColor }

// Store is a durable scalar key-value store. Flags are persisted as 0/1.
type Store interface {
	// Get returns ErrNotFound when the key has never been written.
	Get(ctx context.Context, key Key) (int64, error)
	Set(ctx context.Context, key Key, value int64) error
	Delete(ctx context.Context, key Key) error
	Close() error
}

type Settings struct {
	WeatherEnabled  bool
	WeatherSafemode bool
	// WeatherUnits is true for Fahrenheit.
	WeatherUnits      bool
	BackgroundEnabled bool
	BackgroundColor   int
}

func Defaults() Settings {
	return Settings{
		WeatherEnabled:    false,
		WeatherSafemode:   true,
		WeatherUnits:      false,
		BackgroundEnabled: false,
		BackgroundColor:   face.DefaultBackground,
	}
}

// Load reads every key, substituting the default for any that is absent.
func Load(ctx context.Context, store Store) (Settings, error) {
	s := Defaults()

	var err error
	if s.WeatherEnabled, err = readBool(ctx, store, KeyWeatherEnabled, s.WeatherEnabled); err != nil {
		return Settings{}, err
	}
	if s.WeatherSafemode, err = readBool(ctx, store, KeyWeatherSafemode, s.WeatherSafemode); err != nil {
		return Settings{}, err
	}
	if s.WeatherUnits, err = readBool(ctx, store, KeyWeatherUnits, s.WeatherUnits); err != nil {
		return Settings{}, err
	}
	if s.BackgroundEnabled, err = readBool(ctx, store, KeyBackgroundEnabled, s.BackgroundEnabled); err != nil {
		return Settings{}, err
	}
	if s.BackgroundColor, err = readInt(ctx, store, KeyBackgroundColor, s.BackgroundColor); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func Save(ctx context.Context, store Store, s Settings) error {
	for _, kv := range []struct {
		key   Key
		value int64
	}{
		{KeyWeatherEnabled, boolToInt(s.WeatherEnabled)},
		{KeyWeatherSafemode, boolToInt(s.WeatherSafemode)},
		{KeyWeatherUnits, boolToInt(s.WeatherUnits)},
		{KeyBackgroundEnabled, boolToInt(s.BackgroundEnabled)},
		{KeyBackgroundColor, int64(s.BackgroundColor)},
	} {
		if err := store.Set(ctx, kv.key, kv.value); err != nil {
			return err
		}
	}
	return nil
}

func PutBool(ctx context.Context, store Store, key Key, v bool) error {
	if err := store.Set(ctx, key, boolToInt(v)); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

func PutInt(ctx context.Context, store Store, key Key, v int) error {
	if err := store.Set(ctx, key, int64(v)); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

func (s Settings) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool(string(KeyWeatherEnabled), s.WeatherEnabled),
		slog.Bool(string(KeyWeatherSafemode), s.WeatherSafemode),
		slog.Bool(string(KeyWeatherUnits), s.WeatherUnits),
		slog.Bool(string(KeyBackgroundEnabled), s.BackgroundEnabled),
		slog.String(string(KeyBackgroundColor), face.Hex(s.BackgroundColor)),
	)
}

// Value returns the setting for key as a display string.
func (s Settings) Value(key Key) string {
	switch key {
	case KeyWeatherEnabled:
		return strconv.FormatBool(s.WeatherEnabled)
	case KeyWeatherSafemode:
		return strconv.FormatBool(s.WeatherSafemode)
	case KeyWeatherUnits:
		return strconv.FormatBool(s.WeatherUnits)
	case KeyBackgroundEnabled:
		return strconv.FormatBool(s.BackgroundEnabled)
	case KeyBackgroundColor:
		return face.Hex(s.BackgroundColor)
	default:
		return ""
	}
}

// ParseValue converts user input for key into its stored form. Colours
// accept "#RRGGBB", "0xRRGGBB" or decimal.
func ParseValue(key Key, s string) (int64, error) {
	if key.IsBool() {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return 0, fmt.Errorf("invalid value %q for %s: %w", s, key, err)
		}
		return boolToInt(b), nil
	}

	base := 10
	switch {
	case strings.HasPrefix(s, "#"):
		s, base = s[1:], 16
	case strings.HasPrefix(strings.ToLower(s), "0x"):
		s, base = s[2:], 16
	}
	v, err := strconv.ParseInt(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q for %s: %w", s, key, err)
	}
	if v < 0 || v > 0xFFFFFF {
		return 0, fmt.Errorf("colour %#x out of range", v)
	}
	return v, nil
}

func readBool(ctx context.Context, store Store, key Key, def bool) (bool, error) {
	v, err := store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v != 0, nil
}

func readInt(ctx context.Context, store Store, key Key, def int) (int, error) {
	v, err := store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return int(v), nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
