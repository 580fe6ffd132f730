package message

import (
	"context"
	"errors"

	"github.com/garrettladley/ksclock/internal/face"
	"github.com/garrettladley/ksclock/internal/settings"
	"github.com/garrettladley/ksclock/internal/weather"
	"github.com/garrettladley/ksclock/internal/xslog"
)

// Apply folds an inbound message into the live settings and face state,
// persisting each setting it touches. Persistence failures do not stop the
// remaining fields from being applied; they are returned joined.
func Apply(ctx context.Context, in Inbound, cfg *settings.Settings, state *face.State, store settings.Store) error {
	var errs []error
	putBool := func(key settings.Key, v bool) {
		if err := settings.PutBool(ctx, store, key, v); err != nil {
			errs = append(errs, err)
		}
	}

	if in.WeatherOn != nil {
		cfg.WeatherEnabled = bool(*in.WeatherOn)
		putBool(settings.KeyWeatherEnabled, cfg.WeatherEnabled)
	}
	if in.WeatherSafemode != nil {
		cfg.WeatherSafemode = bool(*in.WeatherSafemode)
		putBool(settings.KeyWeatherSafemode, cfg.WeatherSafemode)
	}
	if in.Units != nil {
		cfg.WeatherUnits = bool(*in.Units)
		putBool(settings.KeyWeatherUnits, cfg.WeatherUnits)
	}

	if in.Temperature != nil && in.Icon != nil {
		state.WeatherText = weather.FormatTemperature(*in.Temperature, cfg.WeatherUnits)
		state.WeatherIcon = *in.Icon
		state.MarkDirty()
	}

	if !cfg.WeatherEnabled {
		state.ClearWeather()
	}

	if in.BackgroundColor != nil && in.BackgroundOn != nil {
		cfg.BackgroundEnabled = bool(*in.BackgroundOn)
		putBool(settings.KeyBackgroundEnabled, cfg.BackgroundEnabled)

		cfg.BackgroundColor = face.DefaultBackground
		if cfg.BackgroundEnabled {
			cfg.BackgroundColor = *in.BackgroundColor
		}
		if err := settings.PutInt(ctx, store, settings.KeyBackgroundColor, cfg.BackgroundColor); err != nil {
			errs = append(errs, err)
		}

		state.BackgroundColor = cfg.BackgroundColor
		state.MarkDirty()
	}

	xslog.FromContext(ctx).DebugContext(ctx, "applied inbound message",
		xslog.Settings(*cfg),
	)

	return errors.Join(errs...)
}
