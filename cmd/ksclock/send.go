//go:build !release

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garrettladley/ksclock/internal/companion"
	"github.com/garrettladley/ksclock/internal/config"
	"github.com/garrettladley/ksclock/internal/message"
	"github.com/garrettladley/ksclock/internal/settings"
)

type sendOptions struct {
	requestWeather  bool
	weatherOn       bool
	safemode        bool
	fahrenheit      bool
	temperature     int
	icon            string
	backgroundOn    bool
	backgroundColor string
}

func sendCmd() *cobra.Command {
	var opts sendOptions

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Push a message through the companion to this device",
		Long: "Relays the given fields to the running clock as an inbound message. " +
			"Only flags that are set are sent. --request-weather asks the companion " +
			"to fetch and push current conditions instead.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadClock(configPath)
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
			if cfg.Companion.URL == "" {
				return errors.New("companion.url is not configured")
			}

			client := companion.NewClient(companion.ClientConfig{
				BaseURL:  cfg.Companion.URL,
				Token:    cfg.Companion.Token,
				DeviceID: cfg.DeviceID,
			})

			if opts.requestWeather {
				return client.RequestWeather(cmd.Context())
			}

			in, err := opts.inbound(cmd)
			if err != nil {
				return err
			}
			return client.SendConfig(cmd.Context(), in)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.requestWeather, "request-weather", false, "ask the companion for fresh weather")
	f.BoolVar(&opts.weatherOn, "weather", false, "enable weather")
	f.BoolVar(&opts.safemode, "safemode", true, "stop weather polling after a night-time tick")
	f.BoolVar(&opts.fahrenheit, "fahrenheit", false, "show temperatures in Fahrenheit")
	f.IntVar(&opts.temperature, "temperature", 0, "temperature to show, requires --icon")
	f.StringVar(&opts.icon, "icon", "", "OpenWeatherMap icon code, requires --temperature")
	f.BoolVar(&opts.backgroundOn, "background", false, "use a fixed background colour, requires --color")
	f.StringVar(&opts.backgroundColor, "color", "", "background colour as #RRGGBB")
	return cmd
}

func (o sendOptions) inbound(cmd *cobra.Command) (message.Inbound, error) {
	changed := cmd.Flags().Changed

	var in message.Inbound
	if changed("weather") {
		in.WeatherOn = message.Bool(o.weatherOn)
	}
	if changed("safemode") {
		in.WeatherSafemode = message.Bool(o.safemode)
	}
	if changed("fahrenheit") {
		in.Units = message.Bool(o.fahrenheit)
	}
	if changed("temperature") || changed("icon") {
		in.Temperature = message.Int(o.temperature)
		in.Icon = message.String(o.icon)
	}
	if changed("background") || changed("color") {
		color := int64(0xFF0000)
		if o.backgroundColor != "" {
			var err error
			if color, err = settings.ParseValue(settings.KeyBackgroundColor, o.backgroundColor); err != nil {
				return message.Inbound{}, err
			}
		}
		in.BackgroundOn = message.Bool(o.backgroundOn)
		in.BackgroundColor = message.Int(int(color))
	}
	return in, nil
}
