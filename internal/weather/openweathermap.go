package weather

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/carlmjohnson/requests"

	"github.com/garrettladley/ksclock/internal/xhttp"
)

const (
	DefaultOpenWeatherMapURL = "https://api.openweathermap.org"

	requestTimeout = 15 * time.Second
)

var _ Provider = (*OpenWeatherMap)(nil)

type OpenWeatherMapConfig struct {
	BaseURL   string
	APIKey    string
	Latitude  float64
	Longitude float64
}

type OpenWeatherMap struct {
	cfg    OpenWeatherMapConfig
	client *http.Client
}

func NewOpenWeatherMap(cfg OpenWeatherMapConfig) *OpenWeatherMap {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenWeatherMapURL
	}
	return &OpenWeatherMap{
		cfg:    cfg,
		client: xhttp.NewHTTPClient(xhttp.WithTimeout(requestTimeout)),
	}
}

type owmResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Icon string `json:"icon"`
	} `json:"weather"`
}

func (o *OpenWeatherMap) Current(ctx context.Context, fahrenheit bool) (Conditions, error) {
	units := "metric"
	if fahrenheit {
		units = "imperial"
	}

	var resp owmResponse
	err := requests.
		URL(o.cfg.BaseURL).
		Path("/data/2.5/weather").
		Param("lat", strconv.FormatFloat(o.cfg.Latitude, 'f', 4, 64)).
		Param("lon", strconv.FormatFloat(o.cfg.Longitude, 'f', 4, 64)).
		Param("units", units).
		Param("appid", o.cfg.APIKey).
		Client(o.client).
		ToJSON(&resp).
		Fetch(ctx)
	if err != nil {
		return Conditions{}, fmt.Errorf("fetching current weather: %w", err)
	}
	if len(resp.Weather) == 0 {
		return Conditions{}, errors.New("weather response has no conditions")
	}

	return Conditions{
		Temperature: int(math.Round(resp.Main.Temp)),
		Icon:        resp.Weather[0].Icon,
	}, nil
}
