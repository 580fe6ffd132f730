package weather

import (
	"context"
	"fmt"
	"strings"
)

// Conditions is what the face shows: a whole-degree temperature in the
// requested units and an icon token such as "01d".
type Conditions struct {
	Temperature int    `json:"temperature"`
	Icon        string `json:"icon"`
}

type Provider interface {
	// Current fetches conditions in Fahrenheit or Celsius, so the reading
	// always matches the unit the clock labels it with.
	Current(ctx context.Context, fahrenheit bool) (Conditions, error)
}

// FormatTemperature renders the temperature line, e.g. "21 C".
func FormatTemperature(t int, fahrenheit bool) string {
	if fahrenheit {
		return fmt.Sprintf("%d F", t)
	}
	return fmt.Sprintf("%d C", t)
}

var glyphs = map[string]string{
	"01": "☀", // clear
	"02": "⛅", // few clouds
	"03": "☁",
	"04": "☁",
	"09": "☂", // shower rain
	"10": "☂",
	"11": "⚡",
	"13": "❄",
	"50": "≋", // mist
}

// Glyph maps an OpenWeatherMap icon token to a printable symbol. Unknown
// tokens are returned unchanged so a companion can send glyphs directly.
func Glyph(icon string) string {
	code := strings.TrimRight(icon, "dn")
	if g, ok := glyphs[code]; ok {
		return g
	}
	return icon
}
