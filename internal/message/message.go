// Package message defines what travels between the clock and its companion.
package message

import (
	"bytes"
	"fmt"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/ksclock/internal/face"
)

// Flag decodes from a JSON boolean or a 0/1 integer, since companions
// written against the watch API send flags as int16.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", "1":
		*f = true
	case "false", "0":
		*f = false
	default:
		var n int64
		if err := go_json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid flag %s", data)
		}
		*f = n != 0
	}
	return nil
}

// Inbound is sent by the companion. Every field is optional and absent
// fields leave the corresponding state untouched.
type Inbound struct {
	Units           *Flag   `json:"units,omitempty"`
	WeatherOn       *Flag   `json:"weather_on,omitempty"`
	WeatherSafemode *Flag   `json:"weather_safemode,omitempty"`
	Temperature     *int    `json:"temperature,omitempty"`
	Icon            *string `json:"icon,omitempty"`
	BackgroundColor *int    `json:"background_color,omitempty"`
	BackgroundOn    *Flag   `json:"background_on,omitempty"`
}

// WeatherRequest is the zero-payload marker asking the companion for fresh
// conditions.
type WeatherRequest struct{}

func DecodeInbound(data []byte) (Inbound, error) {
	var in Inbound
	if err := go_json.Unmarshal(data, &in); err != nil {
		return Inbound{}, fmt.Errorf("decoding inbound message: %w", err)
	}
	return in, nil
}

func Encode(v any) ([]byte, error) {
	return go_json.Marshal(v)
}

func Bool(b bool) *Flag {
	f := Flag(b)
	return &f
}

func Int(i int) *int { return &i }

func String(s string) *string { return &s }

// Validate reports fields that must travel together but arrived alone, and
// colours outside 24-bit RGB.
func (in Inbound) Validate() map[string]string {
	fields := make(map[string]string)
	if in.BackgroundColor != nil {
		if c := *in.BackgroundColor; c < 0 || c > 0xFFFFFF {
			fields["background_color"] = "must be a 24-bit RGB value"
		}
		if in.BackgroundOn == nil {
			fields["background_on"] = "required with background_color"
		}
	}
	if in.BackgroundOn != nil && in.BackgroundColor == nil {
		fields["background_color"] = "required with background_on, e.g. " + face.Hex(face.DefaultBackground)
	}
	if (in.Temperature == nil) != (in.Icon == nil) {
		fields["temperature"] = "temperature and icon must be sent together"
	}
	return fields
}
