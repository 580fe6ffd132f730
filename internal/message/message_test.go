package message

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/ksclock/internal/face"
	"github.com/garrettladley/ksclock/internal/settings"
)

func TestDecodeInbound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    Inbound
		wantErr bool
	}{
		{
			name:    "empty",
			payload: `{}`,
			want:    Inbound{},
		},
		{
			name:    "integer flags",
			payload: `{"units":1,"weather_on":0,"weather_safemode":2}`,
			want: Inbound{
				Units:           Bool(true),
				WeatherOn:       Bool(false),
				WeatherSafemode: Bool(true),
			},
		},
		{
			name:    "boolean flags",
			payload: `{"background_on":true,"background_color":65280}`,
			want: Inbound{
				BackgroundOn:    Bool(true),
				BackgroundColor: Int(0x00FF00),
			},
		},
		{
			name:    "weather",
			payload: `{"temperature":-3,"icon":"13n"}`,
			want: Inbound{
				Temperature: Int(-3),
				Icon:        String("13n"),
			},
		},
		{
			name:    "bad flag",
			payload: `{"units":"yes"}`,
			wantErr: true,
		},
		{
			name:    "not json",
			payload: `nope`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DecodeInbound([]byte(tt.payload))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeInbound: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DecodeInbound() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncode_WeatherRequest(t *testing.T) {
	t.Parallel()

	got, err := Encode(WeatherRequest{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(got) != "{}" {
		t.Errorf("Encode(WeatherRequest{}) = %s, want {}", got)
	}
}

func TestApply_Weather(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := settings.NewMemoryStore()
	cfg := settings.Defaults()
	cfg.WeatherEnabled = true
	state := face.NewState(cfg.BackgroundColor)
	state.TakeDirty()

	in := Inbound{Temperature: Int(21), Icon: String("01d"), Units: Bool(false)}
	if err := Apply(ctx, in, &cfg, state, store); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if state.WeatherText != "21 C" || state.WeatherIcon != "01d" {
		t.Errorf("weather = (%q, %q), want (\"21 C\", \"01d\")", state.WeatherText, state.WeatherIcon)
	}
	if !state.TakeDirty() {
		t.Error("expected a redraw request")
	}
	if v, err := store.Get(ctx, settings.KeyWeatherUnits); err != nil || v != 0 {
		t.Errorf("persisted units = (%d, %v), want (0, nil)", v, err)
	}
}

func TestApply_Fahrenheit(t *testing.T) {
	t.Parallel()

	cfg := settings.Defaults()
	state := face.NewState(cfg.BackgroundColor)

	in := Inbound{
		WeatherOn:   Bool(true),
		Units:       Bool(true),
		Temperature: Int(70),
		Icon:        String("02n"),
	}
	if err := Apply(context.Background(), in, &cfg, state, settings.NewMemoryStore()); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if state.WeatherText != "70 F" {
		t.Errorf("WeatherText = %q, want %q", state.WeatherText, "70 F")
	}
}

func TestApply_WeatherDisabledClearsText(t *testing.T) {
	t.Parallel()

	cfg := settings.Defaults()
	cfg.WeatherEnabled = true
	state := face.NewState(cfg.BackgroundColor)
	state.WeatherText = "12 C"
	state.WeatherIcon = "04d"

	in := Inbound{WeatherOn: Bool(false)}
	if err := Apply(context.Background(), in, &cfg, state, settings.NewMemoryStore()); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.WeatherEnabled {
		t.Error("weather should be disabled")
	}
	if state.WeatherText != "" || state.WeatherIcon != "" {
		t.Errorf("weather = (%q, %q), want empty", state.WeatherText, state.WeatherIcon)
	}
}

func TestApply_TemperatureWithoutIconIgnored(t *testing.T) {
	t.Parallel()

	cfg := settings.Defaults()
	cfg.WeatherEnabled = true
	state := face.NewState(cfg.BackgroundColor)
	state.TakeDirty()

	if err := Apply(context.Background(), Inbound{Temperature: Int(5)}, &cfg, state, settings.NewMemoryStore()); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if state.WeatherText != "" {
		t.Errorf("WeatherText = %q, want empty", state.WeatherText)
	}
	if state.TakeDirty() {
		t.Error("unexpected redraw request")
	}
}

func TestApply_Background(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        Inbound
		wantOn    bool
		wantColor int
	}{
		{
			name:      "enabled",
			in:        Inbound{BackgroundColor: Int(0x00FF00), BackgroundOn: Bool(true)},
			wantOn:    true,
			wantColor: 0x00FF00,
		},
		{
			name:      "disabled resets to red",
			in:        Inbound{BackgroundColor: Int(0x00FF00), BackgroundOn: Bool(false)},
			wantOn:    false,
			wantColor: 0xFF0000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			store := settings.NewMemoryStore()
			cfg := settings.Defaults()
			state := face.NewState(0x123456)

			if err := Apply(ctx, tt.in, &cfg, state, store); err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if cfg.BackgroundEnabled != tt.wantOn || cfg.BackgroundColor != tt.wantColor {
				t.Errorf("settings = (%t, %#x), want (%t, %#x)", cfg.BackgroundEnabled, cfg.BackgroundColor, tt.wantOn, tt.wantColor)
			}
			if state.BackgroundColor != tt.wantColor {
				t.Errorf("state colour = %#x, want %#x", state.BackgroundColor, tt.wantColor)
			}

			reloaded, err := settings.Load(ctx, store)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if diff := cmp.Diff(cfg, reloaded); diff != "" {
				t.Errorf("persisted settings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApply_ColourWithoutFlagIgnored(t *testing.T) {
	t.Parallel()

	cfg := settings.Defaults()
	state := face.NewState(cfg.BackgroundColor)

	if err := Apply(context.Background(), Inbound{BackgroundColor: Int(0x0000FF)}, &cfg, state, settings.NewMemoryStore()); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.BackgroundColor != 0xFF0000 || state.BackgroundColor != 0xFF0000 {
		t.Errorf("colour changed to %#x", state.BackgroundColor)
	}
}

type failingStore struct{ settings.Store }

var errWrite = errors.New("disk full")

func (failingStore) Set(context.Context, settings.Key, int64) error { return errWrite }

func TestApply_PersistFailureStillApplies(t *testing.T) {
	t.Parallel()

	cfg := settings.Defaults()
	state := face.NewState(cfg.BackgroundColor)

	in := Inbound{WeatherOn: Bool(true), Temperature: Int(3), Icon: String("50d")}
	err := Apply(context.Background(), in, &cfg, state, failingStore{settings.NewMemoryStore()})
	if !errors.Is(err, errWrite) {
		t.Fatalf("Apply error = %v, want %v", err, errWrite)
	}
	if !cfg.WeatherEnabled || state.WeatherText != "3 C" {
		t.Errorf("in-memory update lost: enabled=%t text=%q", cfg.WeatherEnabled, state.WeatherText)
	}
}

func TestInbound_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Inbound
		want []string
	}{
		{"empty", Inbound{}, nil},
		{"weather pair", Inbound{Temperature: Int(1), Icon: String("01d")}, nil},
		{"background pair", Inbound{BackgroundColor: Int(0xABCDEF), BackgroundOn: Bool(false)}, nil},
		{"lone temperature", Inbound{Temperature: Int(1)}, []string{"temperature"}},
		{"lone icon", Inbound{Icon: String("01d")}, []string{"temperature"}},
		{"lone colour", Inbound{BackgroundColor: Int(1)}, []string{"background_on"}},
		{"lone flag", Inbound{BackgroundOn: Bool(true)}, []string{"background_color"}},
		{"colour out of range", Inbound{BackgroundColor: Int(-1), BackgroundOn: Bool(true)}, []string{"background_color"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got []string
			for field := range tt.in.Validate() {
				got = append(got, field)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("invalid fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
