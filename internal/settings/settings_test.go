package settings

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
		"redis":  NewRedisStore(rdb, "test-device"),
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := Load(context.Background(), store)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			want := Settings{
				WeatherEnabled:    false,
				WeatherSafemode:   true,
				WeatherUnits:      false,
				BackgroundEnabled: false,
				BackgroundColor:   0xFF0000,
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	want := Settings{
		WeatherEnabled:    true,
		WeatherSafemode:   false,
		WeatherUnits:      true,
		BackgroundEnabled: true,
		BackgroundColor:   0x00A1B2,
	}

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := Save(ctx, store, want); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := Load(ctx, store)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}

			// overwrite a single flag and make sure only it changes
			if err := PutBool(ctx, store, KeyWeatherSafemode, true); err != nil {
				t.Fatalf("PutBool: %v", err)
			}
			if err := PutInt(ctx, store, KeyBackgroundColor, 0x123456); err != nil {
				t.Fatalf("PutInt: %v", err)
			}
			got, err = Load(ctx, store)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			want2 := want
			want2.WeatherSafemode = true
			want2.BackgroundColor = 0x123456
			if diff := cmp.Diff(want2, got); diff != "" {
				t.Errorf("after overwrite (-want +got):\n%s", diff)
			}

			if err := store.Delete(ctx, KeyWeatherSafemode); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := store.Get(ctx, KeyWeatherSafemode); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after Delete: err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.db")

	store, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := PutBool(ctx, store, KeyWeatherEnabled, true); err != nil {
		t.Fatalf("PutBool: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	store, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = store.Close() }()

	got, err := Load(ctx, store)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.WeatherEnabled {
		t.Error("weather_on did not survive reopening the database")
	}
}

func TestParseValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key     Key
		input   string
		want    int64
		wantErr bool
	}{
		{KeyWeatherEnabled, "true", 1, false},
		{KeyWeatherUnits, "0", 0, false},
		{KeyWeatherSafemode, "maybe", 0, true},
		{KeyBackgroundColor, "#00FF00", 0x00FF00, false},
		{KeyBackgroundColor, "0xff0000", 0xFF0000, false},
		{KeyBackgroundColor, "255", 255, false},
		{KeyBackgroundColor, "#1000000", 0, true},
		{KeyBackgroundColor, "red", 0, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.key)+"="+tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseValue(tt.key, tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseValue() err = %v, wantErr %t", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseValue() = %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestParseKey(t *testing.T) {
	t.Parallel()

	for _, k := range Keys {
		got, err := ParseKey(string(k))
		if err != nil || got != k {
			t.Errorf("ParseKey(%q) = %q, %v", k, got, err)
		}
	}
	if _, err := ParseKey("temperature"); err == nil {
		t.Error("ParseKey should reject keys that are not persisted")
	}
}
