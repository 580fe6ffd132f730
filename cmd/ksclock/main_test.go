package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/garrettladley/ksclock/internal/settings"
)

func TestParseAt(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.March, 5, 9, 12, 0, 0, time.UTC)

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "14:30", want: time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)},
		{in: "00:00", want: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)},
		{in: "2024-12-25T07:45:00Z", want: time.Date(2024, time.December, 25, 7, 45, 0, 0, time.UTC)},
		{in: "25:00", wantErr: true},
		{in: "noon", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseAt(tt.in, today)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseAt(%q) expected an error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseAt(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseAt(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestPrintSettings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := printSettings(&buf, settings.Defaults()); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(settings.Keys) {
		t.Fatalf("printed %d lines, want %d", len(lines), len(settings.Keys))
	}
	if !strings.Contains(buf.String(), "#FF0000") {
		t.Errorf("default colour missing from:\n%s", buf.String())
	}
}
