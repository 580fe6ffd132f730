package link

import (
	"charm.land/lipgloss/v2"

	"github.com/garrettladley/ksclock/internal/tui/theme"
)

const statusDot = "●"

type Status uint8

const (
	// Disabled means no companion is configured.
	Disabled Status = iota
	Connecting
	Connected
	Offline
)

type Indicator struct {
	Status Status
}

func (i Indicator) Render() string {
	switch i.Status {
	case Connecting:
		return lipgloss.NewStyle().
			Foreground(theme.ColorPending).
			Render(statusDot + " connecting...")
	case Connected:
		return lipgloss.NewStyle().
			Foreground(theme.ColorLinked).
			Render(statusDot + " companion")
	case Offline:
		return lipgloss.NewStyle().
			Foreground(theme.ColorOffline).
			Render(statusDot + " offline")
	default:
		return ""
	}
}
