package tui

import (
	"time"

	"github.com/garrettladley/ksclock/internal/message"
)

const DefaultFrameInterval = time.Second / 30

// FrameMsg drives the reveal while it is running.
type FrameMsg struct {
	At time.Time
}

// MinuteMsg fires on every wall-clock minute boundary.
type MinuteMsg struct {
	At time.Time
}

type InboundMsg struct {
	In message.Inbound
}

// InboundClosedMsg is returned once the inbound channel closes.
type InboundClosedMsg struct{}

type WeatherSentMsg struct {
	Err error
}

type LinkStatusMsg struct {
	Connected bool
}
