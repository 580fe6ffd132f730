package tui

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/garrettladley/ksclock/internal/message"
	"github.com/garrettladley/ksclock/internal/settings"
	"github.com/garrettladley/ksclock/internal/tick"
)

type Deps struct {
	Ctx    context.Context
	Logger *slog.Logger

	// Settings is shared with the minute scheduler and updated in place by
	// inbound messages.
	Settings *settings.Settings
	Store    settings.Store

	// Requester is nil when no companion is configured.
	Requester tick.Requester
	Inbound   <-chan message.Inbound

	Monochrome    bool
	FrameInterval time.Duration

	Now  func() time.Time
	Rand *rand.Rand
}
