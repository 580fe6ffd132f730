// Package tick decides what happens on each minute boundary.
package tick

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/garrettladley/ksclock/internal/face"
	"github.com/garrettladley/ksclock/internal/settings"
	"github.com/garrettladley/ksclock/internal/xslog"
)

const (
	WeatherEvery    = 30
	BackgroundEvery = 10

	// quiet window for weather polling when safemode is on, inclusive
	SafemodeStart = 0
	SafemodeEnd   = 6
)

// DateLayout is the abbreviated weekday followed by the zero-padded day.
const DateLayout = "Mon 02"

// Requester asks the companion for fresh weather.
type Requester interface {
	RequestWeather(ctx context.Context) error
}

type Result struct {
	Time face.Time
	Date string

	RequestWeather bool

	// NewBackground is set when the background was re-rolled this minute.
	NewBackground *int
}

// Scheduler holds the minute tick policy. It is not safe for concurrent use;
// the host event loop owns it.
type Scheduler struct {
	settings *settings.Settings
	rng      *rand.Rand

	// inInterval is cleared the first time a tick lands in the safemode
	// window and is never set again.
	inInterval bool
}

func NewScheduler(cfg *settings.Settings, rng *rand.Rand) *Scheduler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &Scheduler{
		settings:   cfg,
		rng:        rng,
		inInterval: true,
	}
}

// Suppressed reports whether weather polling has been latched off by safemode.
func (s *Scheduler) Suppressed() bool { return !s.inInterval }

// Handle evaluates the tick policy for wall-clock time t.
func (s *Scheduler) Handle(t time.Time) Result {
	hour, minute := t.Hour(), t.Minute()

	r := Result{
		Time: face.Time{Hours: face.Normalize(hour), Minutes: minute},
		Date: t.Format(DateLayout),
	}

	if s.settings.WeatherSafemode && hour >= SafemodeStart && hour <= SafemodeEnd {
		s.inInterval = false
	}

	r.RequestWeather = minute%WeatherEvery == 0 && s.settings.WeatherEnabled && s.inInterval

	if minute%BackgroundEvery == 0 && !s.settings.BackgroundEnabled {
		c := face.RandomColor(s.rng)
		r.NewBackground = &c
	}

	return r
}

// Apply copies the result onto the face state and always requests a redraw.
func (r Result) Apply(state *face.State) {
	state.Live = r.Time
	state.Date = r.Date
	if r.NewBackground != nil {
		state.BackgroundColor = *r.NewBackground
	}
	state.MarkDirty()
}

// Send forwards a weather request. Failures are logged and absorbed.
func Send(ctx context.Context, req Requester) error {
	logger := xslog.FromContext(ctx)
	if err := req.RequestWeather(ctx); err != nil {
		logger.ErrorContext(ctx, "weather request failed", xslog.Error(err))
		return err
	}
	logger.InfoContext(ctx, "weather request sent")
	return nil
}
