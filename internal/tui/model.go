package tui

import (
	"context"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/garrettladley/ksclock/internal/animation"
	"github.com/garrettladley/ksclock/internal/canvas/braille"
	"github.com/garrettladley/ksclock/internal/face"
	"github.com/garrettladley/ksclock/internal/message"
	"github.com/garrettladley/ksclock/internal/tick"
	"github.com/garrettladley/ksclock/internal/tui/components/footer"
	"github.com/garrettladley/ksclock/internal/tui/components/link"
	"github.com/garrettladley/ksclock/internal/tui/theme"
	"github.com/garrettladley/ksclock/internal/weather"
	"github.com/garrettladley/ksclock/internal/xslog"
)

var _ tea.Model = (*Model)(nil)

// Model is the clock's event loop. Every mutation of the face state happens
// inside Update.
type Model struct {
	ready          bool
	viewportWidth  int
	viewportHeight int
	theme          theme.Theme
	deps           Deps
	ctx            context.Context
	logger         *slog.Logger

	state     *face.State
	scheduler *tick.Scheduler
	reveal    *animation.Reveal
	geometry  face.Geometry
	regions   face.Regions
	link      link.Indicator

	// frame is the last rendered screen, refreshed whenever the state is dirty.
	frame string
}

func New(deps Deps) *Model {
	if deps.Ctx == nil {
		deps.Ctx = context.Background()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.FrameInterval <= 0 {
		deps.FrameInterval = DefaultFrameInterval
	}

	state := face.NewState(deps.Settings.BackgroundColor)

	m := &Model{
		theme:     theme.New(),
		deps:      deps,
		ctx:       xslog.WithLogger(deps.Ctx, deps.Logger),
		logger:    deps.Logger,
		state:     state,
		scheduler: tick.NewScheduler(deps.Settings, deps.Rand),
		reveal:    animation.NewReveal(state, face.ReferenceFinalRadius),
	}
	if deps.Requester != nil {
		m.link.Status = link.Connecting
	}
	return m
}

// State exposes the face state for inspection. It must only be read from
// the goroutine running the program.
func (m *Model) State() *face.State { return m.state }

func (m *Model) Init() tea.Cmd {
	now := m.deps.Now()

	cmds := []tea.Cmd{
		m.handleTick(now),
		minuteCmd(now),
		frameCmd(m.deps.FrameInterval),
	}
	m.reveal.Schedule(now)

	if m.deps.Inbound != nil {
		cmds = append(cmds, listenInboundCmd(m.ctx, m.deps.Inbound))
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case FrameMsg:
		m.reveal.Sample(msg.At)
		if m.reveal.Done() {
			m.logger.DebugContext(m.ctx, "reveal finished", xslog.Radius(m.state.Radius))
		} else {
			cmd = frameCmd(m.deps.FrameInterval)
		}

	case MinuteMsg:
		cmd = tea.Batch(minuteCmd(msg.At), m.handleTick(msg.At))

	case InboundMsg:
		if err := message.Apply(m.ctx, msg.In, m.deps.Settings, m.state, m.deps.Store); err != nil {
			m.logger.ErrorContext(m.ctx, "failed to persist settings", xslog.Error(err))
		}
		cmd = listenInboundCmd(m.ctx, m.deps.Inbound)

	case InboundClosedMsg:
		m.logger.DebugContext(m.ctx, "inbound channel closed")

	case LinkStatusMsg:
		m.link.Status = link.Offline
		if msg.Connected {
			m.link.Status = link.Connected
		}
		m.state.MarkDirty()

	case WeatherSentMsg:
		// outcome already logged by tick.Send
	}

	if m.ready && m.state.TakeDirty() {
		m.frame = m.render()
	}
	return m, cmd
}

func (m *Model) View() tea.View {
	view := tea.NewView("")
	view.AltScreen = true

	if m.deps.Monochrome {
		view.BackgroundColor = m.theme.Background()
	} else {
		view.BackgroundColor = face.ColorFromHex(m.state.BackgroundColor)
	}

	if !m.ready {
		return view
	}

	view.SetContent(m.frame)
	return view
}

// handleTick runs the minute policy and returns the weather request command,
// if one is due.
func (m *Model) handleTick(t time.Time) tea.Cmd {
	res := m.scheduler.Handle(t)
	res.Apply(m.state)

	attrs := []any{
		xslog.Clock(res.Time.Hours, res.Time.Minutes),
		slog.Bool("request_weather", res.RequestWeather),
	}
	if res.NewBackground != nil {
		attrs = append(attrs, xslog.Color(face.Hex(*res.NewBackground)))
	}
	m.logger.DebugContext(m.ctx, "minute tick", attrs...)

	if !res.RequestWeather || m.deps.Requester == nil {
		return nil
	}
	return requestWeatherCmd(m.ctx, m.deps.Requester)
}

func (m *Model) resize(width, height int) {
	m.viewportWidth = width
	m.viewportHeight = height
	m.ready = true

	bounds := m.newCanvas().Bounds()
	scale := face.ScaleFor(bounds)
	m.geometry = face.NewGeometry(bounds, scale)
	m.regions = face.Layout(bounds, scale)

	m.reveal.FinalRadius = m.geometry.FinalRadius
	if m.reveal.Radius.Status() == animation.Completed {
		m.state.Radius = m.geometry.FinalRadius
	}
	m.state.MarkDirty()
}

func (m *Model) newCanvas() *braille.Canvas {
	var opts []braille.Option
	if m.deps.Monochrome {
		opts = append(opts, braille.WithMonochrome())
	}
	return braille.New(m.viewportWidth, max(m.viewportHeight-footer.Height, 0), opts...)
}

func (m *Model) render() string {
	c := m.newCanvas()
	face.Render(c, m.state, m.geometry)
	face.RenderText(c, m.state, m.regions, weather.Glyph)

	return c.String() + "\n" + footer.New(m.link.Render(), m.viewportWidth).Render()
}
