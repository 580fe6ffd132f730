package tui

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/ksclock/internal/face"
	"github.com/garrettladley/ksclock/internal/message"
	"github.com/garrettladley/ksclock/internal/settings"
	"github.com/garrettladley/ksclock/internal/tui/components/link"
)

type fakeRequester struct {
	calls atomic.Int32
}

func (f *fakeRequester) RequestWeather(context.Context) error {
	f.calls.Add(1)
	return nil
}

var start = time.Date(2024, time.March, 5, 14, 5, 0, 0, time.Local)

type harness struct {
	model *Model
	req   *fakeRequester
	store *settings.MemoryStore
	cfg   *settings.Settings
	inbox chan message.Inbound
}

func newHarness(t *testing.T, cfg settings.Settings, monochrome bool) *harness {
	t.Helper()

	h := &harness{
		req:   &fakeRequester{},
		store: settings.NewMemoryStore(),
		cfg:   &cfg,
		inbox: make(chan message.Inbound, 1),
	}
	h.model = New(Deps{
		Ctx:        t.Context(),
		Settings:   h.cfg,
		Store:      h.store,
		Requester:  h.req,
		Inbound:    h.inbox,
		Monochrome: monochrome,
		Now:        func() time.Time { return start },
		Rand:       rand.New(rand.NewPCG(1, 2)),
	})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	_, cmd := h.model.Update(msg)
	return cmd
}

// drain runs cmd and every command it batches, collecting the messages that
// arrive within wait. Timer commands that have not fired yet are abandoned.
func drain(cmd tea.Cmd, wait time.Duration) []tea.Msg {
	if cmd == nil {
		return nil
	}
	out := make(chan tea.Msg, 32)
	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, sub := range batch {
					if sub != nil {
						run(sub)
					}
				}
				return
			}
			out <- msg
		}()
	}
	run(cmd)

	var msgs []tea.Msg
	timeout := time.After(wait)
	for {
		select {
		case msg := <-out:
			msgs = append(msgs, msg)
		case <-timeout:
			return msgs
		}
	}
}

func countWeatherSent(msgs []tea.Msg) int {
	n := 0
	for _, msg := range msgs {
		if _, ok := msg.(WeatherSentMsg); ok {
			n++
		}
	}
	return n
}

func TestInit_AppliesFirstTick(t *testing.T) {
	t.Parallel()

	h := newHarness(t, settings.Defaults(), false)
	h.model.Init()

	state := h.model.State()
	if diff := cmp.Diff(face.Time{Hours: 2, Minutes: 5}, state.Live); diff != "" {
		t.Errorf("live time mismatch (-want +got):\n%s", diff)
	}
	if state.Date != "Tue 05" {
		t.Errorf("Date = %q, want %q", state.Date, "Tue 05")
	}
	if state.Radius != 0 {
		t.Errorf("Radius = %d before the reveal, want 0", state.Radius)
	}
}

func TestReveal(t *testing.T) {
	t.Parallel()

	h := newHarness(t, settings.Defaults(), false)
	h.model.Init()
	// 72x43 cells of braille is 144x172 dots, the reference scale
	h.send(tea.WindowSizeMsg{Width: 72, Height: 44})

	if cmd := h.send(FrameMsg{At: start.Add(300 * time.Millisecond)}); cmd == nil {
		t.Fatal("expected another frame during the delay")
	}
	if h.model.State().Radius != 0 {
		t.Errorf("Radius = %d during the delay, want 0", h.model.State().Radius)
	}

	h.send(FrameMsg{At: start.Add(900 * time.Millisecond)})
	state := h.model.State()
	if state.Radius <= 0 || state.Radius >= face.ReferenceFinalRadius {
		t.Errorf("Radius = %d mid reveal, want strictly between 0 and %d", state.Radius, face.ReferenceFinalRadius)
	}
	if !state.Animating {
		t.Error("hands should be animating mid reveal")
	}

	if cmd := h.send(FrameMsg{At: start.Add(2 * time.Second)}); cmd != nil {
		t.Error("frames should stop once the reveal is done")
	}
	if state.Radius != face.ReferenceFinalRadius {
		t.Errorf("Radius = %d after the reveal, want %d", state.Radius, face.ReferenceFinalRadius)
	}
	if state.Animating {
		t.Error("hands should stop animating after the reveal")
	}
}

func TestResize_AfterRevealKeepsFullRadius(t *testing.T) {
	t.Parallel()

	h := newHarness(t, settings.Defaults(), false)
	h.model.Init()
	h.send(tea.WindowSizeMsg{Width: 72, Height: 44})
	h.send(FrameMsg{At: start.Add(2 * time.Second)})

	h.send(tea.WindowSizeMsg{Width: 36, Height: 22})
	if got := h.model.State().Radius; got != 30 {
		t.Errorf("Radius = %d after shrinking to half scale, want 30", got)
	}
}

func TestMinute_RequestsWeather(t *testing.T) {
	t.Parallel()

	cfg := settings.Defaults()
	cfg.WeatherEnabled = true
	cfg.WeatherSafemode = false
	h := newHarness(t, cfg, false)

	if n := countWeatherSent(drain(h.model.Init(), 100*time.Millisecond)); n != 0 {
		t.Errorf("weather requested at 14:05 (%d times)", n)
	}

	at := time.Date(2024, time.March, 5, 14, 30, 0, 0, time.Local)
	msgs := drain(h.send(MinuteMsg{At: at}), 200*time.Millisecond)
	if n := countWeatherSent(msgs); n != 1 {
		t.Errorf("WeatherSentMsg count = %d, want 1", n)
	}
	if got := h.req.calls.Load(); got != 1 {
		t.Errorf("RequestWeather calls = %d, want 1", got)
	}
	if diff := cmp.Diff(face.Time{Hours: 2, Minutes: 30}, h.model.State().Live); diff != "" {
		t.Errorf("live time mismatch (-want +got):\n%s", diff)
	}
}

func TestMinute_RandomisesBackground(t *testing.T) {
	t.Parallel()

	h := newHarness(t, settings.Defaults(), false)
	h.model.Init()
	before := h.model.State().BackgroundColor

	h.send(MinuteMsg{At: time.Date(2024, time.March, 5, 14, 10, 0, 0, time.Local)})

	got := h.model.State().BackgroundColor
	if got == before {
		t.Errorf("background still %s after a ten minute tick", face.Hex(got))
	}
	if got < 0 || got > 0xFFFFFF {
		t.Errorf("background %#x out of range", got)
	}
}

func TestInbound_AppliesAndPersists(t *testing.T) {
	t.Parallel()

	h := newHarness(t, settings.Defaults(), false)
	h.model.Init()

	in := message.Inbound{BackgroundColor: message.Int(0x00FF00), BackgroundOn: message.Bool(true)}
	if cmd := h.send(InboundMsg{In: in}); cmd == nil {
		t.Error("expected the model to keep listening")
	}

	if got := h.model.State().BackgroundColor; got != 0x00FF00 {
		t.Errorf("BackgroundColor = %s, want #00FF00", face.Hex(got))
	}
	if !h.cfg.BackgroundEnabled {
		t.Error("background should be enabled in the live settings")
	}
	if v, err := h.store.Get(context.Background(), settings.KeyBackgroundColor); err != nil || v != 0x00FF00 {
		t.Errorf("persisted colour = (%#x, %v)", v, err)
	}
}

func TestListenInbound(t *testing.T) {
	t.Parallel()

	ch := make(chan message.Inbound, 1)
	in := message.Inbound{Units: message.Bool(true)}
	ch <- in

	cmd := listenInboundCmd(context.Background(), ch)
	msg, ok := cmd().(InboundMsg)
	if !ok {
		t.Fatal("expected an InboundMsg")
	}
	if diff := cmp.Diff(in, msg.In); diff != "" {
		t.Errorf("inbound mismatch (-want +got):\n%s", diff)
	}

	close(ch)
	if _, ok := cmd().(InboundClosedMsg); !ok {
		t.Error("expected InboundClosedMsg once the channel is closed")
	}
}

func TestView_ShowsText(t *testing.T) {
	t.Parallel()

	cfg := settings.Defaults()
	cfg.WeatherEnabled = true
	h := newHarness(t, cfg, true)
	h.model.Init()
	h.send(tea.WindowSizeMsg{Width: 72, Height: 44})
	h.send(FrameMsg{At: start.Add(2 * time.Second)})
	h.send(InboundMsg{In: message.Inbound{Temperature: message.Int(21), Icon: message.String("01d")}})

	screen := ansi.Strip(h.model.frame)
	for _, want := range []string{"Tue 05", "21 C", "☀"} {
		if !strings.Contains(screen, want) {
			t.Errorf("screen is missing %q", want)
		}
	}
	if lines := strings.Count(screen, "\n") + 1; lines != 44 {
		t.Errorf("screen has %d lines, want 44", lines)
	}
}

func TestLinkStatus(t *testing.T) {
	t.Parallel()

	h := newHarness(t, settings.Defaults(), false)
	if h.model.link.Status != link.Connecting {
		t.Errorf("initial link = %d, want connecting", h.model.link.Status)
	}
	h.send(LinkStatusMsg{Connected: true})
	if h.model.link.Status != link.Connected {
		t.Errorf("link = %d, want connected", h.model.link.Status)
	}
	h.send(LinkStatusMsg{Connected: false})
	if h.model.link.Status != link.Offline {
		t.Errorf("link = %d, want offline", h.model.link.Status)
	}
}

func TestQuit(t *testing.T) {
	t.Parallel()

	for _, key := range []tea.KeyPressMsg{
		{Code: 'q', Text: "q"},
		{Code: 'c', Mod: tea.ModCtrl},
	} {
		h := newHarness(t, settings.Defaults(), false)
		cmd := h.send(key)
		if cmd == nil {
			t.Fatalf("%s: expected a quit command", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", key)
		}
	}
}

func TestUntilNextMinute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		now  time.Time
		want time.Duration
	}{
		{time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), time.Minute},
		{time.Date(2024, 1, 1, 10, 0, 45, 0, time.UTC), 15 * time.Second},
		{time.Date(2024, 1, 1, 10, 59, 59, int(500*time.Millisecond), time.UTC), 500 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := untilNextMinute(tt.now); got != tt.want {
			t.Errorf("untilNextMinute(%s) = %s, want %s", tt.now.Format(time.TimeOnly), got, tt.want)
		}
	}
}

func TestInit_PersistedSafemodeOffSurvivesNightStart(t *testing.T) {
	t.Parallel()

	cfg := settings.Defaults()
	cfg.WeatherEnabled = true
	cfg.WeatherSafemode = false
	req := &fakeRequester{}
	night := time.Date(2024, time.March, 5, 3, 0, 0, 0, time.Local)

	m := New(Deps{
		Ctx:       t.Context(),
		Settings:  &cfg,
		Store:     settings.NewMemoryStore(),
		Requester: req,
		Now:       func() time.Time { return night },
		Rand:      rand.New(rand.NewPCG(1, 2)),
	})

	// the 03:00 start is itself a half-hour tick
	if n := countWeatherSent(drain(m.Init(), 200*time.Millisecond)); n != 1 {
		t.Errorf("WeatherSentMsg count at start = %d, want 1", n)
	}
	_, cmd := m.Update(MinuteMsg{At: night.Add(30 * time.Minute)})
	if n := countWeatherSent(drain(cmd, 200*time.Millisecond)); n != 1 {
		t.Errorf("WeatherSentMsg count at 03:30 = %d, want 1", n)
	}
	if got := req.calls.Load(); got != 2 {
		t.Errorf("RequestWeather calls = %d, want 2", got)
	}
}
