package tui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/garrettladley/ksclock/internal/message"
	"github.com/garrettladley/ksclock/internal/tick"
)

func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg{At: t}
	})
}

// minuteCmd waits for the next minute boundary after now.
func minuteCmd(now time.Time) tea.Cmd {
	return tea.Tick(untilNextMinute(now), func(t time.Time) tea.Msg {
		return MinuteMsg{At: t}
	})
}

func untilNextMinute(now time.Time) time.Duration {
	return now.Truncate(time.Minute).Add(time.Minute).Sub(now)
}

func requestWeatherCmd(ctx context.Context, req tick.Requester) tea.Cmd {
	return func() tea.Msg {
		return WeatherSentMsg{Err: tick.Send(ctx, req)}
	}
}

// listenInboundCmd reads one message from ch. It must be re-issued after
// every InboundMsg to keep listening.
func listenInboundCmd(ctx context.Context, ch <-chan message.Inbound) tea.Cmd {
	return func() tea.Msg {
		select {
		case in, ok := <-ch:
			if !ok {
				return InboundClosedMsg{}
			}
			return InboundMsg{In: in}
		case <-ctx.Done():
			return InboundClosedMsg{}
		}
	}
}
