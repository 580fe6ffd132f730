// Package animation drives one-shot timelines by sampling elapsed time.
//
// A Timeline does not own a timer. The host calls Sample with the current
// time on every frame, which keeps the state machine independent of any
// particular scheduler and trivially testable.
package animation

import (
	"fmt"
	"time"
)

// NormalizedMax is the upper bound of a progress value.
const NormalizedMax = 65535

// Status is the timeline state machine:
//
//	Pending ──(delay elapsed)──► Running ──(duration elapsed)──► Completed
type Status int

const (
	Pending Status = iota
	Running
	Completed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

type Timeline struct {
	Delay    time.Duration
	Duration time.Duration
	Curve    Curve

	// OnUpdate receives progress in [0, NormalizedMax].
	OnUpdate func(progress int)
	OnStart  func()
	OnStop   func()

	status    Status
	scheduled bool
	start     time.Time
}

func NewTimeline(duration, delay time.Duration, update func(progress int)) *Timeline {
	return &Timeline{
		Delay:    delay,
		Duration: duration,
		Curve:    EaseInOut,
		OnUpdate: update,
	}
}

// Schedule anchors the timeline at now. Only the first call has an effect.
func (t *Timeline) Schedule(now time.Time) {
	if t.scheduled {
		return
	}
	t.scheduled = true
	t.start = now
}

func (t *Timeline) Status() Status { return t.status }

// Sample advances the timeline to now and reports whether an update fired.
func (t *Timeline) Sample(now time.Time) bool {
	if !t.scheduled || t.status == Completed {
		return false
	}

	elapsed := now.Sub(t.start) - t.Delay
	if elapsed < 0 {
		return false
	}

	if t.status == Pending {
		t.status = Running
		if t.OnStart != nil {
			t.OnStart()
		}
	}

	frac := 1.0
	if t.Duration > 0 {
		frac = min(float64(elapsed)/float64(t.Duration), 1)
	}

	curve := t.Curve
	if curve == nil {
		curve = Linear
	}
	if t.OnUpdate != nil {
		t.OnUpdate(int(curve(frac) * NormalizedMax))
	}

	if frac >= 1 {
		t.status = Completed
		if t.OnStop != nil {
			t.OnStop()
		}
	}
	return true
}

// Percentage maps progress linearly onto [0, target].
func Percentage(progress, target int) int {
	return int(float64(progress) / float64(NormalizedMax) * float64(target))
}

// HoursToMinutes expresses a 12-hour reading on the 60-unit dial.
func HoursToMinutes(hours int) int {
	return int(float64(hours) / 12 * 60)
}
