package animation

import (
	"time"

	"github.com/garrettladley/ksclock/internal/face"
)

const (
	RevealDuration = 500 * time.Millisecond
	RevealDelay    = 600 * time.Millisecond
)

// Reveal is the startup sequence: the face grows to its final radius while
// the hands sweep from 12 o'clock to the current time.
type Reveal struct {
	Radius *Timeline
	Hands  *Timeline

	// FinalRadius may be changed by the host when the screen is resized.
	FinalRadius int

	state *face.State
}

func NewReveal(state *face.State, finalRadius int) *Reveal {
	r := &Reveal{FinalRadius: finalRadius, state: state}

	r.Radius = NewTimeline(RevealDuration, RevealDelay, r.updateRadius)

	r.Hands = NewTimeline(2*RevealDuration, RevealDelay, r.updateHands)
	r.Hands.OnStart = func() { r.state.Animating = true }
	r.Hands.OnStop = func() {
		r.state.Animating = false
		r.state.MarkDirty()
	}

	return r
}

func (r *Reveal) Schedule(now time.Time) {
	r.Radius.Schedule(now)
	r.Hands.Schedule(now)
}

// Sample advances both timelines and reports whether the face changed.
func (r *Reveal) Sample(now time.Time) bool {
	radius := r.Radius.Sample(now)
	hands := r.Hands.Sample(now)
	return radius || hands
}

func (r *Reveal) Done() bool {
	return r.Radius.Status() == Completed && r.Hands.Status() == Completed
}

func (r *Reveal) updateRadius(progress int) {
	r.state.Radius = Percentage(progress, r.FinalRadius)
	r.state.MarkDirty()
}

func (r *Reveal) updateHands(progress int) {
	live := r.state.Live
	r.state.Animated = face.Time{
		Hours:   Percentage(progress, HoursToMinutes(live.Hours)),
		Minutes: Percentage(progress, live.Minutes),
	}
	r.state.MarkDirty()
}
