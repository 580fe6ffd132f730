package face

// Time is a 12-hour wall clock reading.
//
// While the reveal animation is running the same shape is reused for the
// animated time, with Hours expressed on a 60-unit scale so the hour hand
// can sweep smoothly between hour marks.
type Time struct {
	Hours   int
	Minutes int
}

// Normalize folds a 24-hour reading onto the clock face.
// 12 is deliberately left as 12 and 0 as 0; both land on the same mark.
func Normalize(hour24 int) int {
	if hour24 > 12 {
		return hour24 - 12
	}
	return hour24
}

// State is everything the renderer reads. It is owned by the host event
// loop and is never touched from more than one goroutine.
type State struct {
	Live     Time
	Animated Time

	// Animating selects Animated over Live while the hands sweep in.
	Animating bool

	Radius int

	BackgroundColor int

	Date        string
	WeatherIcon string
	WeatherText string

	dirty bool
}

func NewState(backgroundColor int) *State {
	return &State{BackgroundColor: backgroundColor, dirty: true}
}

// ActiveTime returns the time the hands should currently show.
func (s *State) ActiveTime() Time {
	if s.Animating {
		return s.Animated
	}
	return s.Live
}

func (s *State) MarkDirty() { s.dirty = true }

// TakeDirty reports whether a redraw was requested and clears the flag.
func (s *State) TakeDirty() bool {
	d := s.dirty
	s.dirty = false
	return d
}

func (s *State) ClearWeather() {
	s.WeatherIcon = ""
	s.WeatherText = ""
}
