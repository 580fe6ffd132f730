package face

import (
	"image"
	"math"
)

// reference screen the constants below were tuned for
const (
	ReferenceWidth  = 144
	ReferenceHeight = 168

	ReferenceFinalRadius = 60
	ReferenceHandMargin  = 10
	ReferenceStrokeWidth = 4
)

type Geometry struct {
	Center      image.Point
	FinalRadius int
	HandMargin  int
	StrokeWidth int
}

// NewGeometry lays the face out in bounds. A scale of 1 reproduces the
// reference screen exactly.
func NewGeometry(bounds image.Rectangle, scale float64) Geometry {
	if scale <= 0 {
		scale = 1
	}
	return Geometry{
		Center:      Center(bounds),
		FinalRadius: max(1, scaled(ReferenceFinalRadius, scale)),
		HandMargin:  scaled(ReferenceHandMargin, scale),
		StrokeWidth: max(1, scaled(ReferenceStrokeWidth, scale)),
	}
}

// ScaleFor returns the largest scale at which the reference layout fits bounds.
func ScaleFor(bounds image.Rectangle) float64 {
	sx := float64(bounds.Dx()) / ReferenceWidth
	sy := float64(bounds.Dy()) / ReferenceHeight
	return min(sx, sy)
}

func Center(bounds image.Rectangle) image.Point {
	return image.Pt(bounds.Min.X+bounds.Dx()/2, bounds.Min.Y+bounds.Dy()/2)
}

func scaled(v int, scale float64) int {
	return int(math.Round(float64(v) * scale))
}

// MinuteDegrees is the minute hand's clockwise angle from 12 o'clock.
func MinuteDegrees(minutes int) float64 {
	return 360 * float64(minutes) / 60
}

func MinuteAngle(minutes int) float64 {
	return radians(MinuteDegrees(minutes))
}

// HourAngle places the hour hand. When animating, hours are already on the
// 60-unit scale. In both cases the hand advances by a twelfth of the minute
// angle so it moves between hour marks.
func HourAngle(t Time, animating bool) float64 {
	var deg float64
	if animating {
		deg = 360 * float64(t.Hours) / 60
	} else {
		deg = 360 * float64(t.Hours) / 12
	}
	deg += MinuteDegrees(t.Minutes) / 12
	return radians(deg)
}

// HandEndpoint projects a hand of the given length from center. Screen y
// grows downward, so 0 rad points straight up.
func HandEndpoint(center image.Point, angle float64, length int) image.Point {
	return image.Point{
		X: int(math.Sin(angle)*float64(length)) + center.X,
		Y: int(-math.Cos(angle)*float64(length)) + center.Y,
	}
}

type Hands struct {
	Hour, Minute         image.Point
	DrawHour, DrawMinute bool
}

// ComputeHands returns both endpoints and whether each hand has grown past
// its margin. Hands below their threshold would have zero or negative length.
func ComputeHands(g Geometry, radius int, t Time, animating bool) Hands {
	return Hands{
		Minute:     HandEndpoint(g.Center, MinuteAngle(t.Minutes), radius-g.HandMargin),
		Hour:       HandEndpoint(g.Center, HourAngle(t, animating), radius-2*g.HandMargin),
		DrawMinute: radius > g.HandMargin,
		DrawHour:   radius > 2*g.HandMargin,
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
