package face

import (
	"image"
	"image/color"
)

var (
	FaceColor   color.Color = color.White
	StrokeColor color.Color = color.Black
)

// Canvas is an immediate-mode 2D drawing target.
type Canvas interface {
	Bounds() image.Rectangle
	SupportsColor() bool

	SetFillColor(c color.Color)
	SetStrokeColor(c color.Color)
	SetStrokeWidth(w int)
	SetAntialiased(on bool)

	FillRect(r image.Rectangle)
	FillCircle(center image.Point, radius int)
	DrawCircle(center image.Point, radius int)
	DrawLine(from, to image.Point)
}

// Render draws one frame of the clock face. It only reads s.
func Render(c Canvas, s *State, g Geometry) {
	if c.SupportsColor() {
		c.SetFillColor(ColorFromHex(s.BackgroundColor))
		c.FillRect(c.Bounds())
	}

	c.SetStrokeColor(StrokeColor)
	c.SetStrokeWidth(g.StrokeWidth)
	c.SetAntialiased(true)

	c.SetFillColor(FaceColor)
	c.FillCircle(g.Center, s.Radius)
	c.DrawCircle(g.Center, s.Radius)

	hands := ComputeHands(g, s.Radius, s.ActiveTime(), s.Animating)
	if hands.DrawHour {
		c.DrawLine(g.Center, hands.Hour)
	}
	if hands.DrawMinute {
		c.DrawLine(g.Center, hands.Minute)
	}
}
