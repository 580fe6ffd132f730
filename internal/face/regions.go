package face

import (
	"image"
	"image/color"
)

const (
	dateRegionY        = 50
	iconRegionY        = 90
	temperatureRegionY = 112
	regionHeight       = 25
)

// Regions are the fixed text boxes drawn over the face.
type Regions struct {
	Date        image.Rectangle
	Icon        image.Rectangle
	Temperature image.Rectangle
}

// Layout positions the text boxes relative to bounds. The vertical offsets
// scale with the face; every box spans the full width.
func Layout(bounds image.Rectangle, scale float64) Regions {
	if scale <= 0 {
		scale = 1
	}
	// keep the reference block centred when the screen is taller than it
	top := bounds.Min.Y + (bounds.Dy()-scaled(ReferenceHeight, scale))/2
	row := func(y int) image.Rectangle {
		y0 := top + scaled(y, scale)
		return image.Rect(bounds.Min.X, y0, bounds.Max.X, y0+max(1, scaled(regionHeight, scale)))
	}
	return Regions{
		Date:        row(dateRegionY),
		Icon:        row(iconRegionY),
		Temperature: row(temperatureRegionY),
	}
}

// TextColor is used for every overlay string.
var TextColor color.Color = color.Black

// TextCanvas is a Canvas that can also place a line of text.
type TextCanvas interface {
	Canvas
	// DrawText centres text in r using the current stroke colour.
	DrawText(r image.Rectangle, text string)
}

// RenderText draws the date, weather icon and temperature into their
// regions. icon maps the stored icon token to what is displayed; nil shows
// the token as is.
func RenderText(c TextCanvas, s *State, r Regions, icon func(string) string) {
	c.SetStrokeColor(TextColor)
	c.DrawText(r.Date, s.Date)
	if icon == nil {
		c.DrawText(r.Icon, s.WeatherIcon)
	} else {
		c.DrawText(r.Icon, icon(s.WeatherIcon))
	}
	c.DrawText(r.Temperature, s.WeatherText)
}
