package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

type Theme struct {
	background color.Color
	foreground color.Color
	dim        lipgloss.Style
}

func New() Theme {
	var t Theme

	t.background = ColorBgDark
	t.foreground = ColorWhite
	t.dim = lipgloss.NewStyle().Foreground(ColorDim)

	return t
}

// Dim is used for secondary footer text.
func (t Theme) Dim() lipgloss.Style {
	return t.dim
}

// Background is the screen colour when the face is not painting its own.
func (t Theme) Background() color.Color {
	return t.background
}

func (t Theme) Foreground() color.Color {
	return t.foreground
}
