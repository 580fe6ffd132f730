package footer

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Height is the number of rows the footer occupies.
const Height = 1

type Footer struct {
	rightContent string
	width        int
	padding      int
}

func New(rightContent string, width int) Footer {
	return Footer{
		rightContent: rightContent,
		width:        width,
		padding:      1,
	}
}

func (f Footer) Render() string {
	leftContent := f.leftContent()

	leftWidth := lipgloss.Width(leftContent)
	rightWidth := lipgloss.Width(f.rightContent)
	spacerWidth := max(f.width-leftWidth-rightWidth-(f.padding*2), 0)

	return lipgloss.NewStyle().
		PaddingLeft(f.padding).
		PaddingRight(f.padding).
		MaxWidth(f.width).
		Render(leftContent + strings.Repeat(" ", spacerWidth) + f.rightContent)
}
