package theme

import "charm.land/lipgloss/v2"

var (
	ColorBlack = lipgloss.Color("#000000")
	ColorWhite = lipgloss.Color("#FFFFFF")
	ColorDim   = lipgloss.Color("#666666")
)

var (
	ColorLinked  = lipgloss.Color("#16EC06") // companion stream up
	ColorPending = lipgloss.Color("#FFDE00") // connecting
	ColorOffline = lipgloss.Color("#FF0026") // stream dropped or no companion
)

// ColorBgDark is the screen behind a monochrome face.
var ColorBgDark = lipgloss.Color("#101518")
