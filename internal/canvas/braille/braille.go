// Package braille draws the clock face into terminal cells. Every cell holds
// a 2x4 block of braille dots for strokes and a solid background colour for
// fills, so a face is rendered as coloured cells with black dot outlines.
package braille

import (
	"image"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	drawille "github.com/exrook/drawille-go"

	"github.com/garrettladley/ksclock/internal/face"
)

const (
	DotsPerCol = 2
	DotsPerRow = 4
)

const emptyBraille rune = '⠀'

var _ face.TextCanvas = (*Canvas)(nil)

type cell struct {
	bg     color.Color
	stroke color.Color
	text   rune
	textFG color.Color
	// covered marks the right half of a double-width glyph in the cell to
	// the left; nothing is written for it.
	covered bool
}

type Canvas struct {
	dots  drawille.Canvas
	cols  int
	rows  int
	cells []cell
	color bool

	fill        color.Color
	stroke      color.Color
	strokeWidth int
}

type Option func(*Canvas)

// WithMonochrome disables colour fills, leaving only dot strokes and text.
func WithMonochrome() Option {
	return func(c *Canvas) { c.color = false }
}

// New returns a canvas cols cells wide and rows cells tall.
func New(cols, rows int, opts ...Option) *Canvas {
	c := &Canvas{
		dots:        drawille.NewCanvas(),
		cols:        max(cols, 0),
		rows:        max(rows, 0),
		color:       true,
		fill:        face.FaceColor,
		stroke:      face.StrokeColor,
		strokeWidth: 1,
	}
	c.cells = make([]cell, c.cols*c.rows)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bounds is measured in dots.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.cols*DotsPerCol, c.rows*DotsPerRow)
}

func (c *Canvas) SupportsColor() bool { return c.color }

func (c *Canvas) SetFillColor(col color.Color)   { c.fill = col }
func (c *Canvas) SetStrokeColor(col color.Color) { c.stroke = col }
func (c *Canvas) SetStrokeWidth(w int)           { c.strokeWidth = max(w, 1) }

// SetAntialiased is a no-op; dots are either set or not.
func (c *Canvas) SetAntialiased(bool) {}

// FillRect paints every cell whose centre lies in r.
func (c *Canvas) FillRect(r image.Rectangle) {
	if !c.color {
		return
	}
	c.fillCells(func(p image.Point) bool { return p.In(r) })
}

func (c *Canvas) FillCircle(center image.Point, radius int) {
	if !c.color || radius <= 0 {
		return
	}
	r2 := radius * radius
	c.fillCells(func(p image.Point) bool {
		dx, dy := p.X-center.X, p.Y-center.Y
		return dx*dx+dy*dy <= r2
	})
}

// DrawCircle strokes the outline with the current width, centred on radius.
func (c *Canvas) DrawCircle(center image.Point, radius int) {
	if radius <= 0 {
		return
	}
	inner := c.strokeWidth / 2
	for t := range c.strokeWidth {
		r := radius + inner - t
		if r <= 0 {
			continue
		}
		midpointCircle(r, func(dx, dy int) { c.set(center.X+dx, center.Y+dy) })
	}
}

func (c *Canvas) DrawLine(from, to image.Point) {
	bresenham(from, to, c.stamp)
}

type glyph struct {
	ch    rune
	width int
}

// DrawText centres text on the cell row through the middle of r. Text
// replaces any dots in the cells it covers. Wide glyphs such as most weather
// symbols take two cells; zero-width runes are dropped.
func (c *Canvas) DrawText(r image.Rectangle, text string) {
	row := (r.Min.Y + r.Dy()/2) / DotsPerRow
	if row < 0 || row >= c.rows {
		return
	}
	left := max(r.Min.X/DotsPerCol, 0)
	right := min(r.Max.X/DotsPerCol, c.cols)
	width := right - left
	if width <= 0 {
		return
	}

	var glyphs []glyph
	used := 0
	for _, ch := range text {
		w := ansi.StringWidth(string(ch))
		if w == 0 {
			continue
		}
		if used+w > width {
			break
		}
		glyphs = append(glyphs, glyph{ch: ch, width: w})
		used += w
	}

	x := left + (width-used)/2
	for _, g := range glyphs {
		cl := &c.cells[row*c.cols+x]
		cl.text, cl.textFG, cl.covered = g.ch, c.stroke, false
		for i := 1; i < g.width; i++ {
			c.cells[row*c.cols+x+i].covered = true
		}
		x += g.width
	}
}

// Clear resets dots, fills and text.
func (c *Canvas) Clear() {
	c.dots.Clear()
	clear(c.cells)
}

// String renders the canvas as styled lines, one per cell row.
func (c *Canvas) String() string {
	dotRows := c.dotRows()

	lines := make([]string, c.rows)
	for y := range c.rows {
		var b strings.Builder
		for x := range c.cols {
			cl := c.cells[y*c.cols+x]
			if cl.covered {
				continue
			}

			ch, fg := dotRows[y][x], cl.stroke
			if cl.text != 0 {
				ch, fg = cl.text, cl.textFG
			}
			if ch == emptyBraille && cl.bg != nil {
				ch = ' '
			}

			if !c.color {
				b.WriteRune(ch)
				continue
			}
			style := lipgloss.NewStyle()
			if fg != nil {
				style = style.Foreground(fg)
			}
			if cl.bg != nil {
				style = style.Background(cl.bg)
			}
			b.WriteString(style.Render(string(ch)))
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

// Plain renders the dots and text without any styling.
func (c *Canvas) Plain() string {
	dotRows := c.dotRows()
	lines := make([]string, c.rows)
	for y := range c.rows {
		var b strings.Builder
		for x, ch := range dotRows[y] {
			cl := c.cells[y*c.cols+x]
			switch {
			case cl.covered:
				continue
			case cl.text != 0:
				ch = cl.text
			}
			b.WriteRune(ch)
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

func (c *Canvas) set(x, y int) {
	if x < 0 || y < 0 || x >= c.cols*DotsPerCol || y >= c.rows*DotsPerRow {
		return
	}
	c.dots.Set(x, y)
	c.cells[(y/DotsPerRow)*c.cols+x/DotsPerCol].stroke = c.stroke
}

// stamp sets a square brush of the stroke width centred on (x, y).
func (c *Canvas) stamp(x, y int) {
	lo := -(c.strokeWidth - 1) / 2
	hi := lo + c.strokeWidth
	for dy := lo; dy < hi; dy++ {
		for dx := lo; dx < hi; dx++ {
			c.set(x+dx, y+dy)
		}
	}
}

func (c *Canvas) fillCells(inside func(image.Point) bool) {
	for y := range c.rows {
		for x := range c.cols {
			mid := image.Pt(x*DotsPerCol+DotsPerCol/2, y*DotsPerRow+DotsPerRow/2)
			if inside(mid) {
				c.cells[y*c.cols+x].bg = c.fill
			}
		}
	}
}

// dotRows extracts exactly rows x cols braille runes from the dot canvas.
func (c *Canvas) dotRows() [][]rune {
	raw := c.dots.Rows(0, 0, c.cols*DotsPerCol, c.rows*DotsPerRow)

	out := make([][]rune, c.rows)
	for y := range c.rows {
		row := make([]rune, c.cols)
		var src []rune
		if y < len(raw) {
			src = []rune(raw[y])
		}
		for x := range c.cols {
			row[x] = emptyBraille
			if x < len(src) && isBraille(src[x]) {
				row[x] = src[x]
			}
		}
		out[y] = row
	}
	return out
}

func isBraille(r rune) bool {
	return r >= 0x2800 && r <= 0x28FF
}
