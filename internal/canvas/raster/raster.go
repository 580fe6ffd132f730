// Package raster draws the clock face into an RGBA image.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/garrettladley/ksclock/internal/face"
)

// circleSegments is the polygon resolution used for circles.
const circleSegments = 128

var _ face.TextCanvas = (*Canvas)(nil)

type Canvas struct {
	img  *image.RGBA
	font font.Face

	fill        color.Color
	stroke      color.Color
	strokeWidth int
	antialiased bool
}

func New(width, height int) *Canvas {
	return &Canvas{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		font:        basicfont.Face7x13,
		fill:        face.FaceColor,
		stroke:      face.StrokeColor,
		strokeWidth: 1,
		antialiased: true,
	}
}

func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

func (c *Canvas) SupportsColor() bool { return true }

func (c *Canvas) SetFillColor(col color.Color)   { c.fill = col }
func (c *Canvas) SetStrokeColor(col color.Color) { c.stroke = col }
func (c *Canvas) SetStrokeWidth(w int)           { c.strokeWidth = max(w, 1) }
func (c *Canvas) SetAntialiased(on bool)         { c.antialiased = on }

func (c *Canvas) FillRect(r image.Rectangle) {
	draw.Draw(c.img, r.Intersect(c.img.Bounds()), image.NewUniform(c.fill), image.Point{}, draw.Src)
}

func (c *Canvas) FillCircle(center image.Point, radius int) {
	if radius <= 0 {
		return
	}
	z := c.rasterizer()
	circlePath(z, center, float64(radius), false)
	c.paint(z, c.fill)
}

// DrawCircle strokes a ring of the current width centred on radius.
func (c *Canvas) DrawCircle(center image.Point, radius int) {
	if radius <= 0 {
		return
	}
	half := float64(c.strokeWidth) / 2
	z := c.rasterizer()
	circlePath(z, center, float64(radius)+half, false)
	if inner := float64(radius) - half; inner > 0 {
		// opposite winding cuts the hole
		circlePath(z, center, inner, true)
	}
	c.paint(z, c.stroke)
}

// DrawLine strokes a butt-capped segment of the current width.
func (c *Canvas) DrawLine(from, to image.Point) {
	dx := float64(to.X - from.X)
	dy := float64(to.Y - from.Y)
	length := math.Hypot(dx, dy)
	half := float64(c.strokeWidth) / 2

	// half-width normal; a zero-length segment becomes a square
	var nx, ny float64
	if length > 0 {
		nx, ny = -dy/length*half, dx/length*half
	} else {
		nx = half
	}

	fx, fy := float64(from.X), float64(from.Y)
	tx, ty := float64(to.X), float64(to.Y)
	if length == 0 {
		fy -= half
		ty += half
	}

	z := c.rasterizer()
	z.MoveTo(float32(fx+nx), float32(fy+ny))
	z.LineTo(float32(tx+nx), float32(ty+ny))
	z.LineTo(float32(tx-nx), float32(ty-ny))
	z.LineTo(float32(fx-nx), float32(fy-ny))
	z.ClosePath()
	c.paint(z, c.stroke)
}

// DrawText centres text in r with the built-in 7x13 face.
func (c *Canvas) DrawText(r image.Rectangle, text string) {
	if text == "" {
		return
	}
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(c.stroke),
		Face: c.font,
	}
	m := c.font.Metrics()
	width := d.MeasureString(text).Ceil()
	x := r.Min.X + (r.Dx()-width)/2
	baseline := r.Min.Y + (r.Dy()+m.Ascent.Ceil()-m.Descent.Ceil())/2
	d.Dot = fixed.P(x, baseline)
	d.DrawString(text)
}

func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) WritePNG(w io.Writer) error {
	return png.Encode(w, c.img)
}

func (c *Canvas) rasterizer() *vector.Rasterizer {
	b := c.img.Bounds()
	return vector.NewRasterizer(b.Dx(), b.Dy())
}

// paint composites the rasterized coverage in col. Without antialiasing the
// coverage is snapped to fully on or off.
func (c *Canvas) paint(z *vector.Rasterizer, col color.Color) {
	mask := image.NewAlpha(c.img.Bounds())
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	if !c.antialiased {
		for i, a := range mask.Pix {
			if a >= 0x80 {
				mask.Pix[i] = 0xFF
			} else {
				mask.Pix[i] = 0
			}
		}
	}
	draw.DrawMask(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, mask, mask.Bounds().Min, draw.Over)
}

func circlePath(z *vector.Rasterizer, center image.Point, radius float64, reverse bool) {
	cx, cy := float64(center.X), float64(center.Y)
	for i := 0; i <= circleSegments; i++ {
		step := i
		if reverse {
			step = circleSegments - i
		}
		theta := 2 * math.Pi * float64(step) / circleSegments
		x := float32(cx + radius*math.Cos(theta))
		y := float32(cy + radius*math.Sin(theta))
		if i == 0 {
			z.MoveTo(x, y)
			continue
		}
		z.LineTo(x, y)
	}
	z.ClosePath()
}
