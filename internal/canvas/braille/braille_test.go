package braille

import (
	"image"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/ksclock/internal/face"
)

func TestBounds(t *testing.T) {
	t.Parallel()

	c := New(72, 42)
	if got, want := c.Bounds(), image.Rect(0, 0, 144, 168); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
}

func TestMidpointCircle(t *testing.T) {
	t.Parallel()

	for _, r := range []int{1, 5, 20, 60} {
		midpointCircle(r, func(dx, dy int) {
			d := math.Hypot(float64(dx), float64(dy))
			if math.Abs(d-float64(r)) > 1 {
				t.Errorf("radius %d: point (%d,%d) at distance %.2f", r, dx, dy, d)
			}
		})
	}
}

func TestBresenham(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to image.Point
		want     int
	}{
		{image.Pt(0, 0), image.Pt(5, 0), 6},
		{image.Pt(0, 0), image.Pt(0, -5), 6},
		{image.Pt(2, 2), image.Pt(2, 2), 1},
		{image.Pt(0, 0), image.Pt(4, 4), 5},
	}
	for _, tt := range tests {
		var pts []image.Point
		bresenham(tt.from, tt.to, func(x, y int) { pts = append(pts, image.Pt(x, y)) })
		if len(pts) != tt.want {
			t.Errorf("bresenham(%v, %v) visited %d points, want %d", tt.from, tt.to, len(pts), tt.want)
		}
		if pts[0] != tt.from || pts[len(pts)-1] != tt.to {
			t.Errorf("bresenham(%v, %v) endpoints = %v, %v", tt.from, tt.to, pts[0], pts[len(pts)-1])
		}
	}
}

func TestFillCircle(t *testing.T) {
	t.Parallel()

	c := New(20, 10)
	c.SetFillColor(color.White)
	c.FillCircle(image.Pt(20, 20), 8)

	var filled int
	for i, cl := range c.cells {
		if cl.bg == nil {
			continue
		}
		filled++
		x, y := i%c.cols, i/c.cols
		mid := image.Pt(x*DotsPerCol+1, y*DotsPerRow+2)
		dx, dy := mid.X-20, mid.Y-20
		if dx*dx+dy*dy > 64 {
			t.Errorf("cell (%d,%d) filled outside the circle", x, y)
		}
	}
	if filled == 0 {
		t.Error("no cells filled")
	}
}

func TestMonochromeSkipsFills(t *testing.T) {
	t.Parallel()

	c := New(10, 5, WithMonochrome())
	if c.SupportsColor() {
		t.Fatal("monochrome canvas reports colour")
	}
	c.FillRect(c.Bounds())
	c.FillCircle(image.Pt(10, 10), 5)
	for _, cl := range c.cells {
		if cl.bg != nil {
			t.Fatal("monochrome canvas stored a fill")
		}
	}
}

func TestDrawLine_StrokeWidth(t *testing.T) {
	t.Parallel()

	c := New(20, 5)
	c.SetStrokeColor(color.Black)
	c.SetStrokeWidth(4)
	c.DrawLine(image.Pt(4, 10), image.Pt(30, 10))

	// a 4 dot brush centred on y=10 covers y 9..12, all inside cell row 2
	for x := 2; x <= 15; x++ {
		if c.cells[2*c.cols+x].stroke == nil {
			t.Errorf("cell (%d,2) has no stroke", x)
		}
	}
	if c.cells[0*c.cols+5].stroke != nil {
		t.Error("stroke leaked into row 0")
	}
}

func TestDrawOutOfBounds(t *testing.T) {
	t.Parallel()

	c := New(4, 2)
	c.SetStrokeWidth(3)
	c.DrawLine(image.Pt(-10, -10), image.Pt(100, 100))
	c.DrawCircle(image.Pt(0, 0), 50)
}

func TestDrawText(t *testing.T) {
	t.Parallel()

	c := New(12, 3)
	c.DrawText(image.Rect(0, 4, 24, 8), "Tue 05")
	c.DrawText(image.Rect(0, 8, 24, 12), "this is far too long")

	lines := strings.Split(c.Plain(), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	blank := string(emptyBraille)
	want := []string{
		strings.Repeat(blank, 12),
		strings.Repeat(blank, 3) + "Tue 05" + strings.Repeat(blank, 3),
		"this is far ",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("Plain() mismatch (-want +got):\n%s", diff)
	}
}

func TestDrawText_WideGlyphs(t *testing.T) {
	t.Parallel()

	c := New(6, 2)
	c.DrawText(image.Rect(0, 0, 12, 4), "⛅1")
	c.DrawText(image.Rect(0, 4, 12, 8), "⛅⛅⛅⛅")

	blank := string(emptyBraille)
	want := []string{
		strings.Repeat(blank, 1) + "⛅1" + strings.Repeat(blank, 2),
		"⛅⛅⛅",
	}
	lines := strings.Split(c.Plain(), "\n")
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("Plain() mismatch (-want +got):\n%s", diff)
	}

	for i, line := range strings.Split(c.String(), "\n") {
		if w := ansi.StringWidth(line); w != 6 {
			t.Errorf("styled line %d is %d columns wide, want 6", i, w)
		}
	}
}

func TestRender_Face(t *testing.T) {
	t.Parallel()

	c := New(72, 42)
	g := face.NewGeometry(c.Bounds(), 1)
	s := face.NewState(face.DefaultBackground)
	s.Radius = g.FinalRadius
	s.Live = face.Time{Hours: 3}

	face.Render(c, s, g)

	center := c.cells[(g.Center.Y/DotsPerRow)*c.cols+g.Center.X/DotsPerCol]
	if center.bg != face.FaceColor {
		t.Errorf("centre cell background = %v, want face colour", center.bg)
	}
	corner := c.cells[0]
	if diff := cmp.Diff(color.Color(face.ColorFromHex(face.DefaultBackground)), corner.bg); diff != "" {
		t.Errorf("corner background mismatch (-want +got):\n%s", diff)
	}

	// the hour hand at 3 o'clock runs right from the centre
	handCell := c.cells[(g.Center.Y/DotsPerRow)*c.cols+(g.Center.X+20)/DotsPerCol]
	if handCell.stroke == nil {
		t.Error("hour hand not drawn")
	}

	if out := c.String(); strings.Count(out, "\n") != 41 {
		t.Errorf("String() has %d lines, want 42", strings.Count(out, "\n")+1)
	}

	c.Clear()
	for _, cl := range c.cells {
		if cl != (cell{}) {
			t.Fatal("Clear left cell state behind")
		}
	}
}
