package braille

import "image"

// midpointCircle visits every point of a one-dot ring using integer steps.
// see: https://en.wikipedia.org/wiki/Midpoint_circle_algorithm
func midpointCircle(radius int, plot func(dx, dy int)) {
	x := radius
	y := 0
	d := 1 - radius

	for x >= y {
		// the 8 symmetric octant points
		plot(x, -y)
		plot(y, -x)
		plot(-y, -x)
		plot(-x, -y)
		plot(-x, y)
		plot(-y, x)
		plot(y, x)
		plot(x, y)

		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// bresenham visits every point on the segment, endpoints included.
func bresenham(from, to image.Point, plot func(x, y int)) {
	dx := abs(to.X - from.X)
	dy := -abs(to.Y - from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}

	x, y := from.X, from.Y
	e := dx + dy
	for {
		plot(x, y)
		if x == to.X && y == to.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
