package animation

import "math"

// Curve maps linear progress in [0,1] to eased progress in [0,1].
type Curve func(t float64) float64

func Linear(t float64) float64 { return clampUnit(t) }

// EaseInOut matches CSS ease-in-out: slow start, slow finish.
var EaseInOut = CubicBezier(0.42, 0, 0.58, 1)

// CubicBezier builds a curve through (0,0), (x1,y1), (x2,y2), (1,1), the
// same parameterisation as CSS cubic-bezier().
func CubicBezier(x1, y1, x2, y2 float64) Curve {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}

		// solve x(u) = t with newton steps, falling back to bisection
		u := t
		for range 8 {
			x := bezier(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				return bezier(y1, y2, clampUnit(u))
			}
			dx := bezierSlope(x1, x2, u)
			if math.Abs(dx) < 1e-7 {
				break
			}
			u -= x / dx
		}

		lo, hi := 0.0, 1.0
		u = clampUnit(u)
		for range 20 {
			x := bezier(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				break
			}
			if x > 0 {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) / 2
		}
		return bezier(y1, y2, u)
	}
}

func bezier(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func bezierSlope(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}

func clampUnit(v float64) float64 {
	return min(max(v, 0), 1)
}
