package math

import (
	"math"

	"github.com/chewxy/math32"
)

// Pi as float32.
const Pi = float32(math32.Pi)

// DegToRad converts degrees to radians.
func DegToRad(degrees float32) float32 {
	return degrees * Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float32) float32 {
	return radians * 180 / Pi
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Smoothstep performs cubic Hermite interpolation of x between edge0 and edge1.
// The result is 0 below edge0, 1 above edge1.
func Smoothstep(edge0, edge1, x float32) float32 {
	t := Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// WrapDegrees maps an angle in degrees into [0, 360).
func WrapDegrees(deg float64) float64 {
	w := deg - 360*math.Floor(deg/360)
	// Rounding can land exactly on 360 for tiny negative inputs.
	if w >= 360 {
		w -= 360
	}
	return w
}

// WrapRadians reduces an angle to [0, 2π) in float64, then narrows it to
// float32.
func WrapRadians(rad float64) float32 {
	w := math.Mod(rad, 2*math.Pi)
	if w < 0 {
		w += 2 * math.Pi
	}
	r := float32(w)
	if r >= 2*Pi {
		r = 0
	}
	return r
}

func isFinite(x float32) bool {
	return !math32.IsNaN(x) && !math32.IsInf(x, 0)
}
