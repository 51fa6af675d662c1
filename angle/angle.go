// Package angle maps real-valued angles onto the circle.
//
// The canonical range is (-π, π]: -π itself is folded onto π so every
// direction has exactly one representation.
package angle

import "math"

const twoPi = 2 * math.Pi

// Normalize maps an angle in radians into (-π, π].
// Angles already in range are returned unchanged, so Normalize is idempotent.
// NaN and ±Inf produce NaN.
func Normalize(a float64) float64 {
	if a > -math.Pi && a <= math.Pi {
		return a
	}

	// Reduce to [0, 2π)
	r := math.Mod(a, twoPi)
	if r < 0 {
		r += twoPi
	}

	// Shift (π, 2π) down to (-π, 0)
	if r > math.Pi {
		r -= twoPi
	}
	return r
}

// NormalizeAll normalizes src element-wise into dst and returns dst.
// A nil dst is allocated; dst may alias src.
func NormalizeAll(dst, src []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(src))
	}
	if len(dst) != len(src) {
		panic("angle: length mismatch")
	}
	for i, a := range src {
		dst[i] = Normalize(a)
	}
	return dst
}

// FromDegrees converts degrees to radians.
func FromDegrees(deg float64) float64 {
	return deg * math.Pi / 180
}

// ToDegrees converts radians to degrees.
func ToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Difference returns the smallest signed rotation from a to b, in (-π, π].
func Difference(a, b float64) float64 {
	return Normalize(b - a)
}
