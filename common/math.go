package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp limits v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EaseInOutCubic maps t in [0,1] to an s-curve that starts and ends slow.
// Applied to per-segment fractions, never to whole-sequence progress.
func EaseInOutCubic(t float64) float64 {
	t = Clamp(t, 0, 1)
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// DampFactor returns the fraction of remaining distance to close this tick
// for a critically-damped approach with rate k, frame-rate independent.
func DampFactor(k, dt float64) float64 {
	if dt <= 0 || k <= 0 {
		return 0
	}
	return 1 - math.Exp(-k*dt)
}
