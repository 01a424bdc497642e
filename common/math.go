package common

import "math"

const (
	// SmallNumber is the tolerance used for "nearly zero" tests on squared magnitudes.
	SmallNumber = 1e-8
	// KindaSmallNumber is the per-component tolerance used for vector zero tests.
	KindaSmallNumber = 1e-4
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SafeDivide returns a/b, or 0 when b is zero.
func SafeDivide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func IsNearlyZero(v float64) bool {
	return math.Abs(v) <= SmallNumber
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// RangePct returns where v sits between lo and hi as a fraction. A degenerate
// range reports 1 when v has reached hi and 0 otherwise.
func RangePct(lo, hi, v float64) float64 {
	d := hi - lo
	if d == 0 {
		if v >= hi {
			return 1
		}
		return 0
	}
	return (v - lo) / d
}

// MapRangeClamped maps v from [inLo,inHi] onto [outLo,outHi], clamping to the
// output range.
func MapRangeClamped(inLo, inHi, outLo, outHi, v float64) float64 {
	pct := Clamp(RangePct(inLo, inHi, v), 0, 1)
	return Lerp(outLo, outHi, pct)
}

// InterpTo moves current toward target at a rate proportional to the remaining
// distance. A non-positive speed snaps to target.
func InterpTo(current, target, dt, speed float64) float64 {
	if speed <= 0 {
		return target
	}
	dist := target - current
	if dist*dist < SmallNumber {
		return target
	}
	return current + dist*Clamp(dt*speed, 0, 1)
}
