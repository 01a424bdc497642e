package common

import "math"

// ClampAxis wraps an angle in degrees into [0,360).
func ClampAxis(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	return angle
}

// NormalizeAxis wraps an angle in degrees into (-180,180].
func NormalizeAxis(angle float64) float64 {
	if angle > -180 && angle <= 180 {
		return angle
	}
	angle = ClampAxis(angle)
	if angle > 180 {
		angle -= 360
	}
	return angle
}

// ClampAngle clamps an angle to the arc running clockwise from minDeg to maxDeg.
// Out of range values snap to whichever bound is angularly closer.
func ClampAngle(angle, minDeg, maxDeg float64) float64 {
	maxDelta := ClampAxis(maxDeg-minDeg) * 0.5
	center := ClampAxis(minDeg + maxDelta)
	fromCenter := NormalizeAxis(angle - center)

	switch {
	case fromCenter > maxDelta:
		return NormalizeAxis(center + maxDelta)
	case fromCenter < -maxDelta:
		return NormalizeAxis(center - maxDelta)
	}
	return NormalizeAxis(angle)
}

func Radians(deg float64) float64 { return deg * math.Pi / 180 }
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }
