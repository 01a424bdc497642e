package locomotion

import (
	"math"

	"github.com/milk9111/locomotion/anim"
)

// Classify quantizes a signed local angle in degrees into a cardinal
// direction. The forward band covers |angle| <= 45+deadZone and the backward
// band |angle| >= 135-deadZone. With hysteresis, the dead zone of the side the
// character already faces is doubled so it does not flicker at the edges.
func Classify(angle, deadZone float64, current CardinalDirection, useHysteresis bool) CardinalDirection {
	abs := math.Abs(angle)
	fwdDeadZone := deadZone
	bwdDeadZone := deadZone

	if useHysteresis {
		switch current {
		case Forward:
			fwdDeadZone *= 2
		case Backward:
			bwdDeadZone *= 2
		}
	}

	switch {
	case abs <= fwdDeadZone+45:
		return Forward
	case abs >= 135-bwdDeadZone:
		return Backward
	case angle > 0:
		return Right
	default:
		return Left
	}
}

// Opposite swaps forward with backward and left with right.
func Opposite(d CardinalDirection) CardinalDirection {
	switch d {
	case Backward:
		return Forward
	case Left:
		return Right
	case Right:
		return Left
	default:
		return Backward
	}
}

// Pick returns the clip keyed by d, falling back to forward.
func (c CardinalClips) Pick(d CardinalDirection) *anim.Clip {
	switch d {
	case Backward:
		return c.Backward
	case Left:
		return c.Left
	case Right:
		return c.Right
	default:
		return c.Forward
	}
}

// SelectTurnInPlaceClip picks the right turn when direction is positive.
func (s *AnimSet) SelectTurnInPlaceClip(direction float64) *anim.Clip {
	if direction > 0 {
		return s.TurnInPlaceRight
	}
	return s.TurnInPlaceLeft
}

func isForwardBackward(d CardinalDirection) bool {
	return d == Forward || d == Backward
}

func isLeftRight(d CardinalDirection) bool {
	return d == Left || d == Right
}

// MovingPerpendicular reports whether current has swapped axis relative to
// initial: forward/backward to left/right or the reverse.
func MovingPerpendicular(initial, current CardinalDirection) bool {
	return (isForwardBackward(initial) && !isForwardBackward(current)) ||
		(isLeftRight(initial) && !isLeftRight(current))
}
