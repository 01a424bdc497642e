package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
)

// EffectiveBrakingFriction applies the movement simulator's friction rule:
// ground friction unless a separate braking friction is in use, scaled by the
// friction factor and floored at zero.
func (b BrakingParams) EffectiveBrakingFriction() float64 {
	friction := b.GroundFriction
	if b.UseSeparateBrakingFriction {
		friction = b.BrakingFriction
	}
	return math.Max(0, friction*math.Max(0, b.BrakingFrictionFactor))
}

// PredictStopLocation returns the horizontal offset at which a character
// moving at velocity comes to rest under friction proportional to speed plus
// a constant braking deceleration.
func PredictStopLocation(velocity mgl64.Vec3, braking BrakingParams) mgl64.Vec3 {
	friction := braking.EffectiveBrakingFriction()
	decel := math.Max(0, braking.BrakingDecelerationWalking)

	v2 := common.Flatten(velocity)
	speed := common.Size2D(v2)
	dir := common.SafeNormal(v2)

	divisor := friction*speed + decel
	if divisor <= 0 {
		return mgl64.Vec3{}
	}
	t := speed / divisor
	decelVec := v2.Mul(-friction).Sub(dir.Mul(decel))
	return v2.Mul(t).Add(decelVec.Mul(0.5 * t * t))
}

// PredictStopDistance2D is the length of PredictStopLocation.
func PredictStopDistance2D(velocity mgl64.Vec3, useSeparateBrakingFriction bool, brakingFriction, groundFriction, brakingFrictionFactor, brakingDeceleration float64) float64 {
	return common.Size2D(PredictStopLocation(velocity, BrakingParams{
		UseSeparateBrakingFriction: useSeparateBrakingFriction,
		BrakingFriction:            brakingFriction,
		GroundFriction:             groundFriction,
		BrakingFrictionFactor:      brakingFrictionFactor,
		BrakingDecelerationWalking: brakingDeceleration,
	}))
}

// PredictPivotLocation returns the offset at which velocity stops opposing the
// acceleration direction. Zero when the two do not oppose.
func PredictPivotLocation(acceleration, velocity mgl64.Vec3, groundFriction float64) mgl64.Vec3 {
	accel2D := common.Flatten(acceleration)
	accelSize := common.Size2D(accel2D)
	accelDir := common.SafeNormal(accel2D)

	along := velocity.Dot(accelDir)
	if along >= 0 {
		return mgl64.Vec3{}
	}

	speedAlong := -along
	divisor := accelSize + 2*speedAlong*groundFriction
	t := common.SafeDivide(speedAlong, divisor)

	lateral := velocity.Sub(accelDir.Mul(common.Size2D(velocity)))
	force := accel2D.Sub(lateral.Mul(groundFriction))
	return velocity.Mul(t).Add(force.Mul(0.5 * t * t))
}

// PredictPivotDistance2D is the horizontal length of PredictPivotLocation.
func PredictPivotDistance2D(acceleration, velocity mgl64.Vec3, groundFriction float64) float64 {
	return common.Size2D(PredictPivotLocation(acceleration, velocity, groundFriction))
}
