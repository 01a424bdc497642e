package locomotion

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
)

// Sampler derives Kinematics from consecutive motion samples. Between ticks
// it remembers the previous location and rotation, the previous cardinal
// directions for hysteresis, and the smoothed pivot direction.
type Sampler struct {
	deadZone  float64
	leanScale float64

	prevLocation mgl64.Vec3
	prevRotation common.Rotator
	last         Kinematics
}

func NewSampler(deadZone, leanScale float64) *Sampler {
	return &Sampler{deadZone: deadZone, leanScale: leanScale}
}

// Last returns the most recent Kinematics.
func (s *Sampler) Last() Kinematics { return s.last }

// Sample derives this tick's kinematics. rootYawOffset is the offset as it
// stood before this tick's turn-offset update.
func (s *Sampler) Sample(m MotionSample, rootYawOffset, dt float64) Kinematics {
	prev := s.last
	var k Kinematics

	// location
	k.DisplacementSinceLastUpdate = common.Size2D(s.prevLocation.Sub(m.WorldLocation))
	k.DisplacementSpeed = common.SafeDivide(k.DisplacementSinceLastUpdate, dt)

	// rotation
	k.YawDeltaSinceLastUpdate = common.NormalizeAxis(m.WorldRotation.Yaw - s.prevRotation.Yaw)
	k.AdditiveLeanAngle = common.SafeDivide(k.YawDeltaSinceLastUpdate, dt) * s.leanScale

	if m.IsFirstUpdate {
		k.DisplacementSinceLastUpdate = 0
		k.DisplacementSpeed = 0
		k.YawDeltaSinceLastUpdate = 0
		k.AdditiveLeanAngle = 0
	}

	// velocity
	wasMoving := prev.LocalVelocity2D != (mgl64.Vec3{})
	velocity2D := common.Flatten(m.WorldVelocity)
	k.LocalVelocity2D = m.WorldRotation.Unrotate(velocity2D)
	k.LocalVelocityDirectionAngle = common.CalculateDirection(velocity2D, m.WorldRotation)
	k.LocalVelocityDirectionAngleWithOffset = k.LocalVelocityDirectionAngle - rootYawOffset
	k.LocalVelocityDirection = Classify(k.LocalVelocityDirectionAngleWithOffset, s.deadZone, prev.LocalVelocityDirection, wasMoving)
	k.LocalVelocityDirectionNoOffset = Classify(k.LocalVelocityDirectionAngle, s.deadZone, prev.LocalVelocityDirectionNoOffset, wasMoving)
	k.HasVelocity = !common.IsNearlyZero(common.SizeSquared2D(k.LocalVelocity2D))

	// acceleration
	accel2D := common.Flatten(m.WorldAcceleration)
	k.LocalAcceleration2D = m.WorldRotation.Unrotate(accel2D)
	k.HasAcceleration = !common.IsNearlyZero(common.SizeSquared2D(k.LocalAcceleration2D))

	blended := prev.PivotDirection2D.Add(common.SafeNormal(accel2D).Sub(prev.PivotDirection2D).Mul(0.5))
	k.PivotDirection2D = common.SafeNormal(blended)
	accelAngle := common.CalculateDirection(k.PivotDirection2D, m.WorldRotation)
	k.CardinalDirectionFromAcceleration = Opposite(Classify(accelAngle, s.deadZone, Forward, false))

	s.prevLocation = m.WorldLocation
	s.prevRotation = m.WorldRotation
	s.last = k
	return k
}
