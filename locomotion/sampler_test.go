package locomotion

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = 1.0 / 60

func TestSamplerFirstUpdateZeroesDeltas(t *testing.T) {
	s := NewSampler(10, 0.0375)
	k := s.Sample(MotionSample{
		WorldLocation: mgl64.Vec3{500, -300, 0},
		WorldRotation: common.Rotator{Yaw: 75},
		WorldVelocity: mgl64.Vec3{100, 0, 0},
		IsFirstUpdate: true,
	}, 0, tick)

	assert.Equal(t, 0.0, k.DisplacementSinceLastUpdate)
	assert.Equal(t, 0.0, k.DisplacementSpeed)
	assert.Equal(t, 0.0, k.YawDeltaSinceLastUpdate)
	assert.Equal(t, 0.0, k.AdditiveLeanAngle)
	assert.True(t, k.HasVelocity, "velocity is still sampled on the first tick")
}

func TestSamplerDisplacementAndYaw(t *testing.T) {
	s := NewSampler(10, 0.0375)
	s.Sample(MotionSample{IsFirstUpdate: true, WorldRotation: common.Rotator{Yaw: 170}}, 0, tick)

	k := s.Sample(MotionSample{
		WorldLocation: mgl64.Vec3{3, 4, 50},
		WorldRotation: common.Rotator{Yaw: -170},
	}, 0, tick)

	assert.InDelta(t, 5, k.DisplacementSinceLastUpdate, 1e-9)
	assert.InDelta(t, 300, k.DisplacementSpeed, 1e-6)
	assert.InDelta(t, 20, k.YawDeltaSinceLastUpdate, 1e-9, "yaw delta takes the short way across 180")
	assert.InDelta(t, 20*60*0.0375, k.AdditiveLeanAngle, 1e-6)
}

func TestSamplerLocalVelocityDirection(t *testing.T) {
	cases := []struct {
		name          string
		velocity      mgl64.Vec3
		rootYawOffset float64
		want          CardinalDirection
		wantNoOffset  CardinalDirection
	}{
		{"forward", mgl64.Vec3{300, 0, 0}, 0, Forward, Forward},
		{"right", mgl64.Vec3{0, 300, 0}, 0, Right, Right},
		{"backward", mgl64.Vec3{-300, 0, 0}, 0, Backward, Backward},
		{"offset_shifts_side", mgl64.Vec3{0, 300, 0}, 90, Forward, Right},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewSampler(10, 0.0375)
			k := s.Sample(MotionSample{WorldVelocity: c.velocity, IsFirstUpdate: true}, c.rootYawOffset, tick)
			assert.Equal(t, c.want, k.LocalVelocityDirection)
			assert.Equal(t, c.wantNoOffset, k.LocalVelocityDirectionNoOffset)
		})
	}
}

func TestSamplerHysteresisOnlyWhileMoving(t *testing.T) {
	at := func(deg float64) mgl64.Vec3 {
		r := common.Rotator{Yaw: deg}
		return r.Forward().Mul(300)
	}

	s := NewSampler(10, 0.0375)
	k := s.Sample(MotionSample{WorldVelocity: at(0), IsFirstUpdate: true}, 0, tick)
	require.Equal(t, Forward, k.LocalVelocityDirection)

	// 60 degrees is past the plain forward band but inside the doubled one
	k = s.Sample(MotionSample{WorldVelocity: at(60)}, 0, tick)
	assert.Equal(t, Forward, k.LocalVelocityDirection)

	// stop, then start again at the same angle without hysteresis
	s.Sample(MotionSample{}, 0, tick)
	k = s.Sample(MotionSample{WorldVelocity: at(60)}, 0, tick)
	assert.Equal(t, Right, k.LocalVelocityDirection)
}

func TestSamplerAcceleration(t *testing.T) {
	s := NewSampler(10, 0.0375)
	k := s.Sample(MotionSample{
		WorldVelocity:     mgl64.Vec3{300, 0, 0},
		WorldAcceleration: mgl64.Vec3{-2048, 0, 0},
		IsFirstUpdate:     true,
	}, 0, tick)

	assert.True(t, k.HasAcceleration)
	assert.InDelta(t, -2048, k.LocalAcceleration2D[0], 1e-9)
	// half way from zero toward the acceleration, renormalised
	assert.InDelta(t, -1, k.PivotDirection2D[0], 1e-9)
	// the pivot clip faces away from the acceleration
	assert.Equal(t, Forward, k.CardinalDirectionFromAcceleration)

	k = s.Sample(MotionSample{WorldVelocity: mgl64.Vec3{300, 0, 0}}, 0, tick)
	assert.False(t, k.HasAcceleration)
}
