package locomotion

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictStopDistanceZeroVelocity(t *testing.T) {
	assert.Equal(t, 0.0, PredictStopDistance2D(mgl64.Vec3{}, false, 0, 8, 2, 2048))
	// no friction and no deceleration never stops
	assert.Equal(t, 0.0, PredictStopDistance2D(mgl64.Vec3{600, 0, 0}, false, 0, 0, 2, 0))
}

func TestPredictStopDistanceClosedForm(t *testing.T) {
	cases := []struct {
		name     string
		velocity mgl64.Vec3
		useSep   bool
		friction float64
		want     float64
	}{
		// d = v^2 / (2*(f*v + D)), f = friction*factor
		{"ground_friction", mgl64.Vec3{600, 0, 0}, false, 16, 600.0 * 600 / (2 * (16*600 + 2048))},
		{"separate_braking", mgl64.Vec3{0, 300, 0}, true, 2, 300.0 * 300 / (2 * (2*300 + 2048))},
		{"vertical_ignored", mgl64.Vec3{300, 400, -900}, false, 16, 500.0 * 500 / (2 * (16*500 + 2048))},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := PredictStopDistance2D(c.velocity, c.useSep, 1, 8, 2, 2048)
			assert.InDelta(t, c.want, got, 1e-6)
		})
	}
}

func TestPredictStopDistanceWalkingBraking(t *testing.T) {
	// ground friction 8, factor 1, deceleration 1400
	prev := math.Inf(1)
	for speed := 600.0; speed >= 10; speed -= 10 {
		got := PredictStopDistance2D(mgl64.Vec3{speed, 0, 0}, false, 0, 8, 1, 1400)
		want := speed * speed / (2 * (8*speed + 1400))
		require.InDelta(t, want, got, 1e-9, "speed %v", speed)
		require.Greater(t, got, 0.0)
		require.False(t, math.IsInf(got, 0))
		require.Less(t, got, prev, "speed %v", speed)
		prev = got
	}
	assert.InDelta(t, 360000.0/12400, PredictStopDistance2D(mgl64.Vec3{600, 0, 0}, false, 0, 8, 1, 1400), 1e-9)
}

func TestPredictStopDistanceMonotonic(t *testing.T) {
	braking := BrakingParams{
		GroundFriction:             8,
		BrakingFrictionFactor:      2,
		BrakingDecelerationWalking: 1400,
	}
	prev := 0.0
	for speed := 10.0; speed <= 1200; speed += 10 {
		d := PredictStopDistance2D(mgl64.Vec3{speed, 0, 0}, braking.UseSeparateBrakingFriction,
			braking.BrakingFriction, braking.GroundFriction, braking.BrakingFrictionFactor, braking.BrakingDecelerationWalking)
		assert.Greater(t, d, prev, "speed %v", speed)
		prev = d
	}
}

func TestEffectiveBrakingFriction(t *testing.T) {
	b := BrakingParams{BrakingFriction: 3, GroundFriction: 8, BrakingFrictionFactor: 2}
	assert.Equal(t, 16.0, b.EffectiveBrakingFriction())

	b.UseSeparateBrakingFriction = true
	assert.Equal(t, 6.0, b.EffectiveBrakingFriction())

	b.BrakingFrictionFactor = -1
	assert.Equal(t, 0.0, b.EffectiveBrakingFriction())
}

func TestPredictPivotDistance(t *testing.T) {
	accel := mgl64.Vec3{-2048, 0, 0}

	// velocity already along the acceleration: no pivot pending
	assert.Equal(t, 0.0, PredictPivotDistance2D(accel, mgl64.Vec3{-300, 0, 0}, 8))

	// s = 300, t = s/(|a| + 2*s*f), force = a - (v - dir*|v|)*f
	tt := 300.0 / (2048 + 2*300*8)
	force := -2048.0 - 600*8
	want := 300*tt + 0.5*force*tt*tt
	assert.InDelta(t, want, PredictPivotDistance2D(accel, mgl64.Vec3{300, 0, 0}, 8), 1e-6)
}
