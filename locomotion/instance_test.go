package locomotion

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/anim"
	"github.com/milk9111/locomotion/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOwner struct {
	groundOwner
	rot      common.Rotator
	vel      mgl64.Vec3
	lastVel  mgl64.Vec3
	accel    mgl64.Vec3
	braking  BrakingParams
	gravityZ float64
	montage  bool
	wall     bool
}

func (f *fakeOwner) Rotation() common.Rotator        { return f.rot }
func (f *fakeOwner) Velocity() mgl64.Vec3            { return f.vel }
func (f *fakeOwner) LastUpdateVelocity() mgl64.Vec3  { return f.lastVel }
func (f *fakeOwner) CurrentAcceleration() mgl64.Vec3 { return f.accel }
func (f *fakeOwner) Braking() BrakingParams          { return f.braking }
func (f *fakeOwner) GravityZ() float64               { return f.gravityZ }
func (f *fakeOwner) IsAnyMontagePlaying() bool       { return f.montage }
func (f *fakeOwner) IsRunningIntoWall() bool         { return f.wall }

func newFakeOwner() *fakeOwner {
	return &fakeOwner{
		groundOwner: groundOwner{mode: MoveWalking, halfHeight: 90},
		braking: BrakingParams{
			GroundFriction:             8,
			BrakingFrictionFactor:      2,
			BrakingDecelerationWalking: 2048,
		},
		gravityZ: -980,
	}
}

// distanceClip has a distance curve running from -100 at t=0 to 0 at t=1,
// the shape of a stop clip.
func distanceClip(name string) *anim.Clip {
	return &anim.Clip{
		Name:   name,
		Length: 1,
		Speed:  300,
		Curves: map[string]*anim.Curve{
			"Distance":       {Keys: []anim.Key{{Time: 0, Value: -100}, {Time: 1, Value: 0}}},
			"GroundDistance": {Keys: []anim.Key{{Time: 0, Value: -200}, {Time: 1, Value: 0}}},
		},
	}
}

// startClip has a distance curve running forward from 0 to 200.
func startClip(name string) *anim.Clip {
	return &anim.Clip{
		Name:   name,
		Length: 1,
		Curves: map[string]*anim.Curve{
			"Distance": {Keys: []anim.Key{{Time: 0, Value: 0}, {Time: 1, Value: 200}}},
		},
	}
}

func cardinals(prefix string, mk func(string) *anim.Clip) CardinalClips {
	return CardinalClips{
		Forward:  mk(prefix + "_fwd"),
		Backward: mk(prefix + "_bwd"),
		Left:     mk(prefix + "_left"),
		Right:    mk(prefix + "_right"),
	}
}

func testAnimSet() AnimSet {
	return AnimSet{
		Idle:             &anim.Clip{Name: "idle", Length: 2, Loop: true},
		IdleBreaks:       []*anim.Clip{{Name: "break_a", Length: 3}, {Name: "break_b", Length: 3}},
		TurnInPlaceLeft:  &anim.Clip{Name: "tip_left", Length: 1},
		TurnInPlaceRight: &anim.Clip{Name: "tip_right", Length: 1},
		JogStart:         cardinals("start", startClip),
		Jog:              cardinals("jog", distanceClip),
		JogStop:          cardinals("stop", distanceClip),
		JogPivot:         cardinals("pivot", distanceClip),
		JumpFallLand:     distanceClip("fall_land"),
	}
}

func tickInstance(in *Instance, frame uint64) {
	in.Update(tick, frame)
	in.ThreadSafeUpdate(tick)
}

func TestInstanceJumpAndFallSignals(t *testing.T) {
	owner := newFakeOwner()
	owner.mode = MoveFalling
	owner.vel = mgl64.Vec3{0, 0, 490}
	owner.loc = mgl64.Vec3{0, 0, 300}
	tracer := &countingTracer{hit: true, dist: 190}

	in := NewInstance(owner, DefaultSettings(), testAnimSet(), WithTracer(tracer))
	tickInstance(in, 1)

	sig := in.Signals()
	assert.True(t, sig.IsJumping)
	assert.False(t, sig.IsFalling)
	assert.False(t, sig.IsOnGround)
	assert.InDelta(t, 0.5, sig.TimeToJumpApex, 1e-9)
	assert.InDelta(t, 100, sig.GroundDistance, 1e-9)

	owner.vel = mgl64.Vec3{0, 0, -200}
	tickInstance(in, 2)
	tickInstance(in, 3)
	sig = in.Signals()
	assert.True(t, sig.IsFalling)
	assert.Equal(t, 0.0, sig.TimeToJumpApex)
	assert.InDelta(t, 2*tick, sig.TimeFalling, 1e-9)

	owner.mode = MoveWalking
	owner.vel = mgl64.Vec3{}
	tickInstance(in, 4)
	sig = in.Signals()
	assert.True(t, sig.IsOnGround)
	assert.Equal(t, 0.0, sig.GroundDistance)
	assert.InDelta(t, 2*tick, sig.TimeFalling, 1e-9, "fall time is kept for the landing")
}

func TestInstanceGroundDistanceReusesFrame(t *testing.T) {
	owner := newFakeOwner()
	owner.mode = MoveFalling
	tracer := &countingTracer{hit: true, dist: 400}
	in := NewInstance(owner, DefaultSettings(), testAnimSet(), WithTracer(tracer))

	in.Update(tick, 9)
	assert.Equal(t, 310.0, in.GroundDistance(9))
	assert.Equal(t, 1, tracer.calls)
}

func TestInstanceFirstTickZeroed(t *testing.T) {
	owner := newFakeOwner()
	owner.loc = mgl64.Vec3{1000, 1000, 0}
	owner.rot = common.Rotator{Yaw: 120}
	in := NewInstance(owner, DefaultSettings(), testAnimSet())

	tickInstance(in, 1)
	k := in.Kinematics()
	assert.Equal(t, 0.0, k.DisplacementSinceLastUpdate)
	assert.Equal(t, 0.0, k.YawDeltaSinceLastUpdate)
	assert.True(t, in.Sample().IsFirstUpdate)

	owner.loc = mgl64.Vec3{1005, 1000, 0}
	tickInstance(in, 2)
	assert.False(t, in.Sample().IsFirstUpdate)
	assert.InDelta(t, 5, in.Kinematics().DisplacementSinceLastUpdate, 1e-9)
}

func TestInstancePredicates(t *testing.T) {
	owner := newFakeOwner()
	in := NewInstance(owner, DefaultSettings(), testAnimSet())
	tickInstance(in, 1)
	assert.True(t, in.CanPlayIdleBreak())
	assert.False(t, in.ShouldDistanceMatchStop())

	owner.montage = true
	tickInstance(in, 2)
	assert.False(t, in.CanPlayIdleBreak())

	owner.montage = false
	owner.vel = mgl64.Vec3{400, 0, 0}
	owner.lastVel = owner.vel
	tickInstance(in, 3)
	assert.False(t, in.CanPlayIdleBreak())
	assert.True(t, in.ShouldDistanceMatchStop())
	assert.InDelta(t, 400*400/(2*(16*400+2048.0)), in.PredictedStopDistance(), 1e-6)

	owner.accel = mgl64.Vec3{2048, 0, 0}
	tickInstance(in, 4)
	assert.False(t, in.ShouldDistanceMatchStop())

	empty := NewInstance(owner, DefaultSettings(), AnimSet{})
	tickInstance(empty, 1)
	owner.vel = mgl64.Vec3{}
	tickInstance(empty, 2)
	assert.False(t, empty.CanPlayIdleBreak())
}

func TestInstanceTurnOffsetAccumulatesWhenClaimed(t *testing.T) {
	owner := newFakeOwner()
	in := NewInstance(owner, DefaultSettings(), testAnimSet())
	tickInstance(in, 1)

	// the claim made during this tick's state updates applies to the next
	// tick's yaw delta
	in.TurnOffset().Claim(Accumulate)
	owner.rot.Yaw = 30
	tickInstance(in, 2)
	assert.InDelta(t, -30, in.RootYawOffset(), 1e-9)
	assert.Equal(t, BlendOut, in.TurnOffset().Mode())

	owner.rot.Yaw = 60
	tickInstance(in, 3)
	assert.Greater(t, in.RootYawOffset(), -30.0, "unclaimed tick blends toward zero")
	assert.Less(t, in.RootYawOffset(), 0.0)
}

func TestInstanceNilOwner(t *testing.T) {
	in := NewInstance(nil, DefaultSettings(), testAnimSet())
	require.NotPanics(t, func() {
		tickInstance(in, 1)
		in.GroundDistance(1)
		_ = in.Signals()
	})
}

func TestSetAnimSetKeepsIdleBreakIndexInRange(t *testing.T) {
	in := NewInstance(newFakeOwner(), DefaultSettings(), testAnimSet())
	in.idleBreakIndex = 1
	in.SetAnimSet(AnimSet{IdleBreaks: []*anim.Clip{{Name: "only"}}})
	assert.Equal(t, 0, in.idleBreakIndex)
}
