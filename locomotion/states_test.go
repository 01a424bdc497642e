package locomotion

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/anim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateIDNames(t *testing.T) {
	for _, id := range AllStates() {
		got, ok := ParseStateID(id.String())
		require.True(t, ok, id.String())
		assert.Equal(t, id, got)

		_, ok = Handlers(id)
		assert.True(t, ok, "no handlers for %s", id)
	}
	_, ok := ParseStateID("jog_forward")
	assert.False(t, ok)
	assert.Equal(t, "invalid", StateID(200).String())
}

func TestIdleBreakDelayFromLocation(t *testing.T) {
	cases := []struct {
		name string
		loc  mgl64.Vec3
		want float64
	}{
		{"origin", mgl64.Vec3{}, 6},
		{"fraction_truncated", mgl64.Vec3{3.7, 4.1, 0}, 13},
		{"wraps_at_ten", mgl64.Vec3{-20, -5, 0}, 11},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			owner := newFakeOwner()
			owner.loc = c.loc
			in := NewInstance(owner, DefaultSettings(), testAnimSet())
			tickInstance(in, 1)

			in.EnterState(StateIdle, anim.NewUpdateContext(tick), Binding{})
			assert.Equal(t, c.want, in.Signals().TimeUntilNextIdleBreak)
		})
	}
}

func TestIdleCountdown(t *testing.T) {
	owner := newFakeOwner()
	in := NewInstance(owner, DefaultSettings(), testAnimSet())
	tickInstance(in, 1)

	ctx := anim.NewUpdateContext(0.5)
	state := &anim.StateNode{Name: "idle"}
	player := anim.NewSequencePlayer(nil)
	b := Binding{State: state, Clip: player}

	in.EnterState(StateIdle, ctx, b)
	in.UpdateState(StateIdle, ctx, b)
	assert.Same(t, in.anims.Idle, player.Clip())
	assert.Equal(t, 1, ctx.InertialRequests())
	assert.InDelta(t, 5.5, in.Signals().TimeUntilNextIdleBreak, 1e-9)

	state.BlendingOut = true
	in.UpdateState(StateIdle, ctx, b)
	assert.InDelta(t, 5.5, in.Signals().TimeUntilNextIdleBreak, 1e-9, "blending out freezes the countdown")

	state.BlendingOut = false
	owner.montage = true
	tickInstance(in, 2)
	in.UpdateState(StateIdle, ctx, b)
	assert.InDelta(t, 6, in.Signals().TimeUntilNextIdleBreak, 1e-9, "a montage resets the countdown")
}

func TestIdleBreakRoundRobin(t *testing.T) {
	in := NewInstance(newFakeOwner(), DefaultSettings(), testAnimSet())
	ctx := anim.NewUpdateContext(tick)
	player := anim.NewSequencePlayer(nil)
	b := Binding{Clip: player}

	var got []string
	for i := 0; i < 3; i++ {
		in.EnterState(StateIdleBreak, ctx, b)
		got = append(got, player.Clip().Name)
	}
	assert.Equal(t, []string{"break_a", "break_b", "break_a"}, got)

	empty := NewInstance(newFakeOwner(), DefaultSettings(), AnimSet{})
	other := anim.NewSequencePlayer(nil)
	assert.NotPanics(t, func() { empty.EnterState(StateIdleBreak, ctx, Binding{Clip: other}) })
	assert.Nil(t, other.Clip())
}

func TestCallbacksIgnoreUnconvertibleNodes(t *testing.T) {
	in := NewInstance(newFakeOwner(), DefaultSettings(), testAnimSet())
	tickInstance(in, 1)
	ctx := anim.NewUpdateContext(tick)
	wrong := Binding{State: "not a node", Clip: 42}

	for _, id := range AllStates() {
		assert.NotPanics(t, func() {
			in.EnterState(id, ctx, wrong)
			in.UpdateState(id, ctx, wrong)
			in.EnterState(id, nil, Binding{})
			in.UpdateState(id, nil, Binding{})
		}, id.String())
	}
	assert.Equal(t, BlendOut, in.TurnOffset().Mode(), "no state could convert its node, so none claimed a mode")
}

func TestIdleTurnYaw(t *testing.T) {
	in := NewInstance(newFakeOwner(), DefaultSettings(), testAnimSet())
	in.TurnOffset().Set(60)
	in.SetCurveSource(anim.CurveSet{TurnYawWeightCurve: 1, RemainingTurnYawCurve: -60})

	ctx := anim.NewUpdateContext(tick)
	state := &anim.StateNode{}
	in.UpdateState(StateIdleTurnYaw, ctx, Binding{State: state})
	assert.Equal(t, Accumulate, in.TurnOffset().Mode())
	assert.InDelta(t, -60, in.TurnOffset().TurnYawCurveValue(), 1e-9)

	state.BlendingOut = true
	in.UpdateState(StateIdleTurnYaw, ctx, Binding{State: state})
	assert.Equal(t, 0.0, in.TurnOffset().TurnYawCurveValue())
}

func TestStartState(t *testing.T) {
	owner := newFakeOwner()
	owner.vel = mgl64.Vec3{0, -300, 0}
	in := NewInstance(owner, DefaultSettings(), testAnimSet())
	tickInstance(in, 1)
	owner.loc = mgl64.Vec3{0, -5, 0}
	tickInstance(in, 2)

	ctx := anim.NewUpdateContext(tick)
	state := &anim.StateNode{}
	eval := anim.NewSequenceEvaluator(nil)
	b := Binding{State: state, Clip: eval}

	in.EnterState(StateStart, ctx, b)
	assert.Equal(t, Left, in.Signals().StartDirection)
	assert.Equal(t, "start_left", eval.Clip().Name)
	assert.Equal(t, 0.0, eval.AccumulatedTime())

	in.UpdateState(StateStart, ctx, b)
	assert.Equal(t, Hold, in.TurnOffset().Mode())
	// 5 units of a 200 unit curve; well inside the play rate clamp
	assert.InDelta(t, 5.0/200, eval.AccumulatedTime(), 1e-9)
	assert.Equal(t, 0.0, in.Signals().StrideWarpingStartAlpha)
}

func TestCycleState(t *testing.T) {
	owner := newFakeOwner()
	owner.vel = mgl64.Vec3{300, 0, 0}
	in := NewInstance(owner, DefaultSettings(), testAnimSet())
	tickInstance(in, 1)
	owner.loc = mgl64.Vec3{5, 0, 0}
	tickInstance(in, 2)

	ctx := anim.NewUpdateContext(tick)
	player := anim.NewSequencePlayer(nil)
	in.UpdateState(StateCycle, ctx, Binding{Clip: player})

	assert.Equal(t, "jog_fwd", player.Clip().Name)
	assert.InDelta(t, 1.0, player.PlayRate(), 1e-6)
	assert.InDelta(t, 10*tick, in.Signals().StrideWarpingCycleAlpha, 1e-9)

	owner.wall = true
	tickInstance(in, 3)
	for i := 0; i < 200; i++ {
		in.UpdateState(StateCycle, ctx, Binding{Clip: player})
	}
	assert.InDelta(t, 0.5, in.Signals().StrideWarpingCycleAlpha, 1e-3)
}

func TestStopState(t *testing.T) {
	owner := newFakeOwner()
	owner.vel = mgl64.Vec3{100, 0, 0}
	owner.lastVel = owner.vel
	owner.braking = BrakingParams{GroundFriction: 0, BrakingDecelerationWalking: 100}
	in := NewInstance(owner, DefaultSettings(), testAnimSet())
	tickInstance(in, 1)

	ctx := anim.NewUpdateContext(tick)
	state := &anim.StateNode{}
	eval := anim.NewSequenceEvaluator(nil)
	b := Binding{State: state, Clip: eval}

	in.EnterState(StateStop, ctx, b)
	assert.Equal(t, "stop_fwd", eval.Clip().Name)

	// v^2 / 2D = 50 units left, the curve reads -50 half way through
	in.UpdateState(StateStop, ctx, b)
	assert.Equal(t, Accumulate, in.TurnOffset().Mode())
	assert.InDelta(t, 0.5, eval.AccumulatedTime(), 1e-9)

	// with input acceleration the stop just plays out
	owner.accel = mgl64.Vec3{1000, 0, 0}
	tickInstance(in, 2)
	in.UpdateState(StateStop, ctx, b)
	assert.InDelta(t, 0.5+tick, eval.AccumulatedTime(), 1e-9)
}

func TestStopEnterWithoutDistanceMatch(t *testing.T) {
	owner := newFakeOwner()
	in := NewInstance(owner, DefaultSettings(), testAnimSet())
	tickInstance(in, 1)

	eval := anim.NewSequenceEvaluator(nil)
	in.EnterState(StateStop, anim.NewUpdateContext(tick), Binding{Clip: eval})
	assert.InDelta(t, 1.0, eval.AccumulatedTime(), 1e-9, "already stopped: jump to the end marker")
}

func TestPivotState(t *testing.T) {
	owner := newFakeOwner()
	owner.vel = mgl64.Vec3{300, 0, 0}
	owner.lastVel = owner.vel
	owner.accel = mgl64.Vec3{-2048, 0, 0}
	in := NewInstance(owner, DefaultSettings(), testAnimSet())
	tickInstance(in, 1)

	ctx := anim.NewUpdateContext(tick)
	eval := anim.NewSequenceEvaluator(nil)
	b := Binding{State: &anim.StateNode{}, Clip: eval}

	in.EnterState(StatePivot, ctx, b)
	sig := in.Signals()
	assert.Equal(t, Forward, sig.PivotInitialDirection)
	assert.Equal(t, "pivot_fwd", eval.Clip().Name)
	assert.InDelta(t, 0.2, sig.LastPivotTime, 1e-9)
	assert.Equal(t, mgl64.Vec3{-2048, 0, 0}, sig.PivotStartingAcceleration)

	// velocity opposes acceleration: freeze at the predicted pivot distance
	in.UpdateState(StatePivot, ctx, b)
	want := PredictPivotDistance2D(owner.accel, owner.lastVel, 8)
	require.Greater(t, want, 0.0)
	assert.InDelta(t, 1-want/100, eval.AccumulatedTime(), 1e-9)
	assert.InDelta(t, 0.2-tick, in.Signals().LastPivotTime, 1e-9)

	// acceleration swings to the side inside the grace window; the smoothed
	// pivot direction needs two ticks to leave the backward band
	owner.accel = mgl64.Vec3{0, 2048, 0}
	requests := 0
	for f := uint64(2); f <= 3; f++ {
		tickInstance(in, f)
		ctx = anim.NewUpdateContext(tick)
		in.UpdateState(StatePivot, ctx, b)
		requests += ctx.InertialRequests()
	}
	assert.Equal(t, "pivot_left", eval.Clip().Name)
	assert.Equal(t, 1, requests)
	assert.Equal(t, in.Kinematics().LocalAcceleration2D, in.Signals().PivotStartingAcceleration)
}

func TestFallLandAndRecovery(t *testing.T) {
	owner := newFakeOwner()
	owner.mode = MoveFalling
	owner.vel = mgl64.Vec3{0, 0, -500}
	owner.loc = mgl64.Vec3{0, 0, 190}
	tracer := &countingTracer{hit: true, dist: 190}
	in := NewInstance(owner, DefaultSettings(), testAnimSet(), WithTracer(tracer))
	for f := uint64(1); f <= 12; f++ {
		tickInstance(in, f)
	}

	ctx := anim.NewUpdateContext(tick)
	eval := anim.NewSequenceEvaluator(in.anims.JumpFallLand)
	b := Binding{Clip: eval}

	in.EnterState(StateFallLand, ctx, b)
	in.UpdateState(StateFallLand, ctx, b)
	// 100 units above ground on a -200..0 curve
	assert.InDelta(t, 0.5, eval.AccumulatedTime(), 1e-9)

	in.EnterState(StateLandRecovery, ctx, Binding{})
	assert.InDelta(t, 0.1+0.9*(12*tick/0.4), in.Signals().LandRecoveryAlpha, 1e-9)
}

func TestTurnInPlace(t *testing.T) {
	in := NewInstance(newFakeOwner(), DefaultSettings(), testAnimSet())
	in.TurnOffset().Set(-70)

	ctx := anim.NewUpdateContext(tick)
	eval := anim.NewSequenceEvaluator(nil)
	b := Binding{Clip: eval}

	in.EnterState(StateTurnInPlace, ctx, b)
	in.UpdateState(StateTurnInPlace, ctx, b)
	in.UpdateState(StateTurnInPlace, ctx, b)
	assert.Equal(t, "tip_right", eval.Clip().Name)
	assert.InDelta(t, 2*tick, in.Signals().TurnInPlaceAnimTime, 1e-9)
	assert.InDelta(t, 2*tick, eval.AccumulatedTime(), 1e-9)

	player := anim.NewSequencePlayer(nil)
	in.TurnOffset().Set(40)
	in.EnterState(StateTurnInPlaceRecovery, ctx, Binding{Clip: player})
	in.UpdateState(StateTurnInPlaceRecovery, ctx, Binding{Clip: player})
	assert.Equal(t, "tip_right", player.Clip().Name, "recovery keeps the rotation direction captured on enter")
}
