package locomotion

import (
	"github.com/milk9111/locomotion/anim"
	"github.com/milk9111/locomotion/common"
)

// StateID names a locomotion animation state. Which state is active, and
// when it changes, is decided by the animation graph.
type StateID uint8

const (
	StateIdle StateID = iota
	StateIdleBreak
	StateIdleTurnYaw
	StateStart
	StateCycle
	StatePivot
	StateStop
	StateFallLand
	StateLandRecovery
	StateTurnInPlace
	StateTurnInPlaceRecovery
	stateCount
)

var stateNames = [stateCount]string{
	StateIdle:                "idle",
	StateIdleBreak:           "idle_break",
	StateIdleTurnYaw:         "idle_turn_yaw",
	StateStart:               "start",
	StateCycle:               "cycle",
	StatePivot:               "pivot",
	StateStop:                "stop",
	StateFallLand:            "fall_land",
	StateLandRecovery:        "land_recovery",
	StateTurnInPlace:         "turn_in_place",
	StateTurnInPlaceRecovery: "turn_in_place_recovery",
}

func (s StateID) String() string {
	if s >= stateCount {
		return "invalid"
	}
	return stateNames[s]
}

func ParseStateID(name string) (StateID, bool) {
	for i, n := range stateNames {
		if n == name {
			return StateID(i), true
		}
	}
	return 0, false
}

func AllStates() []StateID {
	out := make([]StateID, 0, stateCount)
	for s := StateID(0); s < stateCount; s++ {
		out = append(out, s)
	}
	return out
}

// StateResult is a handle on the graph's own state node.
type StateResult interface {
	IsBlendingOut(ctx *anim.UpdateContext) bool
}

// ClipPlayer is a handle on a node that plays a clip forward in time.
type ClipPlayer interface {
	SetClip(clip *anim.Clip)
	SetClipWithInertialBlend(ctx *anim.UpdateContext, clip *anim.Clip)
	SetPlayRateToMatchSpeed(speed float64, clamp anim.PlayRateClamp)
}

// ClipEvaluator is a handle on a node whose playback time is driven
// explicitly.
type ClipEvaluator interface {
	Clip() *anim.Clip
	SetClip(clip *anim.Clip)
	SetClipWithInertialBlend(ctx *anim.UpdateContext, clip *anim.Clip)
	SetExplicitTime(t float64)
	AccumulatedTime() float64
	AdvanceTime(ctx *anim.UpdateContext)
	AdvanceTimeByDistanceMatching(ctx *anim.UpdateContext, distanceTraveled float64, curveName string, clamp anim.PlayRateClamp)
	DistanceMatchToTarget(distance float64, curveName string)
}

// Binding is what the graph passes a state callback: the state node itself
// and the clip node the state drives. Either may be nil or of an unexpected
// kind, in which case the part of the callback that needs it does nothing.
type Binding struct {
	State anim.Node
	Clip  anim.Node
}

func (b Binding) stateResult() (StateResult, bool) {
	s, ok := b.State.(StateResult)
	return s, ok
}

func (b Binding) player() (ClipPlayer, bool) {
	p, ok := b.Clip.(ClipPlayer)
	return p, ok
}

func (b Binding) evaluator() (ClipEvaluator, bool) {
	e, ok := b.Clip.(ClipEvaluator)
	return e, ok
}

// active reports whether the bound state node converts and is not blending out.
func (b Binding) active(ctx *anim.UpdateContext) bool {
	s, ok := b.stateResult()
	return ok && !s.IsBlendingOut(ctx)
}

type Callback func(in *Instance, ctx *anim.UpdateContext, b Binding)

// StateHandlers are the enter and per-tick update behaviours of one state.
// Either may be nil.
type StateHandlers struct {
	Enter  Callback
	Update Callback
}

var stateTable = map[StateID]StateHandlers{
	StateIdle:                {Enter: enterIdle, Update: updateIdle},
	StateIdleBreak:           {Enter: enterIdleBreak},
	StateIdleTurnYaw:         {Update: updateIdleTurnYaw},
	StateStart:               {Enter: enterStart, Update: updateStart},
	StateCycle:               {Update: updateCycle},
	StatePivot:               {Enter: enterPivot, Update: updatePivot},
	StateStop:                {Enter: enterStop, Update: updateStop},
	StateFallLand:            {Enter: enterFallLand, Update: updateFallLand},
	StateLandRecovery:        {Enter: enterLandRecovery},
	StateTurnInPlace:         {Enter: enterTurnInPlace, Update: updateTurnInPlace},
	StateTurnInPlaceRecovery: {Enter: enterTurnInPlaceRecovery, Update: updateTurnInPlaceRecovery},
}

// Handlers returns the callbacks registered for id.
func Handlers(id StateID) (StateHandlers, bool) {
	h, ok := stateTable[id]
	return h, ok
}

// EnterState runs id's enter callback.
func (in *Instance) EnterState(id StateID, ctx *anim.UpdateContext, b Binding) {
	h, ok := stateTable[id]
	if !ok {
		return
	}
	in.log.Debug("locomotion: enter state", "state", id.String())
	if h.Enter != nil {
		h.Enter(in, ctx, b)
	}
}

// UpdateState runs id's per-tick update callback.
func (in *Instance) UpdateState(id StateID, ctx *anim.UpdateContext, b Binding) {
	h, ok := stateTable[id]
	if !ok || h.Update == nil {
		return
	}
	h.Update(in, ctx, b)
}

func ctxDelta(ctx *anim.UpdateContext) float64 {
	if ctx == nil {
		return 0
	}
	return ctx.DeltaTime
}

// strideClamp ramps the lower play rate bound from the stride floor up to
// the normal start/pivot bound as alpha goes from 0 to 1.
func (in *Instance) strideClamp(alpha float64) anim.PlayRateClamp {
	c := in.settings.PlayRateClampStartsPivots
	return anim.PlayRateClamp{
		Min: common.Lerp(in.settings.StridePlayRateFloor, c.Min, alpha),
		Max: c.Max,
	}
}

func (in *Instance) strideAlpha(elapsed float64) float64 {
	s := in.settings
	return common.MapRangeClamped(0, s.StrideWarpingBlendInDurationScaled, 0, 1, elapsed-s.StrideWarpingBlendInStartOffset)
}

func enterIdle(in *Instance, _ *anim.UpdateContext, _ Binding) {
	loc := in.sample.WorldLocation
	spread := in.settings.IdleBreakDelayRange
	if spread <= 0 {
		spread = 1
	}
	hash := int(abs(loc[0] + loc[1]))
	in.idleBreakDelay = float64(hash%spread + in.settings.IdleBreakMinDelay)
	in.timeUntilNextIdleBreak = in.idleBreakDelay
}

func updateIdle(in *Instance, ctx *anim.UpdateContext, b Binding) {
	if p, ok := b.player(); ok {
		p.SetClipWithInertialBlend(ctx, in.anims.Idle)
	}
	if !b.active(ctx) {
		return
	}
	if in.CanPlayIdleBreak() {
		in.timeUntilNextIdleBreak -= ctxDelta(ctx)
	} else {
		in.timeUntilNextIdleBreak = in.idleBreakDelay
	}
}

func enterIdleBreak(in *Instance, _ *anim.UpdateContext, b Binding) {
	breaks := in.anims.IdleBreaks
	if len(breaks) == 0 {
		return
	}
	p, ok := b.player()
	if !ok {
		return
	}
	if in.idleBreakIndex >= len(breaks) {
		in.idleBreakIndex = 0
	}
	p.SetClip(breaks[in.idleBreakIndex])
	in.idleBreakIndex = (in.idleBreakIndex + 1) % len(breaks)
}

func updateIdleTurnYaw(in *Instance, ctx *anim.UpdateContext, b Binding) {
	s, ok := b.stateResult()
	if !ok {
		return
	}
	if s.IsBlendingOut(ctx) {
		in.turn.ResetTurnYawCurveValue()
		return
	}
	in.turn.Claim(Accumulate)
	in.turn.ProcessTurnYawCurve(in.curves)
}

func enterStart(in *Instance, _ *anim.UpdateContext, b Binding) {
	in.startDirection = in.kin.LocalVelocityDirection
	e, ok := b.evaluator()
	if !ok {
		return
	}
	e.SetClip(in.anims.JogStart.Pick(in.kin.LocalVelocityDirection))
	e.SetExplicitTime(0)
	in.strideWarpingStartAlpha = 0
}

func updateStart(in *Instance, ctx *anim.UpdateContext, b Binding) {
	if b.active(ctx) {
		in.turn.Claim(Hold)
	}
	e, ok := b.evaluator()
	if !ok {
		return
	}
	in.strideWarpingStartAlpha = in.strideAlpha(e.AccumulatedTime())
	e.AdvanceTimeByDistanceMatching(ctx, in.kin.DisplacementSinceLastUpdate,
		in.settings.LocomotionDistanceCurve, in.strideClamp(in.strideWarpingStartAlpha))
}

func updateCycle(in *Instance, ctx *anim.UpdateContext, b Binding) {
	p, ok := b.player()
	if !ok {
		return
	}
	p.SetClipWithInertialBlend(ctx, in.anims.Jog.Pick(in.kin.LocalVelocityDirectionNoOffset))
	p.SetPlayRateToMatchSpeed(in.kin.DisplacementSpeed, in.settings.PlayRateClampCycle)

	target := 1.0
	if in.sample.IsRunningIntoWall {
		target = 0.5
	}
	in.strideWarpingCycleAlpha = common.InterpTo(in.strideWarpingCycleAlpha, target, ctxDelta(ctx), in.settings.StrideWarpingCycleInterpSpeed)
}

func enterPivot(in *Instance, _ *anim.UpdateContext, b Binding) {
	in.pivotInitialDirection = in.kin.LocalVelocityDirection
	in.pivotStartingAccel = in.kin.LocalAcceleration2D

	e, ok := b.evaluator()
	if !ok {
		return
	}
	e.SetClip(in.anims.JogPivot.Pick(in.kin.CardinalDirectionFromAcceleration))
	e.SetExplicitTime(0)
	in.strideWarpingPivotAlpha = 0
	in.timeAtPivotStop = 0
	in.lastPivotTime = in.settings.PivotGraceTime
}

func updatePivot(in *Instance, ctx *anim.UpdateContext, b Binding) {
	if in.lastPivotTime > 0 {
		in.lastPivotTime -= ctxDelta(ctx)
	}
	e, ok := b.evaluator()
	if !ok {
		return
	}
	t := e.AccumulatedTime()

	if in.lastPivotTime > 0 {
		desired := in.anims.JogPivot.Pick(in.kin.CardinalDirectionFromAcceleration)
		if desired != e.Clip() {
			e.SetClipWithInertialBlend(ctx, desired)
			in.pivotStartingAccel = in.kin.LocalAcceleration2D
		}
	}

	if in.kin.LocalVelocity2D.Dot(in.kin.LocalAcceleration2D) < 0 {
		dist := PredictPivotDistance2D(in.sample.WorldAcceleration, in.sample.LastUpdateVelocity, in.sample.Braking.GroundFriction)
		e.DistanceMatchToTarget(dist, in.settings.LocomotionDistanceCurve)
		in.timeAtPivotStop = t
		return
	}

	in.strideWarpingPivotAlpha = in.strideAlpha(t - in.timeAtPivotStop)
	e.AdvanceTimeByDistanceMatching(ctx, in.kin.DisplacementSinceLastUpdate,
		in.settings.LocomotionDistanceCurve, in.strideClamp(in.strideWarpingPivotAlpha))
}

func enterStop(in *Instance, _ *anim.UpdateContext, b Binding) {
	e, ok := b.evaluator()
	if !ok {
		return
	}
	e.SetClip(in.anims.JogStop.Pick(in.kin.LocalVelocityDirection))
	if !in.ShouldDistanceMatchStop() {
		e.DistanceMatchToTarget(0, in.settings.LocomotionDistanceCurve)
	}
}

func updateStop(in *Instance, ctx *anim.UpdateContext, b Binding) {
	if b.active(ctx) {
		in.turn.Claim(Accumulate)
	}
	e, ok := b.evaluator()
	if !ok {
		return
	}
	if in.ShouldDistanceMatchStop() {
		if dist := in.PredictedStopDistance(); dist > 0 {
			e.DistanceMatchToTarget(dist, in.settings.LocomotionDistanceCurve)
			return
		}
	}
	e.AdvanceTime(ctx)
}

func enterFallLand(_ *Instance, _ *anim.UpdateContext, b Binding) {
	if e, ok := b.evaluator(); ok {
		e.SetExplicitTime(0)
	}
}

func updateFallLand(in *Instance, _ *anim.UpdateContext, b Binding) {
	if e, ok := b.evaluator(); ok {
		e.DistanceMatchToTarget(in.groundDistance, in.settings.JumpDistanceCurve)
	}
}

func enterLandRecovery(in *Instance, _ *anim.UpdateContext, _ Binding) {
	s := in.settings
	in.landRecoveryAlpha = common.MapRangeClamped(0, s.LandRecoveryFallTime, s.LandRecoveryMinAlpha, 1, in.timeFalling)
}

func enterTurnInPlace(in *Instance, _ *anim.UpdateContext, b Binding) {
	in.turnInPlaceRotationDirection = -common.Sign(in.turn.Offset())
	in.turnInPlaceAnimTime = 0
	if e, ok := b.evaluator(); ok {
		e.SetExplicitTime(0)
	}
}

func updateTurnInPlace(in *Instance, ctx *anim.UpdateContext, b Binding) {
	e, ok := b.evaluator()
	if !ok {
		return
	}
	e.SetClipWithInertialBlend(ctx, in.anims.SelectTurnInPlaceClip(in.turnInPlaceRotationDirection))
	in.turnInPlaceAnimTime += ctxDelta(ctx)
	e.SetExplicitTime(in.turnInPlaceAnimTime)
}

func enterTurnInPlaceRecovery(in *Instance, _ *anim.UpdateContext, _ Binding) {
	in.turnInPlaceRecoveryDirection = in.turnInPlaceRotationDirection
}

func updateTurnInPlaceRecovery(in *Instance, ctx *anim.UpdateContext, b Binding) {
	if p, ok := b.player(); ok {
		p.SetClipWithInertialBlend(ctx, in.anims.SelectTurnInPlaceClip(in.turnInPlaceRecoveryDirection))
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
