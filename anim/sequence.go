package anim

import "math"

// SequencePlayer plays a clip forward in time at a play rate.
type SequencePlayer struct {
	clip     *Clip
	time     float64
	playRate float64
}

func NewSequencePlayer(clip *Clip) *SequencePlayer {
	return &SequencePlayer{clip: clip, playRate: 1}
}

func (p *SequencePlayer) Clip() *Clip       { return p.clip }
func (p *SequencePlayer) Time() float64     { return p.time }
func (p *SequencePlayer) PlayRate() float64 { return p.playRate }

// SetClip swaps the clip and restarts playback.
func (p *SequencePlayer) SetClip(clip *Clip) {
	if clip == p.clip {
		return
	}
	p.clip = clip
	p.time = 0
}

// SetClipWithInertialBlend swaps the clip and asks the graph to inertialize
// the pose change. Setting the clip already playing does nothing.
func (p *SequencePlayer) SetClipWithInertialBlend(ctx *UpdateContext, clip *Clip) {
	if clip == p.clip {
		return
	}
	p.SetClip(clip)
	ctx.RequestInertialization()
}

// SetPlayRateToMatchSpeed scales playback so the clip's authored speed matches
// speed. Clips without an authored speed are left alone.
func (p *SequencePlayer) SetPlayRateToMatchSpeed(speed float64, clamp PlayRateClamp) {
	if p.clip == nil || math.Abs(p.clip.Speed) < 1e-4 {
		return
	}
	p.playRate = clamp.Apply(speed / p.clip.Speed)
}

// Advance moves playback forward by the context delta time.
func (p *SequencePlayer) Advance(ctx *UpdateContext) {
	p.time = p.clip.wrapTime(p.time + ctx.dt()*p.playRate)
}

// SequenceEvaluator samples a clip at an explicitly driven time.
type SequenceEvaluator struct {
	clip *Clip
	time float64
}

func NewSequenceEvaluator(clip *Clip) *SequenceEvaluator {
	return &SequenceEvaluator{clip: clip}
}

func (e *SequenceEvaluator) Clip() *Clip { return e.clip }

func (e *SequenceEvaluator) SetClip(clip *Clip) {
	e.clip = clip
}

func (e *SequenceEvaluator) SetClipWithInertialBlend(ctx *UpdateContext, clip *Clip) {
	if clip == e.clip {
		return
	}
	e.clip = clip
	ctx.RequestInertialization()
}

func (e *SequenceEvaluator) SetExplicitTime(t float64) {
	e.time = e.clip.wrapTime(t)
}

func (e *SequenceEvaluator) AccumulatedTime() float64 { return e.time }

func (e *SequenceEvaluator) AdvanceTime(ctx *UpdateContext) {
	e.SetExplicitTime(e.time + ctx.dt())
}

// DistanceMatchToTarget sets the time at which the clip's distance curve
// reads -distance. Stop, pivot and land clips author their curve as negative
// distance to a marker at zero.
func (e *SequenceEvaluator) DistanceMatchToTarget(distance float64, curveName string) {
	curve, err := e.clip.Curve(curveName)
	if err != nil {
		return
	}
	t, ok := curve.TimeForValue(-distance)
	if !ok {
		lo, hi := curve.Range()
		switch {
		case -distance < lo:
			t, _ = curve.TimeForValue(lo)
		case -distance > hi:
			t, _ = curve.TimeForValue(hi)
		}
	}
	e.SetExplicitTime(t)
}

// AdvanceTimeByDistanceMatching advances playback so the distance curve moves
// by distanceTraveled, with the implied play rate clamped.
func (e *SequenceEvaluator) AdvanceTimeByDistanceMatching(ctx *UpdateContext, distanceTraveled float64, curveName string, clamp PlayRateClamp) {
	dt := ctx.dt()
	if dt <= 0 || distanceTraveled <= 0 {
		return
	}
	curve, err := e.clip.Curve(curveName)
	if err != nil {
		return
	}

	current := e.time
	target := curve.Eval(current) + distanceTraveled
	matched, ok := curve.TimeForValue(target)
	if !ok {
		matched = e.clip.Length
	}
	rate := clamp.Apply((matched - current) / dt)
	e.SetExplicitTime(current + rate*dt)
}
