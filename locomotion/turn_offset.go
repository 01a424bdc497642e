package locomotion

import "github.com/milk9111/locomotion/common"

// CurveSource exposes the named curve values the animation graph evaluated
// this tick.
type CurveSource interface {
	CurveValue(name string) float64
}

// TurnOffset tracks the root yaw offset: how far the body lags the capsule's
// facing. The mode is claimed by states during their update and falls back to
// BlendOut after every Update, so the offset relaxes the moment no state
// claims it.
type TurnOffset struct {
	offset     float64
	mode       RootYawOffsetMode
	spring     Spring
	springMem  SpringState
	clamp      AngleRange
	curveValue float64
}

func NewTurnOffset(clamp AngleRange, spring Spring) *TurnOffset {
	return &TurnOffset{clamp: clamp, spring: spring}
}

func (t *TurnOffset) Offset() float64              { return t.offset }
func (t *TurnOffset) Mode() RootYawOffsetMode      { return t.mode }
func (t *TurnOffset) TurnYawCurveValue() float64   { return t.curveValue }
func (t *TurnOffset) ResetTurnYawCurveValue()      { t.curveValue = 0 }
func (t *TurnOffset) Claim(mode RootYawOffsetMode) { t.mode = mode }

// Set normalizes the offset to (-180,180] and applies the clamp range.
func (t *TurnOffset) Set(offset float64) {
	n := common.NormalizeAxis(offset)
	if t.clamp.Min != t.clamp.Max {
		n = common.ClampAngle(n, t.clamp.Min, t.clamp.Max)
	}
	t.offset = n
}

// Update applies the claimed mode for this tick, then re-arms BlendOut.
func (t *TurnOffset) Update(yawDelta, dt float64) float64 {
	switch t.mode {
	case Accumulate:
		t.Set(t.offset - yawDelta)
	case BlendOut:
		t.Set(t.spring.Interp(t.offset, 0, &t.springMem, dt))
	}
	t.mode = BlendOut
	return t.offset
}

// ProcessTurnYawCurve keeps the offset in step with a turn animation in
// progress by removing however much of the remaining turn the clip consumed
// since the previous tick.
func (t *TurnOffset) ProcessTurnYawCurve(curves CurveSource) {
	if curves == nil {
		return
	}
	prev := t.curveValue
	weight := curves.CurveValue(TurnYawWeightCurve)
	if common.IsNearlyZero(weight) {
		t.curveValue = 0
		return
	}
	t.curveValue = curves.CurveValue(RemainingTurnYawCurve) / weight
	if prev != 0 {
		t.Set(t.offset - (t.curveValue - prev))
	}
}
