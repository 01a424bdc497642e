package anim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stopClip() *Clip {
	return &Clip{
		Name:   "stop",
		Length: 1,
		Curves: map[string]*Curve{
			"Distance": {Keys: []Key{{0, -100}, {0.5, -20}, {1, 0}}},
		},
	}
}

func TestCurveEvalAndInverse(t *testing.T) {
	c := &Curve{Keys: []Key{{1, 0}, {0, -100}, {2, 50}}}
	c.Sort()

	cases := []struct {
		at, want float64
	}{
		{-1, -100},
		{0.5, -50},
		{1.5, 25},
		{3, 50},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, c.Eval(tc.at), 1e-9, "Eval(%v)", tc.at)
	}

	at, ok := c.TimeForValue(-25)
	require.True(t, ok)
	assert.InDelta(t, 0.75, at, 1e-9)

	_, ok = c.TimeForValue(80)
	assert.False(t, ok)

	lo, hi := c.Range()
	assert.Equal(t, -100.0, lo)
	assert.Equal(t, 50.0, hi)
}

func TestClipCurveMissing(t *testing.T) {
	_, err := stopClip().Curve("Nope")
	assert.True(t, errors.Is(err, ErrNoCurve))

	var nilClip *Clip
	_, err = nilClip.Curve("Distance")
	assert.ErrorIs(t, err, ErrNoCurve)
	assert.Equal(t, 0.0, nilClip.CurveValue("Distance", 0))
}

func TestDistanceMatchToTarget(t *testing.T) {
	cases := []struct {
		name     string
		distance float64
		want     float64
	}{
		{"at_marker", 0, 1},
		{"inside_second_segment", 10, 0.75},
		{"inside_first_segment", 60, 0.25},
		{"beyond_curve", 500, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := NewSequenceEvaluator(stopClip())
			e.DistanceMatchToTarget(c.distance, "Distance")
			assert.InDelta(t, c.want, e.AccumulatedTime(), 1e-9)
		})
	}

	e := NewSequenceEvaluator(stopClip())
	e.SetExplicitTime(0.3)
	e.DistanceMatchToTarget(10, "Missing")
	assert.Equal(t, 0.3, e.AccumulatedTime(), "a missing curve leaves time alone")
}

func TestAdvanceTimeByDistanceMatching(t *testing.T) {
	start := &Clip{
		Name:   "start",
		Length: 2,
		Curves: map[string]*Curve{"Distance": {Keys: []Key{{0, 0}, {2, 400}}}},
	}
	cases := []struct {
		name     string
		traveled float64
		clamp    PlayRateClamp
		want     float64
	}{
		// 10 units is 0.05s of curve in a 0.1s tick: rate 0.5
		{"unclamped", 10, PlayRateClamp{}, 0.05},
		{"clamped_up", 10, PlayRateClamp{Min: 0.8, Max: 1.2}, 0.08},
		{"clamped_down", 100, PlayRateClamp{Min: 0.8, Max: 1.2}, 0.12},
		{"not_moving", 0, PlayRateClamp{Min: 0.8, Max: 1.2}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := NewSequenceEvaluator(start)
			e.AdvanceTimeByDistanceMatching(NewUpdateContext(0.1), c.traveled, "Distance", c.clamp)
			assert.InDelta(t, c.want, e.AccumulatedTime(), 1e-9)
		})
	}
}

func TestSequencePlayer(t *testing.T) {
	jog := &Clip{Name: "jog", Length: 1, Loop: true, Speed: 400}
	walk := &Clip{Name: "walk", Length: 1, Loop: true}

	p := NewSequencePlayer(jog)
	ctx := NewUpdateContext(0.25)

	p.SetPlayRateToMatchSpeed(200, PlayRateClamp{Min: 0.8, Max: 1.2})
	assert.Equal(t, 0.8, p.PlayRate())
	p.SetPlayRateToMatchSpeed(440, PlayRateClamp{Min: 0.8, Max: 1.2})
	assert.InDelta(t, 1.1, p.PlayRate(), 1e-9)

	for i := 0; i < 4; i++ {
		p.Advance(ctx)
	}
	assert.InDelta(t, 0.1, p.Time(), 1e-9, "looping clip wraps")

	p.SetClipWithInertialBlend(ctx, jog)
	assert.Equal(t, 0, ctx.InertialRequests(), "same clip is not a change")
	p.SetClipWithInertialBlend(ctx, walk)
	assert.Equal(t, 1, ctx.InertialRequests())
	assert.Equal(t, 0.0, p.Time())

	// walk has no authored speed
	p.SetPlayRateToMatchSpeed(100, PlayRateClamp{Min: 0.8, Max: 1.2})
	assert.InDelta(t, 1.1, p.PlayRate(), 1e-9)
}

func TestClipWrapTime(t *testing.T) {
	loop := &Clip{Name: "jog", Length: 0.8, Loop: true}
	once := &Clip{Name: "stop", Length: 1}

	cases := []struct {
		name string
		clip *Clip
		in   float64
		want float64
	}{
		{"loop_inside", loop, 0.5, 0.5},
		{"loop_wraps", loop, 2.0, 0.4},
		{"loop_far_ahead", loop, 8e6 + 0.3, 0.3},
		{"loop_negative", loop, -0.2, 0.6},
		{"loop_inf", loop, math.Inf(1), 0},
		{"loop_nan", loop, math.NaN(), 0},
		{"once_clamps_end", once, 3, 1},
		{"once_clamps_start", once, -1, 0},
		{"once_inf", once, math.Inf(1), 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, c.clip.wrapTime(c.in), 1e-6)
		})
	}
}

func TestPlayRateClampValid(t *testing.T) {
	assert.True(t, PlayRateClamp{Min: 0, Max: 1}.Valid())
	assert.False(t, PlayRateClamp{Min: 1, Max: 1}.Valid())
	assert.False(t, PlayRateClamp{Min: -1, Max: 1}.Valid())
	assert.Equal(t, 7.0, PlayRateClamp{Min: 2, Max: 1}.Apply(7))
}
