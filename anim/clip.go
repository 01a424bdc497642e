// Package anim is a small reference animation-graph runtime: clips with named
// curves, sequence players and evaluators, state nodes, and the distance
// matching helpers the locomotion layer drives. Real engines supply their own
// implementations of the same contracts.
package anim

import (
	"fmt"
	"math"
)

// Clip is an animation sequence with named float curves.
type Clip struct {
	Name   string            `yaml:"name"`
	Length float64           `yaml:"length"`
	Loop   bool              `yaml:"loop"`
	Speed  float64           `yaml:"speed"` // authored root speed, units/s
	Curves map[string]*Curve `yaml:"curves"`
}

func (c *Clip) String() string {
	if c == nil {
		return "<none>"
	}
	return c.Name
}

func (c *Clip) Curve(name string) (*Curve, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: %s on nil clip", ErrNoCurve, name)
	}
	curve, ok := c.Curves[name]
	if !ok || curve == nil {
		return nil, fmt.Errorf("%w: %s on %s", ErrNoCurve, name, c.Name)
	}
	return curve, nil
}

// CurveValue samples a curve, returning 0 when the clip lacks it.
func (c *Clip) CurveValue(name string, t float64) float64 {
	curve, err := c.Curve(name)
	if err != nil {
		return 0
	}
	return curve.Eval(t)
}

// wrapTime keeps t inside the clip, looping or clamping as authored.
func (c *Clip) wrapTime(t float64) float64 {
	if c == nil || c.Length <= 0 || math.IsNaN(t) {
		return 0
	}
	if c.Loop {
		if math.IsInf(t, 0) {
			return 0
		}
		t = math.Mod(t, c.Length)
		if t < 0 {
			t += c.Length
		}
		// a tiny negative remainder can round up to Length
		if t >= c.Length {
			t = 0
		}
		return t
	}
	if t < 0 {
		return 0
	}
	if t > c.Length {
		return c.Length
	}
	return t
}

// PlayRateClamp bounds a distance-matched play rate. It is ignored unless
// 0 <= Min < Max.
type PlayRateClamp struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (p PlayRateClamp) Valid() bool {
	return p.Min >= 0 && p.Min < p.Max
}

func (p PlayRateClamp) Apply(rate float64) float64 {
	if !p.Valid() {
		return rate
	}
	if rate < p.Min {
		return p.Min
	}
	if rate > p.Max {
		return p.Max
	}
	return rate
}
