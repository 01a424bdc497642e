package anim

import (
	"errors"
	"sort"
)

var ErrNoCurve = errors.New("anim: curve not found")

// Key is one sample of a float curve.
type Key struct {
	Time  float64 `yaml:"t"`
	Value float64 `yaml:"v"`
}

// Curve is a piecewise linear float curve. Keys must be sorted by time; Sort
// fixes up hand-authored data.
type Curve struct {
	Keys []Key `yaml:"keys"`
}

func (c *Curve) Sort() {
	if c == nil {
		return
	}
	sort.SliceStable(c.Keys, func(i, j int) bool { return c.Keys[i].Time < c.Keys[j].Time })
}

// Eval samples the curve at t, holding the end values outside the keyed range.
func (c *Curve) Eval(t float64) float64 {
	if c == nil || len(c.Keys) == 0 {
		return 0
	}
	keys := c.Keys
	if t <= keys[0].Time {
		return keys[0].Value
	}
	last := keys[len(keys)-1]
	if t >= last.Time {
		return last.Value
	}
	i := sort.Search(len(keys), func(i int) bool { return keys[i].Time > t })
	a, b := keys[i-1], keys[i]
	span := b.Time - a.Time
	if span <= 0 {
		return b.Value
	}
	return a.Value + (b.Value-a.Value)*(t-a.Time)/span
}

// TimeForValue returns the first time at which the curve reaches v. Distance
// curves are monotonic, so the first crossing is the only one. ok is false
// when v lies outside the curve's range.
func (c *Curve) TimeForValue(v float64) (t float64, ok bool) {
	if c == nil || len(c.Keys) == 0 {
		return 0, false
	}
	keys := c.Keys
	if len(keys) == 1 {
		return keys[0].Time, keys[0].Value == v
	}
	for i := 1; i < len(keys); i++ {
		a, b := keys[i-1], keys[i]
		lo, hi := a.Value, b.Value
		if lo > hi {
			lo, hi = hi, lo
		}
		if v < lo || v > hi {
			continue
		}
		if b.Value == a.Value {
			return a.Time, true
		}
		return a.Time + (b.Time-a.Time)*(v-a.Value)/(b.Value-a.Value), true
	}
	return 0, false
}

// Range returns the smallest and largest key values.
func (c *Curve) Range() (lo, hi float64) {
	if c == nil || len(c.Keys) == 0 {
		return 0, 0
	}
	lo, hi = c.Keys[0].Value, c.Keys[0].Value
	for _, k := range c.Keys[1:] {
		if k.Value < lo {
			lo = k.Value
		}
		if k.Value > hi {
			hi = k.Value
		}
	}
	return lo, hi
}
