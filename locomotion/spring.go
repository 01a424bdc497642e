package locomotion

import "math"

// SpringState is the memory a damped spring carries between ticks.
type SpringState struct {
	Velocity        float64
	PrevTarget      float64
	PrevTargetValid bool
}

func (s *SpringState) Reset() {
	*s = SpringState{}
}

// Spring describes a mass-spring-damper.
type Spring struct {
	Stiffness    float64 `yaml:"stiffness"`
	DampingRatio float64 `yaml:"damping_ratio"`
	Mass         float64 `yaml:"mass"`
	// TargetVelocityAmount scales how much of the target's own motion feeds
	// into the spring's target velocity.
	TargetVelocityAmount float64 `yaml:"target_velocity_amount"`
}

// Interp advances current toward target by dt and returns the new value.
// The solution is exact for constant-velocity targets, so the step is stable
// for any dt.
func (sp Spring) Interp(current, target float64, state *SpringState, dt float64) float64 {
	if dt <= 1e-8 {
		return current
	}
	if !state.PrevTargetValid {
		state.PrevTarget = target
		state.PrevTargetValid = true
	}

	mass := sp.Mass
	if mass <= 0 {
		mass = 1
	}
	omega := math.Sqrt(math.Max(0, sp.Stiffness) / mass)
	targetVel := (target - state.PrevTarget) * (sp.TargetVelocityAmount / dt)
	state.PrevTarget = target

	x, v := springDamper(current-target, state.Velocity-targetVel, omega, sp.DampingRatio, dt)
	state.Velocity = v + targetVel
	return target + targetVel*dt + x
}

// springDamper advances an unforced damped oscillator with natural frequency
// omega and damping ratio zeta by dt from (x0, v0), returning the new position
// and velocity.
func springDamper(x0, v0, omega, zeta, dt float64) (x, v float64) {
	if omega < 1e-8 {
		return x0 + v0*dt, v0
	}
	if zeta < 0 {
		zeta = 0
	}

	switch {
	case zeta == 1:
		e := math.Exp(-omega * dt)
		j := v0 + omega*x0
		x = (x0 + j*dt) * e
		v = (v0 - j*omega*dt) * e
	case zeta < 1:
		wd := omega * math.Sqrt(1-zeta*zeta)
		a := x0
		b := (v0 + zeta*omega*x0) / wd
		e := math.Exp(-zeta * omega * dt)
		s, c := math.Sincos(wd * dt)
		x = e * (a*c + b*s)
		v = e * ((-zeta*omega*a+wd*b)*c + (-zeta*omega*b-wd*a)*s)
	default:
		root := math.Sqrt(zeta*zeta - 1)
		r1 := -omega * (zeta - root)
		r2 := -omega * (zeta + root)
		c2 := (v0 - r1*x0) / (r2 - r1)
		c1 := x0 - c2
		e1 := math.Exp(r1 * dt)
		e2 := math.Exp(r2 * dt)
		x = c1*e1 + c2*e2
		v = c1*r1*e1 + c2*r2*e2
	}
	return x, v
}
