package anim

// Node is an opaque reference to a graph node handed to state callbacks.
// Callbacks narrow it to the handle they need with a type assertion.
type Node any

// UpdateContext carries per-node update data for one tick.
type UpdateContext struct {
	DeltaTime float64

	// InertialBlendTime is the blend duration used when a node asks for an
	// inertial blend.
	InertialBlendTime float64

	inertialRequests int
}

func NewUpdateContext(dt float64) *UpdateContext {
	return &UpdateContext{DeltaTime: dt, InertialBlendTime: 0.2}
}

// RequestInertialization records that a node swapped clips and wants the
// pose discontinuity smoothed.
func (c *UpdateContext) RequestInertialization() {
	if c == nil {
		return
	}
	c.inertialRequests++
}

func (c *UpdateContext) InertialRequests() int {
	if c == nil {
		return 0
	}
	return c.inertialRequests
}

func (c *UpdateContext) dt() float64 {
	if c == nil {
		return 0
	}
	return c.DeltaTime
}

// StateNode is a state-machine state handle.
type StateNode struct {
	Name        string
	BlendingOut bool
}

func (s *StateNode) IsBlendingOut(*UpdateContext) bool {
	return s != nil && s.BlendingOut
}

// CurveSet is a flat name -> value view of the curves evaluated this tick.
type CurveSet map[string]float64

func (c CurveSet) CurveValue(name string) float64 {
	return c[name]
}
