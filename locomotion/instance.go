package locomotion

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
)

// Owner is the locomotion layer's read-only view of the movement simulator.
type Owner interface {
	GroundOwner
	Rotation() common.Rotator
	Velocity() mgl64.Vec3
	LastUpdateVelocity() mgl64.Vec3
	CurrentAcceleration() mgl64.Vec3
	Braking() BrakingParams
	GravityZ() float64
	IsAnyMontagePlaying() bool
	IsRunningIntoWall() bool
}

// Instance is the per-character locomotion layer. It is not safe for
// concurrent use; ThreadSafeUpdate only promises not to touch anything
// outside the instance.
type Instance struct {
	settings Settings
	anims    AnimSet
	log      *slog.Logger

	owner   Owner
	sampler *Sampler
	turn    *TurnOffset
	ground  *GroundProbe
	curves  CurveSource

	sample      MotionSample
	kin         Kinematics
	firstUpdate bool

	// character state
	isOnGround     bool
	isJumping      bool
	isFalling      bool
	timeToJumpApex float64
	timeFalling    float64
	groundDistance float64

	// locomotion state machine data
	startDirection        CardinalDirection
	pivotInitialDirection CardinalDirection
	pivotStartingAccel    mgl64.Vec3
	lastPivotTime         float64
	timeAtPivotStop       float64

	strideWarpingStartAlpha float64
	strideWarpingCycleAlpha float64
	strideWarpingPivotAlpha float64
	landRecoveryAlpha       float64

	timeUntilNextIdleBreak float64
	idleBreakDelay         float64
	idleBreakIndex         int

	turnInPlaceAnimTime          float64
	turnInPlaceRotationDirection float64
	turnInPlaceRecoveryDirection float64
}

type Option func(*Instance)

func WithLogger(l *slog.Logger) Option {
	return func(in *Instance) { in.log = l }
}

func WithTracer(t Tracer) Option {
	return func(in *Instance) { in.ground = NewGroundProbe(t, in.settings.GroundTraceDistance) }
}

// NewInstance binds a locomotion layer to owner.
func NewInstance(owner Owner, settings Settings, anims AnimSet, opts ...Option) *Instance {
	in := &Instance{
		settings:       settings,
		anims:          anims,
		owner:          owner,
		sampler:        NewSampler(settings.CardinalDirectionDeadZone, settings.LeanAngleScale),
		turn:           NewTurnOffset(settings.RootYawOffsetClamp, settings.RootYawOffsetSpring),
		ground:         NewGroundProbe(nil, settings.GroundTraceDistance),
		firstUpdate:    true,
		groundDistance: -1,
		timeToJumpApex: -1,
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.log == nil {
		in.log = slog.New(slog.DiscardHandler)
	}
	return in
}

// SetAnimSet swaps the clip catalogue, e.g. after a hot reload.
func (in *Instance) SetAnimSet(anims AnimSet) {
	in.anims = anims
	if len(anims.IdleBreaks) > 0 {
		in.idleBreakIndex %= len(anims.IdleBreaks)
	} else {
		in.idleBreakIndex = 0
	}
}

// SetSettings applies new tunables. Runtime memory such as the current root
// yaw offset and direction hysteresis is kept.
func (in *Instance) SetSettings(s Settings) {
	in.settings = s
	in.sampler.deadZone = s.CardinalDirectionDeadZone
	in.sampler.leanScale = s.LeanAngleScale
	in.turn.clamp = s.RootYawOffsetClamp
	in.turn.spring = s.RootYawOffsetSpring
	in.ground.traceDistance = s.GroundTraceDistance
}

// SetCurveSource sets where named animation curve values are read from.
func (in *Instance) SetCurveSource(c CurveSource) { in.curves = c }

// Update is the ordinary pass: it samples the owner and probes the ground.
// frameID keys the ground-distance cache.
func (in *Instance) Update(dt float64, frameID uint64) {
	if in.owner == nil {
		return
	}
	o := in.owner

	in.sample = MotionSample{
		WorldLocation:      o.Location(),
		WorldRotation:      o.Rotation(),
		WorldVelocity:      o.Velocity(),
		WorldAcceleration:  o.CurrentAcceleration(),
		LastUpdateVelocity: o.LastUpdateVelocity(),
		IsFirstUpdate:      in.firstUpdate,
		MovementMode:       o.MovementMode(),
		Braking:            o.Braking(),
		GravityZ:           o.GravityZ(),
		IsAnyMontage:       o.IsAnyMontagePlaying(),
		IsRunningIntoWall:  o.IsRunningIntoWall(),
	}

	vz := in.sample.WorldVelocity[2]
	falling := in.sample.MovementMode == MoveFalling
	in.isOnGround = in.sample.MovementMode.OnGround()
	in.isJumping = falling && vz > 0
	in.isFalling = falling && vz <= 0

	in.timeToJumpApex = 0
	if in.isJumping {
		in.timeToJumpApex = common.SafeDivide(-vz, in.sample.GravityZ)
	}
	switch {
	case in.isFalling:
		in.timeFalling += dt
	case in.isJumping:
		in.timeFalling = 0
	}

	in.groundDistance = in.ground.Distance(o, frameID)
}

// ThreadSafeUpdate derives this tick's kinematics from the sample captured by
// Update and advances the root yaw offset.
func (in *Instance) ThreadSafeUpdate(dt float64) {
	in.kin = in.sampler.Sample(in.sample, in.turn.Offset(), dt)
	in.turn.Update(in.kin.YawDeltaSinceLastUpdate, dt)
	in.firstUpdate = false
}

// GroundDistance re-queries the probe; repeated calls within one frame reuse
// the cached trace.
func (in *Instance) GroundDistance(frameID uint64) float64 {
	return in.ground.Distance(in.owner, frameID)
}

func (in *Instance) Kinematics() Kinematics  { return in.kin }
func (in *Instance) Sample() MotionSample    { return in.sample }
func (in *Instance) RootYawOffset() float64  { return in.turn.Offset() }
func (in *Instance) TurnOffset() *TurnOffset { return in.turn }
func (in *Instance) Settings() Settings      { return in.settings }

// ShouldDistanceMatchStop reports whether a stop can be driven by the
// predicted stop distance: still moving with no input acceleration.
func (in *Instance) ShouldDistanceMatchStop() bool {
	return in.kin.HasVelocity && !in.kin.HasAcceleration
}

// PredictedStopDistance predicts how far the character slides before resting.
func (in *Instance) PredictedStopDistance() float64 {
	return common.Size2D(PredictStopLocation(in.sample.LastUpdateVelocity, in.sample.Braking))
}

// CanPlayIdleBreak reports whether idle breaks are available and nothing
// else is animating or moving the character.
func (in *Instance) CanPlayIdleBreak() bool {
	return len(in.anims.IdleBreaks) > 0 && !(in.sample.IsAnyMontage || in.kin.HasVelocity)
}

// IsMovingPerpendicularToInitialPivot reports whether the velocity direction
// left the axis the current pivot started on.
func (in *Instance) IsMovingPerpendicularToInitialPivot() bool {
	return MovingPerpendicular(in.pivotInitialDirection, in.kin.LocalVelocityDirection)
}
