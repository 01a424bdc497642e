// Package locomotion derives per-frame kinematic signals for a playable
// character and implements the enter/update callbacks of its locomotion
// animation states.
//
// Each tick runs in two passes. Instance.Update samples the owning character
// and may touch shared game objects; Instance.ThreadSafeUpdate derives every
// signal from that sample using only the instance's own state, so it can run
// concurrently with other characters' thread-safe passes.
package locomotion

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/anim"
	"github.com/milk9111/locomotion/common"
)

type CardinalDirection uint8

const (
	Forward CardinalDirection = iota
	Backward
	Left
	Right
)

func (d CardinalDirection) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "invalid"
	}
}

// RootYawOffsetMode selects how the root yaw offset evolves during a tick.
type RootYawOffsetMode uint8

const (
	BlendOut RootYawOffsetMode = iota
	Hold
	Accumulate
)

func (m RootYawOffsetMode) String() string {
	switch m {
	case BlendOut:
		return "blend_out"
	case Hold:
		return "hold"
	case Accumulate:
		return "accumulate"
	default:
		return "invalid"
	}
}

type MovementMode uint8

const (
	MoveNone MovementMode = iota
	MoveWalking
	MoveNavWalking
	MoveFalling
	MoveFlying
	MoveSwimming
)

func (m MovementMode) String() string {
	switch m {
	case MoveWalking:
		return "walking"
	case MoveNavWalking:
		return "nav_walking"
	case MoveFalling:
		return "falling"
	case MoveFlying:
		return "flying"
	case MoveSwimming:
		return "swimming"
	default:
		return "none"
	}
}

// OnGround reports whether the mode keeps the character on a walkable floor.
func (m MovementMode) OnGround() bool {
	return m == MoveWalking || m == MoveNavWalking
}

// CardinalClips holds one clip per cardinal direction.
type CardinalClips struct {
	Forward  *anim.Clip
	Backward *anim.Clip
	Left     *anim.Clip
	Right    *anim.Clip
}

// AnimSet is the clip catalogue a locomotion instance selects from.
type AnimSet struct {
	Idle       *anim.Clip
	IdleBreaks []*anim.Clip

	TurnInPlaceLeft  *anim.Clip
	TurnInPlaceRight *anim.Clip

	JogStart CardinalClips
	Jog      CardinalClips
	JogStop  CardinalClips
	JogPivot CardinalClips

	JumpStart            *anim.Clip
	JumpStartLoop        *anim.Clip
	JumpApex             *anim.Clip
	JumpFallLand         *anim.Clip
	JumpFallLoop         *anim.Clip
	JumpRecoveryAdditive *anim.Clip
}

// MotionSample is the owner state captured once per tick, after the movement
// simulation has advanced.
type MotionSample struct {
	WorldLocation      mgl64.Vec3
	WorldRotation      common.Rotator
	WorldVelocity      mgl64.Vec3
	WorldAcceleration  mgl64.Vec3
	LastUpdateVelocity mgl64.Vec3
	IsFirstUpdate      bool

	MovementMode      MovementMode
	Braking           BrakingParams
	GravityZ          float64
	IsAnyMontage      bool
	IsRunningIntoWall bool
}

// BrakingParams are the movement simulator's ground braking constants.
type BrakingParams struct {
	UseSeparateBrakingFriction bool    `yaml:"use_separate_braking_friction"`
	BrakingFriction            float64 `yaml:"braking_friction"`
	GroundFriction             float64 `yaml:"ground_friction"`
	BrakingFrictionFactor      float64 `yaml:"braking_friction_factor"`
	BrakingDecelerationWalking float64 `yaml:"braking_deceleration_walking"`
}

// Kinematics are the signals derived from one MotionSample.
type Kinematics struct {
	LocalVelocity2D     mgl64.Vec3
	LocalAcceleration2D mgl64.Vec3

	DisplacementSinceLastUpdate float64
	DisplacementSpeed           float64
	YawDeltaSinceLastUpdate     float64
	AdditiveLeanAngle           float64

	LocalVelocityDirectionAngle           float64
	LocalVelocityDirectionAngleWithOffset float64
	LocalVelocityDirection                CardinalDirection
	LocalVelocityDirectionNoOffset        CardinalDirection

	PivotDirection2D                  mgl64.Vec3
	CardinalDirectionFromAcceleration CardinalDirection

	HasVelocity     bool
	HasAcceleration bool
}
