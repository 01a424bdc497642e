// Package sim is a small character movement simulator. It integrates walking,
// braking, jumping and falling over a physics.World and exposes the result
// through the locomotion.Owner view.
package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/physics"
)

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (p Point) Vec3() mgl64.Vec3 { return mgl64.Vec3{p.X, p.Y, p.Z} }

// Config holds the movement constants of one character.
type Config struct {
	MaxWalkSpeed      float64                  `yaml:"max_walk_speed"`
	MaxAcceleration   float64                  `yaml:"max_acceleration"`
	Braking           locomotion.BrakingParams `yaml:"braking"`
	GravityZ          float64                  `yaml:"gravity_z"`
	JumpZVelocity     float64                  `yaml:"jump_z_velocity"`
	AirControl        float64                  `yaml:"air_control"`
	CapsuleHalfHeight float64                  `yaml:"capsule_half_height"`
	CapsuleRadius     float64                  `yaml:"capsule_radius"`
	MaxStepDown       float64                  `yaml:"max_step_down"`
	// RotationRate is how fast, in degrees per second, the character turns
	// toward its movement or facing direction.
	RotationRate float64 `yaml:"rotation_rate"`
	Start        Point   `yaml:"start"`
	StartYaw     float64 `yaml:"start_yaw"`
	KillZ        float64 `yaml:"kill_z"`
}

func DefaultConfig() Config {
	return Config{
		MaxWalkSpeed:    500,
		MaxAcceleration: 2400,
		Braking: locomotion.BrakingParams{
			BrakingFriction:            0,
			GroundFriction:             8,
			BrakingFrictionFactor:      1,
			BrakingDecelerationWalking: 1400,
		},
		GravityZ:          -980,
		JumpZVelocity:     700,
		AirControl:        0.35,
		CapsuleHalfHeight: 90,
		CapsuleRadius:     35,
		MaxStepDown:       45,
		RotationRate:      540,
		Start:             Point{Z: 90},
		KillZ:             -5000,
	}
}

// Input is one tick of player intent.
type Input struct {
	// Move is the desired movement direction in world space. Only X and Y
	// are used; magnitudes above one are normalised.
	Move mgl64.Vec3
	Jump bool
	// Strafe turns the character toward FacingYaw instead of its movement.
	Strafe    bool
	FacingYaw float64
	// Montage marks that a full-body one-shot is playing.
	Montage bool
}

// Character is the simulated body. It implements locomotion.Owner.
type Character struct {
	cfg   Config
	world *physics.World

	loc      mgl64.Vec3
	rot      common.Rotator
	vel      mgl64.Vec3
	lastVel  mgl64.Vec3
	accel    mgl64.Vec3
	mode     locomotion.MovementMode
	montage  bool
	intoWall bool
}

func NewCharacter(cfg Config, world *physics.World) *Character {
	c := &Character{cfg: cfg, world: world}
	c.Reset()
	return c
}

// Reset puts the character back at its start point, standing still.
func (c *Character) Reset() {
	c.loc = c.cfg.Start.Vec3()
	c.rot = common.Rotator{Yaw: c.cfg.StartYaw}
	c.vel = mgl64.Vec3{}
	c.lastVel = mgl64.Vec3{}
	c.accel = mgl64.Vec3{}
	c.mode = locomotion.MoveFalling
	c.intoWall = false
	c.montage = false
	c.snapToFloor()
}

func (c *Character) Config() Config { return c.cfg }

// SetConfig applies new movement constants without moving the character.
func (c *Character) SetConfig(cfg Config) { c.cfg = cfg }

// SetWorld swaps the collision geometry, e.g. after a level reload.
func (c *Character) SetWorld(w *physics.World) { c.world = w }

func (c *Character) Location() mgl64.Vec3                  { return c.loc }
func (c *Character) Rotation() common.Rotator              { return c.rot }
func (c *Character) Velocity() mgl64.Vec3                  { return c.vel }
func (c *Character) LastUpdateVelocity() mgl64.Vec3        { return c.lastVel }
func (c *Character) CurrentAcceleration() mgl64.Vec3       { return c.accel }
func (c *Character) Braking() locomotion.BrakingParams     { return c.cfg.Braking }
func (c *Character) GravityZ() float64                     { return c.cfg.GravityZ }
func (c *Character) MovementMode() locomotion.MovementMode { return c.mode }
func (c *Character) CapsuleHalfHeight() float64            { return c.cfg.CapsuleHalfHeight }
func (c *Character) IsAnyMontagePlaying() bool             { return c.montage }
func (c *Character) IsRunningIntoWall() bool               { return c.intoWall }

// Step advances the simulation by dt.
func (c *Character) Step(dt float64, in Input) {
	if dt <= 0 {
		return
	}
	c.montage = in.Montage
	c.lastVel = c.vel

	move := common.Flatten(in.Move)
	if move.Len() > 1 {
		move = move.Normalize()
	}
	c.accel = move.Mul(c.cfg.MaxAcceleration)

	switch c.mode {
	case locomotion.MoveWalking:
		if in.Jump {
			c.vel[2] = c.cfg.JumpZVelocity
			c.mode = locomotion.MoveFalling
			c.airVelocity(dt)
		} else {
			c.walkVelocity(dt)
		}
	default:
		c.airVelocity(dt)
	}

	c.rotate(dt, in)
	c.move(dt)

	if c.loc[2] < c.cfg.KillZ {
		c.Reset()
	}
}

// walkVelocity mirrors the braking rule the stop predictor assumes: friction
// proportional to speed plus a constant deceleration, never reversing.
func (c *Character) walkVelocity(dt float64) {
	v := common.Flatten(c.vel)
	if common.IsNearlyZero(common.SizeSquared2D(c.accel)) {
		c.vel = brake(v, c.cfg.Braking, dt)
		return
	}

	speed := v.Len()
	dir := common.SafeNormal(c.accel)
	friction := c.cfg.Braking.GroundFriction
	v = v.Sub(v.Sub(dir.Mul(speed)).Mul(math.Min(dt*friction, 1)))
	v = v.Add(c.accel.Mul(dt))
	if v.Len() > c.cfg.MaxWalkSpeed {
		v = v.Normalize().Mul(c.cfg.MaxWalkSpeed)
	}
	c.vel = v
}

func brake(v mgl64.Vec3, b locomotion.BrakingParams, dt float64) mgl64.Vec3 {
	if common.IsNearlyZero(v.Dot(v)) {
		return mgl64.Vec3{}
	}
	friction := b.EffectiveBrakingFriction()
	decel := math.Max(0, b.BrakingDecelerationWalking)
	old := v
	rev := common.SafeNormal(v).Mul(-decel)
	v = v.Add(v.Mul(-friction).Add(rev).Mul(dt))
	if v.Dot(old) <= 0 {
		return mgl64.Vec3{}
	}
	return v
}

func (c *Character) airVelocity(dt float64) {
	v := common.Flatten(c.vel)
	v = v.Add(c.accel.Mul(c.cfg.AirControl * dt))
	if v.Len() > c.cfg.MaxWalkSpeed {
		v = v.Normalize().Mul(c.cfg.MaxWalkSpeed)
	}
	c.vel = mgl64.Vec3{v[0], v[1], c.vel[2] + c.cfg.GravityZ*dt}
}

func (c *Character) rotate(dt float64, in Input) {
	target := c.rot.Yaw
	switch {
	case in.Strafe:
		target = in.FacingYaw
	case !common.IsNearlyZero(common.SizeSquared2D(c.accel)):
		target = common.Degrees(math.Atan2(c.accel[1], c.accel[0]))
	default:
		return
	}
	delta := common.NormalizeAxis(target - c.rot.Yaw)
	maxStep := c.cfg.RotationRate * dt
	if c.cfg.RotationRate <= 0 || math.Abs(delta) <= maxStep {
		c.rot.Yaw = common.NormalizeAxis(target)
		return
	}
	c.rot.Yaw = common.NormalizeAxis(c.rot.Yaw + math.Copysign(maxStep, delta))
}

func (c *Character) move(dt float64) {
	next := c.loc.Add(c.vel.Mul(dt))
	c.intoWall = false

	if c.world != nil && c.vel[0] != 0 {
		reach := c.cfg.CapsuleRadius + math.Abs(next[0]-c.loc[0])
		if d, ok := c.world.WallDistance(c.loc, c.vel[0], 0, reach); ok {
			allowed := math.Max(0, d-c.cfg.CapsuleRadius)
			next[0] = c.loc[0] + math.Copysign(allowed, c.vel[0])
			c.intoWall = c.accel[0]*c.vel[0] > 0
			c.vel[0] = 0
		}
	}

	c.loc = next
	c.resolveFloor()
}

func (c *Character) resolveFloor() {
	if c.world == nil {
		return
	}
	half := c.cfg.CapsuleHalfHeight
	floor, ok := c.world.FloorBelow(c.loc[0], c.loc[2])
	feet := c.loc[2] - half

	switch c.mode {
	case locomotion.MoveWalking:
		if ok && feet-floor <= c.cfg.MaxStepDown {
			c.loc[2] = floor + half
			c.vel[2] = 0
			return
		}
		c.mode = locomotion.MoveFalling
	default:
		if ok && c.vel[2] <= 0 && feet <= floor {
			c.loc[2] = floor + half
			c.vel[2] = 0
			c.mode = locomotion.MoveWalking
		}
	}
}

func (c *Character) snapToFloor() {
	if c.world == nil {
		return
	}
	if floor, ok := c.world.FloorBelow(c.loc[0], c.loc[2]); ok && c.loc[2]-c.cfg.CapsuleHalfHeight-floor <= c.cfg.MaxStepDown {
		c.loc[2] = floor + c.cfg.CapsuleHalfHeight
		c.mode = locomotion.MoveWalking
	}
}
