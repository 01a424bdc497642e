package main

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/sim"
)

// facingRate is how fast Q/E swing the strafe facing, in degrees per second.
const facingRate = 180.0

// KeyboardInput polls the keyboard and gamepad for character controls.
//
// A/D or the left stick move along X, W/S along Y (into and out of the
// screen). Holding shift strafes toward a facing swung with Q/E. Space
// jumps and M holds a montage.
type KeyboardInput struct {
	facing float64
	last   sim.Input
}

func NewKeyboardInput() *KeyboardInput {
	return &KeyboardInput{}
}

func (k *KeyboardInput) Next(dt float64) (sim.Input, error) {
	var move mgl64.Vec3
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		move[0] -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		move[0] += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		move[1] += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		move[1] -= 1
	}

	jump := inpututil.IsKeyJustPressed(ebiten.KeySpace)

	if ids := ebiten.GamepadIDs(); len(ids) > 0 {
		gid := ids[0]
		x := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		y := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickVertical)
		if x*x+y*y > 0.09 {
			move = mgl64.Vec3{x, -y, 0}
		}
		if inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom) {
			jump = true
		}
	}

	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		k.facing += facingRate * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		k.facing -= facingRate * dt
	}
	k.facing = common.NormalizeAxis(k.facing)

	k.last = sim.Input{
		Move:      move,
		Jump:      jump,
		Strafe:    ebiten.IsKeyPressed(ebiten.KeyShiftLeft),
		FacingYaw: k.facing,
		Montage:   ebiten.IsKeyPressed(ebiten.KeyM),
	}
	return k.last, nil
}
