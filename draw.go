package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/prefabs"
	"golang.org/x/image/colornames"
)

// insetSize is the side of the top-down velocity inset in pixels.
const insetSize = 160

// toScreen maps a world X/Z point to screen space with the camera centred
// on the character.
func (v *Viewer) toScreen(x, z float64) (float32, float32) {
	cam := v.char.Body.Location()
	sx := (x-cam[0])*v.spec.Scale + float64(v.spec.Width)/2
	sy := float64(v.spec.Height)/2 - (z-cam[2])*v.spec.Scale
	return float32(sx), float32(sy)
}

func (v *Viewer) drawScene(screen *ebiten.Image) {
	screen.Fill(prefabs.ColorOr(v.spec.Background, colornames.Black))

	floorColor := prefabs.ColorOr(v.spec.Floor, colornames.Slategray)
	for _, p := range v.world.Level.Platforms {
		x0, y0 := v.toScreen(p.Left, p.Top)
		x1, y1 := v.toScreen(p.Right, p.Bottom)
		vector.FillRect(screen, x0, y0, x1-x0, y1-y0, floorColor, false)
	}
	for _, w := range v.world.Level.Walls {
		x0, y0 := v.toScreen(w.X, w.Bottom)
		x1, y1 := v.toScreen(w.X, w.Top)
		vector.StrokeLine(screen, x0, y0, x1, y1, 3, floorColor, true)
	}

	for i := 1; i < len(v.trail); i++ {
		a, b := v.trail[i-1], v.trail[i]
		x0, y0 := v.toScreen(a[0], a[2])
		x1, y1 := v.toScreen(b[0], b[2])
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, colornames.Dimgray, true)
	}

	body := v.char.Body
	cfg := body.Config()
	loc := body.Location()
	charColor := prefabs.ColorOr(v.spec.Character, colornames.Gold)
	x0, y0 := v.toScreen(loc[0]-cfg.CapsuleRadius, loc[2]+cfg.CapsuleHalfHeight)
	x1, y1 := v.toScreen(loc[0]+cfg.CapsuleRadius, loc[2]-cfg.CapsuleHalfHeight)
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 2, charColor, true)

	// facing tick at head height
	fwd := body.Rotation().Forward()
	hx, hy := v.toScreen(loc[0], loc[2]+cfg.CapsuleHalfHeight*0.6)
	vector.StrokeLine(screen, hx, hy, hx+float32(fwd[0]*cfg.CapsuleRadius*v.spec.Scale*1.5), hy, 2, charColor, true)

	sig := v.char.Anim.Signals()
	cx, cy := v.toScreen(loc[0], loc[2])
	vel := body.Velocity()
	vector.StrokeLine(screen, cx, cy, cx+float32(vel[0]*v.spec.Scale*0.5), cy-float32(vel[2]*v.spec.Scale*0.5), 2,
		prefabs.ColorOr(v.spec.Velocity, colornames.Deepskyblue), true)
	acc := body.CurrentAcceleration()
	vector.StrokeLine(screen, cx, cy, cx+float32(acc[0]*v.spec.Scale*0.1), cy, 2,
		prefabs.ColorOr(v.spec.Acceleration, colornames.Tomato), true)

	if sig.ShouldDistanceMatchStop {
		dir := common.SafeNormal(common.Flatten(vel))
		stop := loc.Add(dir.Mul(sig.PredictedStopDistance))
		sx, sy := v.toScreen(stop[0], stop[2]-cfg.CapsuleHalfHeight)
		vector.FillRect(screen, sx-3, sy-12, 6, 12, prefabs.ColorOr(v.spec.StopMarker, colornames.Limegreen), false)
	}

	v.drawInset(screen)
}

// drawInset draws the character's local velocity and acceleration from
// above, with the root yaw offset as a rotated heading line.
func (v *Viewer) drawInset(screen *ebiten.Image) {
	sig := v.char.Anim.Signals()
	ox := float32(v.spec.Width - insetSize - 10)
	oy := float32(10)
	vector.FillRect(screen, ox, oy, insetSize, insetSize, color.NRGBA{A: 160}, false)
	vector.StrokeRect(screen, ox, oy, insetSize, insetSize, 1, colornames.Gray, false)

	cx, cy := ox+insetSize/2, oy+insetSize/2
	half := float64(insetSize) / 2

	// local space: +X forward is up on screen, +Y right is right
	plot := func(local mgl64.Vec3, max float64, c color.Color) {
		if max <= 0 {
			return
		}
		s := half * 0.9 / max
		vector.StrokeLine(screen, cx, cy, cx+float32(local[1]*s), cy-float32(local[0]*s), 2, c, true)
	}
	maxSpeed := v.char.Body.Config().MaxWalkSpeed
	plot(sig.LocalVelocity2D, maxSpeed, prefabs.ColorOr(v.spec.Velocity, colornames.Deepskyblue))
	plot(sig.LocalAcceleration2D, v.char.Body.Config().MaxAcceleration, prefabs.ColorOr(v.spec.Acceleration, colornames.Tomato))

	rad := common.Radians(sig.RootYawOffset)
	r := float32(half * 0.8)
	vector.StrokeLine(screen, cx, cy, cx+r*float32(math.Sin(rad)), cy-r*float32(math.Cos(rad)), 1, colornames.Violet, true)
}

func (v *Viewer) drawHUD(screen *ebiten.Image) {
	sig := v.char.Anim.Signals()
	clip, clipTime := v.char.Graph.ActiveClip()
	mode := "keyboard"
	if v.demo {
		mode = "demo " + v.scenarioName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "FPS %.1f  %s  frame %d\n", ebiten.ActualFPS(), mode, v.sys.Frame())
	fmt.Fprintf(&b, "state %s (%.2fs)  clip %s @ %.2f\n", v.char.Graph.Current(), v.char.Graph.TimeInState(), clip, clipTime)
	fmt.Fprintf(&b, "speed %.0f  dir %s (no offset %s)  angle %.1f\n",
		sig.DisplacementSpeed, sig.LocalVelocityDirection, sig.LocalVelocityDirectionNoOffset, sig.LocalVelocityDirectionAngle)
	fmt.Fprintf(&b, "accel %v  from accel %s  lean %.2f\n", sig.HasAcceleration, sig.CardinalDirectionFromAcceleration, sig.AdditiveLeanAngle)
	fmt.Fprintf(&b, "root yaw %.1f (%s)  turn curve %.1f\n", sig.RootYawOffset, sig.RootYawOffsetMode, sig.TurnYawCurveValue)
	fmt.Fprintf(&b, "stop dist %.1f  match stop %v  pivot t %.2f  perpendicular %v\n",
		sig.PredictedStopDistance, sig.ShouldDistanceMatchStop, sig.LastPivotTime, sig.MovingPerpendicular)
	fmt.Fprintf(&b, "ground %v  jumping %v  falling %v  ground dist %.0f  apex %.2f\n",
		sig.IsOnGround, sig.IsJumping, sig.IsFalling, sig.GroundDistance, sig.TimeToJumpApex)
	fmt.Fprintf(&b, "stride start %.2f cycle %.2f pivot %.2f  land %.2f  idle break %.1f\n",
		sig.StrideWarpingStartAlpha, sig.StrideWarpingCycleAlpha, sig.StrideWarpingPivotAlpha, sig.LandRecoveryAlpha, sig.TimeUntilNextIdleBreak)
	b.WriteString("\nA/D W/S move  space jump  shift+Q/E strafe  M montage  R reset  tab demo  esc pause\n")
	if v.lastErr != "" {
		b.WriteString("\nerror: " + v.lastErr + "\n")
	}
	ebitenutil.DebugPrint(screen, b.String())
}
