// Package physics holds the static collision geometry the character moves
// over. The floor is a side profile in the vertical X/Z plane, extruded along
// Y, so every query ignores the Y component.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/locomotion/locomotion"
)

const (
	collisionTypeFloor cp.CollisionType = iota + 1
	collisionTypeWall
)

// Platform is a solid block spanning [Left,Right] along X and [Bottom,Top]
// along Z.
type Platform struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Top    float64 `yaml:"top"`
}

// Wall is a thin vertical barrier at X running from Bottom to Top.
type Wall struct {
	X      float64 `yaml:"x"`
	Bottom float64 `yaml:"bottom"`
	Top    float64 `yaml:"top"`
}

type Level struct {
	Platforms []Platform `yaml:"platforms"`
	Walls     []Wall     `yaml:"walls"`
}

type World struct {
	space  *cp.Space
	level  Level
	bounds cp.BB
}

func NewWorld(level Level) *World {
	space := cp.NewSpace()
	space.Iterations = 20
	w := &World{space: space, level: level}
	w.buildStaticShapes()
	return w
}

func (w *World) buildStaticShapes() {
	first := true
	grow := func(bb cp.BB) {
		if first {
			w.bounds = bb
			first = false
			return
		}
		w.bounds = w.bounds.Merge(bb)
	}

	for _, p := range w.level.Platforms {
		if p.Right <= p.Left || p.Top <= p.Bottom {
			continue
		}
		bb := cp.BB{L: p.Left, B: p.Bottom, R: p.Right, T: p.Top}
		shape := cp.NewBox2(w.space.StaticBody, bb, 0)
		shape.SetFriction(0.8)
		shape.SetCollisionType(collisionTypeFloor)
		w.space.AddShape(shape)
		grow(bb)
	}
	for _, wall := range w.level.Walls {
		if wall.Top <= wall.Bottom {
			continue
		}
		a := cp.Vector{X: wall.X, Y: wall.Bottom}
		b := cp.Vector{X: wall.X, Y: wall.Top}
		shape := cp.NewSegment(w.space.StaticBody, a, b, 1)
		shape.SetFriction(0.8)
		shape.SetCollisionType(collisionTypeWall)
		w.space.AddShape(shape)
		grow(cp.BB{L: wall.X, B: wall.Bottom, R: wall.X, T: wall.Top})
	}
}

func (w *World) Level() Level { return w.level }

// Bounds returns the extent of all geometry as (minX, minZ, maxX, maxZ).
func (w *World) Bounds() (minX, minZ, maxX, maxZ float64) {
	return w.bounds.L, w.bounds.B, w.bounds.R, w.bounds.T
}

func toPlane(v mgl64.Vec3) cp.Vector {
	return cp.Vector{X: v[0], Y: v[2]}
}

// LineTrace returns the first blocking hit between start and end.
func (w *World) LineTrace(start, end mgl64.Vec3) (locomotion.TraceHit, bool) {
	a, b := toPlane(start), toPlane(end)
	if a.Equal(b) {
		return locomotion.TraceHit{}, false
	}
	info := w.space.SegmentQueryFirst(a, b, 0, cp.SHAPE_FILTER_ALL)
	if info.Shape == nil {
		return locomotion.TraceHit{}, false
	}
	hit := start.Add(end.Sub(start).Mul(info.Alpha))
	return locomotion.TraceHit{
		Location: hit,
		Distance: a.Distance(b) * info.Alpha,
	}, true
}

// FloorBelow returns the height of the first surface at or below z at x.
func (w *World) FloorBelow(x, z float64) (float64, bool) {
	start := mgl64.Vec3{x, 0, z}
	hit, ok := w.LineTrace(start, mgl64.Vec3{x, 0, z - 1e6})
	if !ok {
		return 0, false
	}
	return hit.Location[2], true
}

// WallDistance returns how far a character at pos can travel along X in the
// direction of sign(dirX) before touching a wall or platform side, measured
// at the given height above pos. The second result is false when nothing is
// within maxDist.
func (w *World) WallDistance(pos mgl64.Vec3, dirX, height, maxDist float64) (float64, bool) {
	if dirX == 0 || maxDist <= 0 {
		return 0, false
	}
	z := pos[2] + height
	start := mgl64.Vec3{pos[0], 0, z}
	end := mgl64.Vec3{pos[0] + math.Copysign(maxDist, dirX), 0, z}
	hit, ok := w.LineTrace(start, end)
	if !ok {
		return 0, false
	}
	return hit.Distance, true
}
