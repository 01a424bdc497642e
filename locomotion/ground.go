package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// TraceHit is the result of a blocking line trace.
type TraceHit struct {
	Location mgl64.Vec3
	Distance float64
}

// Tracer runs collision line traces against the world.
type Tracer interface {
	LineTrace(start, end mgl64.Vec3) (TraceHit, bool)
}

// GroundOwner is what the probe needs to know about the character.
type GroundOwner interface {
	Location() mgl64.Vec3
	MovementMode() MovementMode
	CapsuleHalfHeight() float64
}

// GroundProbe measures the vertical distance to the floor at most once per
// frame; later queries in the same frame return the cached value.
type GroundProbe struct {
	tracer        Tracer
	traceDistance float64

	lastFrame uint64
	hasFrame  bool
	last      float64
}

func NewGroundProbe(tracer Tracer, traceDistance float64) *GroundProbe {
	return &GroundProbe{tracer: tracer, traceDistance: traceDistance}
}

// Distance returns the ground distance for frameID.
func (g *GroundProbe) Distance(owner GroundOwner, frameID uint64) float64 {
	if owner == nil || (g.hasFrame && frameID == g.lastFrame) {
		return g.last
	}

	mode := owner.MovementMode()
	if mode == MoveWalking {
		g.last = 0
	} else {
		halfHeight := owner.CapsuleHalfHeight()
		start := owner.Location()
		end := mgl64.Vec3{start[0], start[1], start[2] - g.traceDistance - halfHeight}

		g.last = g.traceDistance
		if mode == MoveNavWalking {
			g.last = 0
		} else if g.tracer != nil {
			if hit, ok := g.tracer.LineTrace(start, end); ok {
				g.last = math.Max(hit.Distance-halfHeight, 0)
			}
		}
	}

	g.lastFrame = frameID
	g.hasFrame = true
	return g.last
}
