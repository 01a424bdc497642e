package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rotator is an orientation in degrees. X is forward, Y is right and Z is up;
// positive yaw turns forward toward right.
type Rotator struct {
	Pitch float64 `yaml:"pitch"`
	Yaw   float64 `yaml:"yaw"`
	Roll  float64 `yaml:"roll"`
}

// Matrix returns the rotation with the forward, right and up axes as rows.
func (r Rotator) Matrix() mgl64.Mat3 {
	sp, cp := math.Sincos(Radians(r.Pitch))
	sy, cy := math.Sincos(Radians(r.Yaw))
	sr, cr := math.Sincos(Radians(r.Roll))

	forward := mgl64.Vec3{cp * cy, cp * sy, sp}
	right := mgl64.Vec3{sr*sp*cy - cr*sy, sr*sp*sy + cr*cy, -sr * cp}
	up := mgl64.Vec3{-(cr*sp*cy + sr*sy), cy*sr - cr*sp*sy, cr * cp}
	return mgl64.Mat3FromRows(forward, right, up)
}

func (r Rotator) Forward() mgl64.Vec3 { return r.Matrix().Row(0) }
func (r Rotator) Right() mgl64.Vec3   { return r.Matrix().Row(1) }

// Unrotate transforms a world-space vector into this rotation's local space.
func (r Rotator) Unrotate(v mgl64.Vec3) mgl64.Vec3 {
	return r.Matrix().Mul3x1(v)
}

// Rotate transforms a local-space vector into world space.
func (r Rotator) Rotate(v mgl64.Vec3) mgl64.Vec3 {
	return r.Matrix().Transpose().Mul3x1(v)
}

// Flatten drops the vertical component.
func Flatten(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], 0}
}

func Size2D(v mgl64.Vec3) float64 {
	return math.Hypot(v[0], v[1])
}

func SizeSquared2D(v mgl64.Vec3) float64 {
	return v[0]*v[0] + v[1]*v[1]
}

// SafeNormal returns the unit vector of v, or zero when v is too short.
func SafeNormal(v mgl64.Vec3) mgl64.Vec3 {
	sq := v.Dot(v)
	if sq < SmallNumber {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / math.Sqrt(sq))
}

// SafeNormal2D returns the unit vector of v with the vertical component dropped.
func SafeNormal2D(v mgl64.Vec3) mgl64.Vec3 {
	return SafeNormal(Flatten(v))
}

// IsNearlyZeroVec reports whether every component is within KindaSmallNumber of zero.
func IsNearlyZeroVec(v mgl64.Vec3) bool {
	return math.Abs(v[0]) <= KindaSmallNumber &&
		math.Abs(v[1]) <= KindaSmallNumber &&
		math.Abs(v[2]) <= KindaSmallNumber
}

// CalculateDirection returns the signed angle in degrees between the rotation's
// forward axis and the horizontal direction of v. Positive values are to the
// right. Zero when v is nearly zero.
func CalculateDirection(v mgl64.Vec3, base Rotator) float64 {
	if IsNearlyZeroVec(v) {
		return 0
	}
	m := base.Matrix()
	dir := SafeNormal2D(v)
	deg := Degrees(math.Acos(Clamp(m.Row(0).Dot(dir), -1, 1)))
	if m.Row(1).Dot(dir) < 0 {
		deg = -deg
	}
	return deg
}
