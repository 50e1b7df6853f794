package types

import (
	"math"
	"time"
)

type DroneID string

// Vec3 is a position or velocity in meters (or m/s).
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

func NewVec3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

func (v1 Vec3) DistanceTo(v2 Vec3) float64 {
	dx := v1.X - v2.X
	dy := v1.Y - v2.Y
	dz := v1.Z - v2.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (v1 Vec3) Add(v2 Vec3) Vec3 {
	return Vec3{v1.X + v2.X, v1.Y + v2.Y, v1.Z + v2.Z}
}

func (v1 Vec3) Sub(v2 Vec3) Vec3 {
	return Vec3{v1.X - v2.X, v1.Y - v2.Y, v1.Z - v2.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Lerp returns a at ratio 0 and b at ratio 1 exactly.
func Lerp(a, b Vec3, ratio float64) Vec3 {
	return Vec3{
		X: a.X*(1-ratio) + b.X*ratio,
		Y: a.Y*(1-ratio) + b.Y*ratio,
		Z: a.Z*(1-ratio) + b.Z*ratio,
	}
}

// HeadingTo returns the compass bearing in degrees from v1 to v2 in the
// x/y plane, with +y as north.
func (v1 Vec3) HeadingTo(v2 Vec3) float64 {
	dx := v2.X - v1.X
	dy := v2.Y - v1.Y
	h := math.Atan2(dx, dy) * 180.0 / math.Pi
	return math.Mod(h+360, 360)
}

// Seconds converts fractional seconds to a Duration, rounded to the
// nearest nanosecond.
func Seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
