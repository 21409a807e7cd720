package common

import "math"

// Vec3 is a world-space position or direction. Y is up.
type Vec3 struct {
	X, Y, Z float64
}

var Zero = Vec3{}

func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) LenSq() float64 { return v.Dot(v) }

func (v Vec3) Len() float64 { return math.Sqrt(v.LenSq()) }

// Planar drops the Y component.
func (v Vec3) Planar() Vec3 { return Vec3{X: v.X, Z: v.Z} }

// Normalize returns the unit vector, or the zero vector when v has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Lerp moves from v toward o by factor t.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{Lerp(v.X, o.X, t), Lerp(v.Y, o.Y, t), Lerp(v.Z, o.Z, t)}
}

func Distance(a, b Vec3) float64 { return a.Sub(b).Len() }

// PlanarDistance ignores height.
func PlanarDistance(a, b Vec3) float64 { return a.Sub(b).Planar().Len() }
