package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EaseOutQuad maps t in [0,1] to 1-(1-t)^2. t is clamped first.
func EaseOutQuad(t float64) float64 {
	t = Clamp(t, 0, 1)
	return 1 - (1-t)*(1-t)
}

func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180
}

func Rad2Deg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// WrapDegrees folds an angle delta into (-180, 180].
func WrapDegrees(d float64) float64 {
	for d > 180 {
		d -= 360
	}
	for d <= -180 {
		d += 360
	}
	return d
}

// YawOf returns the Y rotation in degrees that faces along dir (atan2(x, z)).
func YawOf(dir Vec3) float64 {
	return Rad2Deg(math.Atan2(dir.X, dir.Z))
}

// Forward returns the planar unit vector for a yaw in degrees.
func Forward(yawDeg float64) Vec3 {
	r := Deg2Rad(yawDeg)
	return Vec3{X: math.Sin(r), Z: math.Cos(r)}
}
