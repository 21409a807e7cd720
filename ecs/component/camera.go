package component

import (
	"math"

	"github.com/milk9111/mawarena/common"
)

// CameraRig is the third-person orbit state. Angles are degrees.
type CameraRig struct {
	Yaw          float64
	Pitch        float64
	MinPitch     float64
	MaxPitch     float64
	Distance     float64
	Sensitivity  float64
	Lag          float64
	SnapDistance float64
	LookHeight   float64

	Target      uint64
	Position    common.Vec3
	LookAt      common.Vec3
	Initialized bool
}

// HandleMouseMove applies a mouse delta and clamps pitch. Non-finite deltas
// are dropped.
func (c *CameraRig) HandleMouseMove(dx, dy float64) {
	if !finite(dx) || !finite(dy) {
		return
	}
	c.Yaw -= dx * c.Sensitivity
	c.Pitch = common.Clamp(c.Pitch-dy*c.Sensitivity, c.MinPitch, c.MaxPitch)
}

// Offset is the spherical offset from the target; yaw+180 puts the camera
// behind it.
func (c *CameraRig) Offset() common.Vec3 {
	yaw := common.Deg2Rad(c.Yaw + 180)
	pitch := common.Deg2Rad(c.Pitch)
	return common.Vec3{
		X: math.Sin(yaw) * math.Cos(pitch),
		Y: math.Sin(pitch),
		Z: math.Cos(yaw) * math.Cos(pitch),
	}.Scale(c.Distance)
}

func (c *CameraRig) Desired(target common.Vec3) common.Vec3 {
	return target.Add(c.Offset())
}

var CameraRigComponent = NewComponent[CameraRig]()

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
