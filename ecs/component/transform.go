package component

import "github.com/milk9111/mawarena/common"

// Transform is a world position plus yaw in degrees. Pitch and roll are not
// gameplay state.
type Transform struct {
	Position common.Vec3
	Yaw      float64
}

var TransformComponent = NewComponent[Transform]()
