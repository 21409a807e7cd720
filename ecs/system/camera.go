package system

import (
	"github.com/milk9111/mawarena/common"
	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
)

// CameraSystem follows each rig's target: snap on large jumps, exponential
// smoothing otherwise.
type CameraSystem struct{}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

func (cs *CameraSystem) Update(w *ecs.World, dt float64) {
	ecs.ForEach(w, component.CameraRigComponent.Kind(), func(_ ecs.Entity, rig *component.CameraRig) {
		target := ecs.Entity(rig.Target)
		if !ecs.IsAlive(w, target) {
			return
		}
		tt, ok := ecs.Get(w, target, component.TransformComponent.Kind())
		if !ok {
			return
		}
		FollowTarget(rig, tt.Position)
	})
}

// FollowTarget moves the rig one frame toward its desired position behind
// target.
func FollowTarget(rig *component.CameraRig, target common.Vec3) {
	desired := rig.Desired(target)
	if !rig.Initialized || common.Distance(rig.Position, desired) > rig.SnapDistance {
		rig.Position = desired
		rig.Initialized = true
	} else {
		rig.Position = rig.Position.Lerp(desired, 1-rig.Lag)
	}
	rig.LookAt = target.Add(common.Vec3{Y: rig.LookHeight})
}
