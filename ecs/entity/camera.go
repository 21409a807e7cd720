package entity

import (
	"fmt"

	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
	"github.com/milk9111/mawarena/prefabs"
)

// NewCamera spawns the orbit rig following target.
func NewCamera(w *ecs.World, spec prefabs.CameraSpec, target ecs.Entity) (ecs.Entity, error) {
	camera := ecs.CreateEntity(w)

	sensitivity := spec.Sensitivity
	if sensitivity == 0 {
		sensitivity = 0.2
	}
	maxPitch := spec.MaxPitch
	if maxPitch == 0 && spec.MinPitch == 0 {
		maxPitch = 80
	}
	if err := ecs.Add(w, camera, component.CameraRigComponent.Kind(), &component.CameraRig{
		Yaw:          spec.Yaw,
		Pitch:        spec.Pitch,
		MinPitch:     spec.MinPitch,
		MaxPitch:     maxPitch,
		Distance:     spec.Distance,
		Sensitivity:  sensitivity,
		Lag:          spec.Lag,
		SnapDistance: spec.SnapDistance,
		LookHeight:   spec.LookHeight,
		Target:       uint64(target),
	}); err != nil {
		return 0, fmt.Errorf("camera: add camera rig: %w", err)
	}

	return camera, nil
}
