package system

import (
	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
)

// MotionSystem drives eased displacements. A finished motion is removed
// before its OnDone runs, so OnDone may start another.
type MotionSystem struct{}

func NewMotionSystem() *MotionSystem {
	return &MotionSystem{}
}

func (s *MotionSystem) Update(w *ecs.World, dt float64) {
	ecs.ForEach2(w, component.MotionComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, m *component.Motion, t *component.Transform) {
		m.Elapsed += dt
		t.Position = m.Sample()
		if m.Progress() < 1 {
			return
		}
		ecs.Remove(w, e, component.MotionComponent.Kind())
		if m.OnDone != nil {
			m.OnDone()
		}
	})
}
