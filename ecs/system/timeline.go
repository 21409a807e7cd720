package system

import (
	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
)

// TimelineSystem advances every entity's scripted tracks.
type TimelineSystem struct{}

func NewTimelineSystem() *TimelineSystem {
	return &TimelineSystem{}
}

func (s *TimelineSystem) Update(w *ecs.World, dt float64) {
	ecs.ForEach(w, component.TimelineComponent.Kind(), func(e ecs.Entity, tl *component.Timeline) {
		if !ecs.IsAlive(w, e) {
			return
		}
		tl.Advance(dt)
	})
}
