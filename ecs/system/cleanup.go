package system

import (
	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
)

// CleanupSystem destroys entities marked for despawn and emits a despawned
// event for each.
type CleanupSystem struct{}

func NewCleanupSystem() *CleanupSystem {
	return &CleanupSystem{}
}

func (s *CleanupSystem) Update(w *ecs.World, _ float64) {
	ecs.ForEach(w, component.DespawnComponent.Kind(), func(e ecs.Entity, d *component.Despawn) {
		ev := component.CombatEvent{Type: component.CombatEventDespawned, Entity: uint64(e), Clip: d.Reason}
		if p, ok := ecs.Get(w, e, component.ParticipantComponent.Kind()); ok {
			ev.Archetype = p.Archetype
		}
		if ecs.DestroyEntity(w, e) {
			w.Events().Push(ecs.Event{Type: string(ev.Type), Data: ev})
		}
	})
}
