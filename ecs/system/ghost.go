package system

import (
	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
)

// ghostClipFallback is used when the clone's clip length is unknown.
const ghostClipFallback = 1.0

// StartGhost plays the clone's attack clip and schedules its one strike and
// its removal when the clip ends.
func StartGhost(w *ecs.World, e ecs.Entity, combat *Combat) {
	g, ok := ecs.Get(w, e, component.GhostComponent.Kind())
	if !ok {
		return
	}
	_ = combat.play(w, e, g.Clip, false)
	length := clipLength(combat.Animation(), g.Clip, ghostClipFallback)
	rest := length - g.DamageDelay
	if rest < 0 {
		rest = 0
	}

	timelineOf(w, e).Run("ghost", component.TagLifecycle,
		component.Step{Wait: g.DamageDelay, Label: "strike", Do: func() {
			t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
			if !ok || g.Struck {
				return
			}
			g.Struck = true
			combat.DamageArea(w, e, t.Position, AreaRadii{Minion: g.MinionRadius, Boss: g.BossRadius}, g.Damage)
		}},
		component.Step{Wait: rest, Label: "vanish", Do: func() {
			_ = ecs.Add(w, e, component.DespawnComponent.Kind(), &component.Despawn{Reason: "ghost_done"})
		}},
	)
}
