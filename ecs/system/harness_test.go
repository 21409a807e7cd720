package system

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/milk9111/mawarena/common"
	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
	"github.com/milk9111/mawarena/ecs/entity"
	"github.com/milk9111/mawarena/prefabs"
)

const frame = 1.0 / 60.0

type harness struct {
	t       *testing.T
	catalog *prefabs.Catalog
	w       *ecs.World
	combat  *Combat
	sched   *ecs.Scheduler
	player  ecs.Entity
	pc      *PlayerController
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	c, err := prefabs.LoadCatalog(prefabs.Loader{})
	require.NoError(t, err)

	w := ecs.NewWorld()
	combat := NewCombat(NewClipLibrary(c.Clips.Clips), nil)
	h := &harness{t: t, catalog: c, w: w, combat: combat}

	h.player, err = entity.NewPlayer(w, c.Maria)
	require.NoError(t, err)
	h.pc = NewPlayerController(w, h.player, combat, c.Maria, nil)

	h.sched = ecs.NewScheduler()
	h.sched.Add(NewPlayerSystem())
	h.sched.Add(NewAISystem(combat))
	h.sched.Add(NewMotionSystem())
	h.sched.Add(NewTimelineSystem())
	h.sched.Add(NewAnimationSystem())
	h.sched.Add(NewCleanupSystem())
	return h
}

func (h *harness) step(n int) {
	for i := 0; i < n; i++ {
		h.sched.Update(h.w, frame)
	}
}

func (h *harness) seconds(s float64) {
	h.step(int(s/frame + 0.5))
}

func (h *harness) enemy(archetype string, pos common.Vec3, seed uint64) ecs.Entity {
	h.t.Helper()
	e, err := entity.NewEnemyByArchetype(h.w, h.catalog, archetype, pos, h.player, seed)
	require.NoError(h.t, err)
	return e
}

func (h *harness) boss(pos common.Vec3, seed uint64) ecs.Entity {
	h.t.Helper()
	e, err := entity.NewBoss(h.w, h.catalog.Maw, pos, h.player, seed)
	require.NoError(h.t, err)
	return e
}

func (h *harness) fighter(e ecs.Entity) *component.Fighter {
	h.t.Helper()
	f, ok := ecs.Get(h.w, e, component.FighterComponent.Kind())
	require.True(h.t, ok)
	return f
}

func (h *harness) health(e ecs.Entity) *component.Health {
	h.t.Helper()
	hp, ok := ecs.Get(h.w, e, component.HealthComponent.Kind())
	require.True(h.t, ok)
	return hp
}

func (h *harness) position(e ecs.Entity) common.Vec3 {
	h.t.Helper()
	tr, ok := ecs.Get(h.w, e, component.TransformComponent.Kind())
	require.True(h.t, ok)
	return tr.Position
}

func (h *harness) playerState() *component.Player {
	h.t.Helper()
	p, ok := ecs.Get(h.w, h.player, component.PlayerComponent.Kind())
	require.True(h.t, ok)
	return p
}

func (h *harness) hit(target ecs.Entity, amount int) component.Outcome {
	return h.combat.Damage(h.w, target, component.Hit{Source: uint64(h.player), Amount: amount})
}

// events drains the queue and returns the combat events of type typ.
func (h *harness) events(typ component.CombatEventType) []component.CombatEvent {
	var out []component.CombatEvent
	for _, ev := range h.w.Events().Drain() {
		ce, ok := ev.Data.(component.CombatEvent)
		if ok && ce.Type == typ {
			out = append(out, ce)
		}
	}
	return out
}
