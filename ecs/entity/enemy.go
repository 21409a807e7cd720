package entity

import (
	"fmt"

	"github.com/milk9111/mawarena/common"
	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
	"github.com/milk9111/mawarena/prefabs"
)

// regularDeathDelay applies when a spec leaves death_delay unset.
const regularDeathDelay = 1.5

// NewEnemy spawns a regular enemy from its archetype spec. target is the weak
// handle it hunts; seed feeds its private random source.
func NewEnemy(w *ecs.World, spec prefabs.EnemySpec, pos common.Vec3, target ecs.Entity, seed uint64) (ecs.Entity, error) {
	clips, err := parseClips(spec.Name, spec.Clips)
	if err != nil {
		return 0, err
	}

	entity := ecs.CreateEntity(w)

	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{Position: pos}); err != nil {
		return 0, fmt.Errorf("enemy: add transform: %w", err)
	}

	health := component.NewHealth(spec.HP)
	if err := ecs.Add(w, entity, component.HealthComponent.Kind(), &health); err != nil {
		return 0, fmt.Errorf("enemy: add health: %w", err)
	}

	if err := ecs.Add(w, entity, component.ParticipantComponent.Kind(), &component.Participant{
		Team:       component.TeamEnemy,
		Class:      component.ClassMinion,
		Archetype:  component.Archetype(spec.Name),
		Damageable: true,
	}); err != nil {
		return 0, fmt.Errorf("enemy: add participant: %w", err)
	}

	if err := ecs.Add(w, entity, component.FighterComponent.Kind(), &component.Fighter{
		State:          component.StateIdle,
		AttackPower:    spec.AttackPower,
		AttackRange:    spec.AttackRange,
		AttackCooldown: spec.AttackCooldown,
		Target:         uint64(target),
		Clips:          clips,
	}); err != nil {
		return 0, fmt.Errorf("enemy: add fighter: %w", err)
	}

	deathDelay := spec.DeathDelay
	if deathDelay == 0 {
		deathDelay = regularDeathDelay
	}
	if err := ecs.Add(w, entity, component.BrainComponent.Kind(), &component.Brain{
		Archetype:       component.Archetype(spec.Name),
		DetectionRange:  spec.DetectionRange,
		WalkSpeed:       spec.Speed,
		RunSpeed:        spec.Speed,
		WindUp:          spec.WindUp,
		BackSwing:       spec.BackSwing,
		StrikeTolerance: spec.StrikeTolerance,
		StrikeInclusive: spec.StrikeInclusive,
		HitRecovery:     spec.HitRecovery,
		RetreatDistance: spec.Retreat.Distance,
		RetreatDuration: spec.Retreat.Duration,
		BlockChance:     spec.Block.Chance,
		BlockDuration:   spec.Block.Duration,
		DeathDelay:      deathDelay,
		Rand:            component.NewRand(seed),
	}); err != nil {
		return 0, fmt.Errorf("enemy: add brain: %w", err)
	}

	if err := ecs.Add(w, entity, component.TimelineComponent.Kind(), &component.Timeline{}); err != nil {
		return 0, fmt.Errorf("enemy: add timeline: %w", err)
	}

	if err := ecs.Add(w, entity, component.AnimatorComponent.Kind(), &component.Animator{
		Clip:  clips[component.StateIdle],
		Loop:  true,
		Alpha: 1,
	}); err != nil {
		return 0, fmt.Errorf("enemy: add animator: %w", err)
	}

	return entity, nil
}

// NewEnemyByArchetype looks the archetype up in the catalog.
func NewEnemyByArchetype(w *ecs.World, catalog *prefabs.Catalog, archetype string, pos common.Vec3, target ecs.Entity, seed uint64) (ecs.Entity, error) {
	spec, err := catalog.Enemy(archetype)
	if err != nil {
		return 0, err
	}
	return NewEnemy(w, spec, pos, target, seed)
}

// ApplyEnemySpec refreshes a live enemy's tuning without touching its
// runtime state. Current hp keeps its fraction of the new maximum.
func ApplyEnemySpec(w *ecs.World, e ecs.Entity, spec prefabs.EnemySpec) error {
	if !ecs.IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}
	clips, err := parseClips(spec.Name, spec.Clips)
	if err != nil {
		return err
	}
	if f, ok := ecs.Get(w, e, component.FighterComponent.Kind()); ok {
		f.AttackPower = spec.AttackPower
		f.AttackRange = spec.AttackRange
		f.AttackCooldown = spec.AttackCooldown
		f.Clips = clips
	}
	if b, ok := ecs.Get(w, e, component.BrainComponent.Kind()); ok {
		b.DetectionRange = spec.DetectionRange
		b.WalkSpeed = spec.Speed
		b.RunSpeed = spec.Speed
		b.WindUp = spec.WindUp
		b.BackSwing = spec.BackSwing
		b.StrikeTolerance = spec.StrikeTolerance
		b.StrikeInclusive = spec.StrikeInclusive
		b.HitRecovery = spec.HitRecovery
		b.RetreatDistance = spec.Retreat.Distance
		b.RetreatDuration = spec.Retreat.Duration
		b.BlockChance = spec.Block.Chance
		b.BlockDuration = spec.Block.Duration
		if spec.DeathDelay > 0 {
			b.DeathDelay = spec.DeathDelay
		}
	}
	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && spec.HP > 0 && h.Max > 0 && h.Current > 0 {
		frac := h.Fraction()
		h.Max = spec.HP
		h.Current = max(1, int(frac*float64(spec.HP)))
	}
	return nil
}
