package entity

import (
	"fmt"

	"github.com/milk9111/mawarena/common"
	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
	"github.com/milk9111/mawarena/prefabs"
)

// NewBoss spawns the Maw facing target.
func NewBoss(w *ecs.World, spec prefabs.BossSpec, pos common.Vec3, target ecs.Entity, seed uint64) (ecs.Entity, error) {
	clips, err := parseClips(spec.Name, spec.Clips)
	if err != nil {
		return 0, err
	}

	boss := ecs.CreateEntity(w)

	if err := ecs.Add(w, boss, component.TransformComponent.Kind(), &component.Transform{Position: pos}); err != nil {
		return 0, fmt.Errorf("boss: add transform: %w", err)
	}

	health := component.NewHealth(spec.HP)
	if err := ecs.Add(w, boss, component.HealthComponent.Kind(), &health); err != nil {
		return 0, fmt.Errorf("boss: add health: %w", err)
	}

	if err := ecs.Add(w, boss, component.ParticipantComponent.Kind(), &component.Participant{
		Team:       component.TeamEnemy,
		Class:      component.ClassBoss,
		Archetype:  component.ArchetypeMaw,
		Damageable: true,
	}); err != nil {
		return 0, fmt.Errorf("boss: add participant: %w", err)
	}

	if err := ecs.Add(w, boss, component.FighterComponent.Kind(), &component.Fighter{
		State:          component.StateIdle,
		AttackPower:    spec.AttackPower,
		AttackRange:    spec.AttackRange,
		AttackCooldown: spec.AttackCooldown,
		Target:         uint64(target),
		Clips:          clips,
	}); err != nil {
		return 0, fmt.Errorf("boss: add fighter: %w", err)
	}

	if err := ecs.Add(w, boss, component.BrainComponent.Kind(), &component.Brain{
		Archetype:       component.ArchetypeMaw,
		WalkSpeed:       spec.WalkSpeed,
		RunSpeed:        spec.RunSpeed,
		StopFactor:      spec.StopFactor,
		StrikeTolerance: spec.StrikeTolerance,
		Rand:            component.NewRand(seed),
	}); err != nil {
		return 0, fmt.Errorf("boss: add brain: %w", err)
	}

	if err := ecs.Add(w, boss, component.BossComponent.Kind(), &component.Boss{
		DisplayName:        spec.DisplayName,
		BaseDamage:         spec.AttackPower,
		RageDamage:         spec.RageAttackPower,
		RageThreshold:      spec.Rage.Threshold,
		RageCooldownFactor: spec.Rage.CooldownFactor,
		RageDuration:       spec.Rage.Duration,
		RageClip:           spec.Rage.Clip,
		DodgeChance:        spec.Dodge.Chance,
		DodgeDistance:      spec.Dodge.Distance,
		DodgeDuration:      spec.Dodge.Duration,
		DodgeClip:          spec.Dodge.Clip,
		AttackClips:        append([]string(nil), spec.AttackClips...),
		AttackFallback:     spec.AttackFallback,
		HitFraction:        spec.HitFraction,
		FlashStep:          spec.FlashStep,
		FadeDelay:          spec.Fade.Delay,
		FadeDuration:       spec.Fade.Duration,
	}); err != nil {
		return 0, fmt.Errorf("boss: add boss component: %w", err)
	}

	if err := ecs.Add(w, boss, component.TimelineComponent.Kind(), &component.Timeline{}); err != nil {
		return 0, fmt.Errorf("boss: add timeline: %w", err)
	}

	if err := ecs.Add(w, boss, component.AnimatorComponent.Kind(), &component.Animator{
		Clip:  clips[component.StateIdle],
		Loop:  true,
		Alpha: 1,
	}); err != nil {
		return 0, fmt.Errorf("boss: add animator: %w", err)
	}

	return boss, nil
}
