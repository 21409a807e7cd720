package entity

import (
	"fmt"

	"github.com/milk9111/mawarena/common"
	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
	"github.com/milk9111/mawarena/prefabs"
)

func NewPlayer(w *ecs.World, spec prefabs.MariaSpec) (ecs.Entity, error) {
	return NewPlayerAt(w, spec, common.Vec3{})
}

func NewPlayerAt(w *ecs.World, spec prefabs.MariaSpec, pos common.Vec3) (ecs.Entity, error) {
	clips, err := parseClips("maria", spec.Clips)
	if err != nil {
		return 0, err
	}

	player := ecs.CreateEntity(w)

	if err := ecs.Add(w, player, component.TransformComponent.Kind(), &component.Transform{Position: pos}); err != nil {
		return 0, fmt.Errorf("player: add transform: %w", err)
	}

	health := component.NewHealth(spec.HP)
	if err := ecs.Add(w, player, component.HealthComponent.Kind(), &health); err != nil {
		return 0, fmt.Errorf("player: add health: %w", err)
	}

	if err := ecs.Add(w, player, component.ParticipantComponent.Kind(), &component.Participant{
		Team:       component.TeamPlayer,
		Class:      component.ClassHero,
		Archetype:  component.ArchetypeMaria,
		Damageable: true,
	}); err != nil {
		return 0, fmt.Errorf("player: add participant: %w", err)
	}

	if err := ecs.Add(w, player, component.FighterComponent.Kind(), &component.Fighter{
		State:       component.StateIdle,
		AttackPower: spec.AttackPower,
		Clips:       clips,
	}); err != nil {
		return 0, fmt.Errorf("player: add fighter: %w", err)
	}

	if err := ecs.Add(w, player, component.PlayerComponent.Kind(), &component.Player{
		Mana:         spec.Mana,
		MaxMana:      spec.Mana,
		ManaRegen:    spec.ManaRegen,
		SkillCost:    spec.SkillCost,
		Potions:      spec.Potions,
		PotionHeal:   spec.PotionHeal,
		WalkSpeed:    spec.WalkSpeed,
		RunSpeed:     spec.RunSpeed,
		RotationLerp: spec.RotationLerp,
	}); err != nil {
		return 0, fmt.Errorf("player: add player component: %w", err)
	}

	if err := ecs.Add(w, player, component.TimelineComponent.Kind(), &component.Timeline{}); err != nil {
		return 0, fmt.Errorf("player: add timeline: %w", err)
	}

	if err := ecs.Add(w, player, component.AnimatorComponent.Kind(), &component.Animator{
		Clip:  clips[component.StateIdle],
		Loop:  true,
		Alpha: 1,
	}); err != nil {
		return 0, fmt.Errorf("player: add animator: %w", err)
	}

	return player, nil
}

// ResetPlayerAt moves the player for a phase change.
func ResetPlayerAt(w *ecs.World, player ecs.Entity, pos common.Vec3) error {
	t, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return fmt.Errorf("player: reset: %w", component.ErrEntityNotAlive)
	}
	t.Position = pos
	ecs.Remove(w, player, component.MotionComponent.Kind())
	return nil
}
