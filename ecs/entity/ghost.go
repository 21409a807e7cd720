package entity

import (
	"fmt"

	"github.com/milk9111/mawarena/common"
	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
)

// NewGhost spawns a skill clone. Clones fight for the player's team but can
// not be hit.
func NewGhost(w *ecs.World, pos common.Vec3, yaw float64, g component.Ghost) (ecs.Entity, error) {
	ghost := ecs.CreateEntity(w)

	if err := ecs.Add(w, ghost, component.TransformComponent.Kind(), &component.Transform{Position: pos, Yaw: yaw}); err != nil {
		return 0, fmt.Errorf("ghost: add transform: %w", err)
	}

	if err := ecs.Add(w, ghost, component.ParticipantComponent.Kind(), &component.Participant{
		Team:      component.TeamPlayer,
		Class:     component.ClassGhost,
		Archetype: component.ArchetypeGhost,
	}); err != nil {
		return 0, fmt.Errorf("ghost: add participant: %w", err)
	}

	if err := ecs.Add(w, ghost, component.GhostComponent.Kind(), &g); err != nil {
		return 0, fmt.Errorf("ghost: add ghost component: %w", err)
	}

	if err := ecs.Add(w, ghost, component.TimelineComponent.Kind(), &component.Timeline{}); err != nil {
		return 0, fmt.Errorf("ghost: add timeline: %w", err)
	}

	return ghost, nil
}
