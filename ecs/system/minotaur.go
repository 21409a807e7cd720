package system

import (
	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
)

// minotaurPolicy never blocks or retreats.
type minotaurPolicy struct{}

func (minotaurPolicy) Think(ctx *CombatContext, dt float64) {
	chase(ctx, dt, func(ctx *CombatContext, target ecs.Entity) {
		startAttack(ctx, target, func() { ctx.ChangeState(component.StateIdle) })
	})
}

func (minotaurPolicy) Defend(ctx *CombatContext, hit component.Hit) component.Outcome {
	return defendRegular(ctx, hit.Amount, nil)
}
