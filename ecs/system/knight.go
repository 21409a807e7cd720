package system

import (
	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
)

// knightPolicy blocks most incoming hits outright.
type knightPolicy struct{}

func (knightPolicy) Think(ctx *CombatContext, dt float64) {
	chase(ctx, dt, func(ctx *CombatContext, target ecs.Entity) {
		startAttack(ctx, target, func() { ctx.ChangeState(component.StateIdle) })
	})
}

// Defend rolls the block chance on every hit. A successful roll takes no
// damage; a failed roll while the shield is already up still hurts but does
// not stagger.
func (knightPolicy) Defend(ctx *CombatContext, hit component.Hit) component.Outcome {
	b := ctx.Brain
	if b.Rand != nil && b.Rand.Float64() < b.BlockChance {
		if ctx.Fighter.State != component.StateBlock && ctx.ChangeState(component.StateBlock) {
			w, e := ctx.World, ctx.Entity
			ctx.Timeline.Run("block", component.TagBehavior, component.Step{
				Wait:  b.BlockDuration,
				Label: "lower_shield",
				Do:    func() { ctx.Combat.releaseBlock(w, e) },
			})
		}
		return component.Outcome{Blocked: true}
	}
	return defendRegular(ctx, hit.Amount, nil)
}
