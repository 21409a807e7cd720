package system

import (
	"github.com/milk9111/mawarena/common"
	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
)

// goblinPolicy attacks after a long windup and backs off after attacking and
// after being hit.
type goblinPolicy struct{}

func (goblinPolicy) Think(ctx *CombatContext, dt float64) {
	chase(ctx, dt, func(ctx *CombatContext, target ecs.Entity) {
		startAttack(ctx, target, func() { retreat(ctx) })
	})
}

// HoldsTimer freezes the cooldown for the whole swing, retreat included, and
// while staggered.
func (goblinPolicy) HoldsTimer(s component.State) bool {
	return s == component.StateAttack || s == component.StateHit
}

func (goblinPolicy) Defend(ctx *CombatContext, hit component.Hit) component.Outcome {
	return defendRegular(ctx, hit.Amount, func() { retreat(ctx) })
}

// retreat moves straight away from the target, keeping the current state
// until the move ends in IDLE.
func retreat(ctx *CombatContext) {
	_, tt, ok := ctx.Target()
	if !ok || ctx.Fighter.State == component.StateDead {
		ctx.ChangeState(component.StateIdle)
		return
	}
	dir := ctx.Transform.Position.Sub(tt.Position).Planar()
	if dir.LenSq() < 0.0001 {
		dir = common.Vec3{Z: 1}
	} else {
		dir = dir.Normalize()
	}
	ctx.Transform.Yaw = common.YawOf(dir)
	_ = ctx.Combat.play(ctx.World, ctx.Entity, ctx.Fighter.Clip(component.StateRun), true)

	w, e := ctx.World, ctx.Entity
	_ = ecs.Add(w, e, component.MotionComponent.Kind(), &component.Motion{
		Start:     ctx.Transform.Position,
		Direction: dir,
		Distance:  ctx.Brain.RetreatDistance,
		Duration:  ctx.Brain.RetreatDuration,
		Ease:      component.EaseLinear,
		OnDone: func() {
			ctx.Combat.ChangeState(w, e, component.StateIdle)
		},
	})
}
