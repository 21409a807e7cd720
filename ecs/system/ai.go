package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/mawarena/common"
	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
)

// AISystem ticks attack timers and runs each enemy's archetype policy.
type AISystem struct {
	combat *Combat
}

// timerHolder is implemented by policies whose attack cooldown stands still
// in some states.
type timerHolder interface {
	HoldsTimer(s component.State) bool
}

func NewAISystem(combat *Combat) *AISystem {
	return &AISystem{combat: combat}
}

func (s *AISystem) Update(w *ecs.World, dt float64) {
	ecs.ForEach2(w, component.BrainComponent.Kind(), component.FighterComponent.Kind(), func(e ecs.Entity, b *component.Brain, f *component.Fighter) {
		if f.State == component.StateDead {
			return
		}
		policy, ok := s.combat.Policy(b.Archetype)
		if !ok {
			f.AttackTimer += dt
			s.combat.Logger().Debug("no policy for archetype",
				zap.Stringer("entity", e),
				zap.String("archetype", string(b.Archetype)))
			return
		}
		if hold, ok := policy.(timerHolder); !ok || !hold.HoldsTimer(f.State) {
			f.AttackTimer += dt
		}
		ctx, ok := s.combat.Context(w, e)
		if !ok {
			return
		}
		policy.Think(ctx, dt)
	})
}

// chase is the decision step shared by the regular archetypes: idle beyond
// detection range, attack inside attack range once the cooldown has elapsed,
// otherwise run at the target. Ranges are planar.
func chase(ctx *CombatContext, dt float64, attack func(ctx *CombatContext, target ecs.Entity)) {
	f, b := ctx.Fighter, ctx.Brain
	switch f.State {
	case component.StateAttack, component.StateHit, component.StateBlock, component.StateDead:
		return
	}

	target, tt, ok := ctx.Target()
	if !ok {
		ctx.ChangeState(component.StateIdle)
		return
	}

	dist := common.PlanarDistance(ctx.Transform.Position, tt.Position)
	switch {
	case b.DetectionRange > 0 && dist > b.DetectionRange:
		ctx.ChangeState(component.StateIdle)
	case dist <= f.AttackRange:
		ctx.Face(tt.Position)
		if f.AttackTimer >= f.AttackCooldown {
			f.AttackTimer = 0
			attack(ctx, target)
			return
		}
		ctx.ChangeState(component.StateIdle)
	default:
		ctx.ChangeState(component.StateRun)
		stepToward(ctx, tt.Position, b.RunSpeed, dt)
	}
}

// stepToward moves along the planar direction to p at speed for dt seconds.
func stepToward(ctx *CombatContext, p common.Vec3, speed, dt float64) {
	dir := p.Sub(ctx.Transform.Position).Planar().Normalize()
	if dir.LenSq() == 0 {
		return
	}
	ctx.Transform.Position = ctx.Transform.Position.Add(dir.Scale(speed * dt))
	ctx.Transform.Yaw = common.YawOf(dir)
}

// inReach is the strike-time distance check; it uses full 3D distance.
func inReach(ctx *CombatContext, target ecs.Entity) bool {
	tt, ok := ecs.Get(ctx.World, target, component.TransformComponent.Kind())
	if !ok || !ecs.IsAlive(ctx.World, target) {
		return false
	}
	limit := ctx.Fighter.AttackRange + ctx.Brain.StrikeTolerance
	d := common.Distance(ctx.Transform.Position, tt.Position)
	if ctx.Brain.StrikeInclusive {
		return d <= limit
	}
	return d < limit
}

// strike applies the fighter's attack power to target if it is still in reach.
func strike(ctx *CombatContext, target ecs.Entity, amount int) {
	if ctx.Fighter.State == component.StateDead || !inReach(ctx, target) {
		return
	}
	ctx.Combat.Damage(ctx.World, target, component.Hit{Source: uint64(ctx.Entity), Amount: amount})
}

// startAttack enters ATTACK and runs windup, strike, backswing, then finish.
func startAttack(ctx *CombatContext, target ecs.Entity, finish func()) {
	if !ctx.ChangeState(component.StateAttack) {
		return
	}
	ctx.Combat.emit(ctx.World, component.CombatEvent{
		Type:   component.CombatEventAttack,
		Entity: uint64(ctx.Entity),
		Source: uint64(target),
		Clip:   ctx.Fighter.Clip(component.StateAttack),
	})
	b := ctx.Brain
	ctx.Timeline.Run("attack", component.TagBehavior,
		component.Step{Wait: b.WindUp, Label: "strike", Do: func() {
			strike(ctx, target, ctx.Fighter.AttackPower)
		}},
		component.Step{Wait: b.BackSwing, Label: "finish", Do: finish},
	)
}

// recoverAfter returns the entity to IDLE once the hit stagger has elapsed.
func recoverAfter(ctx *CombatContext, delay float64, then func()) {
	if then == nil {
		then = func() { ctx.ChangeState(component.StateIdle) }
	}
	ctx.Timeline.Run("recover", component.TagBehavior, component.Step{Wait: delay, Label: "recover", Do: then})
}

// defendRegular is the shared hit handling: take damage, die with a delayed
// despawn, or stagger in HIT.
func defendRegular(ctx *CombatContext, amount int, onStagger func()) component.Outcome {
	out := ctx.Combat.applyHit(ctx, amount)
	if out.Killed {
		ctx.Combat.kill(ctx)
		ctx.Combat.scheduleRemoval(ctx, ctx.Brain.DeathDelay)
		return out
	}
	if ctx.Fighter.State == component.StateBlock {
		return out
	}
	ctx.ChangeState(component.StateHit)
	ecs.Remove(ctx.World, ctx.Entity, component.MotionComponent.Kind())
	recoverAfter(ctx, ctx.Brain.HitRecovery, onStagger)
	return out
}
