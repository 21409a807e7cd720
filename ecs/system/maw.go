package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/mawarena/common"
	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
)

// mawPolicy drives the boss: no detection limit and no HIT stagger. It dodges
// half the hits before rage and enrages once below the rage threshold.
type mawPolicy struct {
	selector *AttackSelector
	logger   *zap.Logger
}

// NewMawPolicy builds the boss policy. A nil selector uses the built-in
// attack choice.
func NewMawPolicy(selector *AttackSelector, logger *zap.Logger) Policy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &mawPolicy{selector: selector, logger: logger}
}

func (p *mawPolicy) Think(ctx *CombatContext, dt float64) {
	f := ctx.Fighter
	switch f.State {
	case component.StateDead, component.StateRage, component.StateDodge:
		return
	}
	_, tt, ok := ctx.Target()
	if !ok {
		if f.State != component.StateAttack {
			ctx.ChangeState(component.StateIdle)
		}
		return
	}

	dist := common.PlanarDistance(ctx.Transform.Position, tt.Position)
	if dist <= f.AttackRange {
		if f.AttackTimer >= f.AttackCooldown && f.State != component.StateAttack {
			f.AttackTimer = 0
			p.attack(ctx)
		} else if f.State != component.StateAttack && f.State != component.StateIdle {
			ctx.ChangeState(component.StateIdle)
		}
		ctx.Face(tt.Position)
		return
	}
	if f.State == component.StateAttack {
		return
	}

	if dist <= f.AttackRange*ctx.Brain.StopFactor {
		ctx.ChangeState(component.StateIdle)
		return
	}
	speed, moving := ctx.Brain.WalkSpeed, component.StateWalk
	if ctx.Boss.Enraged {
		speed, moving = ctx.Brain.RunSpeed, component.StateRun
	}
	stepToward(ctx, tt.Position, speed, dt)
	ctx.ChangeState(moving)
}

func (p *mawPolicy) attack(ctx *CombatContext) {
	boss := ctx.Boss
	if len(boss.AttackClips) == 0 {
		return
	}
	idx, err := p.selector.Choose(boss.Enraged, len(boss.AttackClips), ctx.Brain.Rand.Float64())
	if err != nil {
		p.logger.Warn("attack selector failed", zap.Stringer("entity", ctx.Entity), zap.Error(err))
		idx = 0
	}
	clip := boss.AttackClips[idx]
	if !ctx.ChangeState(component.StateAttack) {
		return
	}
	_ = ctx.Combat.play(ctx.World, ctx.Entity, clip, false)
	boss.AttackCount++

	ctx.Combat.emit(ctx.World, component.CombatEvent{
		Type:   component.CombatEventAttack,
		Entity: uint64(ctx.Entity),
		Source: ctx.Fighter.Target,
		Clip:   clip,
	})

	total := clipLength(ctx.Combat.Animation(), clip, boss.AttackFallback)
	hitAt := total * boss.HitFraction
	ctx.Timeline.Run("attack", component.TagBehavior,
		component.Step{Wait: hitAt, Label: "strike", Do: func() {
			target, _, ok := ctx.Target()
			if !ok {
				return
			}
			amount := boss.BaseDamage
			if boss.Enraged {
				amount = boss.RageDamage
			}
			strike(ctx, target, amount)
		}},
		component.Step{Wait: total - hitAt, Label: "finish", Do: func() {
			ctx.ChangeState(component.StateIdle)
		}},
	)
}

// Defend follows the boss hit order: evade roll, damage with a tint flash,
// death, then the one-time rage check.
func (p *mawPolicy) Defend(ctx *CombatContext, hit component.Hit) component.Outcome {
	boss, f := ctx.Boss, ctx.Fighter
	if !boss.Enraged && f.State != component.StateAttack && ctx.Brain.Rand.Float64() < boss.DodgeChance {
		if f.State != component.StateDodge {
			p.dodge(ctx)
		}
		return component.Outcome{Evaded: true}
	}

	out := ctx.Combat.applyHit(ctx, hit.Amount)
	if out.Killed {
		p.die(ctx)
		return out
	}
	p.flash(ctx)

	if !boss.Enraged && ctx.Health.Fraction() < boss.RageThreshold {
		p.enrage(ctx)
	}
	return out
}

func (p *mawPolicy) dodge(ctx *CombatContext) {
	_, tt, ok := ctx.Target()
	if !ok {
		return
	}
	if !ctx.ChangeState(component.StateDodge) {
		return
	}
	dir := ctx.Transform.Position.Sub(tt.Position).Planar()
	if dir.LenSq() == 0 {
		dir = common.Vec3{Z: 1}
	}
	w, e := ctx.World, ctx.Entity
	_ = ecs.Add(w, e, component.MotionComponent.Kind(), &component.Motion{
		Start:     ctx.Transform.Position,
		Direction: dir.Normalize(),
		Distance:  ctx.Boss.DodgeDistance,
		Duration:  ctx.Boss.DodgeDuration,
		Ease:      component.EaseLinear,
		OnDone: func() {
			ctx.Combat.ChangeState(w, e, component.StateIdle)
		},
	})
}

// flash tints the boss for one step, fades for one step, then clears.
func (p *mawPolicy) flash(ctx *CombatContext) {
	anim, ok := ecs.Get(ctx.World, ctx.Entity, component.AnimatorComponent.Kind())
	if !ok {
		anim = &component.Animator{Alpha: 1}
		_ = ecs.Add(ctx.World, ctx.Entity, component.AnimatorComponent.Kind(), anim)
	}
	anim.Tint = component.TintHit
	step := ctx.Boss.FlashStep
	ctx.Timeline.Run("flash", component.TagLifecycle,
		component.Step{Wait: step, Label: "fade_tint", Do: func() { anim.Tint = component.TintFade }},
		component.Step{Wait: step, Label: "clear_tint", Do: func() { anim.Tint = component.TintNone }},
	)
	ctx.Combat.emit(ctx.World, component.CombatEvent{
		Type:   component.CombatEventHitFlash,
		Entity: uint64(ctx.Entity),
		HP:     ctx.Health.Current,
	})
}

func (p *mawPolicy) enrage(ctx *CombatContext) {
	boss, f := ctx.Boss, ctx.Fighter
	boss.Enraged = true
	f.AttackCooldown *= boss.RageCooldownFactor
	p.logger.Info("boss enraged",
		zap.Stringer("entity", ctx.Entity),
		zap.Int("hp", ctx.Health.Current),
		zap.Float64("cooldown", f.AttackCooldown))
	ctx.Combat.emit(ctx.World, component.CombatEvent{
		Type:   component.CombatEventRage,
		Entity: uint64(ctx.Entity),
		HP:     ctx.Health.Current,
		Clip:   boss.RageClip,
	})
	if !ctx.ChangeState(component.StateRage) {
		return
	}
	ctx.Timeline.Run("rage", component.TagBehavior, component.Step{
		Wait:  boss.RageDuration,
		Label: "end_rage",
		Do:    func() { ctx.ChangeState(component.StateIdle) },
	})
}

// die plays the death clip, starts the fade after FadeDelay and despawns
// after FadeDuration more.
func (p *mawPolicy) die(ctx *CombatContext) {
	ctx.Combat.kill(ctx)
	w, e, boss := ctx.World, ctx.Entity, ctx.Boss
	if anim, ok := ecs.Get(w, e, component.AnimatorComponent.Kind()); ok {
		anim.Tint = component.TintNone
	}
	ctx.Timeline.Run("death", component.TagLifecycle,
		component.Step{Wait: boss.FadeDelay, Label: "fade", Do: func() {
			boss.Fading = true
			if anim, ok := ecs.Get(w, e, component.AnimatorComponent.Kind()); ok && boss.FadeDuration > 0 {
				anim.FadeRate = 1 / boss.FadeDuration
			}
			ctx.Combat.emit(w, component.CombatEvent{Type: component.CombatEventFadeStart, Entity: uint64(e)})
		}},
		component.Step{Wait: boss.FadeDuration, Label: "despawn", Do: func() {
			_ = ecs.Add(w, e, component.DespawnComponent.Kind(), &component.Despawn{Reason: "dead"})
		}},
	)
}
