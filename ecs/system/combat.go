package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/mawarena/common"
	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
)

// Policy is an archetype's pluggable behaviour: a per-frame decision step and
// its rules for taking a hit.
type Policy interface {
	Think(ctx *CombatContext, dt float64)
	Defend(ctx *CombatContext, hit component.Hit) component.Outcome
}

// Defender resolves incoming hits for entities without an AI policy.
type Defender interface {
	Defend(ctx *CombatContext, hit component.Hit) component.Outcome
}

// CombatContext bundles the components a policy works on. Optional parts are
// nil when the entity lacks them.
type CombatContext struct {
	World     *ecs.World
	Entity    ecs.Entity
	Combat    *Combat
	Transform *component.Transform
	Health    *component.Health
	Fighter   *component.Fighter
	Timeline  *component.Timeline
	Brain     *component.Brain
	Boss      *component.Boss
	Player    *component.Player
}

// Target resolves the fighter's weak target handle. Dead or removed targets
// read as absent.
func (ctx *CombatContext) Target() (ecs.Entity, *component.Transform, bool) {
	if ctx.Fighter == nil || ctx.Fighter.Target == 0 {
		return 0, nil, false
	}
	target := ecs.Entity(ctx.Fighter.Target)
	if !ecs.IsAlive(ctx.World, target) {
		return 0, nil, false
	}
	if f, ok := ecs.Get(ctx.World, target, component.FighterComponent.Kind()); ok && f.State == component.StateDead {
		return 0, nil, false
	}
	t, ok := ecs.Get(ctx.World, target, component.TransformComponent.Kind())
	if !ok {
		return 0, nil, false
	}
	return target, t, true
}

// Face turns the entity toward a world point on the horizontal plane.
func (ctx *CombatContext) Face(p common.Vec3) {
	dir := p.Sub(ctx.Transform.Position).Planar()
	if dir.LenSq() == 0 {
		return
	}
	ctx.Transform.Yaw = common.YawOf(dir)
}

func (ctx *CombatContext) ChangeState(s component.State) bool {
	return ctx.Combat.ChangeState(ctx.World, ctx.Entity, s)
}

// Combat owns the shared state machine, damage routing and the participant
// registry queries.
type Combat struct {
	anim     AnimationBridge
	logger   *zap.Logger
	policies map[component.Archetype]Policy
	player   Defender
}

func NewCombat(anim AnimationBridge, logger *zap.Logger) *Combat {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Combat{
		anim:     anim,
		logger:   logger,
		policies: make(map[component.Archetype]Policy),
	}
	c.Register(component.ArchetypeGoblin, goblinPolicy{})
	c.Register(component.ArchetypeKnight, knightPolicy{})
	c.Register(component.ArchetypeMinotaur, minotaurPolicy{})
	c.Register(component.ArchetypeMaw, NewMawPolicy(nil, logger))
	return c
}

func (c *Combat) Register(a component.Archetype, p Policy) {
	c.policies[a] = p
}

func (c *Combat) Policy(a component.Archetype) (Policy, bool) {
	p, ok := c.policies[a]
	return p, ok
}

// SetPlayerDefender installs the hit rules for entities with a Player component.
func (c *Combat) SetPlayerDefender(d Defender) {
	c.player = d
}

func (c *Combat) Animation() AnimationBridge {
	return c.anim
}

func (c *Combat) Logger() *zap.Logger {
	return c.logger
}

// Context gathers e's combat components. It fails when e is dead or is not a
// fighter.
func (c *Combat) Context(w *ecs.World, e ecs.Entity) (*CombatContext, bool) {
	if !ecs.IsAlive(w, e) {
		return nil, false
	}
	f, ok := ecs.Get(w, e, component.FighterComponent.Kind())
	if !ok {
		return nil, false
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return nil, false
	}
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok {
		return nil, false
	}
	ctx := &CombatContext{World: w, Entity: e, Combat: c, Transform: t, Health: h, Fighter: f}
	ctx.Timeline = timelineOf(w, e)
	ctx.Brain, _ = ecs.Get(w, e, component.BrainComponent.Kind())
	ctx.Boss, _ = ecs.Get(w, e, component.BossComponent.Kind())
	ctx.Player, _ = ecs.Get(w, e, component.PlayerComponent.Kind())
	return ctx, true
}

func timelineOf(w *ecs.World, e ecs.Entity) *component.Timeline {
	tl, ok := ecs.Get(w, e, component.TimelineComponent.Kind())
	if !ok {
		tl = &component.Timeline{}
		_ = ecs.Add(w, e, component.TimelineComponent.Kind(), tl)
	}
	return tl
}

// ChangeState moves e to next. DEAD is terminal, BLOCK yields only to DEAD,
// and re-entering the current state does nothing. It reports whether e ended
// up in next.
func (c *Combat) ChangeState(w *ecs.World, e ecs.Entity, next component.State) bool {
	f, ok := ecs.Get(w, e, component.FighterComponent.Kind())
	if !ok || !ecs.IsAlive(w, e) {
		return false
	}
	if f.State == component.StateDead {
		return false
	}
	if f.State == component.StateBlock && next != component.StateDead {
		return false
	}
	return c.enter(w, e, f, next)
}

// releaseBlock ends a block. It is the one way out of BLOCK besides death.
func (c *Combat) releaseBlock(w *ecs.World, e ecs.Entity) bool {
	f, ok := ecs.Get(w, e, component.FighterComponent.Kind())
	if !ok || f.State != component.StateBlock {
		return false
	}
	return c.enter(w, e, f, component.StateIdle)
}

func (c *Combat) enter(w *ecs.World, e ecs.Entity, f *component.Fighter, next component.State) bool {
	if f.State == next {
		return false
	}
	prev := f.State
	f.State = next

	tl := timelineOf(w, e)
	if next == component.StateDead {
		tl.CancelAll()
	} else {
		tl.CancelTags(component.TagBehavior, component.TagPosture)
	}
	ecs.Remove(w, e, component.MotionComponent.Kind())

	c.emit(w, component.CombatEvent{
		Type:   component.CombatEventStateChanged,
		Entity: uint64(e),
		From:   prev,
		To:     next,
	})

	clip := f.Clip(next)
	if clip == "" {
		return true
	}
	if err := c.play(w, e, clip, next.Loops()); err != nil {
		if ecs.Has(w, e, component.PlayerComponent.Kind()) && next != component.StateIdle && next != component.StateDead {
			c.enter(w, e, f, component.StateIdle)
			return false
		}
	}
	return true
}

// play starts a clip and logs a missing one.
func (c *Combat) play(w *ecs.World, e ecs.Entity, clip string, loop bool) error {
	if c.anim == nil || clip == "" {
		return nil
	}
	err := c.anim.Play(w, e, clip, loop)
	if err != nil {
		c.logger.Warn("animation clip missing",
			zap.Stringer("entity", e),
			zap.String("clip", clip),
			zap.Error(err))
	}
	return err
}

// Damage routes a hit to the target's defence rules: the player's when it
// has a Player component, the archetype policy's otherwise.
func (c *Combat) Damage(w *ecs.World, target ecs.Entity, hit component.Hit) component.Outcome {
	if !IsDamageable(w, target) {
		return component.Outcome{Ignored: true}
	}
	ctx, ok := c.Context(w, target)
	if !ok || ctx.Fighter.State == component.StateDead {
		return component.Outcome{Ignored: true}
	}
	p, _ := ecs.Get(w, target, component.ParticipantComponent.Kind())

	var out component.Outcome
	switch {
	case ctx.Player != nil && c.player != nil:
		out = c.player.Defend(ctx, hit)
	default:
		if pol, ok := c.policies[p.Archetype]; ok {
			out = pol.Defend(ctx, hit)
		} else {
			out = c.defendPlain(ctx, hit)
		}
	}
	c.report(ctx, p.Archetype, hit, out)
	return out
}

// defendPlain takes full damage with no reaction beyond death.
func (c *Combat) defendPlain(ctx *CombatContext, hit component.Hit) component.Outcome {
	out := c.applyHit(ctx, hit.Amount)
	if out.Killed {
		c.kill(ctx)
	}
	return out
}

// applyHit removes hp and reports whether the entity is now out of it. The
// caller decides what death means for its archetype.
func (c *Combat) applyHit(ctx *CombatContext, amount int) component.Outcome {
	applied := ctx.Health.ApplyDamage(amount)
	return component.Outcome{Applied: applied, Killed: ctx.Health.Depleted()}
}

// kill enters DEAD, which cancels every pending track.
func (c *Combat) kill(ctx *CombatContext) {
	c.enter(ctx.World, ctx.Entity, ctx.Fighter, component.StateDead)
	if ctx.Player != nil {
		ctx.Player.Moving = false
	}
}

// scheduleRemoval despawns a dead entity after delay seconds.
func (c *Combat) scheduleRemoval(ctx *CombatContext, delay float64) {
	w, e := ctx.World, ctx.Entity
	ctx.Timeline.Run("death", component.TagLifecycle, component.Step{
		Wait:  delay,
		Label: "despawn",
		Do: func() {
			_ = ecs.Add(w, e, component.DespawnComponent.Kind(), &component.Despawn{Reason: "dead"})
		},
	})
}

func (c *Combat) report(ctx *CombatContext, a component.Archetype, hit component.Hit, out component.Outcome) {
	ev := component.CombatEvent{
		Entity:    uint64(ctx.Entity),
		Source:    hit.Source,
		Archetype: a,
		Amount:    out.Applied,
		HP:        ctx.Health.Current,
	}
	switch {
	case out.Ignored || out.Immune:
		return
	case out.Blocked:
		ev.Type = component.CombatEventBlocked
	case out.Evaded:
		ev.Type = component.CombatEventEvaded
	default:
		ev.Type = component.CombatEventDamage
	}
	c.emit(ctx.World, ev)
	if out.Killed {
		ev.Type = component.CombatEventDeath
		c.emit(ctx.World, ev)
		c.logger.Info("combatant died",
			zap.Stringer("entity", ctx.Entity),
			zap.String("archetype", string(a)))
	}
}

func (c *Combat) emit(w *ecs.World, ev component.CombatEvent) {
	w.Events().Push(ecs.Event{Type: string(ev.Type), Data: ev})
}

// AreaRadii gives the reach of an area hit per target class.
type AreaRadii struct {
	Minion float64
	Boss   float64
}

func (r AreaRadii) For(class component.Class) float64 {
	if class == component.ClassBoss {
		return r.Boss
	}
	return r.Minion
}

// DamageArea hits every living hostile of source strictly inside the radius
// for its class around centre. It returns the outcomes in hit order.
func (c *Combat) DamageArea(w *ecs.World, source ecs.Entity, centre common.Vec3, radii AreaRadii, amount int) []component.Outcome {
	team, ok := TeamOf(w, source)
	if !ok {
		return nil
	}
	var outs []component.Outcome
	for _, e := range Hostiles(w, team) {
		p, _ := ecs.Get(w, e, component.ParticipantComponent.Kind())
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		if common.Distance(centre, t.Position) >= radii.For(p.Class) {
			continue
		}
		outs = append(outs, c.Damage(w, e, component.Hit{Source: uint64(source), Amount: amount}))
	}
	return outs
}

func IsDamageable(w *ecs.World, e ecs.Entity) bool {
	if !ecs.IsAlive(w, e) {
		return false
	}
	p, ok := ecs.Get(w, e, component.ParticipantComponent.Kind())
	return ok && p.Damageable
}

func TeamOf(w *ecs.World, e ecs.Entity) (component.Team, bool) {
	p, ok := ecs.Get(w, e, component.ParticipantComponent.Kind())
	if !ok {
		return component.TeamNeutral, false
	}
	return p.Team, true
}

// Hostiles lists living damageable participants opposed to team.
func Hostiles(w *ecs.World, team component.Team) []ecs.Entity {
	var out []ecs.Entity
	ecs.ForEach(w, component.ParticipantComponent.Kind(), func(e ecs.Entity, p *component.Participant) {
		if !p.Damageable || p.Team == team || p.Team == component.TeamNeutral {
			return
		}
		if f, ok := ecs.Get(w, e, component.FighterComponent.Kind()); ok && f.State == component.StateDead {
			return
		}
		out = append(out, e)
	})
	return out
}

// NearestHostile finds the closest living hostile on the horizontal plane.
func NearestHostile(w *ecs.World, from common.Vec3, team component.Team) (ecs.Entity, common.Vec3, bool) {
	var (
		best    ecs.Entity
		bestPos common.Vec3
		bestD   = -1.0
	)
	for _, e := range Hostiles(w, team) {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		d := common.PlanarDistance(from, t.Position)
		if bestD < 0 || d < bestD {
			best, bestPos, bestD = e, t.Position, d
		}
	}
	return best, bestPos, bestD >= 0
}
