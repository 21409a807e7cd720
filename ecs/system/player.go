package system

import (
	"math"

	"go.uber.org/zap"

	"github.com/milk9111/mawarena/common"
	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
	"github.com/milk9111/mawarena/ecs/entity"
	"github.com/milk9111/mawarena/prefabs"
)

const (
	trackCombo   = "combo"
	trackSkill   = "skill"
	trackJump    = "jump"
	trackRecover = "recover"
	trackHurt    = "hurt"
	trackPosture = "posture"

	labelRaiseBlock  = "raise_block"
	labelLowerBlock  = "lower_block"
	labelCrouch      = "crouch"
	labelStand       = "stand"
	moveInputEpsilon = 1e-4
)

// PlayerController turns intents into Maria's actions. Every Run method
// reports whether the intent was accepted; rejected intents change nothing.
type PlayerController struct {
	w      *ecs.World
	e      ecs.Entity
	combat *Combat
	spec   prefabs.MariaSpec
	logger *zap.Logger
}

// NewPlayerController binds a controller to the player entity and installs
// its hit rules on combat.
func NewPlayerController(w *ecs.World, e ecs.Entity, combat *Combat, spec prefabs.MariaSpec, logger *zap.Logger) *PlayerController {
	if logger == nil {
		logger = zap.NewNop()
	}
	pc := &PlayerController{w: w, e: e, combat: combat, spec: spec, logger: logger}
	combat.SetPlayerDefender(pc)
	return pc
}

func (pc *PlayerController) Entity() ecs.Entity {
	return pc.e
}

// SetSpec swaps the tuning used by subsequent actions.
func (pc *PlayerController) SetSpec(spec prefabs.MariaSpec) {
	pc.spec = spec
}

func (pc *PlayerController) context() (*CombatContext, bool) {
	ctx, ok := pc.combat.Context(pc.w, pc.e)
	if !ok || ctx.Player == nil {
		return nil, false
	}
	return ctx, true
}

// State returns the player's current state, DEAD when the entity is gone.
func (pc *PlayerController) State() component.State {
	f, ok := ecs.Get(pc.w, pc.e, component.FighterComponent.Kind())
	if !ok {
		return component.StateDead
	}
	return f.State
}

func stateIn(s component.State, set ...component.State) bool {
	for _, x := range set {
		if s == x {
			return true
		}
	}
	return false
}

// cameraRelative maps local input (x strafe, z forward) into world space for
// the camera yaw: camForward*z - camRight*x.
func cameraRelative(yawDeg float64, input common.Vec3) common.Vec3 {
	fwd := common.Forward(yawDeg)
	right := common.Forward(yawDeg - 90)
	return fwd.Scale(input.Z).Sub(right.Scale(input.X))
}

// RunMove sets the travel direction from local input. It walks or runs from
// IDLE, WALK and RUN; in ATTACK and DODGE only the facing follows.
func (pc *PlayerController) RunMove(input common.Vec3, running bool) bool {
	ctx, ok := pc.context()
	if !ok || ctx.Fighter.State == component.StateDead {
		return false
	}
	in := input.Planar()
	if in.LenSq() < moveInputEpsilon*moveInputEpsilon {
		pc.StopMove()
		return false
	}
	p := ctx.Player
	p.MoveDir = cameraRelative(p.CameraYaw, in).Normalize()

	switch ctx.Fighter.State {
	case component.StateIdle, component.StateWalk, component.StateRun:
		p.Moving = true
		p.Running = running
		next := component.StateWalk
		if running {
			next = component.StateRun
		}
		ctx.ChangeState(next)
		return true
	case component.StateAttack, component.StateDodge:
		p.Moving = true
		return true
	}
	return false
}

func (pc *PlayerController) StopMove() bool {
	ctx, ok := pc.context()
	if !ok {
		return false
	}
	ctx.Player.Moving = false
	ctx.Player.Running = false
	if stateIn(ctx.Fighter.State, component.StateWalk, component.StateRun) {
		return ctx.ChangeState(component.StateIdle)
	}
	return true
}

// facing is the direction actions travel in: the lock direction when locked,
// the model's facing otherwise.
func (pc *PlayerController) facing(ctx *CombatContext) common.Vec3 {
	if ctx.Player.Locked && ctx.Player.LockDir.LenSq() > 0 {
		return ctx.Player.LockDir
	}
	return common.Forward(ctx.Transform.Yaw)
}

// RunAttackCombo starts a chain, or buffers the next stage while a stage is
// playing.
func (pc *PlayerController) RunAttackCombo() bool {
	ctx, ok := pc.context()
	if !ok {
		return false
	}
	switch ctx.Fighter.State {
	case component.StateAttack:
		ctx.Player.ComboBuffered = true
		return true
	case component.StateIdle, component.StateWalk, component.StateRun, component.StateJump:
		ctx.Player.ComboBuffered = false
		return pc.startComboStage(ctx, (ctx.Player.ComboIndex%3)+1)
	}
	return false
}

func (pc *PlayerController) startComboStage(ctx *CombatContext, index int) bool {
	if index < 1 || index > len(pc.spec.Combo) {
		return false
	}
	stage := pc.spec.Combo[index-1]
	p := ctx.Player
	if ctx.Fighter.State != component.StateAttack && !ctx.ChangeState(component.StateAttack) {
		return false
	}
	if err := pc.combat.play(pc.w, pc.e, stage.Clip, false); err != nil {
		p.ComboIndex = 0
		p.ComboBuffered = false
		ctx.ChangeState(component.StateIdle)
		return false
	}
	p.ComboIndex = index

	dir := pc.facing(ctx).Planar().Normalize()
	ctx.Transform.Yaw = common.YawOf(dir)
	_ = ecs.Add(pc.w, pc.e, component.MotionComponent.Kind(), &component.Motion{
		Start:     ctx.Transform.Position,
		Direction: dir,
		Distance:  stage.Distance,
		Duration:  stage.Duration,
		Ease:      common.EaseOutQuad,
	})

	length := clipLength(pc.combat.Animation(), stage.Clip, stage.Duration)
	ctx.Timeline.Run(trackCombo, component.TagBehavior, component.Step{
		Wait:  length,
		Label: "combo_hit",
		Do:    func() { pc.finishComboStage(ctx, dir) },
	})
	return true
}

// finishComboStage lands the stage's hit and either chains the buffered stage
// or ends the combo.
func (pc *PlayerController) finishComboStage(ctx *CombatContext, dir common.Vec3) {
	hit := pc.spec.ComboHit
	centre := ctx.Transform.Position.Add(dir.Scale(hit.Ahead))
	pc.combat.DamageArea(pc.w, pc.e, centre, AreaRadii{Minion: hit.MinionRadius, Boss: hit.BossRadius}, ctx.Fighter.AttackPower)

	p := ctx.Player
	if p.ComboBuffered {
		p.ComboBuffered = false
		pc.startComboStage(ctx, (p.ComboIndex%3)+1)
		return
	}
	p.ComboIndex = 0
	ctx.ChangeState(component.StateIdle)
}

// RunSkillShadow spends mana and releases the five shadow clones.
func (pc *PlayerController) RunSkillShadow() bool {
	ctx, ok := pc.context()
	if !ok {
		return false
	}
	if !stateIn(ctx.Fighter.State, component.StateIdle, component.StateWalk, component.StateRun) {
		return false
	}
	p := ctx.Player
	if p.Mana < p.SkillCost {
		pc.logger.Debug("skill rejected",
			zap.Float64("mana", p.Mana),
			zap.Float64("cost", p.SkillCost))
		return false
	}
	p.Moving = false
	if !ctx.ChangeState(component.StateSkill) {
		return false
	}
	p.Mana -= p.SkillCost

	skill := pc.spec.Skill
	steps := make([]component.Step, 0, len(skill.Ghosts)+1)
	for _, g := range skill.Ghosts {
		steps = append(steps, component.Step{
			Wait:  g.Wait,
			Label: "ghost_" + g.Clip,
			Do:    func() { pc.spawnGhost(ctx, g) },
		})
	}
	steps = append(steps, component.Step{
		Wait:  skill.FinishDelay,
		Label: "finish",
		Do:    func() { ctx.ChangeState(component.StateIdle) },
	})
	ctx.Timeline.Run(trackSkill, component.TagBehavior, steps...)
	return true
}

// spawnGhost places one clone at a world-space offset from the player, facing
// the player's way. The clone strikes once partway through its clip and
// despawns at the end of it.
func (pc *PlayerController) spawnGhost(ctx *CombatContext, g prefabs.GhostSpec) {
	yaw := ctx.Transform.Yaw
	pos := ctx.Transform.Position.Add(g.Offset.Vec3())

	skill := pc.spec.Skill
	ghost, err := entity.NewGhost(pc.w, pos, yaw, component.Ghost{
		Owner:        uint64(pc.e),
		Clip:         g.Clip,
		Damage:       int(skill.DamageFactor * float64(ctx.Fighter.AttackPower)),
		DamageDelay:  g.DamageDelay,
		MinionRadius: skill.MinionRadius,
		BossRadius:   skill.BossRadius,
	})
	if err != nil {
		pc.logger.Warn("ghost spawn failed", zap.Error(err))
		return
	}
	StartGhost(pc.w, ghost, pc.combat)
	pc.combat.emit(pc.w, component.CombatEvent{
		Type:   component.CombatEventGhostSpawned,
		Entity: uint64(ghost),
		Source: uint64(pc.e),
		Clip:   g.Clip,
	})
}

// dodgeClip picks the directional clip by dominant local axis. No input
// dodges backwards.
func dodgeClip(spec prefabs.PlayerDodgeSpec, input common.Vec3) string {
	if input.Planar().LenSq() < moveInputEpsilon*moveInputEpsilon {
		return spec.Back
	}
	if math.Abs(input.Z) >= math.Abs(input.X) {
		if input.Z > 0 {
			return spec.Front
		}
		return spec.Back
	}
	if input.X > 0 {
		return spec.Right
	}
	return spec.Left
}

// RunDodge rolls along the camera-relative input, or backwards without
// input. The player is immune until the roll ends.
func (pc *PlayerController) RunDodge(input common.Vec3) bool {
	ctx, ok := pc.context()
	if !ok {
		return false
	}
	if !stateIn(ctx.Fighter.State, component.StateIdle, component.StateWalk, component.StateRun, component.StateAttack) {
		return false
	}
	p := ctx.Player
	in := input.Planar()
	var dir common.Vec3
	if in.LenSq() < moveInputEpsilon*moveInputEpsilon {
		dir = pc.facing(ctx).Planar().Normalize().Scale(-1)
	} else {
		dir = cameraRelative(p.CameraYaw, in).Normalize()
	}
	clip := dodgeClip(pc.spec.Dodge, in)

	p.ComboIndex = 0
	p.ComboBuffered = false
	if !ctx.ChangeState(component.StateDodge) {
		return false
	}
	if err := pc.combat.play(pc.w, pc.e, clip, false); err != nil {
		ctx.ChangeState(component.StateIdle)
		return false
	}
	w, e := pc.w, pc.e
	_ = ecs.Add(w, e, component.MotionComponent.Kind(), &component.Motion{
		Start:     ctx.Transform.Position,
		Direction: dir,
		Distance:  pc.spec.Dodge.Distance,
		Duration:  pc.spec.Dodge.Duration,
		Ease:      common.EaseOutQuad,
		OnDone:    func() { pc.combat.ChangeState(w, e, component.StateIdle) },
	})
	return true
}

func (pc *PlayerController) RunJump() bool {
	ctx, ok := pc.context()
	if !ok || !stateIn(ctx.Fighter.State, component.StateIdle, component.StateWalk, component.StateRun) {
		return false
	}
	if !ctx.ChangeState(component.StateJump) {
		return false
	}
	ctx.Timeline.Run(trackJump, component.TagBehavior, component.Step{
		Wait:  pc.spec.JumpDuration,
		Label: "land",
		Do:    func() { ctx.ChangeState(component.StateIdle) },
	})
	return true
}

// posture plays a transition clip and switches to next once it has run. A
// newer posture input replaces the pending transition.
func (pc *PlayerController) posture(ctx *CombatContext, clip, label string, duration float64, next component.State) {
	ctx.Player.Moving = false
	_ = pc.combat.play(pc.w, pc.e, clip, false)
	ctx.Timeline.Run(trackPosture, component.TagPosture, component.Step{
		Wait:  duration,
		Label: label,
		Do:    func() { ctx.ChangeState(next) },
	})
}

// ToggleCrouch crouches from IDLE or WALK and stands up from CROUCH_IDLE.
func (pc *PlayerController) ToggleCrouch() bool {
	ctx, ok := pc.context()
	if !ok {
		return false
	}
	c := pc.spec.Crouch
	switch ctx.Fighter.State {
	case component.StateCrouchIdle:
		pc.posture(ctx, c.ExitClip, labelStand, c.Duration, component.StateIdle)
		return true
	case component.StateIdle, component.StateWalk:
		if ctx.Fighter.State == component.StateWalk {
			ctx.ChangeState(component.StateIdle)
		}
		pc.posture(ctx, c.EnterClip, labelCrouch, c.Duration, component.StateCrouchIdle)
		return true
	}
	return false
}

func (pc *PlayerController) StartBlock() bool {
	ctx, ok := pc.context()
	if !ok || !stateIn(ctx.Fighter.State, component.StateIdle, component.StateWalk) {
		return false
	}
	if ctx.Fighter.State == component.StateWalk {
		ctx.ChangeState(component.StateIdle)
	}
	b := pc.spec.Block
	pc.posture(ctx, b.EnterClip, labelRaiseBlock, b.Duration, component.StateBlockIdle)
	return true
}

// StopBlock lowers a raised guard, or cancels a raise still in progress.
func (pc *PlayerController) StopBlock() bool {
	ctx, ok := pc.context()
	if !ok {
		return false
	}
	if pending := ctx.Timeline.Pending(trackPosture); len(pending) > 0 && pending[0] == labelRaiseBlock {
		ctx.Timeline.Cancel(trackPosture)
		pc.combat.play(pc.w, pc.e, ctx.Fighter.Clip(component.StateIdle), true)
		return true
	}
	if ctx.Fighter.State != component.StateBlockIdle {
		return false
	}
	b := pc.spec.Block
	pc.posture(ctx, b.ExitClip, labelLowerBlock, b.Duration, component.StateIdle)
	return true
}

// RunRecover drinks a potion: instant heal, then the casting clip. It
// interrupts any state except death and another potion.
func (pc *PlayerController) RunRecover() bool {
	ctx, ok := pc.context()
	if !ok || stateIn(ctx.Fighter.State, component.StateDead, component.StateRecover) {
		return false
	}
	p := ctx.Player
	if p.Potions <= 0 {
		pc.logger.Debug("recover rejected: no potions")
		return false
	}
	p.Moving = false
	p.ComboIndex = 0
	p.ComboBuffered = false
	if !ctx.ChangeState(component.StateRecover) {
		return false
	}
	p.Potions--
	healed := ctx.Health.Heal(p.PotionHeal)
	pc.combat.emit(pc.w, component.CombatEvent{
		Type:   component.CombatEventHeal,
		Entity: uint64(pc.e),
		Amount: healed,
		HP:     ctx.Health.Current,
	})

	length := clipLength(pc.combat.Animation(), ctx.Fighter.Clip(component.StateRecover), pc.spec.RecoverLength)
	ctx.Timeline.Run(trackRecover, component.TagBehavior, component.Step{
		Wait:  length,
		Label: "recovered",
		Do:    func() { ctx.ChangeState(component.StateIdle) },
	})
	return true
}

// ToggleLock engages or releases lock-on. While locked the model faces dir.
func (pc *PlayerController) ToggleLock(locked bool, dir common.Vec3) bool {
	ctx, ok := pc.context()
	if !ok || ctx.Fighter.State == component.StateDead {
		return false
	}
	p := ctx.Player
	if !locked {
		p.Locked = false
		p.LockDir = common.Vec3{}
		return true
	}
	d := dir.Planar()
	if d.LenSq() == 0 {
		return false
	}
	p.Locked = true
	p.LockDir = d.Normalize()
	ctx.Transform.Yaw = common.YawOf(p.LockDir)
	return true
}

// LockOnNearest locks toward the closest living hostile.
func (pc *PlayerController) LockOnNearest() bool {
	ctx, ok := pc.context()
	if !ok {
		return false
	}
	if ctx.Player.Locked {
		return pc.ToggleLock(false, common.Vec3{})
	}
	_, pos, found := NearestHostile(pc.w, ctx.Transform.Position, component.TeamPlayer)
	if !found {
		return false
	}
	return pc.ToggleLock(true, pos.Sub(ctx.Transform.Position))
}

func (pc *PlayerController) SetCameraYaw(deg float64) {
	if p, ok := ecs.Get(pc.w, pc.e, component.PlayerComponent.Kind()); ok {
		p.CameraYaw = deg
	}
}

// Defend applies Maria's hit rules: immune while dodging, chip damage behind
// a raised guard, no stagger while drinking, HIT otherwise.
func (pc *PlayerController) Defend(ctx *CombatContext, hit component.Hit) component.Outcome {
	switch ctx.Fighter.State {
	case component.StateDead, component.StateDodge:
		return component.Outcome{Immune: true}
	case component.StateBlockIdle:
		amount := int(math.Floor(pc.spec.BlockFactor * float64(hit.Amount)))
		if amount < 1 {
			amount = 1
		}
		out := pc.combat.applyHit(ctx, amount)
		out.Blocked = true
		if out.Killed {
			pc.combat.kill(ctx)
		}
		return out
	case component.StateRecover:
		out := pc.combat.applyHit(ctx, hit.Amount)
		if out.Killed {
			pc.combat.kill(ctx)
		}
		return out
	}

	out := pc.combat.applyHit(ctx, hit.Amount)
	if out.Killed {
		pc.combat.kill(ctx)
		return out
	}
	ctx.Player.ComboIndex = 0
	ctx.Player.ComboBuffered = false
	ctx.Player.Moving = false
	if ctx.ChangeState(component.StateHit) {
		ctx.Timeline.Run(trackHurt, component.TagBehavior, component.Step{
			Wait:  pc.spec.HurtDuration,
			Label: "hurt_end",
			Do:    func() { ctx.ChangeState(component.StateIdle) },
		})
	}
	return out
}

// PlayerSystem regenerates mana and applies locomotion and facing.
type PlayerSystem struct{}

func NewPlayerSystem() *PlayerSystem {
	return &PlayerSystem{}
}

func (s *PlayerSystem) Update(w *ecs.World, dt float64) {
	ecs.ForEach3(w, component.PlayerComponent.Kind(), component.FighterComponent.Kind(), component.TransformComponent.Kind(),
		func(_ ecs.Entity, p *component.Player, f *component.Fighter, t *component.Transform) {
			if f.State == component.StateDead {
				return
			}
			p.Mana = math.Min(p.MaxMana, p.Mana+p.ManaRegen*dt)

			switch {
			case p.Locked && p.LockDir.LenSq() > 0:
				t.Yaw = common.YawOf(p.LockDir)
			case p.Moving && p.MoveDir.LenSq() > 0 && stateIn(f.State, component.StateWalk, component.StateRun, component.StateAttack, component.StateDodge):
				target := common.YawOf(p.MoveDir)
				t.Yaw = common.WrapDegrees(t.Yaw + common.WrapDegrees(target-t.Yaw)*p.RotationLerp)
			}

			if !p.Moving || !stateIn(f.State, component.StateWalk, component.StateRun) {
				return
			}
			speed := p.WalkSpeed
			if f.State == component.StateRun {
				speed = p.RunSpeed
			}
			t.Position = t.Position.Add(p.MoveDir.Scale(speed * dt))
		})
}
