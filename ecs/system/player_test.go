package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/milk9111/mawarena/common"
	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
)

func TestSkillRejectedWithoutMana(t *testing.T) {
	h := newHarness(t)
	h.playerState().Mana = 20

	assert.False(t, h.pc.RunSkillShadow())
	assert.Equal(t, component.StateIdle, h.pc.State())
	assert.Equal(t, 20.0, h.playerState().Mana)
}

func TestSkillSpendsManaAndGhostsStrike(t *testing.T) {
	h := newHarness(t)
	gob := h.enemy("goblin", common.V3(0, 0, 10), 1)
	h.fighter(gob).AttackCooldown = 1000

	require.True(t, h.pc.RunSkillShadow())
	assert.Equal(t, component.StateSkill, h.pc.State())
	assert.Equal(t, 70.0, h.playerState().Mana)

	h.seconds(1.5)
	assert.Equal(t, component.StateDead, h.fighter(gob).State)
	assert.NotEmpty(t, h.events(component.CombatEventGhostSpawned))

	h.seconds(4)
	assert.Equal(t, component.StateIdle, h.pc.State())
	ghosts := 0
	ecs.ForEach(h.w, component.GhostComponent.Kind(), func(ecs.Entity, *component.Ghost) { ghosts++ })
	assert.Zero(t, ghosts, "ghosts remove themselves after their clip")
}

func TestGhostOffsetIgnoresFacing(t *testing.T) {
	h := newHarness(t)
	tr, ok := ecs.Get(h.w, h.player, component.TransformComponent.Kind())
	require.True(t, ok)
	tr.Position = common.V3(100, 0, -50)
	tr.Yaw = 90

	require.True(t, h.pc.RunSkillShadow())
	h.seconds(0.45)

	spawned := h.events(component.CombatEventGhostSpawned)
	require.Len(t, spawned, 1)
	gt, ok := ecs.Get(h.w, ecs.Entity(spawned[0].Entity), component.TransformComponent.Kind())
	require.True(t, ok)
	assert.InDelta(t, 105.0, gt.Position.X, 1e-9)
	assert.InDelta(t, 0.0, gt.Position.Y, 1e-9)
	assert.InDelta(t, -40.0, gt.Position.Z, 1e-9)
	assert.Equal(t, 90.0, gt.Yaw)
}

func TestGhostsAreNotDamageable(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.pc.RunSkillShadow())
	h.seconds(0.45)

	var ghost ecs.Entity
	ecs.ForEach(h.w, component.GhostComponent.Kind(), func(e ecs.Entity, _ *component.Ghost) { ghost = e })
	require.True(t, ghost.Valid())
	assert.True(t, h.hit(ghost, 10).Ignored)
}

func TestDodgeWhileDodgingIsRejected(t *testing.T) {
	h := newHarness(t)

	require.True(t, h.pc.RunDodge(common.V3(0, 0, 1)))
	assert.Equal(t, component.StateDodge, h.pc.State())
	m, ok := ecs.Get(h.w, h.player, component.MotionComponent.Kind())
	require.True(t, ok)

	h.step(5)
	assert.False(t, h.pc.RunDodge(common.V3(1, 0, 0)))
	again, ok := ecs.Get(h.w, h.player, component.MotionComponent.Kind())
	require.True(t, ok)
	assert.Same(t, m, again)

	h.seconds(0.5)
	assert.Equal(t, component.StateIdle, h.pc.State())
	assert.InDelta(t, 15.0, common.PlanarDistance(common.Vec3{}, h.position(h.player)), 1e-6)
}

func TestDodgeGrantsImmunity(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.pc.RunDodge(common.Vec3{}))

	out := h.hit(h.player, 50)
	assert.True(t, out.Immune)
	assert.Equal(t, 180, h.health(h.player).Current)
}

func TestDodgeClipByDominantAxis(t *testing.T) {
	spec := newHarness(t).catalog.Maria.Dodge
	cases := []struct {
		name  string
		input common.Vec3
		want  string
	}{
		{"none", common.Vec3{}, spec.Back},
		{"forward", common.V3(0, 0, 1), spec.Front},
		{"back", common.V3(0, 0, -1), spec.Back},
		{"right", common.V3(1, 0, 0.5), spec.Right},
		{"left", common.V3(-1, 0, 0.2), spec.Left},
		{"tie goes to z", common.V3(1, 0, 1), spec.Front},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, dodgeClip(spec, tc.input))
		})
	}
}

func TestComboCyclesWhileBuffered(t *testing.T) {
	h := newHarness(t)
	p := h.playerState()

	require.True(t, h.pc.RunAttackCombo())
	var seen []int
	last := -1
	for i := 0; i < 60*4 && len(seen) < 5; i++ {
		if p.ComboIndex != last {
			last = p.ComboIndex
			seen = append(seen, last)
		}
		h.pc.RunAttackCombo()
		h.step(1)
	}
	assert.Equal(t, []int{1, 2, 3, 1, 2}, seen)

	// the last press is still buffered, so stage 3 plays before the reset
	h.seconds(2.5)
	assert.Zero(t, p.ComboIndex)
	assert.Equal(t, component.StateIdle, h.pc.State())
}

func TestComboHitsEnemiesAhead(t *testing.T) {
	h := newHarness(t)
	near := h.enemy("minotaur", common.V3(0, 0, 60), 1)
	far := h.enemy("minotaur", common.V3(0, 0, 400), 2)
	h.fighter(near).AttackCooldown = 1000

	require.True(t, h.pc.RunAttackCombo())
	h.seconds(0.65)

	assert.Equal(t, 200-50, h.health(near).Current)
	assert.Equal(t, 200, h.health(far).Current)
}

func TestComboIndexProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		h := newHarness(t)
		p := h.playerState()
		prev := 0
		for _, press := range rapid.SliceOfN(rapid.Bool(), 1, 400).Draw(rt, "presses") {
			if press {
				h.pc.RunAttackCombo()
			}
			h.step(1)
			cur := p.ComboIndex
			if cur < 0 || cur > 3 {
				rt.Fatalf("combo index %d out of range", cur)
			}
			if cur != prev && cur != 0 && prev != 0 && cur != prev%3+1 {
				rt.Fatalf("combo index jumped from %d to %d", prev, cur)
			}
			if cur != prev && prev == 0 && cur != 1 {
				rt.Fatalf("chain started at %d", cur)
			}
			prev = cur
		}
	})
}

func TestMissingClipFallsBackToIdle(t *testing.T) {
	h := newHarness(t)
	h.fighter(h.player).Clips[component.StateJump] = "no_such_clip"

	assert.False(t, h.pc.RunJump())
	assert.Equal(t, component.StateIdle, h.pc.State())
}

func TestJumpLandsInIdle(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.pc.RunJump())
	assert.Equal(t, component.StateJump, h.pc.State())
	h.seconds(0.85)
	assert.Equal(t, component.StateIdle, h.pc.State())
}

func TestMovementIsCameraRelative(t *testing.T) {
	h := newHarness(t)

	require.True(t, h.pc.RunMove(common.V3(0, 0, 1), false))
	assert.Equal(t, component.StateWalk, h.pc.State())
	h.seconds(1)
	assert.InDelta(t, 200, h.position(h.player).Z, 5)

	h.pc.SetCameraYaw(90)
	require.True(t, h.pc.RunMove(common.V3(0, 0, 1), true))
	assert.Equal(t, component.StateRun, h.pc.State())
	before := h.position(h.player)
	h.seconds(0.5)
	assert.InDelta(t, 200, h.position(h.player).X-before.X, 5)

	h.pc.StopMove()
	assert.Equal(t, component.StateIdle, h.pc.State())
}

func TestMoveDuringAttackOnlyRotates(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.pc.RunAttackCombo())
	start := h.position(h.player)

	assert.True(t, h.pc.RunMove(common.V3(1, 0, 0), false))
	assert.Equal(t, component.StateAttack, h.pc.State())
	h.step(1)
	moved := h.position(h.player).Sub(start)
	assert.Less(t, moved.Len(), 1.0, "only the combo lunge moves the player")
}

func TestLockSnapsFacing(t *testing.T) {
	h := newHarness(t)
	h.enemy("goblin", common.V3(100, 0, 0), 1)

	require.True(t, h.pc.LockOnNearest())
	tr, _ := ecs.Get(h.w, h.player, component.TransformComponent.Kind())
	assert.InDelta(t, 90, tr.Yaw, 1e-9)

	h.pc.RunMove(common.V3(0, 0, 1), false)
	h.step(10)
	assert.InDelta(t, 90, tr.Yaw, 1e-9)

	require.True(t, h.pc.LockOnNearest())
	assert.False(t, h.playerState().Locked)
}

func TestCrouchToggle(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.pc.ToggleCrouch())
	h.seconds(0.55)
	assert.Equal(t, component.StateCrouchIdle, h.pc.State())
	assert.False(t, h.pc.RunAttackCombo())

	require.True(t, h.pc.ToggleCrouch())
	h.seconds(0.55)
	assert.Equal(t, component.StateIdle, h.pc.State())
}

func TestBlockReducesDamage(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.pc.StartBlock())
	h.seconds(0.35)
	require.Equal(t, component.StateBlockIdle, h.pc.State())

	out := h.hit(h.player, 10)
	assert.True(t, out.Blocked)
	assert.Equal(t, 2, out.Applied)
	assert.Equal(t, 1, h.hit(h.player, 3).Applied)
	assert.Equal(t, component.StateBlockIdle, h.pc.State())

	require.True(t, h.pc.StopBlock())
	h.seconds(0.35)
	assert.Equal(t, component.StateIdle, h.pc.State())
}

func TestReleasingBlockEarlyCancelsRaise(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.pc.StartBlock())
	h.step(3)
	require.True(t, h.pc.StopBlock())
	h.seconds(0.5)
	assert.Equal(t, component.StateIdle, h.pc.State())
}

func TestRecoverHealsAndConsumesPotion(t *testing.T) {
	h := newHarness(t)
	hp := h.health(h.player)
	hp.ApplyDamage(100)

	require.True(t, h.pc.RunRecover())
	assert.Equal(t, 110, hp.Current)
	assert.Equal(t, 4, h.playerState().Potions)
	assert.Equal(t, component.StateRecover, h.pc.State())

	out := h.hit(h.player, 5)
	assert.Equal(t, 5, out.Applied)
	assert.Equal(t, component.StateRecover, h.pc.State(), "recovering does not stagger")

	h.seconds(1.3)
	assert.Equal(t, component.StateIdle, h.pc.State())

	h.playerState().Potions = 0
	assert.False(t, h.pc.RunRecover())
}

func TestRecoverInterruptsDodgeAndStagger(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.pc.RunDodge(common.V3(0, 0, 1)))
	h.step(3)

	require.True(t, h.pc.RunRecover())
	assert.Equal(t, component.StateRecover, h.pc.State())
	assert.False(t, ecs.Has(h.w, h.player, component.MotionComponent.Kind()), "the roll stops")
	assert.False(t, h.pc.RunRecover(), "one potion at a time")
	assert.Equal(t, 4, h.playerState().Potions)

	h.seconds(1.3)
	require.Equal(t, component.StateIdle, h.pc.State())
	h.hit(h.player, 10)
	require.Equal(t, component.StateHit, h.pc.State())
	assert.True(t, h.pc.RunRecover())
	assert.Equal(t, 3, h.playerState().Potions)
}

func TestRecoverCapsAtMaxHP(t *testing.T) {
	h := newHarness(t)
	h.health(h.player).ApplyDamage(10)
	require.True(t, h.pc.RunRecover())
	assert.Equal(t, 180, h.health(h.player).Current)
}

func TestManaRegenerates(t *testing.T) {
	h := newHarness(t)
	p := h.playerState()
	p.Mana = 10
	h.seconds(2)
	assert.InDelta(t, 20, p.Mana, 0.2)

	p.Mana = 99
	h.seconds(1)
	assert.Equal(t, 100.0, p.Mana)
}

func TestPlayerDeathIsTerminal(t *testing.T) {
	h := newHarness(t)
	out := h.hit(h.player, 500)
	require.True(t, out.Killed)
	assert.Equal(t, component.StateDead, h.pc.State())

	assert.False(t, h.pc.RunAttackCombo())
	assert.False(t, h.pc.RunMove(common.V3(0, 0, 1), false))
	assert.False(t, h.pc.RunSkillShadow())
	assert.True(t, h.hit(h.player, 5).Ignored)

	h.seconds(2)
	assert.True(t, ecs.IsAlive(h.w, h.player), "the player is never removed")
}
