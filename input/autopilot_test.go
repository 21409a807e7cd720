package input

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/milk9111/mawarena/common"
)

func TestAutopilotWalksTowardGoal(t *testing.T) {
	rec := &recorder{}
	rig := newRig()
	c := NewController(rec, rig, nil)
	a := NewAutopilot()

	obs := Observation{
		HP: 100, MaxHP: 100,
		Goal: common.Vec3{X: 500}, HasGoal: true, Hostile: true,
	}
	for i := 0; i < 5; i++ {
		a.Drive(c, obs, 1.0/60)
		c.Update()
	}

	assert.True(t, c.Held(KeyW))
	assert.InDelta(t, 90, rig.Yaw, 1e-6)
	assert.Equal(t, "move", rec.last().name)
}

func TestAutopilotAttacksInReach(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec, newRig(), nil)
	a := NewAutopilot()

	obs := Observation{
		HP: 100, MaxHP: 100, Mana: 10, Cost: 30,
		Goal: common.Vec3{Z: 50}, HasGoal: true, Hostile: true,
	}
	a.Drive(c, obs, 1.0/60)
	a.Drive(c, obs, 1.0/60)

	assert.False(t, c.Held(KeyW))
	combos := 0
	for _, n := range rec.names() {
		if n == "combo" {
			combos++
		}
	}
	assert.Equal(t, 1, combos, "clicks are paced")
}

func TestAutopilotCastsSkillWithMana(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec, newRig(), nil)
	a := NewAutopilot()

	a.Drive(c, Observation{
		HP: 100, MaxHP: 100, Mana: 40, Cost: 30,
		Goal: common.Vec3{Z: 50}, HasGoal: true, Hostile: true,
	}, 1.0/60)
	assert.Contains(t, rec.names(), "skill")
	assert.NotContains(t, rec.names(), "combo")
}

func TestAutopilotRecoversWhenLow(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec, newRig(), nil)
	a := NewAutopilot()

	a.Drive(c, Observation{HP: 30, MaxHP: 180, Potions: 2}, 1.0/60)
	assert.Equal(t, []string{"recover"}, rec.names())

	rec.calls = nil
	a.Drive(c, Observation{HP: 30, MaxHP: 180, Potions: 0}, 1.0/60)
	assert.Empty(t, rec.calls)
}

func TestAutopilotWalksToPortal(t *testing.T) {
	c := NewController(&recorder{}, newRig(), nil)
	a := NewAutopilot()
	a.Drive(c, Observation{HP: 100, MaxHP: 100, Goal: common.Vec3{Z: 30}, HasGoal: true}, 1.0/60)
	assert.True(t, c.Held(KeyW))
}
