package input

import (
	"math"

	"github.com/milk9111/mawarena/common"
)

// Observation is what the autopilot sees of the match each frame.
type Observation struct {
	Position common.Vec3
	HP       int
	MaxHP    int
	Mana     float64
	Cost     float64
	Potions  int

	// Goal is where to head: the nearest hostile, or the portal once the
	// temple is clear. Hostile reports whether Goal is something to hit.
	Goal    common.Vec3
	HasGoal bool
	Hostile bool
}

// Autopilot is a bot that plays through the same raw events a human would.
type Autopilot struct {
	Reach        float64
	ClickEvery   float64
	RecoverBelow float64
	MaxTurn      float64

	clickTimer float64
}

func NewAutopilot() *Autopilot {
	return &Autopilot{
		Reach:        90,
		ClickEvery:   0.25,
		RecoverBelow: 0.4,
		MaxTurn:      30,
	}
}

// Drive feeds one frame of events into c. Call it before c.Update.
func (a *Autopilot) Drive(c *Controller, obs Observation, dt float64) {
	a.clickTimer -= dt

	if obs.MaxHP > 0 && obs.Potions > 0 && float64(obs.HP) < a.RecoverBelow*float64(obs.MaxHP) {
		tap(c, KeyR)
	}

	if !obs.HasGoal {
		c.KeyUp(KeyW)
		return
	}

	a.steer(c, obs)

	dist := obs.Goal.Sub(obs.Position).Planar().Len()
	if !obs.Hostile || dist > a.Reach {
		if !c.Held(KeyW) {
			c.KeyDown(KeyW)
		}
		return
	}

	c.KeyUp(KeyW)
	if obs.Cost > 0 && obs.Mana >= obs.Cost {
		tap(c, Key1)
		return
	}
	if a.clickTimer <= 0 {
		c.MouseDown(MouseLeft)
		c.MouseUp(MouseLeft)
		a.clickTimer = a.ClickEvery
	}
}

// steer orbits the camera toward the goal with mouse deltas, at most MaxTurn
// degrees per frame.
func (a *Autopilot) steer(c *Controller, obs Observation) {
	if c.rig == nil || c.rig.Sensitivity == 0 {
		return
	}
	dir := obs.Goal.Sub(obs.Position).Planar()
	if dir.LenSq() == 0 {
		return
	}
	delta := common.WrapDegrees(common.YawOf(dir) - c.rig.Yaw)
	if a.MaxTurn > 0 {
		delta = common.Clamp(delta, -a.MaxTurn, a.MaxTurn)
	}
	if math.Abs(delta) < 1e-3 {
		return
	}
	c.MouseMove(-delta/c.rig.Sensitivity, 0)
}

func tap(c *Controller, k Key) {
	c.KeyDown(k)
	c.KeyUp(k)
}
