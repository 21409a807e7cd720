// Package input maps raw key and mouse events onto player intents. It knows
// nothing about the windowing engine; hosts translate their own key codes.
package input

import (
	"math"

	"github.com/milk9111/mawarena/common"
	"github.com/milk9111/mawarena/ecs/component"
)

type Key uint8

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyShift
	KeySpace
	Key1
	KeyX
	KeyQ
	KeyR
	KeyF
	KeyEscape
)

type MouseButton uint8

const (
	MouseLeft MouseButton = iota
	MouseRight
)

const mouseDeadzone = 0.0001

// Actions is the slice of the player controller the adapter drives.
type Actions interface {
	RunMove(input common.Vec3, running bool) bool
	StopMove() bool
	RunAttackCombo() bool
	RunSkillShadow() bool
	RunDodge(input common.Vec3) bool
	RunJump() bool
	ToggleCrouch() bool
	StartBlock() bool
	StopBlock() bool
	RunRecover() bool
	LockOnNearest() bool
	SetCameraYaw(deg float64)
}

// Controller holds pressed-key state between frames.
type Controller struct {
	actions Actions
	rig     *component.CameraRig
	onPause func()
	gate    func() bool
	held    map[Key]bool
}

// NewController binds the adapter to a player and the camera rig it steers.
// rig and onPause may be nil.
func NewController(actions Actions, rig *component.CameraRig, onPause func()) *Controller {
	return &Controller{
		actions: actions,
		rig:     rig,
		onPause: onPause,
		held:    make(map[Key]bool),
	}
}

// SetRig swaps the camera rig, for example after the arena rebuilds it.
func (c *Controller) SetRig(rig *component.CameraRig) {
	c.rig = rig
}

// SetGate installs a check consulted before every action. While it reports
// false only Esc gets through; key state is still tracked.
func (c *Controller) SetGate(gate func() bool) {
	c.gate = gate
}

func (c *Controller) open() bool {
	return c.gate == nil || c.gate()
}

func (c *Controller) Held(k Key) bool {
	return c.held[k]
}

// KeyDown records k and fires its one-shot action. Auto-repeat presses of a
// key already held are ignored.
func (c *Controller) KeyDown(k Key) {
	if c.held[k] {
		return
	}
	c.held[k] = true

	if k == KeyEscape {
		if c.onPause != nil {
			c.onPause()
		}
		return
	}
	if !c.open() {
		return
	}

	switch k {
	case Key1:
		c.actions.RunSkillShadow()
	case KeyX:
		c.actions.RunJump()
	case KeyQ:
		c.actions.ToggleCrouch()
	case KeySpace:
		c.actions.RunDodge(c.moveInput())
	case KeyR:
		c.actions.RunRecover()
	case KeyF:
		c.actions.LockOnNearest()
	}
}

func (c *Controller) KeyUp(k Key) {
	delete(c.held, k)
}

func (c *Controller) MouseDown(b MouseButton) {
	if !c.open() {
		return
	}
	switch b {
	case MouseLeft:
		c.actions.RunAttackCombo()
	case MouseRight:
		c.actions.StartBlock()
	}
}

func (c *Controller) MouseUp(b MouseButton) {
	if b == MouseRight && c.open() {
		c.actions.StopBlock()
	}
}

// MouseMove orbits the camera and syncs its yaw into the player.
func (c *Controller) MouseMove(dx, dy float64) {
	if c.rig == nil || math.Abs(dx) <= mouseDeadzone || !c.open() {
		return
	}
	c.rig.HandleMouseMove(dx, dy)
	c.actions.SetCameraYaw(c.rig.Yaw)
}

// Update turns held WASD into movement for this frame.
func (c *Controller) Update() {
	if !c.open() {
		return
	}
	dir := c.moveInput()
	if dir.LenSq() == 0 {
		c.actions.StopMove()
		return
	}
	c.actions.RunMove(dir, c.held[KeyShift])
}

// moveInput is the normalized local input: x strafes right, z is forward.
func (c *Controller) moveInput() common.Vec3 {
	var v common.Vec3
	if c.held[KeyW] {
		v.Z++
	}
	if c.held[KeyS] {
		v.Z--
	}
	if c.held[KeyA] {
		v.X--
	}
	if c.held[KeyD] {
		v.X++
	}
	return v.Normalize()
}

// Release drops every held key, for focus loss or pause.
func (c *Controller) Release() {
	for k := range c.held {
		delete(c.held, k)
	}
}
