package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/mawarena/common"
	"github.com/milk9111/mawarena/ecs/component"
)

type call struct {
	name    string
	dir     common.Vec3
	running bool
	yaw     float64
}

type recorder struct {
	calls []call
}

func (r *recorder) add(c call) bool {
	r.calls = append(r.calls, c)
	return true
}

func (r *recorder) RunMove(in common.Vec3, running bool) bool {
	return r.add(call{name: "move", dir: in, running: running})
}
func (r *recorder) StopMove() bool       { return r.add(call{name: "stop"}) }
func (r *recorder) RunAttackCombo() bool { return r.add(call{name: "combo"}) }
func (r *recorder) RunSkillShadow() bool { return r.add(call{name: "skill"}) }
func (r *recorder) RunDodge(in common.Vec3) bool {
	return r.add(call{name: "dodge", dir: in})
}
func (r *recorder) RunJump() bool       { return r.add(call{name: "jump"}) }
func (r *recorder) ToggleCrouch() bool  { return r.add(call{name: "crouch"}) }
func (r *recorder) StartBlock() bool    { return r.add(call{name: "block"}) }
func (r *recorder) StopBlock() bool     { return r.add(call{name: "unblock"}) }
func (r *recorder) RunRecover() bool    { return r.add(call{name: "recover"}) }
func (r *recorder) LockOnNearest() bool { return r.add(call{name: "lock"}) }
func (r *recorder) SetCameraYaw(deg float64) {
	r.add(call{name: "yaw", yaw: deg})
}

func (r *recorder) names() []string {
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c.name)
	}
	return out
}

func (r *recorder) last() call {
	return r.calls[len(r.calls)-1]
}

func newRig() *component.CameraRig {
	return &component.CameraRig{Sensitivity: 0.2, MinPitch: -10, MaxPitch: 80, Pitch: 30}
}

func TestKeyMapping(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{Key1, "skill"},
		{KeyX, "jump"},
		{KeyQ, "crouch"},
		{KeySpace, "dodge"},
		{KeyR, "recover"},
		{KeyF, "lock"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			rec := &recorder{}
			c := NewController(rec, nil, nil)
			c.KeyDown(tt.key)
			assert.Equal(t, []string{tt.want}, rec.names())
		})
	}
}

func TestHeldKeyDoesNotRepeat(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec, nil, nil)
	c.KeyDown(KeyX)
	c.KeyDown(KeyX)
	assert.Equal(t, []string{"jump"}, rec.names())

	c.KeyUp(KeyX)
	c.KeyDown(KeyX)
	assert.Equal(t, []string{"jump", "jump"}, rec.names())
}

func TestEscapeTogglesPause(t *testing.T) {
	paused := 0
	c := NewController(&recorder{}, nil, func() { paused++ })
	c.KeyDown(KeyEscape)
	c.KeyUp(KeyEscape)
	c.KeyDown(KeyEscape)
	assert.Equal(t, 2, paused)
}

func TestMouseButtons(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec, nil, nil)
	c.MouseDown(MouseLeft)
	c.MouseUp(MouseLeft)
	c.MouseDown(MouseRight)
	c.MouseUp(MouseRight)
	assert.Equal(t, []string{"combo", "block", "unblock"}, rec.names())
}

func TestDodgeUsesHeldDirection(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec, nil, nil)
	c.KeyDown(KeyD)
	c.KeyDown(KeySpace)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, common.Vec3{X: 1}, rec.last().dir)
}

func TestUpdateMovesOrStops(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec, nil, nil)

	c.Update()
	assert.Equal(t, "stop", rec.last().name)

	c.KeyDown(KeyW)
	c.KeyDown(KeyA)
	c.KeyDown(KeyShift)
	c.Update()
	got := rec.last()
	assert.Equal(t, "move", got.name)
	assert.True(t, got.running)
	assert.InDelta(t, 1, got.dir.Len(), 1e-9)
	assert.Less(t, got.dir.X, 0.0)
	assert.Greater(t, got.dir.Z, 0.0)

	c.KeyUp(KeyW)
	c.KeyUp(KeyA)
	c.Update()
	assert.Equal(t, "stop", rec.last().name)
}

func TestOpposingKeysCancel(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec, nil, nil)
	c.KeyDown(KeyW)
	c.KeyDown(KeyS)
	c.Update()
	assert.Equal(t, "stop", rec.last().name)
}

func TestMouseMoveRotatesCamera(t *testing.T) {
	rec := &recorder{}
	rig := newRig()
	c := NewController(rec, rig, nil)

	c.MouseMove(10, 0)
	assert.InDelta(t, -2, rig.Yaw, 1e-9)
	assert.Equal(t, call{name: "yaw", yaw: rig.Yaw}, rec.last())

	c.MouseMove(0.00005, 50)
	assert.Len(t, rec.calls, 1)
	assert.InDelta(t, 30, rig.Pitch, 1e-9)
}

func TestReleaseDropsHeldKeys(t *testing.T) {
	c := NewController(&recorder{}, nil, nil)
	c.KeyDown(KeyW)
	c.Release()
	assert.False(t, c.Held(KeyW))
}

func TestGateBlocksActionsButNotPause(t *testing.T) {
	rec := &recorder{}
	paused := 0
	open := false
	c := NewController(rec, newRig(), func() { paused++ })
	c.SetGate(func() bool { return open })

	c.KeyDown(KeyX)
	c.MouseDown(MouseLeft)
	c.MouseMove(20, 0)
	c.Update()
	c.KeyDown(KeyEscape)
	assert.Empty(t, rec.calls)
	assert.Equal(t, 1, paused)

	open = true
	c.KeyUp(KeyX)
	c.KeyDown(KeyX)
	assert.Equal(t, []string{"jump"}, rec.names())
}
