package component

import "github.com/milk9111/mawarena/common"

// Player is Maria's resource pool and controller state. Mana is fractional so
// per-frame regeneration accumulates.
type Player struct {
	Mana      float64
	MaxMana   float64
	ManaRegen float64
	SkillCost float64

	Potions    int
	PotionHeal int

	WalkSpeed    float64
	RunSpeed     float64
	RotationLerp float64

	ComboIndex    int
	ComboBuffered bool

	Moving  bool
	Running bool
	MoveDir common.Vec3

	CameraYaw float64
	Locked    bool
	LockDir   common.Vec3
}

var PlayerComponent = NewComponent[Player]()
