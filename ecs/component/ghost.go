package component

// Ghost is a transient skill clone. It is never damageable and removes itself
// once its clip has played.
type Ghost struct {
	Owner        uint64
	Clip         string
	Damage       int
	DamageDelay  float64
	MinionRadius float64
	BossRadius   float64
	Struck       bool
}

var GhostComponent = NewComponent[Ghost]()
