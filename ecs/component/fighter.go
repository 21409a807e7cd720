package component

// Fighter is the state machine record shared by the player, enemies and the
// boss. Target is a weak handle: check it with ecs.IsAlive before use.
type Fighter struct {
	State          State
	AttackPower    int
	AttackRange    float64
	AttackCooldown float64
	AttackTimer    float64
	Target         uint64

	// Clips maps states to their canonical clip. Missing entries play nothing.
	Clips map[State]string
}

func (f *Fighter) Clip(s State) string {
	if f == nil || f.Clips == nil {
		return ""
	}
	return f.Clips[s]
}

var FighterComponent = NewComponent[Fighter]()
