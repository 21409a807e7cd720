package component

// Boss stores the Maw's rage, dodge and attack-pattern configuration together
// with its runtime flags.
type Boss struct {
	DisplayName string

	BaseDamage         int
	RageDamage         int
	RageThreshold      float64
	RageCooldownFactor float64
	RageDuration       float64
	RageClip           string

	DodgeChance   float64
	DodgeDistance float64
	DodgeDuration float64
	DodgeClip     string

	AttackClips    []string
	AttackFallback float64
	HitFraction    float64

	FlashStep    float64
	FadeDelay    float64
	FadeDuration float64

	Enraged     bool
	Fading      bool
	AttackCount int
}

var BossComponent = NewComponent[Boss]()
