package component

// Brain holds the enemy AI tuning read by the archetype policy. Zero
// DetectionRange means the enemy never disengages.
type Brain struct {
	Archetype      Archetype
	DetectionRange float64
	WalkSpeed      float64
	RunSpeed       float64
	StopFactor     float64

	WindUp          float64
	BackSwing       float64
	StrikeTolerance float64
	// StrikeInclusive makes the reach check <= instead of <.
	StrikeInclusive bool
	HitRecovery     float64

	RetreatDistance float64
	RetreatDuration float64

	BlockChance   float64
	BlockDuration float64

	DeathDelay float64

	Rand Rand
}

var BrainComponent = NewComponent[Brain]()
