package component

type Tint uint8

const (
	TintNone Tint = iota
	TintHit
	TintFade
)

// Animator mirrors what the host should be playing for an entity.
type Animator struct {
	Clip     string
	Loop     bool
	Duration float64
	Elapsed  float64
	Plays    int
	Tint     Tint
	// Alpha drops from 1 to 0 at FadeRate per second once a fade starts.
	Alpha    float64
	FadeRate float64
}

// Finished reports whether a one-shot clip has reached its end.
func (a *Animator) Finished() bool {
	return a != nil && !a.Loop && a.Duration > 0 && a.Elapsed >= a.Duration
}

var AnimatorComponent = NewComponent[Animator]()
