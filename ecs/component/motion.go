package component

import "github.com/milk9111/mawarena/common"

type Easing func(t float64) float64

func EaseLinear(t float64) float64 {
	return common.Clamp(t, 0, 1)
}

// Motion is a transient eased displacement from Start along Direction. It is
// discarded when Elapsed reaches Duration.
type Motion struct {
	Start     common.Vec3
	Direction common.Vec3
	Distance  float64
	Duration  float64
	Elapsed   float64
	Ease      Easing
	OnDone    func()
}

func (m *Motion) Progress() float64 {
	if m.Duration <= 0 {
		return 1
	}
	return common.Clamp(m.Elapsed/m.Duration, 0, 1)
}

func (m *Motion) Sample() common.Vec3 {
	ease := m.Ease
	if ease == nil {
		ease = EaseLinear
	}
	return m.Start.Add(m.Direction.Scale(m.Distance * ease(m.Progress())))
}

var MotionComponent = NewComponent[Motion]()
