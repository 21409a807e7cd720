package component

// Health keeps 0 <= Current <= Max. Mutate through the methods only.
type Health struct {
	Current int
	Max     int
}

func NewHealth(max int) Health {
	if max < 0 {
		max = 0
	}
	return Health{Current: max, Max: max}
}

// ApplyDamage subtracts amount, clamping at zero, and returns what was removed.
func (h *Health) ApplyDamage(amount int) int {
	if h == nil || amount <= 0 {
		return 0
	}
	if amount > h.Current {
		amount = h.Current
	}
	h.Current -= amount
	return amount
}

// Heal adds amount, clamping at Max, and returns what was restored.
func (h *Health) Heal(amount int) int {
	if h == nil || amount <= 0 {
		return 0
	}
	if room := h.Max - h.Current; amount > room {
		amount = room
	}
	h.Current += amount
	return amount
}

func (h *Health) Depleted() bool {
	return h == nil || h.Current <= 0
}

func (h *Health) Fraction() float64 {
	if h == nil || h.Max <= 0 {
		return 0
	}
	return float64(h.Current) / float64(h.Max)
}

var HealthComponent = NewComponent[Health]()
