package component

import "math/rand/v2"

// Rand is the random source injected into AI decisions.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a deterministic PCG-backed source.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
