package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestHealthClamps(t *testing.T) {
	h := NewHealth(60)
	assert.Equal(t, 12, h.ApplyDamage(12))
	assert.Equal(t, 48, h.Current)
	assert.Equal(t, 48, h.ApplyDamage(100))
	assert.Equal(t, 0, h.Current)
	assert.True(t, h.Depleted())
	assert.Equal(t, 0, h.ApplyDamage(5))
	assert.Equal(t, 60, h.Heal(500))
	assert.Equal(t, 60, h.Current)
	assert.Equal(t, 0, h.ApplyDamage(-3))
}

func TestHealthBoundsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		max := rapid.IntRange(1, 1000).Draw(t, "max")
		h := NewHealth(max)
		ops := rapid.SliceOf(rapid.IntRange(-200, 200)).Draw(t, "ops")
		for _, op := range ops {
			before := h.Current
			if op >= 0 {
				h.ApplyDamage(op)
				if h.Current > before {
					t.Fatalf("damage raised hp %d -> %d", before, h.Current)
				}
			} else {
				h.Heal(-op)
			}
			if h.Current < 0 || h.Current > h.Max {
				t.Fatalf("hp %d out of [0,%d]", h.Current, h.Max)
			}
		}
	})
}
