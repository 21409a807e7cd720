package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateNames(t *testing.T) {
	tests := []struct {
		in    string
		state State
		ok    bool
	}{
		{"idle", StateIdle, true},
		{"CROUCH_IDLE", StateCrouchIdle, true},
		{"block_idle", StateBlockIdle, true},
		{"dead", StateDead, true},
		{"flying", StateIdle, false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseState(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.state, got)
		})
	}
	assert.Equal(t, "UNKNOWN", State(200).String())
	assert.True(t, StateBlockIdle.Loops())
	assert.False(t, StateAttack.Loops())
}
